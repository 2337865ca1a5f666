package autodiff

import (
	"github.com/gradix-ml/gradix/internal/autodiff/ops"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic
// differentiation.
//
// The tape is the graph: operations appear in execution order, so a
// reverse walk visits every node only after all of its consumers. The
// graph is append-only during forward and consumed destructively during
// backward unless RetainGraph is set; consumed segments are marked freed
// and any later attempt to traverse them fails with ErrGraphFreed.
type GradientTape struct {
	operations []ops.Operation // Recorded operations (in execution order)
	recording  bool            // Whether tape is currently recording
	freedBelow int             // Operations below this index have been consumed
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64), // Pre-allocate for common case
		recording:  false,
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations and freed marks.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
	t.freedBelow = 0
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// run walks the tape backwards from the given seed gradients and returns
// the accumulated gradient for every tensor that received one.
//
// Algorithm:
//  1. Seed the gradient map with the output gradients.
//  2. Walk operations in reverse order; an operation whose output holds a
//     gradient invokes its backward rule.
//  3. Accumulate by summation when the same tensor feeds several consumers.
//
// With createGraph the backward computation itself is recorded (the
// backend passed in must be the recording decorator), enabling
// second-order differentiation. Without retainGraph the traversed segment
// is marked freed.
func (t *GradientTape) run(
	seeds map[*tensor.RawTensor]*tensor.RawTensor,
	backend tensor.Backend,
	retainGraph, createGraph bool,
) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor, len(seeds))
	for out, g := range seeds {
		grads[out] = g
	}

	// Find the highest operation producing a seeded output; the walk
	// starts there. Seeds not produced on the tape are leaf outputs and
	// simply pass their gradient through.
	start := -1
	for i := len(t.operations) - 1; i >= 0; i-- {
		if _, ok := seeds[t.operations[i].Output()]; ok {
			start = i
			break
		}
	}
	if start < 0 {
		return grads, nil
	}
	if start < t.freedBelow {
		return nil, ErrGraphFreed
	}

	// Gradient operations are recorded only when building a higher-order
	// graph.
	wasRecording := t.recording
	t.recording = createGraph && wasRecording
	defer func() {
		t.recording = wasRecording
	}()

	for i := start; i >= 0; i-- {
		op := t.operations[i]
		outputGrad, ok := grads[op.Output()]
		if !ok {
			continue
		}
		if i < t.freedBelow {
			return nil, ErrGraphFreed
		}

		inputGrads := op.Backward(outputGrad, backend)
		inputs := op.Inputs()
		for j, input := range inputs {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	if !retainGraph {
		t.freedBelow = max(t.freedBelow, start+1)
	}
	return grads, nil
}

// producedSet returns the set of tensors produced by tape operations.
// Tensors outside this set are graph leaves.
func (t *GradientTape) producedSet() map[*tensor.RawTensor]bool {
	produced := make(map[*tensor.RawTensor]bool, len(t.operations))
	for _, op := range t.operations {
		produced[op.Output()] = true
	}
	return produced
}
