package autodiff

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gradix-ml/gradix/internal/tensor"
)

// BackwardOptions configures a Backward call.
type BackwardOptions struct {
	// GradOutput is the gradient seed for the output. Defaults to a
	// ones tensor of the output's shape and dtype.
	GradOutput *tensor.RawTensor

	// RetainGraph keeps the traversed tape segment alive so backward can
	// run through it again. Without it the segment is freed and a second
	// traversal fails with ErrGraphFreed.
	RetainGraph bool

	// CreateGraph records the backward computation itself on the tape,
	// enabling differentiation of gradients (second and higher order).
	CreateGraph bool
}

// Backward computes gradients of output with respect to every leaf tensor
// that requires grad, and accumulates them into the leaves' grad fields.
//
// Accumulation is by summation: repeated Backward calls add into existing
// gradients. Callers reset explicitly with ZeroGrad.
func (b *AutodiffBackend[B]) Backward(output *tensor.RawTensor, opts BackwardOptions) error {
	seed, err := resolveSeed(output, opts.GradOutput)
	if err != nil {
		return err
	}

	seeds := map[*tensor.RawTensor]*tensor.RawTensor{output: seed}
	// Differentiating the recorded backward later requires the forward
	// segment, so CreateGraph implies retention.
	grads, err := b.tape.run(seeds, b, opts.RetainGraph || opts.CreateGraph, opts.CreateGraph)
	if err != nil {
		return err
	}

	n := b.accumulateLeaves(grads)
	if n == 0 {
		return ErrNoGradInputs
	}
	klog.V(2).Infof("backward: accumulated gradients into %d leaf tensor(s) over %d tape op(s)", n, b.tape.NumOps())
	return nil
}

// GradOptions configures a Grad call.
type GradOptions struct {
	// GradOutputs are the gradient seeds, one per output. A nil slice
	// seeds every output with ones; a nil entry seeds that output with
	// ones.
	GradOutputs []*tensor.RawTensor

	// RetainGraph keeps the traversed tape segment alive.
	RetainGraph bool

	// CreateGraph records the backward computation for higher-order
	// differentiation.
	CreateGraph bool

	// AllowUnused returns nil for inputs unreachable from the outputs
	// instead of failing with ErrUnusedInput.
	AllowUnused bool
}

// Grad computes gradients of outputs with respect to the given inputs and
// returns them in input order, without touching any tensor's grad field.
//
// An input not connected to any output yields ErrUnusedInput unless
// AllowUnused is set, in which case its slot is nil.
func (b *AutodiffBackend[B]) Grad(
	outputs, inputs []*tensor.RawTensor,
	opts GradOptions,
) ([]*tensor.RawTensor, error) {
	if len(outputs) == 0 {
		return nil, errors.New("autodiff: Grad requires at least one output")
	}
	if opts.GradOutputs != nil && len(opts.GradOutputs) != len(outputs) {
		return nil, errors.Errorf("autodiff: got %d grad outputs for %d outputs", len(opts.GradOutputs), len(outputs))
	}

	seeds := make(map[*tensor.RawTensor]*tensor.RawTensor, len(outputs))
	for i, out := range outputs {
		var given *tensor.RawTensor
		if opts.GradOutputs != nil {
			given = opts.GradOutputs[i]
		}
		seed, err := resolveSeed(out, given)
		if err != nil {
			return nil, err
		}
		// The same output listed twice contributes both seeds.
		if existing, ok := seeds[out]; ok {
			seeds[out] = b.inner.Add(existing, seed)
		} else {
			seeds[out] = seed
		}
	}

	// CreateGraph implies retention: higher-order passes traverse the
	// forward segment again.
	grads, err := b.tape.run(seeds, b, opts.RetainGraph || opts.CreateGraph, opts.CreateGraph)
	if err != nil {
		return nil, err
	}

	results := make([]*tensor.RawTensor, len(inputs))
	for i, input := range inputs {
		g, ok := grads[input]
		if !ok {
			if !opts.AllowUnused {
				return nil, errors.Wrapf(ErrUnusedInput, "input %d", i)
			}
			continue
		}
		results[i] = g
	}
	return results, nil
}

// accumulateLeaves sums computed gradients into the grad fields of leaf
// tensors that require grad, and returns how many leaves received one.
// Accumulation goes through the inner backend so it is never recorded.
func (b *AutodiffBackend[B]) accumulateLeaves(grads map[*tensor.RawTensor]*tensor.RawTensor) int {
	produced := b.tape.producedSet()
	n := 0
	for t, g := range grads {
		if produced[t] || !t.RequiresGrad() {
			continue
		}
		if existing := t.Grad(); existing != nil {
			t.SetGrad(b.inner.Add(existing, g))
		} else {
			t.SetGrad(g.Clone())
		}
		n++
	}
	return n
}

// resolveSeed validates a caller-provided gradient seed against the output
// it seeds, or builds the default ones seed.
func resolveSeed(output, given *tensor.RawTensor) (*tensor.RawTensor, error) {
	if given == nil {
		seed, err := tensor.OnesRaw(output.Shape(), output.DType(), output.Device())
		if err != nil {
			return nil, errors.Wrap(err, "autodiff: failed to create gradient seed")
		}
		return seed, nil
	}
	if !given.Shape().Equal(output.Shape()) {
		return nil, errors.Errorf("autodiff: grad output shape %v does not match output shape %v", given.Shape(), output.Shape())
	}
	if given.DType() != output.DType() {
		return nil, errors.Errorf("autodiff: grad output dtype %s does not match output dtype %s", given.DType(), output.DType())
	}
	return given, nil
}
