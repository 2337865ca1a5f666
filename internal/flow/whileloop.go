package flow

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gradix-ml/gradix/internal/tensor"
)

// PredFunc decides whether the loop continues. It must return a boolean
// scalar tensor.
type PredFunc func(carried, additional []*tensor.RawTensor) *tensor.RawTensor

// BodyFunc computes the next carried state. Its outputs must match the
// carried inputs in arity, shape, and dtype.
type BodyFunc func(carried, additional []*tensor.RawTensor) []*tensor.RawTensor

// WhileLoop runs bodyFn repeatedly, feeding its outputs back as the
// carried state, until condFn returns false. The additional inputs are
// passed through unchanged every iteration. The carried structure is
// validated after every body call; any drift fails the loop immediately.
func WhileLoop(condFn PredFunc, bodyFn BodyFunc, carried, additional []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	state := make([]*tensor.RawTensor, len(carried))
	copy(state, carried)

	for iter := 0; ; iter++ {
		keepGoing, err := boolScalar(condFn(state, additional), "while_loop condition")
		if err != nil {
			return nil, errors.Wrapf(err, "iteration %d", iter)
		}
		if !keepGoing {
			klog.V(2).Infof("while_loop finished after %d iteration(s)", iter)
			return state, nil
		}

		next := bodyFn(state, additional)
		if len(next) != len(state) {
			return nil, errors.Errorf("while_loop: body returned %d outputs for %d carried inputs at iteration %d",
				len(next), len(state), iter)
		}
		for i := range next {
			if next[i] == nil {
				return nil, errors.Errorf("while_loop: body output %d is nil at iteration %d", i, iter)
			}
			if !next[i].Shape().Equal(state[i].Shape()) {
				return nil, errors.Errorf("while_loop: body output %d shape mismatch at iteration %d: %v, want %v",
					i, iter, next[i].Shape(), state[i].Shape())
			}
			if next[i].DType() != state[i].DType() {
				return nil, errors.Errorf("while_loop: body output %d dtype mismatch at iteration %d: %s, want %s",
					i, iter, next[i].DType(), state[i].DType())
			}
		}
		state = next
	}
}
