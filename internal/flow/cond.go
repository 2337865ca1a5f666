package flow

import (
	"github.com/pkg/errors"

	"github.com/gradix-ml/gradix/internal/tensor"
)

// BranchFunc produces the outputs of one side of a conditional.
type BranchFunc func(operands []*tensor.RawTensor) []*tensor.RawTensor

// Cond evaluates pred, a boolean scalar, and returns the outputs of the
// matching branch. Both branches are evaluated and their result
// structures compared: arity, shapes, and dtypes must agree exactly, the
// same constraint a graph built once ahead of execution imposes. A
// structure mismatch fails even when the divergent branch was not taken.
func Cond(pred *tensor.RawTensor, trueFn, falseFn BranchFunc, operands []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	take, err := boolScalar(pred, "cond predicate")
	if err != nil {
		return nil, err
	}

	trueOut := trueFn(operands)
	falseOut := falseFn(operands)

	if len(trueOut) != len(falseOut) {
		return nil, errors.Errorf("cond: branch arity mismatch: true branch has %d outputs, false branch has %d",
			len(trueOut), len(falseOut))
	}
	for i := range trueOut {
		if !trueOut[i].Shape().Equal(falseOut[i].Shape()) {
			return nil, errors.Errorf("cond: branch output %d shape mismatch: true %v, false %v",
				i, trueOut[i].Shape(), falseOut[i].Shape())
		}
		if trueOut[i].DType() != falseOut[i].DType() {
			return nil, errors.Errorf("cond: branch output %d dtype mismatch: true %s, false %s",
				i, trueOut[i].DType(), falseOut[i].DType())
		}
	}

	if take {
		return trueOut, nil
	}
	return falseOut, nil
}

// boolScalar validates that t is a single boolean value and returns it.
func boolScalar(t *tensor.RawTensor, what string) (bool, error) {
	if t == nil {
		return false, errors.Errorf("%s is nil", what)
	}
	if t.DType() != tensor.Bool {
		return false, errors.Errorf("%s must be boolean, got %s", what, t.DType())
	}
	if t.NumElements() != 1 {
		return false, errors.Errorf("%s must be a scalar, got shape %v", what, t.Shape())
	}
	return t.AsBool()[0], nil
}
