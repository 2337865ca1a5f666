package ops

import "github.com/gradix-ml/gradix/internal/tensor"

// WhereOp selects elements from x where the condition holds, else from y.
// The condition carries no gradient.
//
// Backward pass:
//   - grad_x = where(cond, outputGrad, 0)
//   - grad_y = where(cond, 0, outputGrad)
type WhereOp struct {
	cond   *tensor.RawTensor
	inputs []*tensor.RawTensor // [x, y]
	output *tensor.RawTensor
}

// NewWhereOp creates a new WhereOp.
func NewWhereOp(cond, x, y, output *tensor.RawTensor) *WhereOp {
	return &WhereOp{
		cond:   cond,
		inputs: []*tensor.RawTensor{x, y},
		output: output,
	}
}

// Backward routes the gradient to whichever branch each element came from.
func (op *WhereOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x, y := op.inputs[0], op.inputs[1]
	zero := zerosLike(outputGrad)

	gradX := reduceBroadcast(backend.Where(op.cond, outputGrad, zero), x.Shape(), backend)
	gradY := reduceBroadcast(backend.Where(op.cond, zero, outputGrad), y.Shape(), backend)
	return []*tensor.RawTensor{gradX, gradY}
}

// Inputs returns the differentiable input tensors [x, y].
func (op *WhereOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor.
func (op *WhereOp) Output() *tensor.RawTensor {
	return op.output
}
