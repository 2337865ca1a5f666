package ops

import "github.com/gradix-ml/gradix/internal/tensor"

// AbsOp computes the element-wise absolute value: output = |x|.
//
// Backward pass:
//
//	d(|x|)/dx = sign(x), so grad_x = outputGrad * sign(x)
//
// At x = 0 the subgradient 0 is used.
type AbsOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // |x|
}

// NewAbsOp creates a new AbsOp.
func NewAbsOp(x, output *tensor.RawTensor) *AbsOp {
	return &AbsOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for abs.
func (op *AbsOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, signOf(op.inputs[0], backend))}
}

// Inputs returns the input tensors [x].
func (op *AbsOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor |x|.
func (op *AbsOp) Output() *tensor.RawTensor {
	return op.output
}
