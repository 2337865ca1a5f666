package ops

import "github.com/gradix-ml/gradix/internal/tensor"

// SquareOp computes the element-wise square: output = x².
//
// Backward pass:
//
//	d(x²)/dx = 2x, so grad_x = outputGrad * 2x
type SquareOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // x²
}

// NewSquareOp creates a new SquareOp.
func NewSquareOp(x, output *tensor.RawTensor) *SquareOp {
	return &SquareOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for square.
func (op *SquareOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.MulScalar(backend.Mul(outputGrad, op.inputs[0]), 2)
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors [x].
func (op *SquareOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor x².
func (op *SquareOp) Output() *tensor.RawTensor {
	return op.output
}
