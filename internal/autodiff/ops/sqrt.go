package ops

import "github.com/gradix-ml/gradix/internal/tensor"

// SqrtOp computes the element-wise square root: output = sqrt(x).
//
// Backward pass:
//
//	d(sqrt(x))/dx = 1/(2*sqrt(x)) = 0.5/output, so grad_x = outputGrad * 0.5 / output
type SqrtOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // sqrt(x)
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(x, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for sqrt.
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.MulScalar(backend.Div(outputGrad, op.output), 0.5)
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors [x].
func (op *SqrtOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor sqrt(x).
func (op *SqrtOp) Output() *tensor.RawTensor {
	return op.output
}
