package ops

import "github.com/gradix-ml/gradix/internal/tensor"

// NegOp negates every element: output = -x.
type NegOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // -x
}

// NewNegOp creates a new NegOp.
func NewNegOp(x, output *tensor.RawTensor) *NegOp {
	return &NegOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for negation.
func (op *NegOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Neg(outputGrad)}
}

// Inputs returns the input tensors [x].
func (op *NegOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor -x.
func (op *NegOp) Output() *tensor.RawTensor {
	return op.output
}
