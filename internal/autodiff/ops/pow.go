package ops

import "github.com/gradix-ml/gradix/internal/tensor"

// PowOp raises every element to a fixed scalar exponent: output = x^p.
//
// Backward pass:
//
//	d(x^p)/dx = p * x^(p-1), so grad_x = outputGrad * p * x^(p-1)
type PowOp struct {
	inputs   []*tensor.RawTensor // [x]
	output   *tensor.RawTensor   // x^p
	exponent float64
}

// NewPowOp creates a new PowOp.
func NewPowOp(x, output *tensor.RawTensor, exponent float64) *PowOp {
	return &PowOp{
		inputs:   []*tensor.RawTensor{x},
		output:   output,
		exponent: exponent,
	}
}

// Backward computes the input gradient for pow.
func (op *PowOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	grad := backend.MulScalar(backend.Mul(outputGrad, backend.Pow(x, op.exponent-1)), op.exponent)
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors [x].
func (op *PowOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor x^p.
func (op *PowOp) Output() *tensor.RawTensor {
	return op.output
}
