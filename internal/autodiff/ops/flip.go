package ops

import "github.com/gradix-ml/gradix/internal/tensor"

// FlipOp reverses a tensor along one dimension.
//
// Backward pass: flipping is its own inverse, so the gradient is flipped
// along the same dimension.
type FlipOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor
	dim    int
}

// NewFlipOp creates a new FlipOp.
func NewFlipOp(x, output *tensor.RawTensor, dim int) *FlipOp {
	return &FlipOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
		dim:    dim,
	}
}

// Backward flips the gradient back.
func (op *FlipOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Flip(outputGrad, op.dim)}
}

// Inputs returns the input tensors [x].
func (op *FlipOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the flipped output tensor.
func (op *FlipOp) Output() *tensor.RawTensor {
	return op.output
}
