package ops

import "github.com/gradix-ml/gradix/internal/tensor"

// NarrowOp slices [start, start+length) along a dimension.
//
// Backward pass: the gradient is padded with zeros back to the input
// shape (zeros before and after the slice, concatenated along dim).
type NarrowOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor
	dim    int
	start  int
	length int
}

// NewNarrowOp creates a new NarrowOp.
func NewNarrowOp(x, output *tensor.RawTensor, dim, start, length int) *NarrowOp {
	return &NarrowOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
		dim:    dim,
		start:  start,
		length: length,
	}
}

// Backward pads the gradient with zeros to the input shape.
func (op *NarrowOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	total := x.Shape()[op.dim]

	parts := make([]*tensor.RawTensor, 0, 3)
	if op.start > 0 {
		before := x.Shape().Clone()
		before[op.dim] = op.start
		parts = append(parts, mustZeros(before, x.DType(), x.Device()))
	}
	parts = append(parts, outputGrad)
	if end := op.start + op.length; end < total {
		after := x.Shape().Clone()
		after[op.dim] = total - end
		parts = append(parts, mustZeros(after, x.DType(), x.Device()))
	}

	if len(parts) == 1 {
		return []*tensor.RawTensor{outputGrad}
	}
	return []*tensor.RawTensor{backend.Cat(parts, op.dim)}
}

// Inputs returns the input tensors [x].
func (op *NarrowOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the sliced output tensor.
func (op *NarrowOp) Output() *tensor.RawTensor {
	return op.output
}
