package ops

import "github.com/gradix-ml/gradix/internal/tensor"

// ScaleOp multiplies every element by a fixed scalar: output = x * c.
// Recorded for AddScalar as well (the additive constant has zero
// derivative, so both share the same backward rule with c = 1 for add).
type ScaleOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor
	scalar float64
}

// NewScaleOp creates a ScaleOp for MulScalar (scalar = multiplier).
func NewScaleOp(x, output *tensor.RawTensor, scalar float64) *ScaleOp {
	return &ScaleOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
		scalar: scalar,
	}
}

// NewShiftOp creates a ScaleOp for AddScalar: d(x+c)/dx = 1.
func NewShiftOp(x, output *tensor.RawTensor) *ScaleOp {
	return &ScaleOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
		scalar: 1,
	}
}

// Backward computes the input gradient: grad_x = outputGrad * c.
func (op *ScaleOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	if op.scalar == 1 {
		return []*tensor.RawTensor{outputGrad}
	}
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
}

// Inputs returns the input tensors [x].
func (op *ScaleOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor.
func (op *ScaleOp) Output() *tensor.RawTensor {
	return op.output
}
