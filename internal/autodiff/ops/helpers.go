package ops

import (
	"fmt"

	"github.com/gradix-ml/gradix/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Shapes already match: pass the gradient through unchanged.
	// Gradient accumulation always allocates fresh outputs, so sharing is
	// safe, and keeping the same tensor preserves the tape chain when the
	// backward pass itself is being recorded.
	if gradShape.Equal(targetShape) {
		return grad
	}

	// Scalar target: sum everything.
	if len(targetShape) == 0 {
		return backend.Sum(grad)
	}

	// NumPy broadcasting aligns shapes from the right: sum away leading
	// dimensions the target does not have.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	// Then sum along dimensions where the target is 1.
	resShape := result.Shape()
	for i := 0; i < len(targetShape); i++ {
		if targetShape[i] == 1 && resShape[i] > 1 {
			result = backend.SumDim(result, i, true)
			resShape = result.Shape()
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// mustZeros creates a zero tensor with the given shape and dtype.
func mustZeros(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	z, err := tensor.ZerosRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("ops: failed to create zeros: %v", err))
	}
	return z
}

// zerosLike creates a zero tensor with the same shape/dtype as t.
func zerosLike(t *tensor.RawTensor) *tensor.RawTensor {
	z, err := tensor.ZerosRaw(t.Shape(), t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("ops: failed to create zeros: %v", err))
	}
	return z
}

// expandTo broadcasts grad (typically a scalar) to the given shape by
// adding it to a zero tensor of that shape.
func expandTo(grad *tensor.RawTensor, shape tensor.Shape, dtype tensor.DataType, backend tensor.Backend) *tensor.RawTensor {
	z, err := tensor.ZerosRaw(shape, dtype, grad.Device())
	if err != nil {
		panic(fmt.Sprintf("ops: failed to create zeros: %v", err))
	}
	return backend.Add(z, grad)
}

// signOf returns the element-wise sign of x as a tensor of x's dtype:
// +1 for positive, -1 for negative, 0 at zero.
func signOf(x *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	zero := zerosLike(x)
	pos := backend.Cast(backend.Greater(x, zero), x.DType())
	neg := backend.Cast(backend.Lower(x, zero), x.DType())
	return backend.Sub(pos, neg)
}
