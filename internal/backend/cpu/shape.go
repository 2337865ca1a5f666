package cpu

import (
	"fmt"

	"github.com/gradix-ml/gradix/internal/tensor"
)

// Reshape returns a tensor with the same data but a new shape.
// The element count must be preserved. Data is copied: the autodiff tape
// relies on reshape results being distinct tensors.
func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("cpu: reshape from %v (%d elements) to %v (%d elements)",
			t.Shape(), t.NumElements(), newShape, newShape.NumElements()))
	}
	result := mustRaw(newShape, t.DType(), b.Device())
	copy(result.Data(), t.Data()[:t.ByteSize()])
	return result
}

// Transpose permutes the tensor's axes. With no axes given, all dimensions
// are reversed.
func (b *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("cpu: transpose axes %v do not match rank %d", axes, ndim))
	}

	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("cpu: transpose axis %d out of range for rank %d", ax, ndim))
		}
		outShape[i] = shape[ax]
	}

	result := mustRaw(outShape, t.DType(), b.Device())
	inStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	n := t.NumElements()
	for i := 0; i < n; i++ {
		// Decompose the output index, permute coordinates back to input.
		rem := i
		inIdx := 0
		for d := 0; d < ndim; d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			inIdx += coord * inStrides[axes[d]]
		}
		storeFloat(result, i, loadFloat(t, inIdx))
	}
	return result
}
