package cpu

import (
	"fmt"

	"github.com/gradix-ml/gradix/internal/tensor"
)

// Sum reduces all elements to a scalar tensor.
func (b *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustRaw(tensor.Shape{}, x.DType(), b.Device())

	switch x.DType() {
	case tensor.Float32:
		var sum float32
		for _, v := range x.AsFloat32() {
			sum += v
		}
		result.AsFloat32()[0] = sum
	case tensor.Float64:
		var sum float64
		for _, v := range x.AsFloat64() {
			sum += v
		}
		result.AsFloat64()[0] = sum
	default:
		var sum float64
		n := x.NumElements()
		for i := 0; i < n; i++ {
			sum += loadFloat(x, i)
		}
		storeFloat(result, 0, sum)
	}
	return result
}

// SumDim sums along the given dimension. With keepDim the reduced dimension
// stays as size 1, otherwise it is removed.
func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu: sumdim: invalid dimension %d for shape %v", dim, shape))
	}

	kept := shape.Clone()
	kept[dim] = 1
	result := mustRaw(kept, x.DType(), b.Device())

	strides := shape.ComputeStrides()
	outStrides := kept.ComputeStrides()
	n := shape.NumElements()
	for i := 0; i < n; i++ {
		rem := i
		outIdx := 0
		for d := 0; d < len(shape); d++ {
			coord := rem / strides[d]
			rem %= strides[d]
			if d != dim {
				outIdx += coord * outStrides[d]
			}
		}
		storeFloat(result, outIdx, loadFloat(result, outIdx)+loadFloat(x, i))
	}

	if keepDim {
		return result
	}
	squeezed := append(tensor.Shape(nil), kept[:dim]...)
	squeezed = append(squeezed, kept[dim+1:]...)
	return b.Reshape(result, squeezed)
}
