package cpu

import (
	"fmt"

	"github.com/gradix-ml/gradix/internal/tensor"
)

// Cat concatenates tensors along the given dimension. All tensors must
// share dtype and agree on every dimension except dim.
func (b *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cpu: cat requires at least one tensor")
	}
	first := tensors[0]
	shape := first.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu: cat: invalid dimension %d for shape %v", dim, shape))
	}

	total := 0
	for _, t := range tensors {
		ts := t.Shape()
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cpu: cat dtype mismatch: %s vs %s", first.DType(), t.DType()))
		}
		if len(ts) != len(shape) {
			panic(fmt.Sprintf("cpu: cat rank mismatch: %v vs %v", shape, ts))
		}
		for d := range ts {
			if d != dim && ts[d] != shape[d] {
				panic(fmt.Sprintf("cpu: cat shape mismatch at dim %d: %v vs %v", d, shape, ts))
			}
		}
		total += ts[dim]
	}

	outShape := shape.Clone()
	outShape[dim] = total
	result := mustRaw(outShape, first.DType(), b.Device())

	// Copy block-wise: outer = dims before dim, inner bytes = dims after.
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	innerBytes := first.DType().Size()
	for d := dim + 1; d < len(shape); d++ {
		innerBytes *= shape[d]
	}

	dst := result.Data()
	rowBytes := total * innerBytes
	offsetRows := 0
	for _, t := range tensors {
		src := t.Data()
		tDim := t.Shape()[dim]
		blockBytes := tDim * innerBytes
		for o := 0; o < outer; o++ {
			copy(dst[o*rowBytes+offsetRows*innerBytes:o*rowBytes+offsetRows*innerBytes+blockBytes],
				src[o*blockBytes:(o+1)*blockBytes])
		}
		offsetRows += tDim
	}
	return result
}

// Narrow returns a copy of the slice [start, start+length) along dim.
func (b *Backend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu: narrow: invalid dimension %d for shape %v", dim, shape))
	}
	if start < 0 || length <= 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("cpu: narrow: range [%d, %d) out of bounds for dim %d of %v",
			start, start+length, dim, shape))
	}

	outShape := shape.Clone()
	outShape[dim] = length
	result := mustRaw(outShape, x.DType(), b.Device())

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	innerBytes := x.DType().Size()
	for d := dim + 1; d < len(shape); d++ {
		innerBytes *= shape[d]
	}

	src := x.Data()
	dst := result.Data()
	srcRow := shape[dim] * innerBytes
	dstRow := length * innerBytes
	for o := 0; o < outer; o++ {
		copy(dst[o*dstRow:(o+1)*dstRow],
			src[o*srcRow+start*innerBytes:o*srcRow+start*innerBytes+dstRow])
	}
	return result
}

// Flip reverses the tensor along the given dimension.
func (b *Backend) Flip(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu: flip: invalid dimension %d for shape %v", dim, shape))
	}

	result := mustRaw(shape, x.DType(), b.Device())

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	innerBytes := x.DType().Size()
	for d := dim + 1; d < len(shape); d++ {
		innerBytes *= shape[d]
	}

	src := x.Data()
	dst := result.Data()
	n := shape[dim]
	rowBytes := n * innerBytes
	for o := 0; o < outer; o++ {
		for i := 0; i < n; i++ {
			j := n - 1 - i
			copy(dst[o*rowBytes+i*innerBytes:o*rowBytes+(i+1)*innerBytes],
				src[o*rowBytes+j*innerBytes:o*rowBytes+(j+1)*innerBytes])
		}
	}
	return result
}
