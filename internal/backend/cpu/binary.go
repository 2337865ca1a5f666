package cpu

import (
	"fmt"

	"github.com/gradix-ml/gradix/internal/parallel"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// broadcastIndexer maps a flat output index to a flat input index for an
// input shape right-aligned against the broadcast output shape.
type broadcastIndexer struct {
	outShape   tensor.Shape
	outStrides []int
	inStrides  []int // 0 where the input dimension is broadcast
}

func newBroadcastIndexer(out, in tensor.Shape) broadcastIndexer {
	outStrides := out.ComputeStrides()
	inStrides := make([]int, len(out))
	realStrides := in.ComputeStrides()
	offset := len(out) - len(in)
	for i := range out {
		j := i - offset
		if j < 0 || in[j] == 1 {
			inStrides[i] = 0 // Broadcast dimension: index does not advance
		} else {
			inStrides[i] = realStrides[j]
		}
	}
	return broadcastIndexer{outShape: out, outStrides: outStrides, inStrides: inStrides}
}

func (bi broadcastIndexer) mapIndex(flat int) int {
	idx := 0
	rem := flat
	for d := 0; d < len(bi.outShape); d++ {
		coord := rem / bi.outStrides[d]
		rem %= bi.outStrides[d]
		idx += coord * bi.inStrides[d]
	}
	return idx
}

// binaryOp applies f element-wise over a and b with broadcasting.
// The result dtype matches the inputs, which must agree.
func (b *Backend) binaryOp(name string, x, y *tensor.RawTensor, f func(a, c float64) float64) *tensor.RawTensor {
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("cpu: %s: dtype mismatch: %s vs %s", name, x.DType(), y.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: %s: %v", name, err))
	}

	result := mustRaw(outShape, x.DType(), b.Device())
	n := outShape.NumElements()

	if !needsBroadcast {
		// Fast path: same shape, flat iteration. Specialized loops avoid
		// the float64 round trip for the common dtypes.
		switch x.DType() {
		case tensor.Float32:
			xd, yd, rd := x.AsFloat32(), y.AsFloat32(), result.AsFloat32()
			parallel.For(n, func(i int) {
				rd[i] = float32(f(float64(xd[i]), float64(yd[i])))
			}, b.par)
		case tensor.Float64:
			xd, yd, rd := x.AsFloat64(), y.AsFloat64(), result.AsFloat64()
			parallel.For(n, func(i int) {
				rd[i] = f(xd[i], yd[i])
			}, b.par)
		default:
			parallel.For(n, func(i int) {
				storeFloat(result, i, f(loadFloat(x, i), loadFloat(y, i)))
			}, b.par)
		}
		return result
	}

	xi := newBroadcastIndexer(outShape, x.Shape())
	yi := newBroadcastIndexer(outShape, y.Shape())
	parallel.For(n, func(i int) {
		storeFloat(result, i, f(loadFloat(x, xi.mapIndex(i)), loadFloat(y, yi.mapIndex(i))))
	}, b.par)
	return result
}

// Add performs element-wise addition with broadcasting.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("add", x, y, func(a, c float64) float64 { return a + c })
}

// Sub performs element-wise subtraction with broadcasting.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("sub", x, y, func(a, c float64) float64 { return a - c })
}

// Mul performs element-wise multiplication with broadcasting.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("mul", x, y, func(a, c float64) float64 { return a * c })
}

// Div performs element-wise division with broadcasting.
// Division by zero follows IEEE semantics for float dtypes.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("div", x, y, func(a, c float64) float64 { return a / c })
}
