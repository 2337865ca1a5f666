package cpu

import (
	"math"

	"github.com/gradix-ml/gradix/internal/parallel"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// unaryOp applies f element-wise. The result has the input's shape and dtype.
func (b *Backend) unaryOp(x *tensor.RawTensor, f func(v float64) float64) *tensor.RawTensor {
	result := mustRaw(x.Shape(), x.DType(), b.Device())
	n := x.NumElements()

	switch x.DType() {
	case tensor.Float32:
		xd, rd := x.AsFloat32(), result.AsFloat32()
		parallel.For(n, func(i int) {
			rd[i] = float32(f(float64(xd[i])))
		}, b.par)
	case tensor.Float64:
		xd, rd := x.AsFloat64(), result.AsFloat64()
		parallel.For(n, func(i int) {
			rd[i] = f(xd[i])
		}, b.par)
	default:
		parallel.For(n, func(i int) {
			storeFloat(result, i, f(loadFloat(x, i)))
		}, b.par)
	}
	return result
}

// Neg negates every element.
func (b *Backend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, func(v float64) float64 { return -v })
}

// Exp computes the element-wise exponential.
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, math.Exp)
}

// Log computes the element-wise natural logarithm.
// Inputs must be positive; non-positive values yield NaN/-Inf per IEEE.
func (b *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, math.Log)
}

// Sqrt computes the element-wise square root.
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, math.Sqrt)
}

// Abs computes the element-wise absolute value.
func (b *Backend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, math.Abs)
}

// Square computes the element-wise square.
func (b *Backend) Square(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, func(v float64) float64 { return v * v })
}

// Pow raises every element to a scalar exponent.
func (b *Backend) Pow(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	return b.unaryOp(x, func(v float64) float64 { return math.Pow(v, exponent) })
}

// AddScalar adds a scalar to every element.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return b.unaryOp(x, func(v float64) float64 { return v + scalar })
}

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return b.unaryOp(x, func(v float64) float64 { return v * scalar })
}
