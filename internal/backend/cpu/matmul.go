package cpu

import (
	"fmt"

	"github.com/gradix-ml/gradix/internal/parallel"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
func (b *Backend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	xs, ys := x.Shape(), y.Shape()
	if len(xs) != 2 || len(ys) != 2 {
		panic(fmt.Sprintf("cpu: matmul requires 2D tensors, got %v and %v", xs, ys))
	}
	if xs[1] != ys[0] {
		panic(fmt.Sprintf("cpu: matmul inner dimensions must match: %v @ %v", xs, ys))
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("cpu: matmul dtype mismatch: %s vs %s", x.DType(), y.DType()))
	}

	m, k, n := xs[0], xs[1], ys[1]
	result := mustRaw(tensor.Shape{m, n}, x.DType(), b.Device())

	switch x.DType() {
	case tensor.Float32:
		xd, yd, rd := x.AsFloat32(), y.AsFloat32(), result.AsFloat32()
		parallel.For(m, func(i int) {
			for p := 0; p < k; p++ {
				xv := xd[i*k+p]
				if xv == 0 {
					continue
				}
				for j := 0; j < n; j++ {
					rd[i*n+j] += xv * yd[p*n+j]
				}
			}
		}, b.par)
	case tensor.Float64:
		xd, yd, rd := x.AsFloat64(), y.AsFloat64(), result.AsFloat64()
		parallel.For(m, func(i int) {
			for p := 0; p < k; p++ {
				xv := xd[i*k+p]
				if xv == 0 {
					continue
				}
				for j := 0; j < n; j++ {
					rd[i*n+j] += xv * yd[p*n+j]
				}
			}
		}, b.par)
	default:
		panic(fmt.Sprintf("cpu: matmul supports float32/float64, got %s", x.DType()))
	}
	return result
}
