package cpu

import (
	"github.com/gradix-ml/gradix/internal/tensor"
)

// Cast converts a tensor to a different data type, element by element.
// Float16 goes through github.com/x448/float16 with round-to-nearest-even.
// Casting to Bool maps nonzero to true; casting from Bool maps true to 1.
func (b *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}
	result := mustRaw(x.Shape(), dtype, b.Device())
	n := x.NumElements()

	if x.DType() == tensor.Bool {
		xd := x.AsBool()
		for i := 0; i < n; i++ {
			if xd[i] {
				storeFloat(result, i, 1)
			}
		}
		return result
	}
	if dtype == tensor.Bool {
		rd := result.AsBool()
		for i := 0; i < n; i++ {
			rd[i] = loadFloat(x, i) != 0
		}
		return result
	}

	switch {
	case dtype == tensor.Float16:
		rd := result.AsFloat16()
		for i := 0; i < n; i++ {
			rd[i] = tensor.Float32ToFloat16(float32(loadFloat(x, i)))
		}
	case x.DType() == tensor.Float16:
		xd := x.AsFloat16()
		for i := 0; i < n; i++ {
			storeFloat(result, i, float64(tensor.Float16ToFloat32(xd[i])))
		}
	default:
		for i := 0; i < n; i++ {
			storeFloat(result, i, loadFloat(x, i))
		}
	}

	return result
}
