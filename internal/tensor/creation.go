package tensor

import (
	"golang.org/x/exp/constraints"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	var one any
	switch any(dummy).(type) {
	case float32:
		one = float32(1)
	case float64:
		one = float64(1)
	case int32:
		one = int32(1)
	case int64:
		one = int64(1)
	case uint8:
		one = uint8(1)
	case bool:
		one = true
	}

	for i := range data {
		data[i] = one.(T)
	}
	return t
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Scalar creates a rank-0 tensor holding a single value.
func Scalar[T DType, B Backend](value T, b B) *Tensor[T, B] {
	return Full[T, B](Shape{}, value, b)
}

// Numeric constrains the element types usable with Arange.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// Arange creates a 1D tensor with values [start, start+1, ..., stop-1].
func Arange[T interface {
	DType
	Numeric
}, B Backend](start, stop int, b B) *Tensor[T, B] {
	n := stop - start
	if n < 0 {
		n = 0
	}
	t := Zeros[T, B](Shape{n}, b)
	data := t.Data()
	for i := range data {
		data[i] = T(start + i)
	}
	return t
}

// OnesRaw creates a RawTensor of ones with the given shape and dtype.
// Used by the engine for default gradient seeds.
func OnesRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Float32:
		data := raw.AsFloat32()
		for i := range data {
			data[i] = 1
		}
	case Float64:
		data := raw.AsFloat64()
		for i := range data {
			data[i] = 1
		}
	case Float16:
		bits := Float32ToFloat16(1)
		data := raw.AsFloat16()
		for i := range data {
			data[i] = bits
		}
	case Int32:
		data := raw.AsInt32()
		for i := range data {
			data[i] = 1
		}
	case Int64:
		data := raw.AsInt64()
		for i := range data {
			data[i] = 1
		}
	case Uint8:
		data := raw.AsUint8()
		for i := range data {
			data[i] = 1
		}
	case Bool:
		data := raw.AsBool()
		for i := range data {
			data[i] = true
		}
	}
	return raw, nil
}

// ZerosRaw creates a zero-filled RawTensor with the given shape and dtype.
func ZerosRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return NewRaw(shape, dtype, device)
}
