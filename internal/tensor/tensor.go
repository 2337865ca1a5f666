package tensor

import "fmt"

// Tensor is a generic tensor with element type T and backend B.
// It provides type-safe operations over multi-dimensional arrays.
//
// Type Parameters:
//   - T: element type (must satisfy the DType constraint)
//   - B: computation backend (must implement the Backend interface)
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
//	result := t.Add(t) // Type-safe addition
type Tensor[T DType, B Backend] struct {
	raw     *RawTensor
	backend B
}

// New creates a Tensor from a RawTensor and backend.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return &Tensor[T, B]{
		raw:     raw,
		backend: b,
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		return nil, err
	}

	t := New[T, B](raw, b)
	copy(t.Data(), data)

	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor[T, B]) Shape() Shape {
	return t.raw.Shape()
}

// DType returns the tensor's data type.
func (t *Tensor[T, B]) DType() DataType {
	return t.raw.DType()
}

// Device returns the tensor's compute device.
func (t *Tensor[T, B]) Device() Device {
	return t.raw.Device()
}

// NumElements returns the total number of elements.
func (t *Tensor[T, B]) NumElements() int {
	return t.raw.NumElements()
}

// Data returns a typed view of the tensor's memory.
func (t *Tensor[T, B]) Data() []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(t.raw.AsFloat32()).([]T)
	case float64:
		return any(t.raw.AsFloat64()).([]T)
	case int32:
		return any(t.raw.AsInt32()).([]T)
	case int64:
		return any(t.raw.AsInt64()).([]T)
	case uint8:
		return any(t.raw.AsUint8()).([]T)
	case bool:
		return any(t.raw.AsBool()).([]T)
	default:
		panic("unsupported type")
	}
}

// Raw returns the underlying RawTensor.
// Used by the engine and backend implementations for low-level operations.
func (t *Tensor[T, B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[T, B]) Backend() B {
	return t.backend
}

// RequiresGrad reports whether the engine tracks gradients for this tensor.
func (t *Tensor[T, B]) RequiresGrad() bool {
	return t.raw.RequiresGrad()
}

// RequireGrad marks the tensor as a differentiation leaf and returns it
// for chaining.
func (t *Tensor[T, B]) RequireGrad() *Tensor[T, B] {
	t.raw.SetRequiresGrad(true)
	return t
}

// Grad returns the accumulated gradient as a typed tensor, or nil if
// backward has not run for this leaf.
func (t *Tensor[T, B]) Grad() *Tensor[T, B] {
	g := t.raw.Grad()
	if g == nil {
		return nil
	}
	return New[T, B](g, t.backend)
}

// ZeroGrad clears the gradient accumulator. Backward accumulates across
// calls; callers reset explicitly between steps.
func (t *Tensor[T, B]) ZeroGrad() {
	t.raw.ZeroGrad()
}

// Detach returns a new tensor that shares the same data but does not track
// gradients. Useful for stopping gradient flow at a specific point: any
// operation on the detached tensor will not appear on the autodiff tape's
// path to this tensor's producers.
func (t *Tensor[T, B]) Detach() *Tensor[T, B] {
	detached := t.raw.Clone()
	detached.requiresGrad = false
	detached.grad = nil
	return New[T, B](detached, t.backend)
}
