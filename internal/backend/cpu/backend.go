// Package cpu implements the tensor.Backend interface in pure Go.
//
// Kernels dispatch on dtype, with dedicated float32/float64 paths for the
// differentiable operations. Elementwise loops above a chunk threshold run
// through internal/parallel.
package cpu

import (
	"fmt"

	"github.com/gradix-ml/gradix/internal/parallel"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// Backend is the pure-Go CPU backend.
type Backend struct {
	par parallel.Config
}

// New creates a CPU backend with default parallelism settings.
func New() *Backend {
	return &Backend{par: parallel.DefaultConfig()}
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
// Useful for making kernels deterministic in tests (disable parallelism).
func NewWithConfig(cfg parallel.Config) *Backend {
	return &Backend{par: cfg}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.CPU
}

// mustRaw allocates a result tensor or panics. Allocation only fails on an
// invalid shape, which is a kernel programming error here.
func mustRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("cpu: failed to allocate result tensor: %v", err))
	}
	return raw
}

// loadFloat reads element i as float64, converting from the tensor's dtype.
func loadFloat(r *tensor.RawTensor, i int) float64 {
	switch r.DType() {
	case tensor.Float32:
		return float64(r.AsFloat32()[i])
	case tensor.Float64:
		return r.AsFloat64()[i]
	case tensor.Float16:
		return float64(tensor.Float16ToFloat32(r.AsFloat16()[i]))
	case tensor.Int32:
		return float64(r.AsInt32()[i])
	case tensor.Int64:
		return float64(r.AsInt64()[i])
	case tensor.Uint8:
		return float64(r.AsUint8()[i])
	default:
		panic(fmt.Sprintf("cpu: cannot read dtype %s as float", r.DType()))
	}
}

// storeFloat writes element i from a float64, converting to the tensor's dtype.
func storeFloat(r *tensor.RawTensor, i int, v float64) {
	switch r.DType() {
	case tensor.Float32:
		r.AsFloat32()[i] = float32(v)
	case tensor.Float64:
		r.AsFloat64()[i] = v
	case tensor.Float16:
		r.AsFloat16()[i] = tensor.Float32ToFloat16(float32(v))
	case tensor.Int32:
		r.AsInt32()[i] = int32(v)
	case tensor.Int64:
		r.AsInt64()[i] = int64(v)
	case tensor.Uint8:
		r.AsUint8()[i] = uint8(v)
	default:
		panic(fmt.Sprintf("cpu: cannot write dtype %s as float", r.DType()))
	}
}
