package cpu

import (
	"fmt"

	"github.com/gradix-ml/gradix/internal/tensor"
)

// compareOp applies a float predicate element-wise over a and b with
// broadcasting and returns a Bool tensor.
func (b *Backend) compareOp(name string, x, y *tensor.RawTensor, pred func(a, c float64) bool) *tensor.RawTensor {
	outShape, _, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: %s: %v", name, err))
	}
	result := mustRaw(outShape, tensor.Bool, b.Device())
	rd := result.AsBool()

	xi := newBroadcastIndexer(outShape, x.Shape())
	yi := newBroadcastIndexer(outShape, y.Shape())
	for i := range rd {
		rd[i] = pred(loadFloat(x, xi.mapIndex(i)), loadFloat(y, yi.mapIndex(i)))
	}
	return result
}

// Greater returns a > b element-wise.
func (b *Backend) Greater(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.compareOp("greater", x, y, func(a, c float64) bool { return a > c })
}

// Lower returns a < b element-wise.
func (b *Backend) Lower(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.compareOp("lower", x, y, func(a, c float64) bool { return a < c })
}

// GreaterEqual returns a >= b element-wise.
func (b *Backend) GreaterEqual(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.compareOp("greater_equal", x, y, func(a, c float64) bool { return a >= c })
}

// LowerEqual returns a <= b element-wise.
func (b *Backend) LowerEqual(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.compareOp("lower_equal", x, y, func(a, c float64) bool { return a <= c })
}

// Equal returns a == b element-wise.
func (b *Backend) Equal(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.compareOp("equal", x, y, func(a, c float64) bool { return a == c })
}

// NotEqual returns a != b element-wise.
func (b *Backend) NotEqual(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.compareOp("not_equal", x, y, func(a, c float64) bool { return a != c })
}

// boolOp applies a boolean function element-wise over two Bool tensors.
func (b *Backend) boolOp(name string, x, y *tensor.RawTensor, f func(a, c bool) bool) *tensor.RawTensor {
	if x.DType() != tensor.Bool || y.DType() != tensor.Bool {
		panic(fmt.Sprintf("cpu: %s requires bool tensors, got %s and %s", name, x.DType(), y.DType()))
	}
	outShape, _, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: %s: %v", name, err))
	}
	result := mustRaw(outShape, tensor.Bool, b.Device())
	rd := result.AsBool()
	xd, yd := x.AsBool(), y.AsBool()

	xi := newBroadcastIndexer(outShape, x.Shape())
	yi := newBroadcastIndexer(outShape, y.Shape())
	for i := range rd {
		rd[i] = f(xd[xi.mapIndex(i)], yd[yi.mapIndex(i)])
	}
	return result
}

// Or returns the element-wise logical OR of two bool tensors.
func (b *Backend) Or(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.boolOp("or", x, y, func(a, c bool) bool { return a || c })
}

// And returns the element-wise logical AND of two bool tensors.
func (b *Backend) And(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.boolOp("and", x, y, func(a, c bool) bool { return a && c })
}

// Not returns the element-wise logical NOT of a bool tensor.
func (b *Backend) Not(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Bool {
		panic(fmt.Sprintf("cpu: not requires a bool tensor, got %s", x.DType()))
	}
	result := mustRaw(x.Shape(), tensor.Bool, b.Device())
	rd := result.AsBool()
	for i, v := range x.AsBool() {
		rd[i] = !v
	}
	return result
}

// Where selects elements from x where condition is true, else from y.
// The condition must be a Bool tensor; x and y must share dtype.
func (b *Backend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	if condition.DType() != tensor.Bool {
		panic(fmt.Sprintf("cpu: where condition must be bool, got %s", condition.DType()))
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("cpu: where dtype mismatch: %s vs %s", x.DType(), y.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: where: %v", err))
	}
	outShape, _, err = tensor.BroadcastShapes(outShape, condition.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: where: %v", err))
	}

	result := mustRaw(outShape, x.DType(), b.Device())
	cd := condition.AsBool()
	ci := newBroadcastIndexer(outShape, condition.Shape())
	xi := newBroadcastIndexer(outShape, x.Shape())
	yi := newBroadcastIndexer(outShape, y.Shape())

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		if cd[ci.mapIndex(i)] {
			storeFloat(result, i, loadFloat(x, xi.mapIndex(i)))
		} else {
			storeFloat(result, i, loadFloat(y, yi.mapIndex(i)))
		}
	}
	return result
}
