// Copyright 2025 The Gradix Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go CPU backend
//
// Decorator backends for additional functionality:
//   - autodiff: automatic differentiation (wraps any backend)
//
// Example:
//
//	import (
//	    "github.com/gradix-ml/gradix/tensor"
//	    "github.com/gradix-ml/gradix/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations (NumPy-style broadcasting).
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.
	Div(a, b *RawTensor) *RawTensor // Element-wise division.

	// Pow raises every element to a scalar exponent.
	Pow(x *RawTensor, exponent float64) *RawTensor

	// Element-wise unary math.
	Neg(x *RawTensor) *RawTensor    // Negation.
	Exp(x *RawTensor) *RawTensor    // Exponential.
	Log(x *RawTensor) *RawTensor    // Natural logarithm.
	Sqrt(x *RawTensor) *RawTensor   // Square root.
	Abs(x *RawTensor) *RawTensor    // Absolute value.
	Square(x *RawTensor) *RawTensor // Element-wise square.

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor // Matrix multiplication.

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Transpose(t *RawTensor, axes ...int) *RawTensor  // Transpose dimensions.

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, scalar float64) *RawTensor // Add scalar.
	MulScalar(x *RawTensor, scalar float64) *RawTensor // Multiply by scalar.

	// Comparison operations (element-wise, return bool tensor).
	Greater(a, b *RawTensor) *RawTensor      // a > b.
	Lower(a, b *RawTensor) *RawTensor        // a < b.
	GreaterEqual(a, b *RawTensor) *RawTensor // a >= b.
	LowerEqual(a, b *RawTensor) *RawTensor   // a <= b.
	Equal(a, b *RawTensor) *RawTensor        // a == b.
	NotEqual(a, b *RawTensor) *RawTensor     // a != b.

	// Boolean operations (element-wise on bool tensors).
	Or(a, b *RawTensor) *RawTensor  // Logical OR.
	And(a, b *RawTensor) *RawTensor // Logical AND.
	Not(x *RawTensor) *RawTensor    // Logical NOT.

	// Where selects elements from x where condition is true, else from y.
	Where(condition, x, y *RawTensor) *RawTensor

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                           // Total sum (scalar result).
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // Sum along dimension.

	// Manipulation operations.
	Cat(tensors []*RawTensor, dim int) *RawTensor           // Concatenate along dimension.
	Narrow(x *RawTensor, dim, start, length int) *RawTensor // Slice along dimension.
	Flip(x *RawTensor, dim int) *RawTensor                  // Reverse along dimension.

	// Type conversion.
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
