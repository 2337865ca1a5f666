// Copyright 2025 The Gradix Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for Gradix.
//
// # Overview
//
// Tensors are the fundamental data structure in Gradix. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Copy-on-write buffers with zero-copy operations where possible
//   - Device abstraction (CPU)
//
// # Basic Usage
//
//	import (
//	    "github.com/gradix-ml/gradix/tensor"
//	    "github.com/gradix-ml/gradix/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Create tensors
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//
//	    // Tensor operations
//	    z := x.Add(y)
//	    result := x.MatMul(y.Transpose())
//	}
package tensor
