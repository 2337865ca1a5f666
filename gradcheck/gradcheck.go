// Copyright 2025 The Gradix Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gradcheck verifies analytical gradients against numerical ones.
//
// The checker builds the analytical Jacobian by backpropagating one-hot
// seeds through the tape and the numerical Jacobian by central finite
// differences, then compares the two entry by entry within a combined
// absolute and relative tolerance.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
//	    return []*tensor.RawTensor{backend.Mul(inputs[0], inputs[0])}
//	}
//	ok, err := gradcheck.GradCheck(backend, f, []gradcheck.Var{gradcheck.NewVar(x)}, gradcheck.DefaultOptions())
package gradcheck

import (
	"github.com/gradix-ml/gradix/internal/autodiff"
	"github.com/gradix-ml/gradix/internal/gradcheck"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// Func is the function under test: raw tensors in, raw tensors out.
type Func = gradcheck.Func

// Var pairs an input tensor with its differentiability flag.
type Var = gradcheck.Var

// NewVar wraps a tensor as a differentiable input.
func NewVar(t *tensor.RawTensor) Var {
	return gradcheck.NewVar(t)
}

// Options holds the numerical tolerances of a check.
type Options = gradcheck.Options

// DefaultOptions returns the standard tolerances: eps 1e-6, atol 1e-5,
// rtol 1e-3, and RaiseException enabled.
func DefaultOptions() Options {
	return gradcheck.DefaultOptions()
}

// Result reports the outcome of a Check, including skips for inputs the
// checker cannot probe.
type Result = gradcheck.Result

// GradCheck verifies the analytical Jacobian of f against a numerical
// estimate. With RaiseException set (the default), a mismatch is returned
// as an error describing the offending entries; otherwise it yields
// (false, nil).
func GradCheck[B tensor.Backend](backend *autodiff.AutodiffBackend[B], f Func, inputs []Var, opts Options) (bool, error) {
	return gradcheck.GradCheck(backend, f, inputs, opts)
}

// Check runs the verification and returns the detailed Result.
func Check[B tensor.Backend](backend *autodiff.AutodiffBackend[B], f Func, inputs []Var, opts Options) (Result, error) {
	return gradcheck.Check(backend, f, inputs, opts)
}

// GradGradCheck verifies gradients of gradients: it differentiates the
// backward pass of f and gradchecks the resulting function of the inputs
// and the gradient seeds. Pass nil gradOutputs to use all-ones seeds.
func GradGradCheck[B tensor.Backend](backend *autodiff.AutodiffBackend[B], f Func, inputs []Var, gradOutputs []*tensor.RawTensor, opts Options) (bool, error) {
	return gradcheck.GradGradCheck(backend, f, inputs, gradOutputs, opts)
}
