// Copyright 2025 The Gradix Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation
// (backpropagation) using a gradient tape. It wraps any backend to add
// autodiff capabilities.
//
// Example:
//
//	import (
//	    "github.com/gradix-ml/gradix/autodiff"
//	    "github.com/gradix-ml/gradix/backend/cpu"
//	    "github.com/gradix-ml/gradix/tensor"
//	)
//
//	func main() {
//	    // Wrap CPU backend with autodiff
//	    base := cpu.New()
//	    backend := autodiff.New(base)
//
//	    x := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    x.Raw().SetRequiresGrad(true)
//	    y := x.Mul(x)  // Operations recorded on tape
//
//	    // Compute gradients into x.Raw().Grad()
//	    err := backend.Backward(y.Raw(), autodiff.BackwardOptions{})
//	}
package autodiff

import (
	"github.com/gradix-ml/gradix/internal/autodiff"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// Backend is the autodiff-enabled backend. It decorates an inner compute
// backend and records every differentiable operation on a gradient tape.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardOptions configures a Backward call.
type BackwardOptions = autodiff.BackwardOptions

// GradOptions configures a Grad call.
type GradOptions = autodiff.GradOptions

// Sentinel errors returned by the engine. Test with errors.Is.
var (
	// ErrGraphFreed is returned when backward is attempted through a tape
	// segment that a previous non-retaining backward already freed.
	ErrGraphFreed = autodiff.ErrGraphFreed

	// ErrNoGradInputs is returned when no tensor requiring grad is
	// reachable from the backward roots.
	ErrNoGradInputs = autodiff.ErrNoGradInputs

	// ErrUnusedInput is returned by Grad when an input is not connected
	// to the outputs and AllowUnused is false.
	ErrUnusedInput = autodiff.ErrUnusedInput
)
