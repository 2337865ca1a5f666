// Copyright 2025 The Gradix Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package flow provides structured control-flow operations over tensors:
// inclusive scans, predicated branching, and carried-state loops.
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4}, backend)
//	cumsum, err := flow.Scan(backend, backend.Add, x.Raw(), 0, false)
package flow

import (
	"github.com/gradix-ml/gradix/internal/flow"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// CombineFunc is the associative binary step of a scan.
type CombineFunc = flow.CombineFunc

// BranchFunc produces the outputs of one side of a conditional.
type BranchFunc = flow.BranchFunc

// PredFunc decides whether a loop continues. It must return a boolean
// scalar tensor.
type PredFunc = flow.PredFunc

// BodyFunc computes the next carried state of a loop.
type BodyFunc = flow.BodyFunc

// Scan computes the inclusive scan of input along dim, combining slices
// strictly left to right (or right to left with reverse).
func Scan(backend tensor.Backend, combine CombineFunc, input *tensor.RawTensor, dim int, reverse bool) (*tensor.RawTensor, error) {
	return flow.Scan(backend, combine, input, dim, reverse)
}

// Cond evaluates a boolean scalar predicate and returns the outputs of
// the matching branch. Both branches are evaluated and their result
// structures must agree in arity, shapes, and dtypes.
func Cond(pred *tensor.RawTensor, trueFn, falseFn BranchFunc, operands []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	return flow.Cond(pred, trueFn, falseFn, operands)
}

// WhileLoop runs bodyFn repeatedly, feeding its outputs back as the
// carried state, until condFn returns false.
func WhileLoop(condFn PredFunc, bodyFn BodyFunc, carried, additional []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	return flow.WhileLoop(condFn, bodyFn, carried, additional)
}
