// Package flow provides structured control-flow operations over tensors:
// inclusive scans, predicated branching, and carried-state loops. All
// structural violations (shape or dtype drift, non-scalar predicates) are
// reported as errors immediately; nothing is retried or coerced.
package flow

import (
	"github.com/pkg/errors"

	"github.com/gradix-ml/gradix/internal/tensor"
)

// CombineFunc is the associative binary step of a scan. It must preserve
// the slice shape and dtype.
type CombineFunc func(acc, x *tensor.RawTensor) *tensor.RawTensor

// Scan computes the inclusive scan of input along dim: output slice i is
// combine(...combine(combine(s0, s1), s2)..., si). The reference order is
// strictly left to right with exactly one combine call per step.
//
// With reverse the input is flipped along dim, scanned, and the result
// flipped back, so output slice i accumulates from the right end inward.
func Scan(backend tensor.Backend, combine CombineFunc, input *tensor.RawTensor, dim int, reverse bool) (*tensor.RawTensor, error) {
	if dim < 0 || dim >= len(input.Shape()) {
		return nil, errors.Errorf("scan: dim %d out of range for shape %v", dim, input.Shape())
	}
	n := input.Shape()[dim]
	if n == 0 {
		return input.Clone(), nil
	}

	if reverse {
		input = backend.Flip(input, dim)
	}

	acc := backend.Narrow(input, dim, 0, 1)
	slices := make([]*tensor.RawTensor, 0, n)
	slices = append(slices, acc)

	for i := 1; i < n; i++ {
		step := backend.Narrow(input, dim, i, 1)
		acc = combine(acc, step)
		if acc == nil {
			return nil, errors.Errorf("scan: combine returned nil at step %d", i)
		}
		if !acc.Shape().Equal(step.Shape()) {
			return nil, errors.Errorf("scan: combine changed slice shape at step %d: %v, want %v",
				i, acc.Shape(), step.Shape())
		}
		if acc.DType() != step.DType() {
			return nil, errors.Errorf("scan: combine changed dtype at step %d: %s, want %s",
				i, acc.DType(), step.DType())
		}
		slices = append(slices, acc)
	}

	out := backend.Cat(slices, dim)
	if reverse {
		out = backend.Flip(out, dim)
	}
	return out, nil
}
