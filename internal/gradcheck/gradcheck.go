// Package gradcheck verifies analytical gradients against numerical ones.
//
// GradCheck compares the Jacobian computed by reverse-mode differentiation
// with a central finite-difference estimate, the standard smoke test for
// backward implementations. GradGradCheck repeats the comparison one
// derivative higher.
package gradcheck

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gradix-ml/gradix/internal/autodiff"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// Func is the function under test: it maps input tensors to output
// tensors using a recording backend, so the forward pass lands on the
// gradient tape.
type Func func(inputs []*tensor.RawTensor) []*tensor.RawTensor

// Var pairs an input tensor with its differentiation flag. Inputs with
// RequiresGrad false participate in the forward pass but are not checked.
type Var struct {
	Tensor       *tensor.RawTensor
	RequiresGrad bool
}

// NewVar creates a differentiable input.
func NewVar(t *tensor.RawTensor) Var {
	return Var{Tensor: t, RequiresGrad: true}
}

// Options configures the tolerance and failure behavior of a check.
type Options struct {
	// Eps is the finite-difference step size.
	Eps float64
	// Atol is the absolute tolerance of the elementwise comparison.
	Atol float64
	// Rtol is the relative tolerance of the elementwise comparison.
	Rtol float64
	// RaiseException returns failures as errors with full diagnostics.
	// When false, a mismatch yields (false, nil) instead.
	RaiseException bool
}

// DefaultOptions returns the standard tolerances for float64 checks.
func DefaultOptions() Options {
	return Options{
		Eps:            1e-6,
		Atol:           1e-5,
		Rtol:           1e-3,
		RaiseException: true,
	}
}

// Result reports the outcome of a check. Skipped results mean the check
// did not apply (for example no floating-point input requires grad) and
// carry the reason; they are not failures.
type Result struct {
	Passed  bool
	Skipped bool
	Reason  string
}

// GradCheck verifies that the analytical Jacobian of f matches the
// numerical one at the given inputs. Not-applicable checks pass
// vacuously with a logged reason; use Check for the full Result.
func GradCheck[B tensor.Backend](backend *autodiff.AutodiffBackend[B], f Func, inputs []Var, opts Options) (bool, error) {
	res, err := Check(backend, f, inputs, opts)
	if err != nil {
		if !opts.RaiseException {
			return false, nil
		}
		return false, err
	}
	if res.Skipped {
		klog.Warningf("gradcheck skipped: %s", res.Reason)
		return true, nil
	}
	return res.Passed, nil
}

// Check runs the full verification and reports the detailed Result.
//
// The check runs in five stages: forward pass, analytical Jacobian with a
// reentrancy comparison, numerical Jacobian with exact snapshot/restore,
// elementwise tolerance comparison, and a zero-seed linearity probe.
func Check[B tensor.Backend](backend *autodiff.AutodiffBackend[B], f Func, inputs []Var, opts Options) (Result, error) {
	checked, tensors := applyFlags(inputs)
	if len(checked) == 0 {
		return Result{Skipped: true, Reason: "no floating-point inputs require gradients"}, nil
	}

	tape := backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StartRecording()
	defer func() {
		if !wasRecording {
			tape.StopRecording()
		}
	}()

	outputs := f(tensors)
	diffOutputs := filterDifferentiable(outputs)
	if len(diffOutputs) == 0 {
		return Result{Skipped: true, Reason: "no floating-point outputs to differentiate"}, nil
	}

	for oi, out := range diffOutputs {
		analytical, err := analyticalJacobian(backend, out, checked)
		if err != nil {
			return Result{}, errors.Wrapf(err, "output %d", oi)
		}

		numerical := numericalJacobian(backend, f, tensors, checked, out.index, opts.Eps)

		for ii := range checked {
			a, n := analytical[ii], numerical[ii]
			if bad := compareJacobians(a, n, opts); bad != "" {
				return Result{}, errors.Errorf(
					"Jacobian mismatch for output %d with respect to input %d (%s):\nnumerical:\n%sanalytical:\n%s",
					oi, checked[ii].index, bad, formatJacobian(n), formatJacobian(a))
			}
		}
	}

	if err := checkLinearity(backend, diffOutputs, checked); err != nil {
		return Result{}, err
	}

	return Result{Passed: true}, nil
}

// checkedInput is a differentiable input selected for verification.
type checkedInput struct {
	tensor *tensor.RawTensor
	index  int // position in the caller's input slice
}

// diffOutput is a differentiable output with its position in f's result.
type diffOutput struct {
	tensor *tensor.RawTensor
	index  int
}

// applyFlags marks the requested inputs as differentiation leaves and
// returns the ones eligible for checking. Non-float inputs never qualify,
// whatever their flag says.
func applyFlags(inputs []Var) ([]checkedInput, []*tensor.RawTensor) {
	checked := make([]checkedInput, 0, len(inputs))
	tensors := make([]*tensor.RawTensor, len(inputs))
	for i, v := range inputs {
		tensors[i] = v.Tensor
		if v.RequiresGrad && v.Tensor.DType().IsFloat() {
			v.Tensor.SetRequiresGrad(true)
			checked = append(checked, checkedInput{tensor: v.Tensor, index: i})
		}
	}
	return checked, tensors
}

func filterDifferentiable(outputs []*tensor.RawTensor) []diffOutput {
	diff := make([]diffOutput, 0, len(outputs))
	for i, out := range outputs {
		if out.DType().IsFloat() {
			diff = append(diff, diffOutput{tensor: out, index: i})
		}
	}
	return diff
}

// checkLinearity verifies that backward with all-zero grad outputs yields
// exactly-zero input gradients. A backward rule that ignores its incoming
// gradient slips through the Jacobian comparison only when the seed
// cancels; the zero seed catches it outright.
func checkLinearity[B tensor.Backend](backend *autodiff.AutodiffBackend[B], outputs []diffOutput, checked []checkedInput) error {
	outs := make([]*tensor.RawTensor, len(outputs))
	seeds := make([]*tensor.RawTensor, len(outputs))
	for i, out := range outputs {
		outs[i] = out.tensor
		z, err := tensor.ZerosRaw(out.tensor.Shape(), out.tensor.DType(), out.tensor.Device())
		if err != nil {
			return errors.Wrap(err, "gradcheck: failed to create zero seed")
		}
		seeds[i] = z
	}

	ins := make([]*tensor.RawTensor, len(checked))
	for i, c := range checked {
		ins[i] = c.tensor
	}

	grads, err := backend.Grad(outs, ins, autodiff.GradOptions{
		GradOutputs: seeds,
		RetainGraph: true,
		AllowUnused: true,
	})
	if err != nil {
		return errors.Wrap(err, "gradcheck: linearity probe failed")
	}

	for i, g := range grads {
		if g == nil {
			continue
		}
		for j := 0; j < g.NumElements(); j++ {
			if readElem(g, j) != 0 {
				return errors.Errorf(
					"backward not multiplied by grad_output: input %d received a non-zero gradient from a zero seed",
					checked[i].index)
			}
		}
	}
	return nil
}

// compareJacobians checks |a-n| <= atol + rtol*|n| elementwise and
// returns a description of the first violation, or "" when all pass.
func compareJacobians(a, n [][]float64, opts Options) string {
	for i := range a {
		for j := range a[i] {
			diff := abs(a[i][j] - n[i][j])
			if diff > opts.Atol+opts.Rtol*abs(n[i][j]) {
				return fmt.Sprintf("entry [%d,%d]: analytical %g vs numerical %g, diff %g",
					i, j, a[i][j], n[i][j], diff)
			}
		}
	}
	return ""
}

func formatJacobian(m [][]float64) string {
	var sb strings.Builder
	for _, row := range m {
		sb.WriteString("  [")
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", v)
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// bitIdentical compares the raw storage of two tensors.
func bitIdentical(a, b *tensor.RawTensor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return bytes.Equal(a.Data()[:a.ByteSize()], b.Data()[:b.ByteSize()])
}
