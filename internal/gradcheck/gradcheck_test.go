package gradcheck_test

import (
	"strings"
	"testing"

	"github.com/gradix-ml/gradix/internal/autodiff"
	"github.com/gradix-ml/gradix/internal/backend/cpu"
	"github.com/gradix-ml/gradix/internal/gradcheck"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// TestGradCheck_Square verifies d(x²)/dx against finite differences.
func TestGradCheck_Square(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float64{2, 3}, tensor.Shape{2}, backend)

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.Square(inputs[0])}
	}

	ok, err := gradcheck.GradCheck(backend, f, []gradcheck.Var{gradcheck.NewVar(x.Raw())}, gradcheck.DefaultOptions())
	if err != nil {
		t.Fatalf("GradCheck failed: %v", err)
	}
	if !ok {
		t.Error("GradCheck returned false for a correct gradient")
	}
}

// TestGradCheck_MulBroadcast verifies gradients of a broadcast product.
func TestGradCheck_MulBroadcast(t *testing.T) {
	backend := autodiff.New(cpu.New())

	a, _ := tensor.FromSlice([]float64{2, 3}, tensor.Shape{2, 1}, backend)
	b, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.Mul(inputs[0], inputs[1])}
	}

	ok, err := gradcheck.GradCheck(backend, f,
		[]gradcheck.Var{gradcheck.NewVar(a.Raw()), gradcheck.NewVar(b.Raw())},
		gradcheck.DefaultOptions())
	if err != nil {
		t.Fatalf("GradCheck failed: %v", err)
	}
	if !ok {
		t.Error("GradCheck returned false for a correct gradient")
	}
}

// TestGradCheck_MatMul verifies matrix multiplication gradients.
func TestGradCheck_MatMul(t *testing.T) {
	backend := autodiff.New(cpu.New())

	a, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	b, _ := tensor.FromSlice([]float64{0.5, -1, 2, 1.5, -0.5, 1}, tensor.Shape{3, 2}, backend)

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.MatMul(inputs[0], inputs[1])}
	}

	ok, err := gradcheck.GradCheck(backend, f,
		[]gradcheck.Var{gradcheck.NewVar(a.Raw()), gradcheck.NewVar(b.Raw())},
		gradcheck.DefaultOptions())
	if err != nil {
		t.Fatalf("GradCheck failed: %v", err)
	}
	if !ok {
		t.Error("GradCheck returned false for a correct gradient")
	}
}

// TestGradCheck_MixedInputs verifies that only flagged inputs are checked.
func TestGradCheck_MixedInputs(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2}, backend)
	c, _ := tensor.FromSlice([]float64{5, 7}, tensor.Shape{2}, backend)

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.Mul(inputs[0], inputs[1])}
	}

	ok, err := gradcheck.GradCheck(backend, f,
		[]gradcheck.Var{
			gradcheck.NewVar(x.Raw()),
			{Tensor: c.Raw(), RequiresGrad: false},
		},
		gradcheck.DefaultOptions())
	if err != nil {
		t.Fatalf("GradCheck failed: %v", err)
	}
	if !ok {
		t.Error("GradCheck returned false for a correct gradient")
	}
}

// TestGradCheck_DetectsWrongGradient builds a function whose analytical
// gradient is wrong on purpose: one factor is detached, so reverse mode
// sees y = x * const while the finite difference sees y = x².
func TestGradCheck_DetectsWrongGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float64{2, 3}, tensor.Shape{2}, backend)

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		detached := tensor.New[float64](inputs[0], backend).Detach()
		return []*tensor.RawTensor{backend.Mul(inputs[0], detached.Raw())}
	}

	_, err := gradcheck.GradCheck(backend, f, []gradcheck.Var{gradcheck.NewVar(x.Raw())}, gradcheck.DefaultOptions())
	if err == nil {
		t.Fatal("GradCheck should report a Jacobian mismatch")
	}
	if !strings.Contains(err.Error(), "Jacobian mismatch") {
		t.Errorf("error = %v, want Jacobian mismatch diagnostic", err)
	}
}

// TestGradCheck_RaiseExceptionFalse converts failures into plain false.
func TestGradCheck_RaiseExceptionFalse(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float64{2, 3}, tensor.Shape{2}, backend)

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		detached := tensor.New[float64](inputs[0], backend).Detach()
		return []*tensor.RawTensor{backend.Mul(inputs[0], detached.Raw())}
	}

	opts := gradcheck.DefaultOptions()
	opts.RaiseException = false

	ok, err := gradcheck.GradCheck(backend, f, []gradcheck.Var{gradcheck.NewVar(x.Raw())}, opts)
	if err != nil {
		t.Fatalf("expected silent failure, got error: %v", err)
	}
	if ok {
		t.Error("GradCheck should return false for a wrong gradient")
	}
}

// TestCheck_SkipsNonFloatInputs reports a skip instead of panicking.
func TestCheck_SkipsNonFloatInputs(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]int32{1, 2, 3}, tensor.Shape{3}, backend)

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{inputs[0]}
	}

	res, err := gradcheck.Check(backend, f, []gradcheck.Var{{Tensor: x.Raw(), RequiresGrad: true}}, gradcheck.DefaultOptions())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !res.Skipped {
		t.Error("Check should skip when no floating-point input requires grad")
	}
	if res.Reason == "" {
		t.Error("skip result should carry a reason")
	}
}

// TestGradCheck_InputsUnchanged verifies the finite-difference probing
// restores every perturbed value.
func TestGradCheck_InputsUnchanged(t *testing.T) {
	backend := autodiff.New(cpu.New())

	orig := []float64{2, 3, 5}
	x, _ := tensor.FromSlice(append([]float64(nil), orig...), tensor.Shape{3}, backend)

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.Exp(inputs[0])}
	}

	if _, err := gradcheck.GradCheck(backend, f, []gradcheck.Var{gradcheck.NewVar(x.Raw())}, gradcheck.DefaultOptions()); err != nil {
		t.Fatalf("GradCheck failed: %v", err)
	}

	for i, v := range x.Raw().AsFloat64() {
		if v != orig[i] {
			t.Errorf("input[%d] = %v after gradcheck, want %v", i, v, orig[i])
		}
	}
}

// TestGradGradCheck_Cubic verifies second derivatives of x³.
func TestGradGradCheck_Cubic(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float64{2}, tensor.Shape{1}, backend)

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		xx := backend.Mul(inputs[0], inputs[0])
		return []*tensor.RawTensor{backend.Mul(xx, inputs[0])}
	}

	ok, err := gradcheck.GradGradCheck(backend, f, []gradcheck.Var{gradcheck.NewVar(x.Raw())}, nil, gradcheck.DefaultOptions())
	if err != nil {
		t.Fatalf("GradGradCheck failed: %v", err)
	}
	if !ok {
		t.Error("GradGradCheck returned false for a correct second derivative")
	}
}

// TestGradGradCheck_Exp verifies second derivatives of exp, whose backward
// reuses the forward output.
func TestGradGradCheck_Exp(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float64{0.5, -0.25}, tensor.Shape{2}, backend)

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.Exp(inputs[0])}
	}

	ok, err := gradcheck.GradGradCheck(backend, f, []gradcheck.Var{gradcheck.NewVar(x.Raw())}, nil, gradcheck.DefaultOptions())
	if err != nil {
		t.Fatalf("GradGradCheck failed: %v", err)
	}
	if !ok {
		t.Error("GradGradCheck returned false for a correct second derivative")
	}
}
