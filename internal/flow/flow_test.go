package flow_test

import (
	"strings"
	"testing"

	"github.com/gradix-ml/gradix/internal/backend/cpu"
	"github.com/gradix-ml/gradix/internal/flow"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// TestScan_CumulativeSum tests the inclusive prefix sum.
func TestScan_CumulativeSum(t *testing.T) {
	backend := cpu.New()

	input, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4}, backend)

	add := func(acc, x *tensor.RawTensor) *tensor.RawTensor {
		return backend.Add(acc, x)
	}

	out, err := flow.Scan(backend, add, input.Raw(), 0, false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []float32{1, 3, 6, 10}
	actual := out.AsFloat32()
	for i, v := range expected {
		if actual[i] != v {
			t.Errorf("scan[%d] = %f, want %f", i, actual[i], v)
		}
	}
}

// TestScan_Reverse tests the suffix sum via the reverse flag.
func TestScan_Reverse(t *testing.T) {
	backend := cpu.New()

	input, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4}, backend)

	add := func(acc, x *tensor.RawTensor) *tensor.RawTensor {
		return backend.Add(acc, x)
	}

	out, err := flow.Scan(backend, add, input.Raw(), 0, true)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	// Accumulating from the right: [1+2+3+4, 2+3+4, 3+4, 4].
	expected := []float32{10, 9, 7, 4}
	actual := out.AsFloat32()
	for i, v := range expected {
		if actual[i] != v {
			t.Errorf("reverse scan[%d] = %f, want %f", i, actual[i], v)
		}
	}
}

// TestScan_2D scans along an inner dimension with full rows as slices.
func TestScan_2D(t *testing.T) {
	backend := cpu.New()

	// Two rows; scan along dim 0 sums rows cumulatively.
	input, _ := tensor.FromSlice([]float32{
		1, 2, 3,
		10, 20, 30,
	}, tensor.Shape{2, 3}, backend)

	add := func(acc, x *tensor.RawTensor) *tensor.RawTensor {
		return backend.Add(acc, x)
	}

	out, err := flow.Scan(backend, add, input.Raw(), 0, false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []float32{1, 2, 3, 11, 22, 33}
	actual := out.AsFloat32()
	for i, v := range expected {
		if actual[i] != v {
			t.Errorf("scan[%d] = %f, want %f", i, actual[i], v)
		}
	}
}

// TestScan_Product verifies the left-to-right combine order with a
// non-commutative accumulator position.
func TestScan_Product(t *testing.T) {
	backend := cpu.New()

	input, _ := tensor.FromSlice([]float64{2, 3, 4}, tensor.Shape{3}, backend)

	mul := func(acc, x *tensor.RawTensor) *tensor.RawTensor {
		return backend.Mul(acc, x)
	}

	out, err := flow.Scan(backend, mul, input.Raw(), 0, false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []float64{2, 6, 24}
	actual := out.AsFloat64()
	for i, v := range expected {
		if actual[i] != v {
			t.Errorf("scan[%d] = %f, want %f", i, actual[i], v)
		}
	}
}

// TestScan_BadDim rejects out-of-range dimensions.
func TestScan_BadDim(t *testing.T) {
	backend := cpu.New()
	input, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)

	add := func(acc, x *tensor.RawTensor) *tensor.RawTensor {
		return backend.Add(acc, x)
	}

	if _, err := flow.Scan(backend, add, input.Raw(), 1, false); err == nil {
		t.Error("Scan should reject dim out of range")
	}
}

// TestScan_CombineShapeDrift rejects a combine that changes the slice shape.
func TestScan_CombineShapeDrift(t *testing.T) {
	backend := cpu.New()
	input, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)

	bad := func(acc, x *tensor.RawTensor) *tensor.RawTensor {
		return backend.Cat([]*tensor.RawTensor{acc, x}, 0)
	}

	_, err := flow.Scan(backend, bad, input.Raw(), 0, false)
	if err == nil {
		t.Fatal("Scan should reject a shape-changing combine")
	}
	if !strings.Contains(err.Error(), "shape") {
		t.Errorf("error = %v, want shape diagnostic", err)
	}
}

func boolScalarTensor(t *testing.T, backend tensor.Backend, v bool) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(tensor.Shape{}, tensor.Bool, backend.Device())
	if err != nil {
		t.Fatalf("failed to create predicate: %v", err)
	}
	raw.AsBool()[0] = v
	return raw
}

// TestCond_TakesMatchingBranch returns the branch selected by the predicate.
func TestCond_TakesMatchingBranch(t *testing.T) {
	backend := cpu.New()

	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)

	double := func(ops []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.MulScalar(ops[0], 2)}
	}
	halve := func(ops []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.MulScalar(ops[0], 0.5)}
	}

	out, err := flow.Cond(boolScalarTensor(t, backend, true), double, halve, []*tensor.RawTensor{x.Raw()})
	if err != nil {
		t.Fatalf("Cond failed: %v", err)
	}
	if got := out[0].AsFloat32()[0]; got != 2 {
		t.Errorf("true branch output = %f, want 2", got)
	}

	out, err = flow.Cond(boolScalarTensor(t, backend, false), double, halve, []*tensor.RawTensor{x.Raw()})
	if err != nil {
		t.Fatalf("Cond failed: %v", err)
	}
	if got := out[0].AsFloat32()[0]; got != 0.5 {
		t.Errorf("false branch output = %f, want 0.5", got)
	}
}

// TestCond_NonBoolPredicate rejects numeric predicates.
func TestCond_NonBoolPredicate(t *testing.T) {
	backend := cpu.New()

	pred, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	x, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)

	identity := func(ops []*tensor.RawTensor) []*tensor.RawTensor { return ops }

	if _, err := flow.Cond(pred.Raw(), identity, identity, []*tensor.RawTensor{x.Raw()}); err == nil {
		t.Error("Cond should reject a non-boolean predicate")
	}
}

// TestCond_StructureMismatch fails even though the divergent branch is
// not the one taken.
func TestCond_StructureMismatch(t *testing.T) {
	backend := cpu.New()

	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)

	identity := func(ops []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{ops[0]}
	}
	reshaped := func(ops []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.Reshape(ops[0], tensor.Shape{2, 1})}
	}

	// Predicate selects the identity branch, but the false branch has a
	// different output shape.
	_, err := flow.Cond(boolScalarTensor(t, backend, true), identity, reshaped, []*tensor.RawTensor{x.Raw()})
	if err == nil {
		t.Fatal("Cond should reject mismatched branch structures")
	}
	if !strings.Contains(err.Error(), "shape mismatch") {
		t.Errorf("error = %v, want shape mismatch diagnostic", err)
	}

	arityMismatch := func(ops []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{ops[0], ops[0]}
	}
	_, err = flow.Cond(boolScalarTensor(t, backend, true), identity, arityMismatch, []*tensor.RawTensor{x.Raw()})
	if err == nil || !strings.Contains(err.Error(), "arity") {
		t.Errorf("error = %v, want arity mismatch diagnostic", err)
	}
}

// TestWhileLoop_Counter runs a counter to its bound.
func TestWhileLoop_Counter(t *testing.T) {
	backend := cpu.New()

	i, _ := tensor.FromSlice([]float32{0}, tensor.Shape{1}, backend)
	limit, _ := tensor.FromSlice([]float32{5}, tensor.Shape{1}, backend)

	cond := func(carried, additional []*tensor.RawTensor) *tensor.RawTensor {
		return backend.Lower(carried[0], additional[0])
	}
	body := func(carried, additional []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.AddScalar(carried[0], 1)}
	}

	out, err := flow.WhileLoop(cond, body, []*tensor.RawTensor{i.Raw()}, []*tensor.RawTensor{limit.Raw()})
	if err != nil {
		t.Fatalf("WhileLoop failed: %v", err)
	}
	if got := out[0].AsFloat32()[0]; got != 5 {
		t.Errorf("counter = %f after loop, want 5", got)
	}
}

// TestWhileLoop_ZeroIterations returns the carried state unchanged when
// the condition is false at entry.
func TestWhileLoop_ZeroIterations(t *testing.T) {
	backend := cpu.New()

	i, _ := tensor.FromSlice([]float32{9}, tensor.Shape{1}, backend)
	limit, _ := tensor.FromSlice([]float32{5}, tensor.Shape{1}, backend)

	cond := func(carried, additional []*tensor.RawTensor) *tensor.RawTensor {
		return backend.Lower(carried[0], additional[0])
	}
	body := func(carried, additional []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.AddScalar(carried[0], 1)}
	}

	out, err := flow.WhileLoop(cond, body, []*tensor.RawTensor{i.Raw()}, []*tensor.RawTensor{limit.Raw()})
	if err != nil {
		t.Fatalf("WhileLoop failed: %v", err)
	}
	if got := out[0].AsFloat32()[0]; got != 9 {
		t.Errorf("carried state = %f, want 9 (unchanged)", got)
	}
}

// TestWhileLoop_MultipleCarried threads two carried tensors together.
func TestWhileLoop_MultipleCarried(t *testing.T) {
	backend := cpu.New()

	i, _ := tensor.FromSlice([]float32{0}, tensor.Shape{1}, backend)
	acc, _ := tensor.FromSlice([]float32{0}, tensor.Shape{1}, backend)
	limit, _ := tensor.FromSlice([]float32{4}, tensor.Shape{1}, backend)

	cond := func(carried, additional []*tensor.RawTensor) *tensor.RawTensor {
		return backend.Lower(carried[0], additional[0])
	}
	// i, acc = i+1, acc+i
	body := func(carried, additional []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{
			backend.AddScalar(carried[0], 1),
			backend.Add(carried[1], carried[0]),
		}
	}

	out, err := flow.WhileLoop(cond, body,
		[]*tensor.RawTensor{i.Raw(), acc.Raw()},
		[]*tensor.RawTensor{limit.Raw()})
	if err != nil {
		t.Fatalf("WhileLoop failed: %v", err)
	}

	// acc accumulates 0+1+2+3 = 6.
	if got := out[1].AsFloat32()[0]; got != 6 {
		t.Errorf("accumulator = %f, want 6", got)
	}
}

// TestWhileLoop_BodyShapeDrift fails when the body changes the carried shape.
func TestWhileLoop_BodyShapeDrift(t *testing.T) {
	backend := cpu.New()

	i, _ := tensor.FromSlice([]float32{0}, tensor.Shape{1}, backend)

	cond := func(carried, additional []*tensor.RawTensor) *tensor.RawTensor {
		return boolScalarTensor(t, backend, true)
	}
	grow := func(carried, additional []*tensor.RawTensor) []*tensor.RawTensor {
		return []*tensor.RawTensor{backend.Cat([]*tensor.RawTensor{carried[0], carried[0]}, 0)}
	}

	_, err := flow.WhileLoop(cond, grow, []*tensor.RawTensor{i.Raw()}, nil)
	if err == nil {
		t.Fatal("WhileLoop should reject a shape-changing body")
	}
	if !strings.Contains(err.Error(), "shape mismatch") {
		t.Errorf("error = %v, want shape mismatch diagnostic", err)
	}
}

// TestWhileLoop_NonScalarCondition rejects a vector predicate.
func TestWhileLoop_NonScalarCondition(t *testing.T) {
	backend := cpu.New()

	i, _ := tensor.FromSlice([]float32{0, 0}, tensor.Shape{2}, backend)
	limit, _ := tensor.FromSlice([]float32{5, 5}, tensor.Shape{2}, backend)

	cond := func(carried, additional []*tensor.RawTensor) *tensor.RawTensor {
		return backend.Lower(carried[0], additional[0]) // shape {2}, not scalar
	}
	body := func(carried, additional []*tensor.RawTensor) []*tensor.RawTensor {
		return carried
	}

	if _, err := flow.WhileLoop(cond, body, []*tensor.RawTensor{i.Raw()}, []*tensor.RawTensor{limit.Raw()}); err == nil {
		t.Error("WhileLoop should reject a non-scalar condition")
	}
}
