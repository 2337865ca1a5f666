package cpu_test

import (
	"math"
	"testing"

	"github.com/gradix-ml/gradix/internal/backend/cpu"
	"github.com/gradix-ml/gradix/internal/tensor"
)

func raw32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, cpu.New())
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return x.Raw()
}

func raw64(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, cpu.New())
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return x.Raw()
}

func assertFloat32(t *testing.T, got *tensor.RawTensor, want []float32) {
	t.Helper()
	data := got.AsFloat32()
	if len(data) != len(want) {
		t.Fatalf("result has %d elements, want %d", len(data), len(want))
	}
	for i := range want {
		if math.Abs(float64(data[i]-want[i])) > 1e-5 {
			t.Errorf("element %d = %v, want %v", i, data[i], want[i])
		}
	}
}

func TestAdd(t *testing.T) {
	b := cpu.New()
	a := raw32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	c := raw32(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})
	assertFloat32(t, b.Add(a, c), []float32{11, 22, 33, 44})
}

func TestAdd_BroadcastRow(t *testing.T) {
	b := cpu.New()
	m := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := raw32(t, []float32{10, 20, 30}, tensor.Shape{3})
	out := b.Add(m, row)
	if !out.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("shape = %v, want [2 3]", out.Shape())
	}
	assertFloat32(t, out, []float32{11, 22, 33, 14, 25, 36})
}

func TestAdd_BroadcastColumn(t *testing.T) {
	b := cpu.New()
	m := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	col := raw32(t, []float32{100, 200}, tensor.Shape{2, 1})
	assertFloat32(t, b.Add(m, col), []float32{101, 102, 103, 204, 205, 206})
}

func TestSubMulDiv(t *testing.T) {
	b := cpu.New()
	a := raw32(t, []float32{8, 6, 4, 2}, tensor.Shape{4})
	c := raw32(t, []float32{2, 3, 4, 2}, tensor.Shape{4})
	assertFloat32(t, b.Sub(a, c), []float32{6, 3, 0, 0})
	assertFloat32(t, b.Mul(a, c), []float32{16, 18, 16, 4})
	assertFloat32(t, b.Div(a, c), []float32{4, 2, 1, 1})
}

func TestPow(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{1, 2, 3, 4}, tensor.Shape{4})
	assertFloat32(t, b.Pow(x, 2), []float32{1, 4, 9, 16})
	assertFloat32(t, b.Pow(x, 0.5), []float32{1, 1.4142135, 1.7320508, 2})
}

func TestUnaryMath(t *testing.T) {
	b := cpu.New()

	x := raw32(t, []float32{-1, 0, 2.5}, tensor.Shape{3})
	assertFloat32(t, b.Neg(x), []float32{1, 0, -2.5})
	assertFloat32(t, b.Abs(x), []float32{1, 0, 2.5})
	assertFloat32(t, b.Square(x), []float32{1, 0, 6.25})

	y := raw32(t, []float32{0, 1, 2}, tensor.Shape{3})
	assertFloat32(t, b.Exp(y), []float32{1, 2.7182817, 7.389056})

	z := raw32(t, []float32{1, 4, 9}, tensor.Shape{3})
	assertFloat32(t, b.Sqrt(z), []float32{1, 2, 3})
	assertFloat32(t, b.Log(z), []float32{0, 1.3862944, 2.1972246})
}

func TestScalarOps(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{1, 2, 3}, tensor.Shape{3})
	assertFloat32(t, b.AddScalar(x, 10), []float32{11, 12, 13})
	assertFloat32(t, b.MulScalar(x, -2), []float32{-2, -4, -6})
}

func TestMatMul(t *testing.T) {
	b := cpu.New()
	a := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	c := raw32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})
	out := b.MatMul(a, c)
	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want [2 2]", out.Shape())
	}
	assertFloat32(t, out, []float32{58, 64, 139, 154})
}

func TestMatMul_Float64(t *testing.T) {
	b := cpu.New()
	a := raw64(t, []float64{1, 0, 0, 1}, tensor.Shape{2, 2})
	c := raw64(t, []float64{3, 4, 5, 6}, tensor.Shape{2, 2})
	out := b.MatMul(a, c)
	want := []float64{3, 4, 5, 6}
	for i, v := range out.AsFloat64() {
		if v != want[i] {
			t.Errorf("element %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestReshape(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := b.Reshape(x, tensor.Shape{3, 2})
	if !y.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", y.Shape())
	}
	assertFloat32(t, y, []float32{1, 2, 3, 4, 5, 6})
}

func TestTranspose_Default(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := b.Transpose(x)
	if !y.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", y.Shape())
	}
	assertFloat32(t, y, []float32{1, 4, 2, 5, 3, 6})
}

func TestTranspose_Axes(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
		17, 18, 19, 20,
		21, 22, 23, 24,
	}, tensor.Shape{2, 3, 4})
	y := b.Transpose(x, 1, 0, 2)
	if !y.Shape().Equal(tensor.Shape{3, 2, 4}) {
		t.Fatalf("shape = %v, want [3 2 4]", y.Shape())
	}
	assertFloat32(t, y, []float32{
		1, 2, 3, 4,
		13, 14, 15, 16,
		5, 6, 7, 8,
		17, 18, 19, 20,
		9, 10, 11, 12,
		21, 22, 23, 24,
	})
}

func TestComparisons(t *testing.T) {
	b := cpu.New()
	a := raw32(t, []float32{1, 2, 3}, tensor.Shape{3})
	c := raw32(t, []float32{2, 2, 2}, tensor.Shape{3})

	tests := []struct {
		name string
		fn   func(x, y *tensor.RawTensor) *tensor.RawTensor
		want []bool
	}{
		{"Greater", b.Greater, []bool{false, false, true}},
		{"Lower", b.Lower, []bool{true, false, false}},
		{"GreaterEqual", b.GreaterEqual, []bool{false, true, true}},
		{"LowerEqual", b.LowerEqual, []bool{true, true, false}},
		{"Equal", b.Equal, []bool{false, true, false}},
		{"NotEqual", b.NotEqual, []bool{true, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.fn(a, c)
			if out.DType() != tensor.Bool {
				t.Fatalf("dtype = %s, want bool", out.DType())
			}
			for i, v := range out.AsBool() {
				if v != tt.want[i] {
					t.Errorf("element %d = %v, want %v", i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBooleanOps(t *testing.T) {
	b := cpu.New()
	p := raw32(t, []float32{1, 1, 0, 0}, tensor.Shape{4})
	q := raw32(t, []float32{1, 0, 1, 0}, tensor.Shape{4})
	one := raw32(t, []float32{1, 1, 1, 1}, tensor.Shape{4})
	pb := b.Equal(p, one)
	qb := b.Equal(q, one)

	wantAnd := []bool{true, false, false, false}
	for i, v := range b.And(pb, qb).AsBool() {
		if v != wantAnd[i] {
			t.Errorf("And element %d = %v, want %v", i, v, wantAnd[i])
		}
	}
	wantOr := []bool{true, true, true, false}
	for i, v := range b.Or(pb, qb).AsBool() {
		if v != wantOr[i] {
			t.Errorf("Or element %d = %v, want %v", i, v, wantOr[i])
		}
	}
	wantNot := []bool{false, false, true, true}
	for i, v := range b.Not(pb).AsBool() {
		if v != wantNot[i] {
			t.Errorf("Not element %d = %v, want %v", i, v, wantNot[i])
		}
	}
}

func TestWhere(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{1, 2, 3, 4}, tensor.Shape{4})
	y := raw32(t, []float32{-1, -2, -3, -4}, tensor.Shape{4})
	two := raw32(t, []float32{2, 2, 2, 2}, tensor.Shape{4})
	cond := b.Greater(x, two)
	assertFloat32(t, b.Where(cond, x, y), []float32{-1, -2, 3, 4})
}

func TestSum(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out := b.Sum(x)
	if out.NumElements() != 1 {
		t.Fatalf("Sum result has %d elements, want 1", out.NumElements())
	}
	if got := out.AsFloat32()[0]; got != 21 {
		t.Errorf("Sum = %v, want 21", got)
	}
}

func TestSumDim(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	rows := b.SumDim(x, 1, false)
	if !rows.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("SumDim(1) shape = %v, want [2]", rows.Shape())
	}
	assertFloat32(t, rows, []float32{6, 15})

	cols := b.SumDim(x, 0, true)
	if !cols.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("SumDim(0, keep) shape = %v, want [1 3]", cols.Shape())
	}
	assertFloat32(t, cols, []float32{5, 7, 9})
}

func TestCat(t *testing.T) {
	b := cpu.New()
	a := raw32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	c := raw32(t, []float32{5, 6}, tensor.Shape{1, 2})

	out := b.Cat([]*tensor.RawTensor{a, c}, 0)
	if !out.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Cat shape = %v, want [3 2]", out.Shape())
	}
	assertFloat32(t, out, []float32{1, 2, 3, 4, 5, 6})

	d := raw32(t, []float32{7, 8}, tensor.Shape{2, 1})
	out2 := b.Cat([]*tensor.RawTensor{a, d}, 1)
	if !out2.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("Cat dim 1 shape = %v, want [2 3]", out2.Shape())
	}
	assertFloat32(t, out2, []float32{1, 2, 7, 3, 4, 8})
}

func TestNarrow(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})
	out := b.Narrow(x, 0, 1, 2)
	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("Narrow shape = %v, want [2 2]", out.Shape())
	}
	assertFloat32(t, out, []float32{3, 4, 5, 6})

	mid := b.Narrow(x, 1, 1, 1)
	if !mid.Shape().Equal(tensor.Shape{3, 1}) {
		t.Fatalf("Narrow dim 1 shape = %v, want [3 1]", mid.Shape())
	}
	assertFloat32(t, mid, []float32{2, 4, 6})
}

func TestFlip(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	assertFloat32(t, b.Flip(x, 0), []float32{4, 5, 6, 1, 2, 3})
	assertFloat32(t, b.Flip(x, 1), []float32{3, 2, 1, 6, 5, 4})
}

func TestCast(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{1.7, -2.2, 3.0}, tensor.Shape{3})

	ints := b.Cast(x, tensor.Int32)
	wantInts := []int32{1, -2, 3}
	for i, v := range ints.AsInt32() {
		if v != wantInts[i] {
			t.Errorf("Cast to int32 element %d = %v, want %v", i, v, wantInts[i])
		}
	}

	back := b.Cast(ints, tensor.Float64)
	wantBack := []float64{1, -2, 3}
	for i, v := range back.AsFloat64() {
		if v != wantBack[i] {
			t.Errorf("Cast to float64 element %d = %v, want %v", i, v, wantBack[i])
		}
	}
}

func TestCast_Float16(t *testing.T) {
	b := cpu.New()
	x := raw32(t, []float32{0.5, -1.25, 4096}, tensor.Shape{3})

	half := b.Cast(x, tensor.Float16)
	if half.DType() != tensor.Float16 {
		t.Fatalf("dtype = %s, want float16", half.DType())
	}
	round := b.Cast(half, tensor.Float32)
	assertFloat32(t, round, []float32{0.5, -1.25, 4096})
}

func TestBackendMetadata(t *testing.T) {
	b := cpu.New()
	if b.Name() == "" {
		t.Error("Name() is empty")
	}
	if b.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", b.Device())
	}
}
