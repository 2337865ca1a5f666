package interval_test

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradix-ml/gradix/internal/interval"
)

func intRange(t *testing.T, lo, hi int64) interval.ValueRange {
	t.Helper()
	r, err := interval.NewRange(interval.NewInt(lo), interval.NewInt(hi))
	require.NoError(t, err)
	return r
}

func floatRange(t *testing.T, lo, hi float64) interval.ValueRange {
	t.Helper()
	r, err := interval.NewRange(interval.NewFloat(lo), interval.NewFloat(hi))
	require.NoError(t, err)
	return r
}

func boolRange(t *testing.T, lo, hi bool) interval.ValueRange {
	t.Helper()
	r, err := interval.NewRange(interval.NewBool(lo), interval.NewBool(hi))
	require.NoError(t, err)
	return r
}

// scalarCmp lets go-cmp compare ranges through the domain's exact order.
var scalarCmp = cmp.Comparer(func(a, b interval.Scalar) bool {
	return a.Equal(b)
})

func TestNewRange_Inverted(t *testing.T) {
	_, err := interval.NewRange(interval.NewInt(3), interval.NewInt(1))
	require.Error(t, err)

	var vrErr *interval.ValueRangeError
	assert.ErrorAs(t, err, &vrErr)
}

func TestNewRange_BoolOrder(t *testing.T) {
	// false <= true is valid, true > false is inverted.
	_, err := interval.NewRange(interval.NewBool(false), interval.NewBool(true))
	assert.NoError(t, err)

	_, err = interval.NewRange(interval.NewBool(true), interval.NewBool(false))
	assert.Error(t, err)
}

func TestIsSingletonAndContains(t *testing.T) {
	r := intRange(t, 4, 4)
	assert.True(t, r.IsSingleton())
	assert.True(t, r.Contains(interval.NewInt(4)))
	assert.False(t, r.Contains(interval.NewInt(5)))

	assert.False(t, interval.Unknown().IsSingleton())
	assert.True(t, interval.Unknown().Contains(interval.NewInt(1_000_000)))
}

func TestIntersect_UnknownIsIdentity(t *testing.T) {
	r := intRange(t, -3, 7)

	got, err := r.Intersect(interval.Unknown())
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(r, got, scalarCmp))

	got, err = interval.Unknown().Intersect(r)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(r, got, scalarCmp))
}

func TestIntersect_Tightest(t *testing.T) {
	a := intRange(t, 0, 10)
	b := intRange(t, 5, 20)

	got, err := a.Intersect(b)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(intRange(t, 5, 10), got, scalarCmp))
}

func TestIntersect_DisjointFails(t *testing.T) {
	a := intRange(t, 0, 1)
	b := intRange(t, 5, 6)

	_, err := a.Intersect(b)
	var vrErr *interval.ValueRangeError
	assert.ErrorAs(t, err, &vrErr)
}

func TestUnion_Loosest(t *testing.T) {
	a := intRange(t, 0, 2)
	b := intRange(t, 5, 9)

	got := a.Union(b)
	assert.Empty(t, cmp.Diff(intRange(t, 0, 9), got, scalarCmp))
}

// TestLatticeLaws checks commutativity and idempotence of meet and join
// over a small grid of intervals.
func TestLatticeLaws(t *testing.T) {
	points := []int64{-2, 0, 1, 3}
	var ranges []interval.ValueRange
	for _, lo := range points {
		for _, hi := range points {
			if lo <= hi {
				ranges = append(ranges, intRange(t, lo, hi))
			}
		}
	}

	for _, a := range ranges {
		assert.True(t, a.Union(a).Equal(a), "join idempotence for %s", a)

		self, err := a.Intersect(a)
		require.NoError(t, err)
		assert.True(t, self.Equal(a), "meet idempotence for %s", a)

		for _, b := range ranges {
			assert.True(t, a.Union(b).Equal(b.Union(a)), "join commutativity for %s, %s", a, b)

			ab, errAB := a.Intersect(b)
			ba, errBA := b.Intersect(a)
			if errAB != nil || errBA != nil {
				assert.Error(t, errAB)
				assert.Error(t, errBA)
				continue
			}
			assert.True(t, ab.Equal(ba), "meet commutativity for %s, %s", a, b)
		}
	}
}

// TestArithmeticSoundness samples concrete points from interval operands
// and checks the abstract result contains every concrete result.
func TestArithmeticSoundness(t *testing.T) {
	points := []int64{-2, -1, 0, 1, 2}
	var ranges []interval.ValueRange
	for _, lo := range points {
		for _, hi := range points {
			if lo <= hi {
				ranges = append(ranges, intRange(t, lo, hi))
			}
		}
	}

	ops := map[string]struct {
		abstract func(a, b interval.ValueRange) interval.ValueRange
		concrete func(x, y interval.Scalar) interval.Scalar
	}{
		"add": {interval.Add, interval.Scalar.Add},
		"sub": {interval.Sub, interval.Scalar.Sub},
		"mul": {interval.Mul, interval.Scalar.Mul},
		"min": {interval.Minimum, interval.Scalar.Min},
		"max": {interval.Maximum, interval.Scalar.Max},
	}

	for name, op := range ops {
		for _, a := range ranges {
			for _, b := range ranges {
				result := op.abstract(a, b)
				for _, x := range points {
					if !a.Contains(interval.NewInt(x)) {
						continue
					}
					for _, y := range points {
						if !b.Contains(interval.NewInt(y)) {
							continue
						}
						v := op.concrete(interval.NewInt(x), interval.NewInt(y))
						assert.True(t, result.Contains(v),
							"%s(%s, %s) = %s does not contain %s(%d, %d)", name, a, b, result, name, x, y)
					}
				}
			}
		}
	}
}

func TestMul_SingletonZero(t *testing.T) {
	zero := intRange(t, 0, 0)

	got := interval.Mul(interval.Unknown(), zero)
	assert.True(t, got.IsSingleton())
	assert.True(t, got.Lower.IsZero(), "unknown * 0 should collapse to 0, got %s", got)

	got = interval.Mul(zero, interval.Unknown())
	assert.True(t, got.Lower.IsZero())
}

func TestTrueDiv(t *testing.T) {
	got := interval.TrueDiv(intRange(t, 4, 8), intRange(t, 2, 2))
	assert.Empty(t, cmp.Diff(intRange(t, 2, 4), got, scalarCmp))

	// Divisor straddling zero is unbounded.
	got = interval.TrueDiv(intRange(t, 4, 8), intRange(t, -1, 1))
	assert.True(t, got.Equal(interval.Unknown()))

	// Negative divisor flips the order.
	got = interval.TrueDiv(intRange(t, 4, 8), intRange(t, -2, -2))
	assert.Empty(t, cmp.Diff(intRange(t, -4, -2), got, scalarCmp))
}

func TestFloorDiv(t *testing.T) {
	got := interval.FloorDiv(intRange(t, 7, 7), intRange(t, 2, 2))
	assert.True(t, got.IsSingleton())
	assert.True(t, got.Lower.Equal(interval.NewInt(3)))

	got = interval.FloorDiv(intRange(t, -7, -7), intRange(t, 2, 2))
	assert.True(t, got.Lower.Equal(interval.NewInt(-4)), "floor division rounds toward -inf")
}

func TestMod(t *testing.T) {
	// Both singleton: exact, with the divisor's sign.
	got := interval.Mod(intRange(t, 7, 7), intRange(t, 3, 3))
	assert.True(t, got.Lower.Equal(interval.NewInt(1)))

	got = interval.Mod(intRange(t, -7, -7), intRange(t, 3, 3))
	assert.True(t, got.Lower.Equal(interval.NewInt(2)))

	// Divisor possibly non-positive: unknown.
	got = interval.Mod(intRange(t, 1, 5), intRange(t, -3, 3))
	assert.True(t, got.Equal(interval.Unknown()))

	// Positive divisor: (0, upper), deliberately ignoring the dividend.
	got = interval.Mod(intRange(t, -10, 10), intRange(t, 3, 3))
	assert.Empty(t, cmp.Diff(intRange(t, 0, 3), got, scalarCmp))
}

func TestPow(t *testing.T) {
	// Non-singleton exponent: unknown.
	got := interval.Pow(intRange(t, 2, 3), intRange(t, 1, 2))
	assert.True(t, got.Equal(interval.Unknown()))

	// Zero exponent: exactly one.
	got = interval.Pow(interval.Unknown(), intRange(t, 0, 0))
	assert.True(t, got.Lower.Equal(interval.NewInt(1)))
	assert.True(t, got.IsSingleton())

	// Even exponent straddling zero: convex with minimum at zero.
	got = interval.Pow(intRange(t, -3, 2), intRange(t, 2, 2))
	assert.True(t, got.Lower.IsZero())
	assert.True(t, got.Upper.Equal(interval.NewInt(9)))

	// Odd exponent: increasing.
	got = interval.Pow(intRange(t, -2, 3), intRange(t, 3, 3))
	assert.True(t, got.Lower.Equal(interval.NewInt(-8)))
	assert.True(t, got.Upper.Equal(interval.NewInt(27)))

	// Negative exponent via reciprocal: (2,4)^-1 = (1/4, 1/2).
	got = interval.Pow(intRange(t, 2, 4), intRange(t, -1, -1))
	assert.True(t, got.Lower.Equal(interval.NewRat(big.NewRat(1, 4))))
	assert.True(t, got.Upper.Equal(interval.NewRat(big.NewRat(1, 2))))

	// Fractional exponent on a possibly-negative base: unknown.
	got = interval.Pow(intRange(t, -1, 4), floatRange(t, 0.5, 0.5))
	assert.True(t, got.Equal(interval.Unknown()))

	// Fractional exponent on a non-negative base: increasing.
	got = interval.Pow(intRange(t, 4, 9), floatRange(t, 0.5, 0.5))
	assert.InDelta(t, 2, got.Lower.Float64(), 1e-12)
	assert.InDelta(t, 3, got.Upper.Float64(), 1e-12)
}

func TestAbsAndSquare(t *testing.T) {
	got := interval.Abs(intRange(t, -5, 3))
	assert.Empty(t, cmp.Diff(intRange(t, 0, 5), got, scalarCmp))

	// Sign-definite range stays monotone.
	got = interval.Abs(intRange(t, -5, -2))
	assert.Empty(t, cmp.Diff(intRange(t, 2, 5), got, scalarCmp))

	got = interval.Square(intRange(t, -3, 2))
	assert.Empty(t, cmp.Diff(intRange(t, 0, 9), got, scalarCmp))
}

func TestExpLogSqrt(t *testing.T) {
	got := interval.Exp(intRange(t, 0, 1))
	assert.InDelta(t, 1, got.Lower.Float64(), 1e-12)
	assert.InDelta(t, 2.718281828459045, got.Upper.Float64(), 1e-12)

	assert.True(t, interval.Log(intRange(t, 0, 5)).Equal(interval.Unknown()),
		"log of a possibly non-positive range is unbounded")
	got = interval.Log(floatRange(t, 1, 1))
	assert.InDelta(t, 0, got.Lower.Float64(), 1e-12)

	assert.True(t, interval.Sqrt(intRange(t, -1, 4)).Equal(interval.Unknown()))
	got = interval.Sqrt(intRange(t, 4, 9))
	assert.InDelta(t, 2, got.Lower.Float64(), 1e-12)
	assert.InDelta(t, 3, got.Upper.Float64(), 1e-12)
}

func TestMinimumMaximum_Upcast(t *testing.T) {
	a := intRange(t, 1, 2)
	b := floatRange(t, 0.5, 3.5)

	lo := interval.Minimum(a, b)
	assert.Equal(t, interval.KindFloat, lo.Lower.Kind())
	assert.InDelta(t, 0.5, lo.Lower.Float64(), 1e-12)
	assert.InDelta(t, 2, lo.Upper.Float64(), 1e-12)

	hi := interval.Maximum(a, b)
	assert.InDelta(t, 1, hi.Lower.Float64(), 1e-12)
	assert.InDelta(t, 3.5, hi.Upper.Float64(), 1e-12)
}

func TestComparisons(t *testing.T) {
	trueR := boolRange(t, true, true)
	falseR := boolRange(t, false, false)
	unknownB := interval.UnknownBool()

	assert.True(t, interval.Eq(intRange(t, 3, 3), intRange(t, 3, 3)).Equal(trueR))
	assert.True(t, interval.Eq(intRange(t, 1, 2), intRange(t, 5, 6)).Equal(falseR))
	assert.True(t, interval.Eq(intRange(t, 1, 4), intRange(t, 3, 6)).Equal(unknownB))

	assert.True(t, interval.Lt(intRange(t, 1, 2), intRange(t, 3, 4)).Equal(trueR))
	assert.True(t, interval.Lt(intRange(t, 5, 6), intRange(t, 1, 5)).Equal(falseR))
	assert.True(t, interval.Lt(intRange(t, 1, 4), intRange(t, 3, 6)).Equal(unknownB))

	assert.True(t, interval.Le(intRange(t, 1, 3), intRange(t, 3, 4)).Equal(trueR))
	assert.True(t, interval.Ge(intRange(t, 3, 4), intRange(t, 1, 3)).Equal(trueR))
	assert.True(t, interval.Gt(intRange(t, 4, 5), intRange(t, 1, 3)).Equal(trueR))
	assert.True(t, interval.Ne(intRange(t, 1, 2), intRange(t, 5, 6)).Equal(trueR))
}

func TestBooleanOps(t *testing.T) {
	trueR := boolRange(t, true, true)
	falseR := boolRange(t, false, false)
	unknownB := interval.UnknownBool()

	assert.True(t, interval.Not(trueR).Equal(falseR))
	assert.True(t, interval.Not(unknownB).Equal(unknownB))

	assert.True(t, interval.And(trueR, falseR).Equal(falseR))
	assert.True(t, interval.And(trueR, unknownB).Equal(unknownB))
	assert.True(t, interval.And(falseR, unknownB).Equal(falseR))

	assert.True(t, interval.Or(trueR, unknownB).Equal(trueR))
	assert.True(t, interval.Or(falseR, falseR).Equal(falseR))
}

func TestWhere(t *testing.T) {
	got, err := interval.Where(interval.UnknownBool(), intRange(t, 0, 2), intRange(t, 5, 9))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(intRange(t, 0, 9), got, scalarCmp))

	_, err = interval.Where(intRange(t, 0, 1), intRange(t, 0, 2), intRange(t, 5, 9))
	assert.Error(t, err, "numeric condition must be rejected")
}

func TestPiecewise(t *testing.T) {
	falseR := boolRange(t, false, false)
	trueR := boolRange(t, true, true)

	// Only branches whose condition can be true contribute.
	got, err := interval.Piecewise([]interval.Branch{
		{Value: intRange(t, 0, 1), Cond: falseR},
		{Value: intRange(t, 5, 6), Cond: trueR},
		{Value: intRange(t, 10, 12), Cond: interval.UnknownBool()},
	})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(intRange(t, 5, 12), got, scalarCmp))

	// No feasible branch: nothing is known.
	got, err = interval.Piecewise([]interval.Branch{
		{Value: intRange(t, 0, 1), Cond: falseR},
	})
	require.NoError(t, err)
	assert.True(t, got.Equal(interval.Unknown()))
}

func TestCasts(t *testing.T) {
	got := interval.CastToInt(floatRange(t, 1.5, 2.5))
	assert.True(t, got.Lower.Equal(interval.NewInt(1)))
	assert.True(t, got.Upper.Equal(interval.NewInt(3)))
	assert.Equal(t, interval.KindInt, got.Lower.Kind())

	got = interval.CastToFloat(intRange(t, 1, 2))
	assert.Equal(t, interval.KindFloat, got.Lower.Kind())

	trueR := boolRange(t, true, true)
	falseR := boolRange(t, false, false)
	assert.True(t, interval.CastToBool(intRange(t, 1, 5)).Equal(trueR))
	assert.True(t, interval.CastToBool(intRange(t, 0, 0)).Equal(falseR))
	assert.True(t, interval.CastToBool(intRange(t, -1, 1)).Equal(interval.UnknownBool()))
}

func TestBoundExpr_SymbolDefaults(t *testing.T) {
	pos := interval.Symbol{Kind: interval.SymSize, ID: 0, Assume: interval.AssumePositive}
	got, err := interval.BoundExpr(pos, nil)
	require.NoError(t, err)
	assert.True(t, got.Lower.Equal(interval.NewInt(1)))
	assert.True(t, got.Upper.IsInf())

	nonneg := interval.Symbol{Kind: interval.SymUnbacked, ID: 1, Assume: interval.AssumeNonNegative}
	got, err = interval.BoundExpr(nonneg, nil)
	require.NoError(t, err)
	assert.True(t, got.Lower.IsZero())

	free := interval.Symbol{Kind: interval.SymIndex, ID: 2}
	got, err = interval.BoundExpr(free, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(interval.Unknown()))

	guard := interval.Symbol{Kind: interval.SymBool, ID: 3}
	got, err = interval.BoundExpr(guard, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(interval.UnknownBool()))
}

func TestBoundExpr_Compound(t *testing.T) {
	s0 := interval.Symbol{Kind: interval.SymSize, ID: 0, Assume: interval.AssumePositive}

	// 2*s0 + 1 with s0 in (2, 5) gives (5, 11).
	expr := interval.Binary{
		Op: interval.OpAdd,
		X: interval.Binary{
			Op: interval.OpMul,
			X:  interval.Const{Value: interval.NewInt(2)},
			Y:  s0,
		},
		Y: interval.Const{Value: interval.NewInt(1)},
	}

	got, err := interval.BoundExpr(expr, map[interval.Symbol]interval.ValueRange{
		s0: intRange(t, 2, 5),
	})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(intRange(t, 5, 11), got, scalarCmp))
}

func TestBoundExpr_Select(t *testing.T) {
	guard := interval.Symbol{Kind: interval.SymBool, ID: 0}

	expr := interval.Select{
		Cond: guard,
		X:    interval.Const{Value: interval.NewInt(3)},
		Y:    interval.Const{Value: interval.NewInt(8)},
	}

	got, err := interval.BoundExpr(expr, nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(intRange(t, 3, 8), got, scalarCmp))
}

func TestBoundExpr_Piecewise(t *testing.T) {
	i0 := interval.Symbol{Kind: interval.SymIndex, ID: 0}

	// piecewise(i0 < 0 -> -1, i0 >= 0 -> 1) over i0 in (3, 7): only the
	// second branch is feasible.
	expr := interval.PiecewiseExpr{Cases: []interval.Case{
		{
			Value: interval.Const{Value: interval.NewInt(-1)},
			Cond:  interval.Binary{Op: interval.OpLt, X: i0, Y: interval.Const{Value: interval.NewInt(0)}},
		},
		{
			Value: interval.Const{Value: interval.NewInt(1)},
			Cond:  interval.Binary{Op: interval.OpGe, X: i0, Y: interval.Const{Value: interval.NewInt(0)}},
		},
	}}

	got, err := interval.BoundExpr(expr, map[interval.Symbol]interval.ValueRange{
		i0: intRange(t, 3, 7),
	})
	require.NoError(t, err)
	assert.True(t, got.IsSingleton())
	assert.True(t, got.Lower.Equal(interval.NewInt(1)))
}

func TestSymbolNames_DisjointPrefixes(t *testing.T) {
	kinds := []interval.SymKind{
		interval.SymSize, interval.SymUnbacked, interval.SymIndex,
		interval.SymFloat, interval.SymBool,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		name := interval.Symbol{Kind: k, ID: 7}.Name()
		assert.False(t, seen[name], "symbol name %q collides across namespaces", name)
		seen[name] = true
	}
}
