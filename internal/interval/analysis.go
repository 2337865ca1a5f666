package interval

import (
	"math"

	"github.com/pkg/errors"
)

// Per-operator bound rules. Each function is a sound over-approximation:
// the result range contains every value the operator can produce when its
// arguments range over the input intervals.

// Add bounds a + b. Addition is increasing in both arguments.
func Add(a, b ValueRange) ValueRange {
	return CoordinatewiseIncreasingMap(a, b, Scalar.Add)
}

// Neg bounds -a.
func Neg(a ValueRange) ValueRange {
	return DecreasingMap(a, Scalar.Neg)
}

// Sub bounds a - b.
func Sub(a, b ValueRange) ValueRange {
	return Add(a, Neg(b))
}

// Mul bounds a * b over the four corner products. A singleton zero
// operand short-circuits to zero, which keeps unknown() * 0 from
// degrading to unknown().
func Mul(a, b ValueRange) ValueRange {
	if a.IsSingleton() && a.Lower.IsZero() {
		return a
	}
	if b.IsSingleton() && b.Lower.IsZero() {
		return b
	}
	return CoordinatewiseMonotoneMap(a, b, Scalar.Mul)
}

// TrueDiv bounds a / b. A divisor range containing zero, or infinities on
// both sides of the quotient, cannot be bounded.
func TrueDiv(a, b ValueRange) ValueRange {
	if b.ContainsZero() {
		return Unknown()
	}
	if hasInfBound(a) && hasInfBound(b) {
		return Unknown()
	}
	return CoordinatewiseMonotoneMap(a, b, Scalar.Div)
}

// FloorDiv bounds a // b: TrueDiv followed by the (increasing) floor.
func FloorDiv(a, b ValueRange) ValueRange {
	return IncreasingMap(TrueDiv(a, b), Scalar.Floor)
}

// Mod bounds a mod b with the documented loose rule: exact when both are
// singletons with b != 0; unknown when b may be non-positive; otherwise
// (0, b.upper). The loose branch ignores a entirely, so mod([-10,10],
// [3,3]) is (0, 3) rather than anything tighter.
func Mod(a, b ValueRange) ValueRange {
	if a.IsSingleton() && b.IsSingleton() && !b.Lower.IsZero() {
		return Singleton(a.Lower.Mod(b.Lower))
	}
	if b.Lower.Sign() <= 0 {
		return Unknown()
	}
	return ValueRange{Lower: NewInt(0), Upper: b.Upper}
}

// Pow bounds a ** b for a singleton exponent; anything else is unknown.
// Zero exponent gives 1, negative exponents go through the reciprocal,
// fractional exponents need a non-negative base, and integer exponents
// split on parity: even is convex with minimum at zero, odd is increasing.
func Pow(a, b ValueRange) ValueRange {
	if !b.IsSingleton() {
		return Unknown()
	}
	exp := b.Lower
	if exp.IsZero() {
		return Singleton(NewInt(1))
	}
	if exp.Sign() < 0 {
		return reciprocal(Pow(a, Singleton(exp.Neg())))
	}
	if !exp.Rat().IsInt() {
		if a.Lower.Sign() < 0 {
			return Unknown()
		}
		e := exp.Float64()
		return IncreasingMap(a, func(s Scalar) Scalar {
			return s.MapFloat(func(v float64) float64 { return math.Pow(v, e) })
		})
	}
	n := exp.Rat().Num().Int64()
	if n%2 == 0 {
		return ConvexMinZeroMap(a, func(s Scalar) Scalar { return s.PowInt(n) })
	}
	return IncreasingMap(a, func(s Scalar) Scalar { return s.PowInt(n) })
}

// reciprocal bounds 1 / x: unbounded when x may be zero, otherwise
// decreasing on either sign-definite side.
func reciprocal(x ValueRange) ValueRange {
	if x.ContainsZero() {
		return Unknown()
	}
	one := NewInt(1)
	return DecreasingMap(x, func(s Scalar) Scalar { return one.Div(s) })
}

// Abs bounds |a|.
func Abs(a ValueRange) ValueRange {
	return ConvexMinZeroMap(a, func(s Scalar) Scalar {
		if s.Sign() < 0 {
			return s.Neg()
		}
		return s
	})
}

// Square bounds a².
func Square(a ValueRange) ValueRange {
	return ConvexMinZeroMap(a, func(s Scalar) Scalar { return s.PowInt(2) })
}

// Exp bounds e**a.
func Exp(a ValueRange) ValueRange {
	return IncreasingMap(a, func(s Scalar) Scalar { return s.MapFloat(math.Exp) })
}

// Log bounds ln(a); a base that may be non-positive is unbounded.
func Log(a ValueRange) ValueRange {
	if a.Lower.Sign() <= 0 {
		return Unknown()
	}
	return IncreasingMap(a, func(s Scalar) Scalar { return s.MapFloat(math.Log) })
}

// Sqrt bounds √a; a base that may be negative is unbounded.
func Sqrt(a ValueRange) ValueRange {
	if a.Lower.Sign() < 0 {
		return Unknown()
	}
	return IncreasingMap(a, func(s Scalar) Scalar { return s.MapFloat(math.Sqrt) })
}

// Minimum bounds min(a, b) after upcasting to the common kind.
func Minimum(a, b ValueRange) ValueRange {
	a, b = upcastRanges(a, b)
	return CoordinatewiseIncreasingMap(a, b, Scalar.Min)
}

// Maximum bounds max(a, b) after upcasting to the common kind.
func Maximum(a, b ValueRange) ValueRange {
	a, b = upcastRanges(a, b)
	return CoordinatewiseIncreasingMap(a, b, Scalar.Max)
}

// Eq bounds a == b: definite for equal singletons and disjoint ranges,
// unknown otherwise.
func Eq(a, b ValueRange) ValueRange {
	if a.IsSingleton() && b.IsSingleton() && a.Lower.Equal(b.Lower) {
		return Singleton(NewBool(true))
	}
	if disjoint(a, b) {
		return Singleton(NewBool(false))
	}
	return UnknownBool()
}

// Ne bounds a != b.
func Ne(a, b ValueRange) ValueRange {
	return Not(Eq(a, b))
}

// Lt bounds a < b.
func Lt(a, b ValueRange) ValueRange {
	if a.Upper.Cmp(b.Lower) < 0 {
		return Singleton(NewBool(true))
	}
	if a.Lower.Cmp(b.Upper) >= 0 {
		return Singleton(NewBool(false))
	}
	return UnknownBool()
}

// Le bounds a <= b.
func Le(a, b ValueRange) ValueRange {
	if a.Upper.Cmp(b.Lower) <= 0 {
		return Singleton(NewBool(true))
	}
	if a.Lower.Cmp(b.Upper) > 0 {
		return Singleton(NewBool(false))
	}
	return UnknownBool()
}

// Gt bounds a > b.
func Gt(a, b ValueRange) ValueRange {
	return Lt(b, a)
}

// Ge bounds a >= b.
func Ge(a, b ValueRange) ValueRange {
	return Le(b, a)
}

// Not bounds ¬a. Negation is decreasing on booleans, so the bounds swap.
func Not(a ValueRange) ValueRange {
	return ValueRange{Lower: NewBool(!a.Upper.Bool()), Upper: NewBool(!a.Lower.Bool())}
}

// And bounds a ∧ b; conjunction is increasing in both arguments.
func And(a, b ValueRange) ValueRange {
	return CoordinatewiseIncreasingMap(a, b, func(x, y Scalar) Scalar {
		return NewBool(x.Bool() && y.Bool())
	})
}

// Or bounds a ∨ b.
func Or(a, b ValueRange) ValueRange {
	return CoordinatewiseIncreasingMap(a, b, func(x, y Scalar) Scalar {
		return NewBool(x.Bool() || y.Bool())
	})
}

// Where bounds select(cond, x, y). The condition's value is ignored; the
// result covers both branches, which is sound whichever way it resolves.
func Where(cond, x, y ValueRange) (ValueRange, error) {
	if !cond.IsBoolean() {
		return ValueRange{}, errors.Errorf("where condition must be boolean, got %s", cond)
	}
	if x.IsBoolean() != y.IsBoolean() {
		return ValueRange{}, errors.Errorf("where branches mix boolean and numeric ranges: %s vs %s", x, y)
	}
	return x.Union(y), nil
}

// Branch pairs a value range with the range of its guard condition.
type Branch struct {
	Value ValueRange
	Cond  ValueRange
}

// Piecewise bounds a guarded case expression: the union over every branch
// whose condition can still be true. With no feasible branch nothing is
// known about the result.
func Piecewise(branches []Branch) (ValueRange, error) {
	var result ValueRange
	found := false
	for _, br := range branches {
		if !br.Cond.IsBoolean() {
			return ValueRange{}, errors.Errorf("piecewise condition must be boolean, got %s", br.Cond)
		}
		if !br.Cond.Upper.Bool() {
			continue // condition is definitely false
		}
		if !found {
			result = br.Value
			found = true
		} else {
			result = result.Union(br.Value)
		}
	}
	if !found {
		return Unknown(), nil
	}
	return result, nil
}

// CastToInt bounds an int cast: floor of the lower bound, ceil of the
// upper, relabeled to the integer kind.
func CastToInt(a ValueRange) ValueRange {
	return ValueRange{
		Lower: a.Lower.Floor().withKind(KindInt),
		Upper: a.Upper.Ceil().withKind(KindInt),
	}
}

// CastToFloat widens the bounds to the float kind. Values are unchanged.
func CastToFloat(a ValueRange) ValueRange {
	return ValueRange{
		Lower: a.Lower.withKind(KindFloat),
		Upper: a.Upper.withKind(KindFloat),
	}
}

// CastToBool bounds a bool cast of a numeric range (v != 0).
func CastToBool(a ValueRange) ValueRange {
	if a.IsBoolean() {
		return a
	}
	if !a.ContainsZero() {
		return Singleton(NewBool(true))
	}
	if a.IsSingleton() {
		return Singleton(NewBool(false))
	}
	return UnknownBool()
}

func disjoint(a, b ValueRange) bool {
	return a.Upper.Cmp(b.Lower) < 0 || b.Upper.Cmp(a.Lower) < 0
}

func hasInfBound(r ValueRange) bool {
	return r.Lower.IsInf() || r.Upper.IsInf()
}

func upcastRanges(a, b ValueRange) (ValueRange, ValueRange) {
	kind := maxKind(
		maxKind(a.Lower.Kind(), a.Upper.Kind()),
		maxKind(b.Lower.Kind(), b.Upper.Kind()),
	)
	a.Lower = a.Lower.withKind(kind)
	a.Upper = a.Upper.withKind(kind)
	b.Lower = b.Lower.withKind(kind)
	b.Upper = b.Upper.withKind(kind)
	return a, b
}
