package interval

import "fmt"

// ValueRange is a closed interval (Lower, Upper) under the domain order:
// exact extended rationals for numeric ranges, false < true for boolean
// ranges. The invariant Lower <= Upper holds for every constructed range.
type ValueRange struct {
	Lower Scalar
	Upper Scalar
}

// ValueRangeError reports an attempt to construct an inverted range.
// Construction never clamps silently; an inverted range is a programming
// error at the call site.
type ValueRangeError struct {
	Lower Scalar
	Upper Scalar
}

func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("invalid value range: lower %s > upper %s", e.Lower, e.Upper)
}

// NewRange constructs a range, failing with *ValueRangeError when
// lower > upper.
func NewRange(lower, upper Scalar) (ValueRange, error) {
	if lower.Cmp(upper) > 0 {
		return ValueRange{}, &ValueRangeError{Lower: lower, Upper: upper}
	}
	return ValueRange{Lower: lower, Upper: upper}, nil
}

// MustRange constructs a range and panics on inversion. For literals.
func MustRange(lower, upper Scalar) ValueRange {
	r, err := NewRange(lower, upper)
	if err != nil {
		panic(err)
	}
	return r
}

// Singleton wraps a single value as a degenerate range.
func Singleton(v Scalar) ValueRange {
	return ValueRange{Lower: v, Upper: v}
}

// Unknown returns the full numeric range (-inf, +inf).
func Unknown() ValueRange {
	return ValueRange{Lower: NegInf(KindInt), Upper: PosInf(KindInt)}
}

// UnknownBool returns the full boolean range (false, true).
func UnknownBool() ValueRange {
	return ValueRange{Lower: NewBool(false), Upper: NewBool(true)}
}

// IsBoolean reports whether this is a boolean range.
func (r ValueRange) IsBoolean() bool {
	return r.Lower.IsBool()
}

// IsSingleton reports whether the range holds exactly one value.
func (r ValueRange) IsSingleton() bool {
	return r.Lower.Cmp(r.Upper) == 0 && !r.Lower.IsInf()
}

// Contains reports whether v lies in the range.
func (r ValueRange) Contains(v Scalar) bool {
	return r.Lower.Cmp(v) <= 0 && v.Cmp(r.Upper) <= 0
}

// ContainsZero reports whether 0 lies in a numeric range.
func (r ValueRange) ContainsZero() bool {
	zero := NewInt(0)
	return r.Contains(zero)
}

// Equal reports bound-for-bound equality.
func (r ValueRange) Equal(o ValueRange) bool {
	return r.Lower.Equal(o.Lower) && r.Upper.Equal(o.Upper)
}

// Intersect is the lattice meet: the tightest range contained in both.
// Unknown is the identity element. For booleans the max/min of bounds is
// exactly Or of lowers and And of uppers. Disjoint operands fail with
// *ValueRangeError.
func (r ValueRange) Intersect(o ValueRange) (ValueRange, error) {
	return NewRange(r.Lower.Max(o.Lower), r.Upper.Min(o.Upper))
}

// Union is the lattice join: the loosest range covering both operands.
func (r ValueRange) Union(o ValueRange) ValueRange {
	return ValueRange{Lower: r.Lower.Min(o.Lower), Upper: r.Upper.Max(o.Upper)}
}

// String formats the range for diagnostics.
func (r ValueRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Lower, r.Upper)
}

// IncreasingMap applies a monotone non-decreasing f to both bounds.
func IncreasingMap(x ValueRange, f func(Scalar) Scalar) ValueRange {
	return ValueRange{Lower: f(x.Lower), Upper: f(x.Upper)}
}

// DecreasingMap applies a monotone non-increasing f, swapping the bounds.
func DecreasingMap(x ValueRange, f func(Scalar) Scalar) ValueRange {
	return ValueRange{Lower: f(x.Upper), Upper: f(x.Lower)}
}

// MonotoneMap applies f to both bounds and sorts the results. Sound when
// f is monotone but the direction is not known statically; looser than
// the directional maps.
func MonotoneMap(x ValueRange, f func(Scalar) Scalar) ValueRange {
	a, b := f(x.Lower), f(x.Upper)
	return ValueRange{Lower: a.Min(b), Upper: a.Max(b)}
}

// ConvexMinZeroMap bounds a convex f with its minimum at 0 (abs, square,
// even powers). When 0 is inside x the tight lower bound is f(0) = 0 and
// the upper bound the larger endpoint image; otherwise f is monotone on x
// and MonotoneMap applies.
func ConvexMinZeroMap(x ValueRange, f func(Scalar) Scalar) ValueRange {
	if !x.ContainsZero() {
		return MonotoneMap(x, f)
	}
	upper := f(x.Lower).Max(f(x.Upper))
	return ValueRange{Lower: NewInt(0).withKind(upper.Kind()), Upper: upper}
}

// CoordinatewiseIncreasingMap bounds an f that is non-decreasing in both
// arguments: the extremes are at matching endpoints.
func CoordinatewiseIncreasingMap(x, y ValueRange, f func(a, b Scalar) Scalar) ValueRange {
	return ValueRange{
		Lower: f(x.Lower, y.Lower),
		Upper: f(x.Upper, y.Upper),
	}
}

// CoordinatewiseMonotoneMap bounds an f that is monotone in each argument
// separately with unknown directions (multiplication: the sign of one
// operand flips the direction in the other). Sound via min/max over the
// four corner evaluations.
func CoordinatewiseMonotoneMap(x, y ValueRange, f func(a, b Scalar) Scalar) ValueRange {
	products := [4]Scalar{
		f(x.Lower, y.Lower),
		f(x.Lower, y.Upper),
		f(x.Upper, y.Lower),
		f(x.Upper, y.Upper),
	}
	lo, hi := products[0], products[0]
	for _, p := range products[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return ValueRange{Lower: lo, Upper: hi}
}
