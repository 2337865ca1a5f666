// Package interval implements an interval abstract domain over extended
// rationals and booleans, with per-operator bound rules and a small
// symbolic expression layer for bounding shape arithmetic without
// executing it.
package interval

import (
	"fmt"
	"math"
	"math/big"
)

// Kind orders the numeric tower: Int < Rat < Float. Binary numeric
// operations upcast to the widest kind. Bool stands apart and never mixes
// with numeric kinds.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindRat
	KindFloat
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindRat:
		return "rat"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Scalar is an extended-precision bound value: a finite rational with a
// kind tag, an explicit infinity, or a boolean. Finite arithmetic and
// comparison are exact; only transcendental maps go through float64.
type Scalar struct {
	kind Kind
	sign int      // -1 or +1 for infinities, 0 when finite
	rat  *big.Rat // finite numeric value (nil for infinities and bools)
	b    bool     // boolean value (kind Bool)
}

// NewInt creates an integer scalar.
func NewInt(v int64) Scalar {
	return Scalar{kind: KindInt, rat: new(big.Rat).SetInt64(v)}
}

// NewRat creates a rational scalar. The value is copied.
func NewRat(r *big.Rat) Scalar {
	return Scalar{kind: KindRat, rat: new(big.Rat).Set(r)}
}

// NewFloat creates a float-kind scalar. The float64 value is captured
// exactly (every finite float64 is rational). Infinities map to the
// explicit infinite forms; NaN is rejected.
func NewFloat(v float64) Scalar {
	if math.IsNaN(v) {
		panic("interval: NaN scalar")
	}
	if math.IsInf(v, 1) {
		return PosInf(KindFloat)
	}
	if math.IsInf(v, -1) {
		return NegInf(KindFloat)
	}
	return Scalar{kind: KindFloat, rat: new(big.Rat).SetFloat64(v)}
}

// NewBool creates a boolean scalar.
func NewBool(v bool) Scalar {
	return Scalar{kind: KindBool, b: v}
}

// PosInf creates a positive infinity of the given kind.
func PosInf(kind Kind) Scalar {
	return Scalar{kind: kind, sign: 1}
}

// NegInf creates a negative infinity of the given kind.
func NegInf(kind Kind) Scalar {
	return Scalar{kind: kind, sign: -1}
}

// Kind returns the scalar's kind tag.
func (s Scalar) Kind() Kind {
	return s.kind
}

// IsInf reports whether the scalar is an infinity.
func (s Scalar) IsInf() bool {
	return s.sign != 0
}

// IsBool reports whether the scalar is a boolean.
func (s Scalar) IsBool() bool {
	return s.kind == KindBool
}

// Bool returns the boolean value. Panics for numeric scalars.
func (s Scalar) Bool() bool {
	if s.kind != KindBool {
		panic(fmt.Sprintf("interval: Bool() on %s scalar", s.kind))
	}
	return s.b
}

// Rat returns a copy of the finite rational value.
func (s Scalar) Rat() *big.Rat {
	s.checkNumeric()
	if s.IsInf() {
		panic("interval: Rat() on infinity")
	}
	return new(big.Rat).Set(s.rat)
}

// Sign returns -1, 0 or +1.
func (s Scalar) Sign() int {
	s.checkNumeric()
	if s.sign != 0 {
		return s.sign
	}
	return s.rat.Sign()
}

// IsZero reports whether the scalar is exactly zero.
func (s Scalar) IsZero() bool {
	return s.kind != KindBool && s.sign == 0 && s.rat.Sign() == 0
}

func (s Scalar) checkNumeric() {
	if s.kind == KindBool {
		panic("interval: numeric operation on bool scalar")
	}
}

func maxKind(a, b Kind) Kind {
	if a > b {
		return a
	}
	return b
}

// withKind relabels the scalar with a wider kind. The value is unchanged.
func (s Scalar) withKind(k Kind) Scalar {
	s.kind = k
	return s
}

// Cmp compares two scalars under the domain order: numerics exactly with
// -inf below every finite value and +inf above, booleans with
// false < true. Mixing booleans with numerics panics.
func (s Scalar) Cmp(o Scalar) int {
	if s.kind == KindBool || o.kind == KindBool {
		if s.kind != o.kind {
			panic("interval: comparing bool with numeric scalar")
		}
		return btoi(s.b) - btoi(o.b)
	}
	if s.sign != o.sign {
		if s.sign < o.sign {
			return -1
		}
		return 1
	}
	if s.sign != 0 {
		return 0
	}
	return s.rat.Cmp(o.rat)
}

// Equal reports whether the scalars are equal under Cmp.
func (s Scalar) Equal(o Scalar) bool {
	if (s.kind == KindBool) != (o.kind == KindBool) {
		return false
	}
	return s.Cmp(o) == 0
}

// Min returns the smaller scalar.
func (s Scalar) Min(o Scalar) Scalar {
	if s.Cmp(o) <= 0 {
		return s
	}
	return o
}

// Max returns the larger scalar.
func (s Scalar) Max(o Scalar) Scalar {
	if s.Cmp(o) >= 0 {
		return s
	}
	return o
}

// Add returns s + o with kind upcast. Adding opposite infinities is
// indeterminate and panics; the analysis rules never produce that form.
func (s Scalar) Add(o Scalar) Scalar {
	s.checkNumeric()
	o.checkNumeric()
	kind := maxKind(s.kind, o.kind)
	if s.sign != 0 || o.sign != 0 {
		if s.sign != 0 && o.sign != 0 && s.sign != o.sign {
			panic("interval: inf + -inf")
		}
		sign := s.sign
		if sign == 0 {
			sign = o.sign
		}
		return Scalar{kind: kind, sign: sign}
	}
	return Scalar{kind: kind, rat: new(big.Rat).Add(s.rat, o.rat)}
}

// Neg returns -s.
func (s Scalar) Neg() Scalar {
	s.checkNumeric()
	if s.sign != 0 {
		return Scalar{kind: s.kind, sign: -s.sign}
	}
	return Scalar{kind: s.kind, rat: new(big.Rat).Neg(s.rat)}
}

// Sub returns s - o.
func (s Scalar) Sub(o Scalar) Scalar {
	return s.Add(o.Neg())
}

// Mul returns s * o with kind upcast, using the interval convention
// 0 * inf = 0 so corner products of half-bounded ranges stay sound.
func (s Scalar) Mul(o Scalar) Scalar {
	s.checkNumeric()
	o.checkNumeric()
	kind := maxKind(s.kind, o.kind)
	if s.IsZero() || o.IsZero() {
		return Scalar{kind: kind, rat: new(big.Rat)}
	}
	if s.sign != 0 || o.sign != 0 {
		return Scalar{kind: kind, sign: s.Sign() * o.Sign()}
	}
	return Scalar{kind: kind, rat: new(big.Rat).Mul(s.rat, o.rat)}
}

// Div returns s / o exactly. Division by zero and inf/inf panic; the
// analysis rules exclude both before dividing.
func (s Scalar) Div(o Scalar) Scalar {
	s.checkNumeric()
	o.checkNumeric()
	if o.IsZero() {
		panic("interval: division by zero")
	}
	kind := maxKind(s.kind, o.kind)
	if s.sign != 0 && o.sign != 0 {
		panic("interval: inf / inf")
	}
	if o.sign != 0 {
		return Scalar{kind: kind, rat: new(big.Rat)}
	}
	if s.sign != 0 {
		return Scalar{kind: kind, sign: s.sign * o.Sign()}
	}
	q := new(big.Rat).Quo(s.rat, o.rat)
	if kind == KindInt && !q.IsInt() {
		kind = KindRat
	}
	return Scalar{kind: kind, rat: q}
}

// Floor returns the largest integer <= s, keeping the kind.
func (s Scalar) Floor() Scalar {
	s.checkNumeric()
	if s.sign != 0 {
		return s
	}
	return Scalar{kind: s.kind, rat: new(big.Rat).SetInt(ratFloor(s.rat))}
}

// Ceil returns the smallest integer >= s, keeping the kind.
func (s Scalar) Ceil() Scalar {
	s.checkNumeric()
	if s.sign != 0 {
		return s
	}
	neg := new(big.Rat).Neg(s.rat)
	ceil := new(big.Int).Neg(ratFloor(neg))
	return Scalar{kind: s.kind, rat: new(big.Rat).SetInt(ceil)}
}

// Mod returns the floored modulo s mod o (result takes the divisor's
// sign, matching Python semantics). Both must be finite and o nonzero.
func (s Scalar) Mod(o Scalar) Scalar {
	s.checkNumeric()
	o.checkNumeric()
	if s.IsInf() || o.IsInf() {
		panic("interval: mod with infinity")
	}
	if o.IsZero() {
		panic("interval: mod by zero")
	}
	q := s.Div(o).Floor()
	return s.Sub(q.Mul(o))
}

// PowInt returns s^n for a positive integer exponent, exactly.
func (s Scalar) PowInt(n int64) Scalar {
	s.checkNumeric()
	if n < 1 {
		panic("interval: PowInt exponent must be positive")
	}
	if s.sign != 0 {
		if s.sign > 0 || n%2 == 0 {
			return Scalar{kind: s.kind, sign: 1}
		}
		return Scalar{kind: s.kind, sign: -1}
	}
	e := big.NewInt(n)
	num := new(big.Int).Exp(s.rat.Num(), e, nil)
	den := new(big.Int).Exp(s.rat.Denom(), e, nil)
	return Scalar{kind: s.kind, rat: new(big.Rat).SetFrac(num, den)}
}

// Float64 converts to float64, possibly losing precision. Infinities map
// to IEEE infinities.
func (s Scalar) Float64() float64 {
	s.checkNumeric()
	if s.sign != 0 {
		return math.Inf(s.sign)
	}
	f, _ := s.rat.Float64()
	return f
}

// MapFloat applies a float64 function and returns a Float-kind scalar.
// Used for the transcendental maps (exp, log, sqrt, fractional pow).
func (s Scalar) MapFloat(f func(float64) float64) Scalar {
	r := f(s.Float64())
	if math.IsNaN(r) {
		panic("interval: map produced NaN")
	}
	return NewFloat(r)
}

// String formats the scalar for diagnostics.
func (s Scalar) String() string {
	switch {
	case s.kind == KindBool:
		return fmt.Sprintf("%t", s.b)
	case s.sign > 0:
		return "+inf"
	case s.sign < 0:
		return "-inf"
	case s.kind == KindInt:
		return s.rat.Num().String()
	case s.kind == KindFloat:
		f, _ := s.rat.Float64()
		return fmt.Sprintf("%g", f)
	default:
		return s.rat.RatString()
	}
}

// ratFloor returns floor(r) as a big integer.
func ratFloor(r *big.Rat) *big.Int {
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(r.Num(), r.Denom(), m)
	return q
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
