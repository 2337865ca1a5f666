// Copyright 2025 The Gradix Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package interval provides sound interval reasoning over symbolic
// shape and value expressions.
//
// A ValueRange is a closed interval with exact rational bounds extended
// by infinities. Operator transfer functions propagate ranges through
// expressions so that the true value of an expression always lies inside
// the computed range. BoundExpr evaluates a symbolic expression tree
// against per-symbol range bindings.
//
// Example:
//
//	s0 := interval.Symbol{Kind: interval.SymSize, ID: 0}
//	r, err := interval.BoundExpr(
//	    interval.Binary{Op: interval.OpAdd, X: s0, Y: interval.Const{Value: interval.NewInt(1)}},
//	    map[interval.Symbol]interval.ValueRange{
//	        s0: interval.MustRange(interval.NewInt(2), interval.NewInt(5)),
//	    },
//	)
//	// r is [3, 6]
package interval

import (
	"math/big"

	"github.com/gradix-ml/gradix/internal/interval"
)

// Scalar is an extended-precision bound value: a finite rational with a
// kind tag, an explicit infinity, or a boolean.
type Scalar = interval.Scalar

// Kind tags the numeric tower position of a Scalar.
type Kind = interval.Kind

// Kind constants, ordered by upcast precedence.
const (
	KindBool  Kind = interval.KindBool
	KindInt   Kind = interval.KindInt
	KindRat   Kind = interval.KindRat
	KindFloat Kind = interval.KindFloat
)

// Scalar constructors.

// NewInt wraps an integer as an exact scalar.
func NewInt(v int64) Scalar { return interval.NewInt(v) }

// NewRat wraps an exact rational.
func NewRat(r *big.Rat) Scalar { return interval.NewRat(r) }

// NewFloat wraps a float64. Infinities are allowed; NaN panics.
func NewFloat(v float64) Scalar { return interval.NewFloat(v) }

// NewBool wraps a boolean.
func NewBool(v bool) Scalar { return interval.NewBool(v) }

// PosInf returns positive infinity of the given kind.
func PosInf(kind Kind) Scalar { return interval.PosInf(kind) }

// NegInf returns negative infinity of the given kind.
func NegInf(kind Kind) Scalar { return interval.NegInf(kind) }

// ValueRange is a closed interval [Lower, Upper].
type ValueRange = interval.ValueRange

// ValueRangeError reports an inverted or incompatible bound pair.
type ValueRangeError = interval.ValueRangeError

// NewRange builds a range, rejecting lower > upper.
func NewRange(lower, upper Scalar) (ValueRange, error) {
	return interval.NewRange(lower, upper)
}

// MustRange builds a range and panics on invalid bounds. Intended for
// literals in tests and static tables.
func MustRange(lower, upper Scalar) ValueRange {
	return interval.MustRange(lower, upper)
}

// Singleton returns the degenerate range [v, v].
func Singleton(v Scalar) ValueRange { return interval.Singleton(v) }

// Unknown returns the unbounded numeric range (-inf, +inf).
func Unknown() ValueRange { return interval.Unknown() }

// UnknownBool returns the full boolean range [false, true].
func UnknownBool() ValueRange { return interval.UnknownBool() }

// Transfer functions over ranges. Each is sound: the result contains
// every value the operator can produce from values in the inputs.

func Add(a, b ValueRange) ValueRange      { return interval.Add(a, b) }
func Neg(a ValueRange) ValueRange         { return interval.Neg(a) }
func Sub(a, b ValueRange) ValueRange      { return interval.Sub(a, b) }
func Mul(a, b ValueRange) ValueRange      { return interval.Mul(a, b) }
func TrueDiv(a, b ValueRange) ValueRange  { return interval.TrueDiv(a, b) }
func FloorDiv(a, b ValueRange) ValueRange { return interval.FloorDiv(a, b) }
func Mod(a, b ValueRange) ValueRange      { return interval.Mod(a, b) }
func Pow(a, b ValueRange) ValueRange      { return interval.Pow(a, b) }
func Abs(a ValueRange) ValueRange         { return interval.Abs(a) }
func Square(a ValueRange) ValueRange      { return interval.Square(a) }
func Exp(a ValueRange) ValueRange         { return interval.Exp(a) }
func Log(a ValueRange) ValueRange         { return interval.Log(a) }
func Sqrt(a ValueRange) ValueRange        { return interval.Sqrt(a) }
func Minimum(a, b ValueRange) ValueRange  { return interval.Minimum(a, b) }
func Maximum(a, b ValueRange) ValueRange  { return interval.Maximum(a, b) }

// Comparisons and boolean operators.

func Eq(a, b ValueRange) ValueRange  { return interval.Eq(a, b) }
func Ne(a, b ValueRange) ValueRange  { return interval.Ne(a, b) }
func Lt(a, b ValueRange) ValueRange  { return interval.Lt(a, b) }
func Le(a, b ValueRange) ValueRange  { return interval.Le(a, b) }
func Gt(a, b ValueRange) ValueRange  { return interval.Gt(a, b) }
func Ge(a, b ValueRange) ValueRange  { return interval.Ge(a, b) }
func Not(a ValueRange) ValueRange    { return interval.Not(a) }
func And(a, b ValueRange) ValueRange { return interval.And(a, b) }
func Or(a, b ValueRange) ValueRange  { return interval.Or(a, b) }

// Where bounds the select of x or y under a boolean condition range.
func Where(cond, x, y ValueRange) (ValueRange, error) {
	return interval.Where(cond, x, y)
}

// Branch is one guarded arm of a piecewise bound.
type Branch = interval.Branch

// Piecewise unions the value ranges of all feasible branches.
func Piecewise(branches []Branch) (ValueRange, error) {
	return interval.Piecewise(branches)
}

// Casts between kinds.

func CastToInt(a ValueRange) ValueRange   { return interval.CastToInt(a) }
func CastToFloat(a ValueRange) ValueRange { return interval.CastToFloat(a) }
func CastToBool(a ValueRange) ValueRange  { return interval.CastToBool(a) }

// Symbolic expression trees.

// Symbol is a named unknown, usable as a map key when binding ranges.
type Symbol = interval.Symbol

// SymKind namespaces symbols.
type SymKind = interval.SymKind

// Symbol namespaces.
const (
	SymSize     SymKind = interval.SymSize     // tensor dimension sizes
	SymUnbacked SymKind = interval.SymUnbacked // data-dependent values with no hint
	SymIndex    SymKind = interval.SymIndex    // integer indices
	SymFloat    SymKind = interval.SymFloat    // floating-point symbols
	SymBool     SymKind = interval.SymBool     // boolean guards
)

// Assumption is a declared fact about a symbol's sign.
type Assumption = interval.Assumption

// Assumption constants.
const (
	AssumeNone        Assumption = interval.AssumeNone
	AssumeNonNegative Assumption = interval.AssumeNonNegative
	AssumePositive    Assumption = interval.AssumePositive
)

// Expr is a symbolic expression tree node.
type Expr = interval.Expr

// Expression node forms.
type (
	Const         = interval.Const
	Unary         = interval.Unary
	Binary        = interval.Binary
	Select        = interval.Select
	Case          = interval.Case
	PiecewiseExpr = interval.PiecewiseExpr
)

// OpKind enumerates the closed operator set.
type OpKind = interval.OpKind

// Operator constants.
const (
	OpNeg     OpKind = interval.OpNeg
	OpNot     OpKind = interval.OpNot
	OpAbs     OpKind = interval.OpAbs
	OpSquare  OpKind = interval.OpSquare
	OpExp     OpKind = interval.OpExp
	OpLog     OpKind = interval.OpLog
	OpSqrt    OpKind = interval.OpSqrt
	OpToInt   OpKind = interval.OpToInt
	OpToFloat OpKind = interval.OpToFloat
	OpToBool  OpKind = interval.OpToBool

	OpAdd      OpKind = interval.OpAdd
	OpSub      OpKind = interval.OpSub
	OpMul      OpKind = interval.OpMul
	OpTrueDiv  OpKind = interval.OpTrueDiv
	OpFloorDiv OpKind = interval.OpFloorDiv
	OpMod      OpKind = interval.OpMod
	OpPow      OpKind = interval.OpPow
	OpMin      OpKind = interval.OpMin
	OpMax      OpKind = interval.OpMax
	OpEq       OpKind = interval.OpEq
	OpNe       OpKind = interval.OpNe
	OpLt       OpKind = interval.OpLt
	OpLe       OpKind = interval.OpLe
	OpGt       OpKind = interval.OpGt
	OpGe       OpKind = interval.OpGe
	OpAnd      OpKind = interval.OpAnd
	OpOr       OpKind = interval.OpOr
)

// BoundExpr evaluates a symbolic expression to a sound value range, using
// the bound ranges for symbols and assumption-derived defaults for
// unbound ones.
func BoundExpr(e Expr, ranges map[Symbol]ValueRange) (ValueRange, error) {
	return interval.BoundExpr(e, ranges)
}
