package interval

import "strconv"

// SymKind namespaces symbols. Each kind renders with a distinct prefix so
// symbols from different namespaces can never collide by name.
type SymKind int

const (
	SymSize     SymKind = iota // tensor dimension sizes
	SymUnbacked                // data-dependent values with no hint
	SymIndex                   // integer indices
	SymFloat                   // floating-point symbols
	SymBool                    // boolean guards
)

// Prefix returns the namespace prefix used in symbol names.
func (k SymKind) Prefix() string {
	switch k {
	case SymSize:
		return "s"
	case SymUnbacked:
		return "u"
	case SymIndex:
		return "i"
	case SymFloat:
		return "zf"
	case SymBool:
		return "zb"
	default:
		return "?"
	}
}

// Assumption is a declared fact about a symbol's sign, used when no
// explicit range is bound for it.
type Assumption int

const (
	AssumeNone Assumption = iota
	AssumeNonNegative
	AssumePositive
)

// Symbol is a named unknown. Symbols are value types and usable as map
// keys when binding ranges.
type Symbol struct {
	Kind   SymKind
	ID     int
	Assume Assumption
}

// Name renders the symbol with its namespace prefix.
func (s Symbol) Name() string {
	return s.Kind.Prefix() + strconv.Itoa(s.ID)
}

func (Symbol) isExpr() {}

// Expr is a symbolic expression tree node. The node set is closed: the
// interpreter dispatches over exactly these forms.
type Expr interface {
	isExpr()
}

// Const is a literal scalar.
type Const struct {
	Value Scalar
}

func (Const) isExpr() {}

// Unary applies a one-argument operator.
type Unary struct {
	Op OpKind
	X  Expr
}

func (Unary) isExpr() {}

// Binary applies a two-argument operator.
type Binary struct {
	Op   OpKind
	X, Y Expr
}

func (Binary) isExpr() {}

// Select is the where(cond, x, y) expression.
type Select struct {
	Cond Expr
	X, Y Expr
}

func (Select) isExpr() {}

// Case is one guarded branch of a piecewise expression.
type Case struct {
	Value Expr
	Cond  Expr
}

// PiecewiseExpr selects among guarded branches.
type PiecewiseExpr struct {
	Cases []Case
}

func (PiecewiseExpr) isExpr() {}

// OpKind enumerates the closed operator set.
type OpKind int

const (
	// unary
	OpNeg OpKind = iota
	OpNot
	OpAbs
	OpSquare
	OpExp
	OpLog
	OpSqrt
	OpToInt
	OpToFloat
	OpToBool
	// binary
	OpAdd
	OpSub
	OpMul
	OpTrueDiv
	OpFloorDiv
	OpMod
	OpPow
	OpMin
	OpMax
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var opNames = map[OpKind]string{
	OpNeg: "neg", OpNot: "not", OpAbs: "abs", OpSquare: "square",
	OpExp: "exp", OpLog: "log", OpSqrt: "sqrt",
	OpToInt: "to_int", OpToFloat: "to_float", OpToBool: "to_bool",
	OpAdd: "add", OpSub: "sub", OpMul: "mul",
	OpTrueDiv: "truediv", OpFloorDiv: "floordiv", OpMod: "mod", OpPow: "pow",
	OpMin: "min", OpMax: "max",
	OpEq: "eq", OpNe: "ne", OpLt: "lt", OpLe: "le", OpGt: "gt", OpGe: "ge",
	OpAnd: "and", OpOr: "or",
}

// String returns the operator name.
func (op OpKind) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// unaryRules maps unary operators to their bound rules.
var unaryRules = map[OpKind]func(ValueRange) ValueRange{
	OpNeg:     Neg,
	OpNot:     Not,
	OpAbs:     Abs,
	OpSquare:  Square,
	OpExp:     Exp,
	OpLog:     Log,
	OpSqrt:    Sqrt,
	OpToInt:   CastToInt,
	OpToFloat: CastToFloat,
	OpToBool:  CastToBool,
}

// binaryRules maps binary operators to their bound rules.
var binaryRules = map[OpKind]func(a, b ValueRange) ValueRange{
	OpAdd:      Add,
	OpSub:      Sub,
	OpMul:      Mul,
	OpTrueDiv:  TrueDiv,
	OpFloorDiv: FloorDiv,
	OpMod:      Mod,
	OpPow:      Pow,
	OpMin:      Minimum,
	OpMax:      Maximum,
	OpEq:       Eq,
	OpNe:       Ne,
	OpLt:       Lt,
	OpLe:       Le,
	OpGt:       Gt,
	OpGe:       Ge,
	OpAnd:      And,
	OpOr:       Or,
}
