package interval

import "github.com/pkg/errors"

// BoundExpr computes a sound range for a symbolic expression given ranges
// for (some of) its symbols. Unbound symbols fall back to their declared
// assumption: positive symbols to (1, +inf), non-negative ones to
// (0, +inf), booleans to (false, true), anything else to (-inf, +inf).
// The expression itself is never evaluated.
func BoundExpr(e Expr, ranges map[Symbol]ValueRange) (ValueRange, error) {
	switch node := e.(type) {
	case Symbol:
		if r, ok := ranges[node]; ok {
			return r, nil
		}
		return defaultRange(node), nil

	case Const:
		return Singleton(node.Value), nil

	case Unary:
		x, err := BoundExpr(node.X, ranges)
		if err != nil {
			return ValueRange{}, err
		}
		rule, ok := unaryRules[node.Op]
		if !ok {
			return ValueRange{}, errors.Errorf("interval: %s is not a unary operator", node.Op)
		}
		return rule(x), nil

	case Binary:
		x, err := BoundExpr(node.X, ranges)
		if err != nil {
			return ValueRange{}, err
		}
		y, err := BoundExpr(node.Y, ranges)
		if err != nil {
			return ValueRange{}, err
		}
		rule, ok := binaryRules[node.Op]
		if !ok {
			return ValueRange{}, errors.Errorf("interval: %s is not a binary operator", node.Op)
		}
		return rule(x, y), nil

	case Select:
		cond, err := BoundExpr(node.Cond, ranges)
		if err != nil {
			return ValueRange{}, err
		}
		x, err := BoundExpr(node.X, ranges)
		if err != nil {
			return ValueRange{}, err
		}
		y, err := BoundExpr(node.Y, ranges)
		if err != nil {
			return ValueRange{}, err
		}
		r, err := Where(cond, x, y)
		if err != nil {
			return ValueRange{}, errors.Wrap(err, "interval: select")
		}
		return r, nil

	case PiecewiseExpr:
		branches := make([]Branch, 0, len(node.Cases))
		for _, c := range node.Cases {
			value, err := BoundExpr(c.Value, ranges)
			if err != nil {
				return ValueRange{}, err
			}
			cond, err := BoundExpr(c.Cond, ranges)
			if err != nil {
				return ValueRange{}, err
			}
			branches = append(branches, Branch{Value: value, Cond: cond})
		}
		r, err := Piecewise(branches)
		if err != nil {
			return ValueRange{}, errors.Wrap(err, "interval: piecewise")
		}
		return r, nil

	default:
		return ValueRange{}, errors.Errorf("interval: unsupported expression node %T", e)
	}
}

// defaultRange derives a symbol's range from its declared assumption.
func defaultRange(s Symbol) ValueRange {
	if s.Kind == SymBool {
		return UnknownBool()
	}
	switch s.Assume {
	case AssumePositive:
		return ValueRange{Lower: NewInt(1), Upper: PosInf(KindInt)}
	case AssumeNonNegative:
		return ValueRange{Lower: NewInt(0), Upper: PosInf(KindInt)}
	default:
		return Unknown()
	}
}
