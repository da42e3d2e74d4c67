package compiler

import (
	"scriptc/errors"
	"scriptc/script"
	"scriptc/wasm"
)

// exprItem is an operator or an operand. Exactly one is set.
type exprItem struct {
	op  *script.Operator
	val operand
}

// sentinel terminates every expression. Its precedence is below
// that of any operator, so it reduces everything left pending.
var sentinel = &script.Operator{Name: "end of expression", Precedence: -1}

// compileExpr lowers an expression and converts its result to
// expected. A nil or any expected type leaves the result as is.
func compileExpr(items []exprItem, expected *script.Type) (*script.Type, wasm.Code, error) {
	v, err := evaluate(items, expected)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := v.(*rangeOperand); ok {
		return nil, nil, errors.WithDetail(ErrUnsupported, "a range can only be used by for")
	}
	return coerce(v, expected)
}

// evaluate runs the two-stack precedence evaluator over items and
// returns the single resulting operand. Literal arithmetic is
// folded. expected only decides the type of range bounds.
func evaluate(items []exprItem, expected *script.Type) (operand, error) {
	var (
		ops  []*script.Operator
		vals []operand
	)

	pop := func() (operand, error) {
		if len(vals) == 0 {
			return nil, errors.WithDetail(ErrStructure, "operator is missing an operand")
		}
		v := vals[len(vals)-1]
		vals = vals[:len(vals)-1]
		return v, nil
	}

	apply := func(op *script.Operator) error {
		right, err := pop()
		if err != nil {
			return err
		}
		if op.Unary {
			v, err := applyUnary(op, right)
			if err != nil {
				return err
			}
			vals = append(vals, v)
			return nil
		}
		left, err := pop()
		if err != nil {
			return err
		}
		v, err := applyBinary(op, left, right, expected)
		if err != nil {
			return err
		}
		vals = append(vals, v)
		return nil
	}

	reduce := func(prec int) error {
		for len(ops) > 0 {
			top := ops[len(ops)-1]
			if top.Opener || top.Precedence < prec {
				return nil
			}
			ops = ops[:len(ops)-1]
			if err := apply(top); err != nil {
				return err
			}
		}
		return nil
	}

	for _, it := range append(items[:len(items):len(items)], exprItem{op: sentinel}) {
		if it.val != nil {
			vals = append(vals, it.val)
			continue
		}
		op := it.op
		switch {
		case op.Assignment:
			return nil, errors.WithDetailf(ErrStructure, "%s inside an expression", op)
		case op.ID == script.OpBeginArgs || op.ID == script.OpArgSep || op.ID == script.OpEndArgs:
			return nil, errors.WithDetailf(ErrStructure, "%s outside an argument list", op)
		case op.Opener || op.Unary:
			ops = append(ops, op)
		case op.Closer:
			if err := reduce(sentinel.Precedence); err != nil {
				return nil, err
			}
			if len(ops) == 0 {
				return nil, errors.WithDetailf(ErrStructure, "unmatched %s", op)
			}
			ops = ops[:len(ops)-1]
		default:
			if err := reduce(op.Precedence); err != nil {
				return nil, err
			}
			if op != sentinel {
				ops = append(ops, op)
			}
		}
	}

	if len(ops) > 0 {
		return nil, errors.WithDetailf(ErrStructure, "unmatched %s", ops[len(ops)-1])
	}
	switch len(vals) {
	case 0:
		return nil, errors.WithDetail(ErrStructure, "empty expression")
	case 1:
		return vals[0], nil
	}
	return nil, errors.WithDetail(ErrStructure, "operands without an operator between them")
}

func applyUnary(op *script.Operator, v operand) (operand, error) {
	if lit, ok := isLiteral(v); ok && op.Foldable {
		return foldUnary(op, lit)
	}
	if _, ok := v.(*rangeOperand); ok {
		return nil, errors.WithDetail(ErrUnsupported, "a range cannot be an operand")
	}
	t := v.typ(nil)
	if lit, ok := isLiteral(v); ok {
		if err := lit.fits(t); err != nil {
			return nil, err
		}
	}
	impl, ok := op.Impl(t)
	if !ok {
		return nil, errors.WithDetailf(ErrUnsupported, "operator %s is not defined for %s", op, t)
	}
	code := append(v.code(t), impl.Code...)
	return &computed{t: impl.Result, c: code}, nil
}

func applyBinary(op *script.Operator, left, right operand, expected *script.Type) (operand, error) {
	l, lok := isLiteral(left)
	r, rok := isLiteral(right)
	if lok && rok && op.Foldable {
		return fold(op, l, r)
	}
	for _, v := range []operand{left, right} {
		if _, ok := v.(*rangeOperand); ok {
			return nil, errors.WithDetail(ErrUnsupported, "a range cannot be an operand")
		}
	}

	var t *script.Type
	if op.Range && expected.IsNumeric() {
		t = expected
	} else {
		var err error
		t, err = promote(left, right)
		if err != nil {
			return nil, errors.Wrapf(err, "operator %s", op)
		}
	}
	impl, ok := op.Impl(t)
	if !ok {
		return nil, errors.WithDetailf(ErrUnsupported, "operator %s is not defined for %s", op, t)
	}
	_, lc, err := coerce(left, t)
	if err != nil {
		return nil, err
	}
	_, rc, err := coerce(right, t)
	if err != nil {
		return nil, err
	}
	code := append(lc, rc...)
	if op.Range {
		return &rangeOperand{t: t, bounds: code, cmp: impl.Code[0], inc: impl.Code[1]}, nil
	}
	return &computed{t: impl.Result, c: append(code, impl.Code...)}, nil
}

// promote picks the operand type of a binary operator. A literal
// takes the type of the other operand; otherwise the operand that
// the other converts to losslessly wins.
func promote(left, right operand) (*script.Type, error) {
	l, lok := isLiteral(left)
	r, rok := isLiteral(right)
	switch {
	case lok && rok:
		if l.isFloat || r.isFloat {
			return script.F32, nil
		}
		return script.I32, nil
	case lok:
		return right.typ(nil), nil
	case rok:
		return left.typ(nil), nil
	}
	lt, rt := left.typ(nil), right.typ(nil)
	if lt == rt {
		return lt, nil
	}
	if c, ok := script.CastFrom(lt, rt); ok && c.Lossless {
		return lt, nil
	}
	if c, ok := script.CastFrom(rt, lt); ok && c.Lossless {
		return rt, nil
	}
	return nil, errors.WithDetailf(ErrMissingCoercion, "no common type for %s and %s", lt, rt)
}
