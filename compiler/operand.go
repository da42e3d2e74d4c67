package compiler

import (
	"math"
	"strconv"
	"strings"

	"scriptc/errors"
	"scriptc/math/checked"
	"scriptc/script"
	"scriptc/wasm"
)

// operand is a value on the evaluator's operand stack.
type operand interface {
	// typ is the type of the operand where expected is the type
	// asked for by context. Only numeric literals adapt to it.
	typ(expected *script.Type) *script.Type
	// code pushes the operand as a value of type t, where t is the
	// result of typ.
	code(t *script.Type) wasm.Code
}

type numericLiteral struct {
	isFloat bool
	i       int64
	f       float64
}

func parseNumber(text string) (*numericLiteral, error) {
	lower := strings.ToLower(text)
	digits := strings.TrimLeft(lower, "+-")
	if !strings.HasPrefix(digits, "0x") && (strings.ContainsAny(digits, ".e") || strings.HasPrefix(digits, "inf") || digits == "nan") {
		f, err := strconv.ParseFloat(lower, 64)
		if err != nil {
			return nil, errors.WithDetailf(ErrConstantFold, "bad number %q", text)
		}
		return &numericLiteral{isFloat: true, f: f}, nil
	}
	i, err := strconv.ParseInt(lower, 0, 64)
	if err != nil {
		// literals between MaxInt64 and MaxUint64 keep their bits
		u, uerr := strconv.ParseUint(lower, 0, 64)
		if uerr != nil {
			return nil, errors.WithDetailf(ErrConstantFold, "bad number %q", text)
		}
		i = int64(u)
	}
	return &numericLiteral{i: i}, nil
}

func (n *numericLiteral) asFloat() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n *numericLiteral) asInt() int64 {
	if n.isFloat {
		return int64(n.f)
	}
	return n.i
}

func (n *numericLiteral) typ(expected *script.Type) *script.Type {
	if expected.IsNumeric() {
		return expected
	}
	if n.isFloat {
		return script.F32
	}
	return script.I32
}

func (n *numericLiteral) code(t *script.Type) wasm.Code {
	switch t {
	case script.I64, script.U64:
		return wasm.Code{wasm.I64Const(n.asInt())}
	case script.F32:
		return wasm.Code{wasm.F32Const(float32(n.asFloat()))}
	case script.F64:
		return wasm.Code{wasm.F64Const(n.asFloat())}
	}
	return wasm.Code{wasm.I32Const(int32(n.asInt()))}
}

// fits reports whether n can be stored in a 32-bit type t without
// wrapping. Wider types hold every folded constant.
func (n *numericLiteral) fits(t *script.Type) error {
	var lo, hi int64
	switch t {
	case script.I32:
		lo, hi = math.MinInt32, math.MaxInt32
	case script.U32:
		lo, hi = 0, math.MaxUint32
	default:
		return nil
	}
	if n.isFloat {
		if n.f >= float64(lo) && n.f <= float64(hi) {
			return nil
		}
		return errors.WithDetailf(ErrConstantFold, "%g overflows %s", n.f, t)
	}
	if n.i >= lo && n.i <= hi {
		return nil
	}
	return errors.WithDetailf(ErrConstantFold, "%d overflows %s", n.i, t)
}

// stringLiteral is a string stored in the data section.
type stringLiteral struct {
	addr, length int32
}

func (s *stringLiteral) typ(*script.Type) *script.Type { return script.String }

func (s *stringLiteral) code(*script.Type) wasm.Code {
	return wasm.Code{wasm.I32Const(s.addr), wasm.I32Const(s.length)}
}

// localRef reads a variable. Strings occupy two consecutive
// locals holding the address and the length.
type localRef struct {
	index uint32
	t     *script.Type
}

func (l *localRef) typ(*script.Type) *script.Type { return l.t }

func (l *localRef) code(*script.Type) wasm.Code {
	var c wasm.Code
	for i := range l.t.Repr {
		c = append(c, wasm.Index(wasm.OP_GET_LOCAL, l.index+uint32(i)))
	}
	return c
}

// computed is any value already lowered to code: an operator
// result, a call result or a boolean literal.
type computed struct {
	t *script.Type
	c wasm.Code
}

func (v *computed) typ(*script.Type) *script.Type { return v.t }
func (v *computed) code(*script.Type) wasm.Code   { return v.c }

// rangeOperand is the result of a range operator. Its code pushes
// the start and end bounds; cmp and inc are the loop test and
// increment for the bound type.
type rangeOperand struct {
	t        *script.Type
	bounds   wasm.Code
	cmp, inc wasm.Instr
}

func (r *rangeOperand) typ(*script.Type) *script.Type { return r.t }
func (r *rangeOperand) code(*script.Type) wasm.Code   { return r.bounds }

// coerce pushes o as a value of type t, converting if needed. A
// nil t or any accepts the operand's own type.
func coerce(o operand, t *script.Type) (*script.Type, wasm.Code, error) {
	ot := o.typ(t)
	if lit, ok := isLiteral(o); ok {
		if err := lit.fits(ot); err != nil {
			return nil, nil, err
		}
	}
	code := o.code(ot)
	if t == nil || t == script.Any || ot == t {
		return ot, code, nil
	}
	cast, ok := script.CastFrom(t, ot)
	if !ok {
		return nil, nil, errors.WithDetailf(ErrMissingCoercion, "cannot convert %s to %s", ot, t)
	}
	return t, append(code, cast.Code...), nil
}

func isLiteral(o operand) (*numericLiteral, bool) {
	n, ok := o.(*numericLiteral)
	return n, ok
}

// fold evaluates a foldable binary operator on two literals.
// Integer operands produce an integer unless either is a float.
func fold(op *script.Operator, a, b *numericLiteral) (*numericLiteral, error) {
	if a.isFloat || b.isFloat {
		x, y := a.asFloat(), b.asFloat()
		var r float64
		switch op.ID {
		case script.OpAdd:
			r = x + y
		case script.OpSub:
			r = x - y
		case script.OpMul:
			r = x * y
		case script.OpDiv:
			if y == 0 {
				return nil, errors.WithDetail(ErrConstantFold, "division by zero")
			}
			r = x / y
		default:
			return nil, errors.WithDetailf(ErrConstantFold, "%s needs integer operands", op)
		}
		return &numericLiteral{isFloat: true, f: r}, nil
	}

	x, y := a.i, b.i
	var (
		r   int64
		err error
	)
	switch op.ID {
	case script.OpAdd:
		r, err = checked.Add(x, y)
	case script.OpSub:
		r, err = checked.Sub(x, y)
	case script.OpMul:
		r, err = checked.Mul(x, y)
	case script.OpDiv:
		r, err = checked.Div(x, y)
	case script.OpRem:
		r, err = checked.Rem(x, y)
	case script.OpOr:
		r = x | y
	case script.OpXor:
		r = x ^ y
	case script.OpAnd:
		r = x & y
	case script.OpShl:
		r, err = checked.Shl(x, y)
	case script.OpShr:
		r, err = checked.Shr(x, y)
	default:
		return nil, errors.WithDetailf(ErrConstantFold, "%s cannot be folded", op)
	}
	if err != nil {
		return nil, errors.WithDetailf(ErrConstantFold, "%d %s %d: %s", x, op, y, err)
	}
	return &numericLiteral{i: r}, nil
}

func foldUnary(op *script.Operator, a *numericLiteral) (*numericLiteral, error) {
	switch op.ID {
	case script.OpNeg:
		if a.isFloat {
			return &numericLiteral{isFloat: true, f: -a.f}, nil
		}
		n, err := checked.Neg(a.i)
		if err != nil {
			return nil, errors.WithDetailf(ErrConstantFold, "-(%d): %s", a.i, err)
		}
		return &numericLiteral{i: n}, nil
	case script.OpNot:
		if a.isFloat {
			return nil, errors.WithDetail(ErrConstantFold, "! needs an integer operand")
		}
		return &numericLiteral{i: ^a.i}, nil
	}
	return nil, errors.WithDetailf(ErrConstantFold, "%s cannot be folded", op)
}
