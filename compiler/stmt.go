package compiler

import (
	"scriptc/script"
	"scriptc/wasm"
)

// statement lowers a line that is not structural: a declaration,
// an assignment or an expression evaluated for its effect.
func (s *state) statement(toks []script.Token) error {
	if len(toks) >= 2 {
		if sym, ok := toks[1].(script.Symbol); ok && sym.Op.Assignment {
			return s.assign(toks[0], sym.Op, toks[2:])
		}
	}
	if def, ok := toks[0].(*script.VarDef); ok && len(toks) == 1 {
		if def.Type == nil {
			return s.errorf(ErrStructure, "%s needs a type or an initial value", def.Name)
		}
		_, err := s.declare(def, def.Type)
		return err
	}

	t, code, err := s.expression(toks, nil)
	if err != nil {
		return err
	}
	s.emit(code...)
	reprs, err := script.Representations(t)
	if err != nil {
		return s.lineErr(err)
	}
	for range reprs {
		s.emit(wasm.Simple(wasm.OP_DROP))
	}
	return nil
}

// assign lowers "target op value". A definition takes the
// initializer's type unless it is annotated, in which case the
// initializer is converted to the annotated type.
func (s *state) assign(target script.Token, op *script.Operator, value []script.Token) error {
	if len(value) == 0 {
		return s.errorf(ErrStructure, "%s without a value", op)
	}

	switch t := target.(type) {
	case *script.VarDef:
		if op.Arith != nil {
			return s.errorf(ErrStructure, "%s applied to the new variable %s", op, t.Name)
		}
		typ, code, err := s.expression(value, t.Type)
		if err != nil {
			return err
		}
		if typ == script.Void {
			return s.errorf(ErrUnsupported, "%s cannot hold a value of type void", t.Name)
		}
		l, err := s.declare(t, typ)
		if err != nil {
			return err
		}
		s.emit(code...)
		s.store(l)
		return nil

	case script.VarRef:
		l, err := s.lookup(t)
		if err != nil {
			return err
		}
		_, code, err := s.expression(value, l.t)
		if err != nil {
			return err
		}
		if op.Arith != nil {
			impl, ok := op.Arith.Impl(l.t)
			if !ok {
				return s.errorf(ErrUnsupported, "operator %s is not defined for %s", op, l.t)
			}
			s.emit(l.code(l.t)...)
			s.emit(code...)
			s.emit(impl.Code...)
		} else {
			s.emit(code...)
		}
		s.store(l)
		return nil
	}
	return s.errorf(ErrStructure, "%s needs a variable on its left", op)
}
