package compiler

import (
	"scriptc/script"
	"scriptc/wasm"
)

// expression lowers a token run to code producing a value of type
// expected.
func (s *state) expression(toks []script.Token, expected *script.Type) (*script.Type, wasm.Code, error) {
	items, err := s.items(toks)
	if err != nil {
		return nil, nil, err
	}
	t, code, err := compileExpr(items, expected)
	if err != nil {
		return nil, nil, s.lineErr(err)
	}
	return t, code, nil
}

// items turns tokens into evaluator items. Each call becomes a
// single operand holding its lowered arguments and the call.
func (s *state) items(toks []script.Token) ([]exprItem, error) {
	var items []exprItem
	for i := 0; i < len(toks); i++ {
		switch tok := toks[i].(type) {
		case *script.VarDef:
			return nil, s.errorf(ErrStructure, "%s cannot be declared inside an expression", tok.Name)
		case script.VarRef:
			l, err := s.lookup(tok)
			if err != nil {
				return nil, err
			}
			items = append(items, exprItem{val: l})
		case script.FuncRef:
			end, args, err := s.splitArgs(toks, i+1)
			if err != nil {
				return nil, err
			}
			v, err := s.call(tok.Func, args)
			if err != nil {
				return nil, err
			}
			items = append(items, exprItem{val: v})
			i = end
		case script.ArgHint:
			v, err := s.argDefault(tok.Func, tok.Index)
			if err != nil {
				return nil, err
			}
			items = append(items, exprItem{val: v})
		case script.Symbol:
			items = append(items, exprItem{op: tok.Op})
		case script.Keyword:
			return nil, s.errorf(ErrStructure, "unexpected %s", tok)
		case script.NumericLiteral:
			n, err := parseNumber(tok.Text)
			if err != nil {
				return nil, s.lineErr(err)
			}
			items = append(items, exprItem{val: n})
		case script.BooleanLiteral:
			var b int32
			if tok.Value {
				b = 1
			}
			items = append(items, exprItem{val: &computed{t: script.Bool, c: wasm.Code{wasm.I32Const(b)}}})
		case script.StringLiteral:
			items = append(items, exprItem{val: s.stringLiteral(tok.Text)})
		case script.LoopLabel:
			return nil, s.errorf(ErrStructure, "loop label outside break or continue")
		default:
			return nil, s.errorf(ErrUnsupported, "unknown token %T", tok)
		}
	}
	return items, nil
}

// splitArgs parses the argument list starting at toks[start],
// which must open it. It returns the index of the closing token
// and the tokens of each argument.
func (s *state) splitArgs(toks []script.Token, start int) (int, [][]script.Token, error) {
	if start >= len(toks) || !isOp(toks[start], script.OpBeginArgs) {
		return 0, nil, s.errorf(ErrStructure, "function call without an argument list")
	}
	var (
		args  [][]script.Token
		depth = 0
		from  = start + 1
	)
	for i := start + 1; i < len(toks); i++ {
		switch {
		case isOp(toks[i], script.OpBeginArgs):
			depth++
		case isOp(toks[i], script.OpEndArgs) && depth > 0:
			depth--
		case isOp(toks[i], script.OpArgSep) && depth == 0:
			args = append(args, toks[from:i])
			from = i + 1
		case isOp(toks[i], script.OpEndArgs):
			if i > start+1 || len(args) > 0 {
				args = append(args, toks[from:i])
			}
			return i, args, nil
		}
	}
	return 0, nil, s.errorf(ErrStructure, "unterminated argument list")
}

func isOp(tok script.Token, id script.OpID) bool {
	sym, ok := tok.(script.Symbol)
	return ok && sym.Op.ID == id
}

// call lowers a call with the given argument tokens. Each argument
// is compiled against its parameter's type.
func (s *state) call(f *script.Function, args [][]script.Token) (operand, error) {
	if f.Variadic {
		return s.print(f, args)
	}
	if len(args) > len(f.Params) {
		return nil, s.errorf(ErrStructure, "too many arguments to %s", f.Key())
	}
	var code wasm.Code
	for i, p := range f.Params {
		if i < len(args) && len(args[i]) > 0 {
			_, argCode, err := s.expression(args[i], p.Type)
			if err != nil {
				return nil, err
			}
			code = append(code, argCode...)
			continue
		}
		v, err := s.argDefault(f, i)
		if err != nil {
			return nil, err
		}
		_, argCode, err := coerce(v, p.Type)
		if err != nil {
			return nil, s.lineErr(err)
		}
		code = append(code, argCode...)
	}
	if f.Kind == script.Macro {
		code = append(code, f.Inline...)
	} else {
		code = append(code, wasm.Call(f))
	}
	return &computed{t: f.Result, c: code}, nil
}

// print lowers print and println: each argument goes to the host
// function for its type, separated by spaces.
func (s *state) print(f *script.Function, args [][]script.Token) (operand, error) {
	var code wasm.Code
	for i, arg := range args {
		if i > 0 {
			code = append(code, wasm.I32Const(' '), wasm.Call(script.Putc))
		}
		if len(arg) == 0 {
			return nil, s.errorf(ErrMissingArgument, "empty argument %d to %s", i+1, f.Key())
		}
		t, argCode, err := s.expression(arg, script.Any)
		if err != nil {
			return nil, err
		}
		put, ok := script.PrintFunc(t)
		if !ok {
			return nil, s.errorf(ErrUnsupported, "cannot print a value of type %s", t)
		}
		code = append(code, argCode...)
		code = append(code, wasm.Call(put))
	}
	if f.Newline {
		code = append(code, wasm.I32Const('\n'), wasm.Call(script.Putc))
	}
	return &computed{t: script.Void, c: code}, nil
}

// argDefault returns the default value of a parameter as an
// operand. Strings are placed in the data section.
func (s *state) argDefault(f *script.Function, index int) (operand, error) {
	if index < 0 || index >= len(f.Params) {
		return nil, s.errorf(ErrMissingArgument, "%s has no parameter %d", f.Key(), index)
	}
	p := f.Params[index]
	if !p.HasDefault {
		return nil, s.errorf(ErrMissingArgument, "%s needs a value for %s", f.Key(), p.Name)
	}
	if p.Type == script.String || p.Type == script.Any {
		return s.stringLiteral(p.Default), nil
	}
	n, err := parseNumber(p.Default)
	if err != nil {
		return nil, s.lineErr(err)
	}
	return n, nil
}
