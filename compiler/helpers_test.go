package compiler

import (
	"context"
	"testing"

	"scriptc/script"
	"scriptc/testutil"
)

func ln(indent int, toks ...script.Token) script.Line {
	return script.Line{Indent: indent, Tokens: toks}
}

func sym(id script.OpID) script.Token { return script.Symbol{Op: script.Op(id)} }

func num(text string) script.Token { return script.NumericLiteral{Text: text} }

func str(text string) script.Token { return script.StringLiteral{Text: text} }

func ref(def *script.VarDef) script.Token { return script.VarRef{Def: def} }

func call(f *script.Function, args ...[]script.Token) []script.Token {
	toks := []script.Token{script.FuncRef{Func: f}, sym(script.OpBeginArgs)}
	for i, arg := range args {
		if i > 0 {
			toks = append(toks, sym(script.OpArgSep))
		}
		toks = append(toks, arg...)
	}
	return append(toks, sym(script.OpEndArgs))
}

func toks(t ...script.Token) []script.Token { return t }

var nextVarID = 0

func newVar(name string, t *script.Type) *script.VarDef {
	nextVarID++
	return &script.VarDef{ID: nextVarID, Name: name, Type: t, Annotated: t != nil}
}

// lower compiles lines into a fresh state.
func lower(t testing.TB, lines ...script.Line) *state {
	t.Helper()
	s := newState(DefaultConfig)
	if err := s.program(context.Background(), lines); err != nil {
		testutil.FatalErr(t, err)
	}
	return s
}

// lowerErr compiles lines and returns the error, if any.
func lowerErr(lines ...script.Line) error {
	s := newState(DefaultConfig)
	return s.program(context.Background(), lines)
}

// lastLine returns the code emitted by the final line, before the
// end of the program closes any blocks.
func lastLine(t testing.TB, lines ...script.Line) string {
	t.Helper()
	s := newState(DefaultConfig)
	for row, line := range lines {
		s.row = row
		mark := len(s.code)
		if err := s.line(line); err != nil {
			testutil.FatalErr(t, err)
		}
		if row == len(lines)-1 {
			return s.code[mark:].String()
		}
	}
	return ""
}
