package compiler

import (
	"testing"

	"scriptc/script"
	"scriptc/testutil"
	"scriptc/wasm"
)

var yes = script.BooleanLiteral{Value: true}

func whileTrue(indent int) script.Line { return ln(indent, script.While, yes) }

func TestWhile(t *testing.T) {
	i := newVar("i", nil)
	s := lower(t,
		ln(0, i, sym(script.OpAssign), num("0")),
		ln(0, script.While, ref(i), sym(script.OpLt), num("10")),
		ln(1, ref(i), sym(script.OpAddAssign), num("1")),
	)
	want := "i32.const 0; set_local 0; " +
		"block; loop; get_local 0; i32.const 10; i32.lt_s; i32.eqz; br_if 1; " +
		"get_local 0; i32.const 1; i32.add; set_local 0; " +
		"br 0; end; end"
	if got := s.code.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestDoWhile(t *testing.T) {
	i := newVar("i", nil)
	s := lower(t,
		ln(0, i, sym(script.OpAssign), num("0")),
		ln(0, script.DoWhile, ref(i), sym(script.OpLt), num("3")),
		ln(1, ref(i), sym(script.OpAddAssign), num("1")),
	)
	want := "i32.const 0; set_local 0; block; loop; " +
		"get_local 0; i32.const 1; i32.add; set_local 0; " +
		"get_local 0; i32.const 3; i32.lt_s; br_if 0; end; end"
	if got := s.code.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestFor(t *testing.T) {
	i := newVar("i", nil)
	s := lower(t, ln(0, script.For, i, script.In, num("0"), sym(script.OpRange), num("3")))
	want := "i32.const 0; i32.const 3; i32.const 1; set_local 2; set_local 1; set_local 0; " +
		"block; loop; get_local 0; get_local 1; i32.lt_s; i32.eqz; br_if 1; " +
		"get_local 0; get_local 2; i32.add; set_local 0; br 0; end; end"
	if got := s.code.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
	testutil.ExpectEqual(t, s.localTypes, []wasm.ValueType{wasm.I32, wasm.I32, wasm.I32}, "for locals")
}

func TestForStepAndType(t *testing.T) {
	i := newVar("i", script.I64)
	s := lower(t, ln(0, script.For, i, script.In, num("10"), sym(script.OpRangeInclusive), num("0"), script.Step, sym(script.OpNeg), num("2")))
	want := "i64.const 10; i64.const 0; i64.const -2; set_local 2; set_local 1; set_local 0; " +
		"block; loop; get_local 0; get_local 1; i64.le_s; i32.eqz; br_if 1; " +
		"get_local 0; get_local 2; i64.add; set_local 0; br 0; end; end"
	if got := s.code.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
	testutil.ExpectEqual(t, s.localTypes, []wasm.ValueType{wasm.I64, wasm.I64, wasm.I64}, "for locals")
}

func TestForExistingVariable(t *testing.T) {
	i := newVar("i", script.F64)
	s := lower(t,
		ln(0, i),
		ln(0, script.For, ref(i), script.In, num("0"), sym(script.OpRange), num("1"), script.Step, num("0.25")),
	)
	testutil.ExpectEqual(t, s.localTypes, []wasm.ValueType{wasm.F64, wasm.F64, wasm.F64}, "for locals")
	if n := s.code.Count(wasm.OP_F64_LT); n != 1 {
		t.Errorf("got %d f64.lt, want 1", n)
	}
}

func TestIfElse(t *testing.T) {
	x := newVar("x", nil)
	s := lower(t,
		ln(0, x, sym(script.OpAssign), num("1")),
		ln(0, script.If, ref(x), sym(script.OpEq), num("1")),
		ln(1, ref(x), sym(script.OpAssign), num("2")),
		ln(0, script.Else, script.If, ref(x), sym(script.OpEq), num("2")),
		ln(1, ref(x), sym(script.OpAssign), num("3")),
		ln(0, script.Else),
		ln(1, ref(x), sym(script.OpAssign), num("4")),
		ln(0, ref(x), sym(script.OpAssign), num("5")),
	)
	want := "i32.const 1; set_local 0; " +
		"get_local 0; i32.const 1; i32.eq; if; i32.const 2; set_local 0; " +
		"else; get_local 0; i32.const 2; i32.eq; if; i32.const 3; set_local 0; " +
		"else; i32.const 4; set_local 0; end; end; " +
		"i32.const 5; set_local 0"
	if got := s.code.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestBranchDepths(t *testing.T) {
	label := func(n int) script.Token { return script.LoopLabel{Depth: n} }
	i := newVar("i", nil)
	forLine := func(indent int) script.Line {
		return ln(indent, script.For, i, script.In, num("0"), sym(script.OpRange), num("3"))
	}
	cases := []struct {
		name  string
		lines []script.Line
		want  string
	}{
		{"break", []script.Line{whileTrue(0), ln(1, script.Break)}, "br 1"},
		{"break inside if", []script.Line{whileTrue(0), ln(1, script.If, yes), ln(2, script.Break)}, "br 2"},
		{"break 2", []script.Line{whileTrue(0), whileTrue(1), ln(2, script.Break, label(2))}, "br 3"},
		{"break 2 inside if", []script.Line{whileTrue(0), whileTrue(1), ln(2, script.If, yes), ln(3, script.Break, label(2))}, "br 4"},
		{"break 3", []script.Line{whileTrue(0), whileTrue(1), whileTrue(2), ln(3, script.Break, label(3))}, "br 5"},
		{"break from else if", []script.Line{whileTrue(0), ln(1, script.If, yes), ln(1, script.Else, script.If, yes), ln(2, script.Break)}, "br 3"},
		{"continue", []script.Line{whileTrue(0), ln(1, script.Continue)}, "br 0"},
		{"continue inside if", []script.Line{whileTrue(0), ln(1, script.If, yes), ln(2, script.Continue)}, "br 1"},
		{"continue 2", []script.Line{whileTrue(0), whileTrue(1), ln(2, script.Continue, label(2))}, "br 2"},
		{"continue 3", []script.Line{whileTrue(0), whileTrue(1), whileTrue(2), ln(3, script.Continue, label(3))}, "br 4"},
		{"continue for", []script.Line{forLine(0), ln(1, script.Continue)}, "get_local 0; get_local 2; i32.add; set_local 0; br 0"},
		{"continue for inside if", []script.Line{forLine(0), ln(1, script.If, yes), ln(2, script.Continue)}, "get_local 0; get_local 2; i32.add; set_local 0; br 1"},
		{"continue do while", []script.Line{ln(0, script.DoWhile, yes), ln(1, script.Continue)}, "i32.const 1; br_if 0; br 1"},
		{"continue do while inside if", []script.Line{ln(0, script.DoWhile, yes), ln(1, script.If, yes), ln(2, script.Continue)}, "i32.const 1; br_if 1; br 2"},
	}
	for _, c := range cases {
		if got := lastLine(t, c.lines...); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestBlocksBalanced(t *testing.T) {
	programs := [][]script.Line{
		{whileTrue(0), whileTrue(1), ln(2, script.If, yes), ln(3, script.Break, script.LoopLabel{Depth: 2})},
		{ln(0, script.If, yes), ln(0, script.Else, script.If, yes), ln(0, script.Else, script.If, yes), ln(0, script.Else)},
		{ln(0, script.DoWhile, yes), ln(1, script.If, yes), ln(2, script.Continue), ln(0, script.If, yes)},
		{whileTrue(0), whileTrue(1), ln(0, script.If, yes), whileTrue(1)},
	}
	for i, lines := range programs {
		s := lower(t, lines...)
		opened := s.code.Count(wasm.OP_BLOCK) + s.code.Count(wasm.OP_LOOP) + s.code.Count(wasm.OP_IF)
		if ends := s.code.Count(wasm.OP_END); ends != opened {
			t.Errorf("program %d: %d blocks opened, %d ended: %s", i, opened, ends, s.code)
		}
		if len(s.scopes) != 0 {
			t.Errorf("program %d: %d scopes left open", i, len(s.scopes))
		}
	}
}

func TestStructureErrors(t *testing.T) {
	cases := []struct {
		name  string
		want  error
		lines []script.Line
	}{
		{"indent without block", ErrStructure, []script.Line{ln(1, num("1"))}},
		{"indent skips a level", ErrStructure, []script.Line{whileTrue(0), ln(2, num("1"))}},
		{"else without if", ErrStructure, []script.Line{ln(0, script.Else)}},
		{"else after while", ErrStructure, []script.Line{whileTrue(0), ln(0, script.Else)}},
		{"second else", ErrStructure, []script.Line{ln(0, script.If, yes), ln(0, script.Else), ln(0, script.Else)}},
		{"break outside loop", ErrStructure, []script.Line{ln(0, script.Break)}},
		{"break too deep", ErrStructure, []script.Line{whileTrue(0), ln(1, script.Break, script.LoopLabel{Depth: 2})}},
		{"break zero", ErrStructure, []script.Line{whileTrue(0), ln(1, script.Break, script.LoopLabel{Depth: 0})}},
		{"continue from if", ErrStructure, []script.Line{ln(0, script.If, yes), ln(1, script.Continue)}},
		{"for without range", ErrStructure, []script.Line{ln(0, script.For, newVar("i", nil), script.In, num("3"))}},
		{"for without in", ErrStructure, []script.Line{ln(0, script.For, newVar("i", nil), num("0"), sym(script.OpRange), num("3"))}},
		{"step without value", ErrStructure, []script.Line{ln(0, script.For, newVar("i", nil), script.In, num("0"), sym(script.OpRange), num("3"), script.Step)}},
		{"if without condition", ErrStructure, []script.Line{ln(0, script.If)}},
		{"func", ErrUnsupported, []script.Line{ln(0, script.Func)}},
		{"return", ErrUnsupported, []script.Line{ln(0, script.Return, num("1"))}},
		{"condition not bool", ErrMissingCoercion, []script.Line{ln(0, script.If, str("yes"))}},
		{"range type mismatch", ErrMissingCoercion, []script.Line{ln(0, script.For, newVar("i", script.String), script.In, num("0"), sym(script.OpRange), num("3"))}},
	}
	for _, c := range cases {
		testutil.ExpectError(t, c.want, c.name, func() error { return lowerErr(c.lines...) })
	}
}

func TestBlockScope(t *testing.T) {
	x := newVar("x", nil)
	assignX := func(indent int, v string) script.Line { return ln(indent, x, sym(script.OpAssign), num(v)) }
	useX := func(indent int) script.Line { return ln(indent, ref(x), sym(script.OpAddAssign), num("1")) }

	cases := []struct {
		name  string
		lines []script.Line
	}{
		{"after if", []script.Line{ln(0, script.If, yes), assignX(1, "1"), useX(0)}},
		{"in else", []script.Line{ln(0, script.If, yes), assignX(1, "1"), ln(0, script.Else), useX(1)}},
		{"after while", []script.Line{whileTrue(0), assignX(1, "1"), ln(1, script.Break), useX(0)}},
		{"in sibling block", []script.Line{ln(0, script.If, yes), assignX(1, "1"), ln(0, script.If, yes), useX(1)}},
		{"after nested blocks", []script.Line{whileTrue(0), ln(1, script.If, yes), assignX(2, "1"), useX(1)}},
	}
	for _, c := range cases {
		testutil.ExpectError(t, ErrUnbound, c.name, func() error { return lowerErr(c.lines...) })
	}

	// deeper lines and lines of the same block still see x
	lower(t, ln(0, script.If, yes), assignX(1, "1"), whileTrue(1), useX(2), useX(1))

	// a for variable belongs to the line that opens the loop
	i := newVar("i", nil)
	lower(t,
		ln(0, script.For, i, script.In, num("0"), sym(script.OpRange), num("3")),
		ln(0, ref(i), sym(script.OpAddAssign), num("1")),
	)
}
