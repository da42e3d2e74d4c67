package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"scriptc/script"
	"scriptc/testutil"
	"scriptc/wasm"
)

func compileLines(t testing.TB, cfg Config, lines ...script.Line) *wasm.Module {
	t.Helper()
	m, err := CompileModule(context.Background(), &script.Program{Lines: lines}, cfg)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	return m
}

func bodyString(t testing.TB, b wasm.Body) string {
	t.Helper()
	c, err := wasm.DecodeCode(b.Code)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	return c.String()
}

func TestCompileDeclaration(t *testing.T) {
	x := newVar("x", script.I32)
	prog := &script.Program{Lines: []script.Line{ln(0, script.Var, x, sym(script.OpAssign), num("5"))}}
	got, err := Compile(context.Background(), prog, Config{})
	if err != nil {
		testutil.FatalErr(t, err)
	}
	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
		0x02, 0x0f, 0x01, 0x03, 'e', 'n', 'v', 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, 0x01,
		0x03, 0x02, 0x01, 0x00,
		0x06, 0x07, 0x01, 0x7f, 0x01, 0x41, 0x80, 0x08, 0x0b,
		0x08, 0x01, 0x00,
		0x0a, 0x0a, 0x01, 0x08, 0x01, 0x01, 0x7f, 0x41, 0x05, 0x21, 0x00, 0x0b,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got  %x\nwant %x", got, want)
	}

	m, err := wasm.Decode(got)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if n := m.ImportedFuncs(); n != 0 {
		t.Errorf("got %d function imports, want 0", n)
	}
	if got := bodyString(t, m.Code[0]); got != "i32.const 5; set_local 0" {
		t.Errorf("entry = %q", got)
	}
}

func TestCompilePrintln(t *testing.T) {
	m := compileLines(t, Config{}, ln(0, call(script.Println, toks(str("hi")), toks(num("5")))...))

	var fields []string
	for _, imp := range m.Imports {
		fields = append(fields, imp.Module+"."+imp.Field)
	}
	testutil.ExpectEqual(t, fields, []string{"env.memory", "env.puts", "env.putc", "env.putnum"}, "imports")
	testutil.ExpectEqual(t, m.Types, []wasm.FuncType{
		{},
		{Params: []wasm.ValueType{wasm.I32, wasm.I32}},
		{Params: []wasm.ValueType{wasm.I32}},
	}, "types")
	testutil.ExpectEqual(t, []uint32{m.Imports[1].Type, m.Imports[2].Type, m.Imports[3].Type}, []uint32{1, 2, 2}, "import types")
	testutil.ExpectEqual(t, *m.Start, uint32(3), "start")
	testutil.ExpectEqual(t, m.Data, []wasm.DataSegment{{Offset: 1024, Init: []byte("hi")}}, "data")
	testutil.ExpectEqual(t, m.Globals[0].Init, int32(1026), "stack pointer")

	want := "i32.const 1024; i32.const 2; call 0; i32.const 32; call 1; i32.const 5; call 2; i32.const 10; call 1"
	if got := bodyString(t, m.Code[0]); got != want {
		t.Errorf("entry = %q\nwant    %q", got, want)
	}
}

func TestCompilePredefined(t *testing.T) {
	m := compileLines(t, Config{}, ln(0, call(script.PrintLine, toks(str("a")))...))

	if len(m.Imports) != 3 || m.Imports[1].Field != "puts" || m.Imports[2].Field != "putc" {
		t.Fatalf("imports = %+v", m.Imports)
	}
	testutil.ExpectEqual(t, *m.Start, uint32(2), "start")
	testutil.ExpectEqual(t, len(m.Code), 2, "bodies")
	if got := bodyString(t, m.Code[0]); got != "i32.const 1024; i32.const 1; call 3" {
		t.Errorf("entry = %q", got)
	}
	want, err := wasm.Code{
		wasm.Index(wasm.OP_GET_LOCAL, 0), wasm.Index(wasm.OP_GET_LOCAL, 1), wasm.Index(wasm.OP_CALL, 0),
		wasm.I32Const('\n'), wasm.Index(wasm.OP_CALL, 1),
	}.Encode(nil, nil)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	testutil.ExpectCodeEqual(t, m.Code[1].Code, want, "printLine body")
}

func TestCompileDefaultArguments(t *testing.T) {
	m := compileLines(t, Config{}, ln(0, call(script.PrintRepeat)...))
	if got := bodyString(t, m.Code[0]); got != "i32.const 1024; i32.const 1; i32.const 1; call 2" {
		t.Errorf("entry = %q", got)
	}
	testutil.ExpectEqual(t, m.Data[0].Init, []byte("-"), "default text")

	x := newVar("x", nil)
	got := lastLine(t, ln(0, append(toks(x, sym(script.OpAssign)), call(script.Input)...)...))
	if want := "f64.const 0; f64.const -Inf; f64.const +Inf; call System.input(f64, f64, f64); set_local 0"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	hint := script.ArgHint{Func: script.PrintRepeat, Index: 0}
	got = lastLine(t, ln(0, call(script.PrintRepeat, toks(hint), toks(num("3")))...))
	if want := "i32.const 1024; i32.const 1; i32.const 3; call System.printRepeat(string, i32)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompileStringConversion(t *testing.T) {
	x := newVar("x", script.I64)
	s := newVar("s", script.String)
	m := compileLines(t, Config{},
		ln(0, x, sym(script.OpAssign), num("42")),
		ln(0, s, sym(script.OpAssign), ref(x)),
	)
	testutil.ExpectEqual(t, m.Types[1], wasm.FuncType{
		Params:  []wasm.ValueType{wasm.I64},
		Results: []wasm.ValueType{wasm.I32, wasm.I32},
	}, "String.from signature")
	testutil.ExpectEqual(t, m.Functions, []uint32{0, 1}, "functions")
	testutil.ExpectEqual(t, m.Code[0].Locals, []wasm.LocalEntry{{Count: 1, Type: wasm.I64}, {Count: 2, Type: wasm.I32}}, "entry locals")
	testutil.ExpectEqual(t, m.Code[1].Locals, []wasm.LocalEntry{{Count: 3, Type: wasm.I32}}, "String.from locals")
	want := "i64.const 42; set_local 0; get_local 0; call 1; set_local 2; set_local 1"
	if got := bodyString(t, m.Code[0]); got != want {
		t.Errorf("entry = %q\nwant    %q", got, want)
	}
}

func TestCompileMacros(t *testing.T) {
	sqrt, ok := script.FunctionByKey("Math.sqrt(f64)")
	if !ok {
		t.Fatal("Math.sqrt(f64) missing from the catalog")
	}
	y := newVar("y", nil)
	m := compileLines(t, Config{}, ln(0, append(toks(y, sym(script.OpAssign)), call(sqrt, toks(num("2")))...)...))
	if got := bodyString(t, m.Code[0]); got != "f64.const 2; f64.sqrt; set_local 0" {
		t.Errorf("entry = %q", got)
	}
	if len(m.Imports) != 1 || len(m.Code) != 1 {
		t.Errorf("macro added functions: imports %d, bodies %d", len(m.Imports), len(m.Code))
	}
}

func TestCompileDrops(t *testing.T) {
	got := lastLine(t, ln(0, str("a")))
	if got != "i32.const 1024; i32.const 1; drop; drop" {
		t.Errorf("string statement = %q", got)
	}
	got = lastLine(t, ln(0, call(script.Input)...))
	if got != "f64.const 0; f64.const -Inf; f64.const +Inf; call System.input(f64, f64, f64); drop" {
		t.Errorf("call statement = %q", got)
	}
}

func TestCompileCallErrors(t *testing.T) {
	sqrt, _ := script.FunctionByKey("Math.sqrt(f64)")
	cases := []struct {
		name string
		want error
		line script.Line
	}{
		{"missing argument", ErrMissingArgument, ln(0, call(script.IPow, toks(num("2")))...)},
		{"too many arguments", ErrStructure, ln(0, call(sqrt, toks(num("1")), toks(num("2")))...)},
		{"unterminated", ErrStructure, ln(0, script.FuncRef{Func: sqrt}, sym(script.OpBeginArgs), num("1"))},
		{"no argument list", ErrStructure, ln(0, script.FuncRef{Func: sqrt}, num("1"))},
		{"print void", ErrUnsupported, ln(0, call(script.Println, call(script.Println))...)},
		{"empty print argument", ErrMissingArgument, ln(0, call(script.Print, toks(num("1")), toks())...)},
		{"string to number", ErrMissingCoercion, ln(0, call(sqrt, toks(str("4")))...)},
	}
	for _, c := range cases {
		testutil.ExpectError(t, c.want, c.name, func() error { return lowerErr(c.line) })
	}
}

func TestCompileConfig(t *testing.T) {
	cfg := Config{DataOffset: 4096, MemoryPages: 2}
	m := compileLines(t, cfg, ln(0, call(script.Print, toks(str("abc")))...))
	testutil.ExpectEqual(t, m.Imports[0].MinPages, uint32(2), "pages")
	testutil.ExpectEqual(t, m.Data[0].Offset, int32(4096), "data offset")
	testutil.ExpectEqual(t, m.Globals[0].Init, int32(4099), "stack pointer")
	if got := bodyString(t, m.Code[0]); got != "i32.const 4096; i32.const 3; call 0" {
		t.Errorf("entry = %q", got)
	}
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	testutil.ExpectError(t, context.Canceled, "cancelled compile", func() error {
		_, err := Compile(ctx, &script.Program{}, Config{})
		return err
	})
}

const loopProgram = `{"lines":[
	{"indent":0,"items":[{"kw":"var"},{"var":{"id":1,"name":"x","type":"i32","annotated":true}},{"sym":"="},{"num":"5"}]},
	{"indent":0,"items":[{"kw":"while"},{"ref":1},{"sym":"<"},{"num":"10"}]},
	{"indent":1,"items":[{"func":"System.println(...)"},{"sym":"⟨"},{"str":"x is"},{"sym":","},{"ref":1},{"sym":"⟩"}]},
	{"indent":1,"items":[{"ref":1},{"sym":"+="},{"sym":"neg"},{"num":"-1"}]},
	{"indent":1,"items":[{"kw":"if"},{"ref":1},{"sym":">"},{"num":"7"}]},
	{"indent":2,"items":[{"kw":"break"},{"loop":1}]},
	{"indent":0,"items":[{"func":"System.printRepeat(string, i32)"},{"sym":"⟨"},{"arg":{"func":"System.printRepeat(string, i32)","index":0}},{"sym":","},{"bool":true},{"sym":"⟩"}]}
]}`

func TestCompileJSONProgram(t *testing.T) {
	var prog script.Program
	if err := json.Unmarshal([]byte(loopProgram), &prog); err != nil {
		testutil.FatalErr(t, err)
	}
	a, err := Compile(context.Background(), &prog, Config{})
	if err != nil {
		testutil.FatalErr(t, err)
	}
	b, err := Compile(context.Background(), &prog, Config{})
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if !bytes.Equal(a, b) {
		t.Error("compiling the same program twice gave different modules")
	}

	m, err := wasm.Decode(a)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	// puts, putc, putnum, then the entry and printRepeat
	testutil.ExpectEqual(t, *m.Start, uint32(3), "start")
	testutil.ExpectEqual(t, m.Data[0].Init, []byte("x is-"), "data")
	entry := bodyString(t, m.Code[0])
	want := "i32.const 5; set_local 0; " +
		"block; loop; get_local 0; i32.const 10; i32.lt_s; i32.eqz; br_if 1; " +
		"i32.const 1024; i32.const 4; call 0; i32.const 32; call 1; get_local 0; call 2; i32.const 10; call 1; " +
		"get_local 0; i32.const 1; i32.add; set_local 0; " +
		"get_local 0; i32.const 7; i32.gt_s; if; br 2; end; " +
		"br 0; end; end; " +
		"i32.const 1028; i32.const 1; i32.const 1; call 4"
	if entry != want {
		t.Errorf("entry = %q\nwant    %q", entry, want)
	}
}
