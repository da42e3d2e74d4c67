package wasm

import (
	"bytes"
	"encoding/hex"
	"math"
	"strings"
	"testing"

	"scriptc/errors"
)

type sym string

func (s sym) SymbolName() string { return string(s) }

func TestCodeEncode(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{Code{I32Const(5), Index(OP_SET_LOCAL, 0)}, "41052100"},
		{Code{I32Const(-1)}, "417f"},
		{Code{I32Const(64)}, "41c000"},
		{Code{I64Const(math.MinInt64)}, "42808080808080808080" + "7f"},
		{Code{Block(OP_BLOCK, BlockVoid), Block(OP_LOOP, BlockVoid), Index(OP_BR_IF, 1), Simple(OP_END), Simple(OP_END)}, "024003400d010b0b"},
		{Code{F32Const(1)}, "430000803f"},
		{Code{F64Const(0.5)}, "44000000000000e03f"},
		{Code{MemArg(OP_I32_STORE8, 0, 21)}, "3a0015"},
	}
	for _, c := range cases {
		got, err := c.code.Encode(nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if hex.EncodeToString(got) != c.want {
			t.Errorf("%s: got %x, want %s", c.code, got, c.want)
		}
	}
}

func TestCodeEncodeCalls(t *testing.T) {
	code := Code{I32Const(7), Call(sym("putnum")), Call(sym("putc"))}
	idx := map[string]uint32{"putnum": 2, "putc": 200}
	got, err := code.Encode([]byte{0xff}, func(s Symbol) (uint32, error) {
		return idx[s.SymbolName()], nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xff, 0x41, 0x07, 0x10, 0x02, 0x10, 0xc8, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}

	_, err = code.Encode(nil, nil)
	if errors.Root(err) != ErrUnresolved {
		t.Errorf("unresolved call: got error %v, want %v", err, ErrUnresolved)
	}
}

func TestCodeString(t *testing.T) {
	code := Code{
		I32Const(5),
		Index(OP_SET_LOCAL, 0),
		Block(OP_BLOCK, BlockVoid),
		Simple(OP_I32_ADD),
		Call(sym("Math.ipow(i32, i32)")),
		F64Const(1.5),
		MemArg(OP_I32_LOAD, 2, 8),
	}
	want := "i32.const 5; set_local 0; block; i32.add; call Math.ipow(i32, i32); f64.const 1.5; i32.load align=2 offset=8"
	if got := code.String(); got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestDecodeCode(t *testing.T) {
	code := Code{
		I32Const(-123456),
		I64Const(1 << 40),
		Index(OP_GET_LOCAL, 130),
		Block(OP_IF, BlockVoid),
		Simple(OP_ELSE),
		Simple(OP_END),
		MemArg(OP_I64_STORE, 3, 0),
		F32Const(-2),
	}
	b, err := code.Encode(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeCode(b)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != code.String() {
		t.Errorf("got %s, want %s", got, code)
	}

	for _, bad := range []string{"41", "4280", "ff", "44000000"} {
		raw, _ := hex.DecodeString(bad)
		if _, err := DecodeCode(raw); err == nil {
			t.Errorf("DecodeCode(%s): expected error", bad)
		}
	}
}

func TestDisassemble(t *testing.T) {
	code := Code{
		Block(OP_BLOCK, BlockVoid),
		Block(OP_LOOP, BlockVoid),
		Index(OP_GET_LOCAL, 0),
		Simple(OP_I32_EQZ),
		Index(OP_BR_IF, 1),
		Index(OP_BR, 0),
		Simple(OP_END),
		Simple(OP_END),
	}
	b, _ := code.Encode(nil, nil)
	got, err := Disassemble(b)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"block",
		"  loop",
		"    get_local 0",
		"    i32.eqz",
		"    br_if 1",
		"    br 0",
		"  end",
		"end",
		"",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCount(t *testing.T) {
	code := Code{Block(OP_BLOCK, BlockVoid), Block(OP_LOOP, BlockVoid), Simple(OP_END), Simple(OP_END)}
	if n := code.Count(OP_END); n != 2 {
		t.Errorf("Count(end) = %d, want 2", n)
	}
}
