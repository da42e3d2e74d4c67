package script

import (
	"strings"

	"scriptc/wasm"
)

// FuncKind says how a call to a function is lowered.
type FuncKind uint8

const (
	// Imported functions are provided by the host.
	Imported FuncKind = iota
	// Predefined functions have a precompiled body in the module.
	Predefined
	// Macro calls are inlined at every call site.
	Macro
)

func (k FuncKind) String() string {
	switch k {
	case Imported:
		return "imported"
	case Predefined:
		return "predefined"
	case Macro:
		return "macro"
	}
	return "unknown"
}

// Param is a function parameter. Default is the literal text used
// for an omitted argument when HasDefault is set.
type Param struct {
	Name       string
	Type       *Type
	Default    string
	HasDefault bool
}

// Function is an entry of the function catalog.
type Function struct {
	Scope  *Type
	Name   string
	Params []Param
	Result *Type
	Kind   FuncKind

	// Module and Field name the host import of an Imported function.
	Module, Field string

	// Body and Locals define a Predefined function. Locals lists
	// the declared locals following the parameters.
	Body   wasm.Code
	Locals []wasm.ValueType

	// Inline is the code of a Macro, applied to its arguments.
	Inline wasm.Code

	// Variadic macros accept any number of arguments of any type
	// and lower each through Print.
	Variadic bool
	Newline  bool
}

// Key returns the catalog key of f, such as "Math.sqrt(f64)".
func (f *Function) Key() string {
	var b strings.Builder
	b.WriteString(f.Scope.Name)
	b.WriteByte('.')
	b.WriteString(f.Name)
	b.WriteByte('(')
	if f.Variadic {
		b.WriteString("...")
	}
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.Name)
	}
	b.WriteByte(')')
	return b.String()
}

// SymbolName lets calls to f be resolved when the module is
// assembled.
func (f *Function) SymbolName() string { return f.Key() }

func (f *Function) String() string { return f.Key() }

// Deps returns the functions called by the body of a Predefined
// function, or by the inline code of a Macro, in call order.
func (f *Function) Deps() []*Function {
	code := f.Body
	if f.Kind == Macro {
		code = f.Inline
	}
	var deps []*Function
	for _, in := range code {
		if g, ok := in.Callee.(*Function); ok {
			deps = append(deps, g)
		}
	}
	return deps
}

var catalog []*Function

// Functions returns every function in the catalog.
func Functions() []*Function {
	return append([]*Function(nil), catalog...)
}

// FunctionByKey returns the catalog function with the given key.
func FunctionByKey(key string) (*Function, bool) {
	for _, f := range catalog {
		if f.Key() == key {
			return f, true
		}
	}
	return nil, false
}

func def(f *Function) *Function {
	if f.Result == nil {
		f.Result = Void
	}
	catalog = append(catalog, f)
	return f
}

func get(op wasm.Op, i uint32) wasm.Instr { return wasm.Index(op, i) }
func getLocal(i uint32) wasm.Instr        { return wasm.Index(wasm.OP_GET_LOCAL, i) }
func setLocal(i uint32) wasm.Instr        { return wasm.Index(wasm.OP_SET_LOCAL, i) }
func teeLocal(i uint32) wasm.Instr        { return wasm.Index(wasm.OP_TEE_LOCAL, i) }

func param(name string, t *Type) Param { return Param{Name: name, Type: t} }

func optional(name string, t *Type, def string) Param {
	return Param{Name: name, Type: t, Default: def, HasDefault: true}
}

func host(field string, result *Type, params ...Param) *Function {
	return def(&Function{Scope: System, Name: field, Params: params, Result: result, Kind: Imported, Module: "env", Field: field})
}

// Host functions.
var (
	Puts    = host("puts", nil, param("text", String))
	Putc    = host("putc", nil, param("code", I32))
	PutI32  = host("putnum", nil, param("value", I32))
	PutU32  = host("putu32", nil, param("value", U32))
	PutI64  = host("putnum64", nil, param("value", I64))
	PutU64  = host("putu64", nil, param("value", U64))
	PutF32  = host("putf32", nil, param("value", F32))
	PutF64  = host("putf64", nil, param("value", F64))
	PutBool = host("putbool", nil, param("value", Bool))
	Input   = host("input", F64, optional("default", F64, "0"), optional("min", F64, "-inf"), optional("max", F64, "inf"))

	// Print and Println write each argument with the host function
	// for its type, separated by spaces. Println ends the line.
	Print   = def(&Function{Scope: System, Name: "print", Kind: Macro, Variadic: true})
	Println = def(&Function{Scope: System, Name: "println", Kind: Macro, Variadic: true, Newline: true})
)

// Predefined functions.
var (
	PrintLine = def(&Function{
		Scope: System, Name: "printLine", Kind: Predefined,
		Params: []Param{optional("text", String, "")},
		Body: wasm.Code{
			getLocal(0), getLocal(1), wasm.Call(Puts),
			wasm.I32Const('\n'), wasm.Call(Putc),
		},
	})

	PrintRepeat = def(&Function{
		Scope: System, Name: "printRepeat", Kind: Predefined,
		Params: []Param{optional("text", String, "-"), optional("count", I32, "1")},
		Body: wasm.Code{
			wasm.Block(wasm.OP_BLOCK, wasm.BlockVoid), wasm.Block(wasm.OP_LOOP, wasm.BlockVoid),
			getLocal(2), wasm.I32Const(0), wasm.Simple(wasm.OP_I32_LE_S), get(wasm.OP_BR_IF, 1),
			getLocal(0), getLocal(1), wasm.Call(Puts),
			getLocal(2), wasm.I32Const(1), wasm.Simple(wasm.OP_I32_SUB), setLocal(2),
			get(wasm.OP_BR, 0),
			wasm.Simple(wasm.OP_END), wasm.Simple(wasm.OP_END),
		},
	})

	// IPow raises base to a non-negative exponent by squaring.
	IPow = def(&Function{
		Scope: Math, Name: "ipow", Kind: Predefined, Result: I32,
		Params: []Param{param("base", I32), param("exponent", I32)},
		Locals: []wasm.ValueType{wasm.I32},
		Body: wasm.Code{
			wasm.I32Const(1), setLocal(2),
			wasm.Block(wasm.OP_BLOCK, wasm.BlockVoid), wasm.Block(wasm.OP_LOOP, wasm.BlockVoid),
			getLocal(1), wasm.I32Const(0), wasm.Simple(wasm.OP_I32_LE_S), get(wasm.OP_BR_IF, 1),
			getLocal(1), wasm.I32Const(1), wasm.Simple(wasm.OP_I32_AND),
			wasm.Block(wasm.OP_IF, wasm.BlockVoid),
			getLocal(2), getLocal(0), wasm.Simple(wasm.OP_I32_MUL), setLocal(2),
			wasm.Simple(wasm.OP_END),
			getLocal(0), getLocal(0), wasm.Simple(wasm.OP_I32_MUL), setLocal(0),
			getLocal(1), wasm.I32Const(1), wasm.Simple(wasm.OP_I32_SHR_U), setLocal(1),
			get(wasm.OP_BR, 0),
			wasm.Simple(wasm.OP_END), wasm.Simple(wasm.OP_END),
			getLocal(2),
		},
	})

	// FormatI64 writes the decimal digits of its argument into the
	// scratch area above the stack pointer, returns the digits as a
	// string and moves the stack pointer past the area, so every
	// result keeps its own bytes.
	FormatI64 = def(&Function{
		Scope: Strings, Name: "from", Kind: Predefined, Result: String,
		Params: []Param{param("value", I64)},
		Locals: []wasm.ValueType{wasm.I32, wasm.I32, wasm.I32}, // cursor, negative, digit
		Body: wasm.Code{
			get(wasm.OP_GET_GLOBAL, 0), wasm.I32Const(scratchSize), wasm.Simple(wasm.OP_I32_ADD), setLocal(1),
			getLocal(0), wasm.I64Const(0), wasm.Simple(wasm.OP_I64_LT_S), setLocal(2),
			wasm.Block(wasm.OP_LOOP, wasm.BlockVoid),
			getLocal(1), wasm.I32Const(1), wasm.Simple(wasm.OP_I32_SUB), teeLocal(1),
			getLocal(0), wasm.I64Const(10), wasm.Simple(wasm.OP_I64_REM_S), wasm.Simple(wasm.OP_I32_WRAP_FROM_I64), setLocal(3),
			wasm.I32Const(0), getLocal(3), wasm.Simple(wasm.OP_I32_SUB), getLocal(3), getLocal(2), wasm.Simple(wasm.OP_SELECT),
			wasm.I32Const('0'), wasm.Simple(wasm.OP_I32_ADD),
			wasm.MemArg(wasm.OP_I32_STORE8, 0, 0),
			getLocal(0), wasm.I64Const(10), wasm.Simple(wasm.OP_I64_DIV_S), teeLocal(0),
			wasm.I64Const(0), wasm.Simple(wasm.OP_I64_NE), get(wasm.OP_BR_IF, 0),
			wasm.Simple(wasm.OP_END),
			getLocal(2),
			wasm.Block(wasm.OP_IF, wasm.BlockVoid),
			getLocal(1), wasm.I32Const(1), wasm.Simple(wasm.OP_I32_SUB), teeLocal(1),
			wasm.I32Const('-'), wasm.MemArg(wasm.OP_I32_STORE8, 0, 0),
			wasm.Simple(wasm.OP_END),
			getLocal(1),
			get(wasm.OP_GET_GLOBAL, 0), wasm.I32Const(scratchSize), wasm.Simple(wasm.OP_I32_ADD), getLocal(1), wasm.Simple(wasm.OP_I32_SUB),
			get(wasm.OP_GET_GLOBAL, 0), wasm.I32Const(scratchSize), wasm.Simple(wasm.OP_I32_ADD), get(wasm.OP_SET_GLOBAL, 0),
		},
	})
)

// scratchSize holds the sign and the 19 digits of the widest i64.
const scratchSize = 21

func macro(scope *Type, name string, result *Type, code wasm.Code, params ...Param) *Function {
	return def(&Function{Scope: scope, Name: name, Params: params, Result: result, Kind: Macro, Inline: code})
}

func init() {
	for _, t := range []struct {
		typ                    *Type
		sqrt, abs, floor, ceil wasm.Op
	}{
		{F32, wasm.OP_F32_SQRT, wasm.OP_F32_ABS, wasm.OP_F32_FLOOR, wasm.OP_F32_CEIL},
		{F64, wasm.OP_F64_SQRT, wasm.OP_F64_ABS, wasm.OP_F64_FLOOR, wasm.OP_F64_CEIL},
	} {
		macro(Math, "sqrt", t.typ, simple(t.sqrt), param("x", t.typ))
		macro(Math, "abs", t.typ, simple(t.abs), param("x", t.typ))
		macro(Math, "floor", t.typ, simple(t.floor), param("x", t.typ))
		macro(Math, "ceil", t.typ, simple(t.ceil), param("x", t.typ))
	}
	macro(Math, "min", F64, simple(wasm.OP_F64_MIN), param("a", F64), param("b", F64))
	macro(Math, "max", F64, simple(wasm.OP_F64_MAX), param("a", F64), param("b", F64))
}

// PrintFunc returns the host function that writes a value of type t.
func PrintFunc(t *Type) (*Function, bool) {
	switch t {
	case String:
		return Puts, true
	case I32:
		return PutI32, true
	case U32:
		return PutU32, true
	case I64:
		return PutI64, true
	case U64:
		return PutU64, true
	case F32:
		return PutF32, true
	case F64:
		return PutF64, true
	case Bool:
		return PutBool, true
	}
	return nil, false
}
