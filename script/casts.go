package script

import "scriptc/wasm"

// Cast is the code converting a value of one type to another.
// Lossless casts preserve every value of the source type and are
// preferred when promoting mixed operands.
type Cast struct {
	Code     wasm.Code
	Lossless bool
}

var casts [numTypes][numTypes]*Cast

func simple(ops ...wasm.Op) wasm.Code {
	c := make(wasm.Code, len(ops))
	for i, o := range ops {
		c[i] = wasm.Simple(o)
	}
	return c
}

func defCast(target, source *Type, lossless bool, code wasm.Code) {
	casts[target.id][source.id] = &Cast{Code: code, Lossless: lossless}
}

func init() {
	const (
		lossy    = false
		lossless = true
	)

	defCast(I32, U32, lossy, nil)
	defCast(I32, Bool, lossless, nil)
	defCast(I32, I64, lossy, simple(wasm.OP_I32_WRAP_FROM_I64))
	defCast(I32, U64, lossy, simple(wasm.OP_I32_WRAP_FROM_I64))
	defCast(I32, F32, lossy, simple(wasm.OP_I32_TRUNC_S_FROM_F32))
	defCast(I32, F64, lossy, simple(wasm.OP_I32_TRUNC_S_FROM_F64))

	defCast(U32, I32, lossy, nil)
	defCast(U32, Bool, lossless, nil)
	defCast(U32, I64, lossy, simple(wasm.OP_I32_WRAP_FROM_I64))
	defCast(U32, U64, lossy, simple(wasm.OP_I32_WRAP_FROM_I64))
	defCast(U32, F32, lossy, simple(wasm.OP_I32_TRUNC_U_FROM_F32))
	defCast(U32, F64, lossy, simple(wasm.OP_I32_TRUNC_U_FROM_F64))

	defCast(I64, I32, lossless, simple(wasm.OP_I64_EXTEND_S_FROM_I32))
	defCast(I64, U32, lossless, simple(wasm.OP_I64_EXTEND_U_FROM_I32))
	defCast(I64, Bool, lossless, simple(wasm.OP_I64_EXTEND_U_FROM_I32))
	defCast(I64, U64, lossy, nil)
	defCast(I64, F32, lossy, simple(wasm.OP_I64_TRUNC_S_FROM_F32))
	defCast(I64, F64, lossy, simple(wasm.OP_I64_TRUNC_S_FROM_F64))

	defCast(U64, U32, lossless, simple(wasm.OP_I64_EXTEND_U_FROM_I32))
	defCast(U64, Bool, lossless, simple(wasm.OP_I64_EXTEND_U_FROM_I32))
	defCast(U64, I32, lossy, simple(wasm.OP_I64_EXTEND_S_FROM_I32))
	defCast(U64, I64, lossy, nil)
	defCast(U64, F32, lossy, simple(wasm.OP_I64_TRUNC_U_FROM_F32))
	defCast(U64, F64, lossy, simple(wasm.OP_I64_TRUNC_U_FROM_F64))

	defCast(F32, I32, lossy, simple(wasm.OP_F32_CONVERT_S_FROM_I32))
	defCast(F32, U32, lossy, simple(wasm.OP_F32_CONVERT_U_FROM_I32))
	defCast(F32, I64, lossy, simple(wasm.OP_F32_CONVERT_S_FROM_I64))
	defCast(F32, U64, lossy, simple(wasm.OP_F32_CONVERT_U_FROM_I64))
	defCast(F32, F64, lossy, simple(wasm.OP_F32_DEMOTE_FROM_F64))

	defCast(F64, I32, lossless, simple(wasm.OP_F64_CONVERT_S_FROM_I32))
	defCast(F64, U32, lossless, simple(wasm.OP_F64_CONVERT_U_FROM_I32))
	defCast(F64, I64, lossy, simple(wasm.OP_F64_CONVERT_S_FROM_I64))
	defCast(F64, U64, lossy, simple(wasm.OP_F64_CONVERT_U_FROM_I64))
	defCast(F64, F32, lossless, simple(wasm.OP_F64_PROMOTE_FROM_F32))

	for _, t := range []*Type{I32, U32} {
		defCast(Bool, t, lossy, wasm.Code{wasm.I32Const(0), wasm.Simple(wasm.OP_I32_NE)})
	}
	for _, t := range []*Type{I64, U64} {
		defCast(Bool, t, lossy, wasm.Code{wasm.I64Const(0), wasm.Simple(wasm.OP_I64_NE)})
	}
	defCast(Bool, F32, lossy, wasm.Code{wasm.F32Const(0), wasm.Simple(wasm.OP_F32_NE)})
	defCast(Bool, F64, lossy, wasm.Code{wasm.F64Const(0), wasm.Simple(wasm.OP_F64_NE)})
}

// CastFrom returns the code converting a value of type source to
// type target. An identical type yields an empty lossless cast.
// Casts to string are resolved against the String.from
// conversions in the function catalog: a conversion whose
// parameter is source is used directly, otherwise one whose
// parameter losslessly receives source is used after widening.
func CastFrom(target, source *Type) (Cast, bool) {
	if target == source {
		return Cast{Lossless: true}, true
	}
	if c := casts[target.id][source.id]; c != nil {
		return *c, true
	}
	if target == String {
		return castToString(source)
	}
	return Cast{}, false
}

func castToString(source *Type) (Cast, bool) {
	var widened *Function
	var widen Cast
	for _, f := range conversions() {
		param := f.Params[0].Type
		if param == source {
			return Cast{Code: wasm.Code{wasm.Call(f)}}, true
		}
		if widened != nil {
			continue
		}
		if c, ok := CastFrom(param, source); ok && c.Lossless {
			widened, widen = f, c
		}
	}
	if widened == nil {
		return Cast{}, false
	}
	code := append(append(wasm.Code{}, widen.Code...), wasm.Call(widened))
	return Cast{Code: code}, true
}

// conversions returns the String.from functions producing a string.
func conversions() []*Function {
	var fs []*Function
	for _, f := range catalog {
		if f.Scope == Strings && f.Name == "from" && f.Result == String && len(f.Params) == 1 {
			fs = append(fs, f)
		}
	}
	return fs
}
