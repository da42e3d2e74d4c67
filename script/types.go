package script

import (
	"scriptc/errors"
	"scriptc/wasm"
)

type typeID uint8

const (
	idVoid typeID = iota
	idAny
	idBool
	idI32
	idU32
	idI64
	idU64
	idF32
	idF64
	idString
	idSystem
	idMath
	idStringScope
	numTypes
)

// Type is a built-in type. Size is the storage size in bytes and is
// zero for types with no value (void, any and the scope types that
// only namespace functions).
type Type struct {
	id   typeID
	Name string
	Size int
	Repr []wasm.ValueType
}

func (t *Type) String() string {
	if t == nil {
		return "<inferred>"
	}
	return t.Name
}

// IsNumeric reports whether t is one of the integer or float types.
func (t *Type) IsNumeric() bool {
	return t != nil && t.id >= idI32 && t.id <= idF64
}

// IsFloat reports whether t is f32 or f64.
func (t *Type) IsFloat() bool {
	return t != nil && (t.id == idF32 || t.id == idF64)
}

var (
	Void    = &Type{id: idVoid, Name: "void"}
	Any     = &Type{id: idAny, Name: "any"}
	Bool    = &Type{id: idBool, Name: "bool", Size: 4, Repr: []wasm.ValueType{wasm.I32}}
	I32     = &Type{id: idI32, Name: "i32", Size: 4, Repr: []wasm.ValueType{wasm.I32}}
	U32     = &Type{id: idU32, Name: "u32", Size: 4, Repr: []wasm.ValueType{wasm.I32}}
	I64     = &Type{id: idI64, Name: "i64", Size: 8, Repr: []wasm.ValueType{wasm.I64}}
	U64     = &Type{id: idU64, Name: "u64", Size: 8, Repr: []wasm.ValueType{wasm.I64}}
	F32     = &Type{id: idF32, Name: "f32", Size: 4, Repr: []wasm.ValueType{wasm.F32}}
	F64     = &Type{id: idF64, Name: "f64", Size: 8, Repr: []wasm.ValueType{wasm.F64}}
	String  = &Type{id: idString, Name: "string", Size: 8, Repr: []wasm.ValueType{wasm.I32, wasm.I32}}
	System  = &Type{id: idSystem, Name: "System"}
	Math    = &Type{id: idMath, Name: "Math"}
	Strings = &Type{id: idStringScope, Name: "String"}
)

var types = [numTypes]*Type{Void, Any, Bool, I32, U32, I64, U64, F32, F64, String, System, Math, Strings}

// TypeByName returns the built-in type with the given name.
func TypeByName(name string) (*Type, bool) {
	for _, t := range types {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// SizeOf returns the storage size of t in bytes.
func SizeOf(t *Type) int {
	return t.Size
}

// Representation returns the single value type t lowers to. Void
// and any lower to wasm.Empty. Multi-value types such as string
// return their first element; use Representations for all of them.
func Representation(t *Type) (wasm.ValueType, error) {
	reprs, err := Representations(t)
	if err != nil {
		return 0, err
	}
	if len(reprs) == 0 {
		return wasm.Empty, nil
	}
	return reprs[0], nil
}

// Representations returns the value types that hold a value of t,
// in stack order. Void and any have none.
func Representations(t *Type) ([]wasm.ValueType, error) {
	if t == Void || t == Any {
		return nil, nil
	}
	if t.Size == 0 || len(t.Repr) == 0 {
		return nil, errors.WithDetailf(ErrNoRepresentation, "type %s has no binary representation", t.Name)
	}
	return t.Repr, nil
}
