package wasm

import "fmt"

// ValueType is the binary encoding of a WebAssembly value type.
type ValueType byte

const (
	I32 ValueType = 0x7f
	I64 ValueType = 0x7e
	F32 ValueType = 0x7d
	F64 ValueType = 0x7c

	// Empty is the result type of a block or function that
	// produces no value.
	Empty ValueType = 0x40
)

func (t ValueType) String() string {
	switch t {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Empty:
		return "void"
	}
	return fmt.Sprintf("type(0x%02x)", byte(t))
}

// BlockType is the signature immediate of block, loop and if.
// BlockVoid is the only form the compiler emits.
type BlockType byte

const BlockVoid = BlockType(Empty)

const funcForm = 0x60

// Magic and Version make up the 8-byte module header.
var (
	Magic   = [4]byte{0x00, 0x61, 0x73, 0x6d}
	Version = [4]byte{0x01, 0x00, 0x00, 0x00}
)

// SectionID identifies a top-level module section.
type SectionID byte

const (
	SectionCustom   SectionID = 0
	SectionType     SectionID = 1
	SectionImport   SectionID = 2
	SectionFunction SectionID = 3
	SectionTable    SectionID = 4
	SectionMemory   SectionID = 5
	SectionGlobal   SectionID = 6
	SectionExport   SectionID = 7
	SectionStart    SectionID = 8
	SectionElement  SectionID = 9
	SectionCode     SectionID = 10
	SectionData     SectionID = 11
)

var sectionNames = map[SectionID]string{
	SectionCustom:   "custom",
	SectionType:     "type",
	SectionImport:   "import",
	SectionFunction: "function",
	SectionTable:    "table",
	SectionMemory:   "memory",
	SectionGlobal:   "global",
	SectionExport:   "export",
	SectionStart:    "start",
	SectionElement:  "element",
	SectionCode:     "code",
	SectionData:     "data",
}

func (id SectionID) String() string {
	if s, ok := sectionNames[id]; ok {
		return s
	}
	return fmt.Sprintf("section(%d)", byte(id))
}

// ExternalKind is the kind of an import or export entry.
type ExternalKind byte

const (
	KindFunction ExternalKind = 0
	KindTable    ExternalKind = 1
	KindMemory   ExternalKind = 2
	KindGlobal   ExternalKind = 3
)

// FuncType is a function signature in the type section.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// Equal reports whether t and u describe the same signature.
func (t FuncType) Equal(u FuncType) bool {
	return equalTypes(t.Params, u.Params) && equalTypes(t.Results, u.Results)
}

func (t FuncType) String() string {
	return fmt.Sprintf("%v -> %v", t.Params, t.Results)
}

func equalTypes(a, b []ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// LocalEntry declares Count consecutive locals of one type.
type LocalEntry struct {
	Count uint32
	Type  ValueType
}

// CollapseLocals groups runs of same-typed locals into entries,
// preserving first-appearance order.
func CollapseLocals(locals []ValueType) []LocalEntry {
	var entries []LocalEntry
	for _, t := range locals {
		if n := len(entries); n > 0 && entries[n-1].Type == t {
			entries[n-1].Count++
			continue
		}
		entries = append(entries, LocalEntry{Count: 1, Type: t})
	}
	return entries
}
