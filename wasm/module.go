package wasm

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"scriptc/encoding/leb128"
)

// Import is an entry of the import section. Type is the type
// index of a function import; MinPages is the initial size of a
// memory import.
type Import struct {
	Module   string
	Field    string
	Kind     ExternalKind
	Type     uint32
	MinPages uint32
}

// Global is a global whose initializer is a single i32.const.
type Global struct {
	Type    ValueType
	Mutable bool
	Init    int32
}

// Body is one function body of the code section. Code does not
// include the trailing end marker.
type Body struct {
	Locals []LocalEntry
	Code   []byte
}

// DataSegment initializes linear memory at Offset.
type DataSegment struct {
	Offset int32
	Init   []byte
}

// Module is the subset of a WebAssembly module the compiler
// produces. Empty sections are omitted when encoded.
type Module struct {
	Types     []FuncType
	Imports   []Import
	Functions []uint32 // type index per defined function
	Globals   []Global
	Start     *uint32
	Code      []Body
	Data      []DataSegment
}

// TypeIndex returns the index of t in m.Types, appending it if no
// structurally equal signature is present.
func (m *Module) TypeIndex(t FuncType) uint32 {
	for i, u := range m.Types {
		if u.Equal(t) {
			return uint32(i)
		}
	}
	m.Types = append(m.Types, t)
	return uint32(len(m.Types) - 1)
}

// ImportedFuncs returns the number of function imports, which is
// also the index of the first defined function.
func (m *Module) ImportedFuncs() int {
	n := 0
	for _, imp := range m.Imports {
		if imp.Kind == KindFunction {
			n++
		}
	}
	return n
}

var bufPool = &sync.Pool{New: func() interface{} { return new(bytes.Buffer) }}

func getBuf() *bytes.Buffer {
	return bufPool.Get().(*bytes.Buffer)
}

func putBuf(b *bytes.Buffer) {
	b.Reset()
	bufPool.Put(b)
}

// Encode returns the binary encoding of m, sections in the order
// type, import, function, global, start, code, data.
func (m *Module) Encode() []byte {
	out := make([]byte, 0, 64)
	out = append(out, Magic[:]...)
	out = append(out, Version[:]...)

	sec := getBuf()
	defer putBuf(sec)

	section := func(id SectionID, count int, body func(*bytes.Buffer)) {
		if count == 0 {
			return
		}
		sec.Reset()
		body(sec)
		out = append(out, byte(id))
		out = leb128.AppendUint(out, uint64(sec.Len()))
		out = append(out, sec.Bytes()...)
	}

	section(SectionType, len(m.Types), func(b *bytes.Buffer) {
		writeUint(b, len(m.Types))
		for _, t := range m.Types {
			b.WriteByte(funcForm)
			writeTypes(b, t.Params)
			writeTypes(b, t.Results)
		}
	})

	section(SectionImport, len(m.Imports), func(b *bytes.Buffer) {
		writeUint(b, len(m.Imports))
		for _, imp := range m.Imports {
			leb128.WriteString(b, imp.Module)
			leb128.WriteString(b, imp.Field)
			b.WriteByte(byte(imp.Kind))
			switch imp.Kind {
			case KindFunction:
				leb128.WriteUint(b, uint64(imp.Type))
			case KindMemory:
				b.WriteByte(0) // limits without maximum
				leb128.WriteUint(b, uint64(imp.MinPages))
			}
		}
	})

	section(SectionFunction, len(m.Functions), func(b *bytes.Buffer) {
		writeUint(b, len(m.Functions))
		for _, ti := range m.Functions {
			leb128.WriteUint(b, uint64(ti))
		}
	})

	section(SectionGlobal, len(m.Globals), func(b *bytes.Buffer) {
		writeUint(b, len(m.Globals))
		for _, g := range m.Globals {
			b.WriteByte(byte(g.Type))
			if g.Mutable {
				b.WriteByte(1)
			} else {
				b.WriteByte(0)
			}
			writeInitExpr(b, g.Init)
		}
	})

	if m.Start != nil {
		section(SectionStart, 1, func(b *bytes.Buffer) {
			leb128.WriteUint(b, uint64(*m.Start))
		})
	}

	section(SectionCode, len(m.Code), func(b *bytes.Buffer) {
		writeUint(b, len(m.Code))
		fn := getBuf()
		defer putBuf(fn)
		for _, body := range m.Code {
			fn.Reset()
			writeUint(fn, len(body.Locals))
			for _, l := range body.Locals {
				leb128.WriteUint(fn, uint64(l.Count))
				fn.WriteByte(byte(l.Type))
			}
			fn.Write(body.Code)
			fn.WriteByte(byte(OP_END))
			writeUint(b, fn.Len())
			b.Write(fn.Bytes())
		}
	})

	section(SectionData, len(m.Data), func(b *bytes.Buffer) {
		writeUint(b, len(m.Data))
		for _, d := range m.Data {
			writeUint(b, 0) // memory index
			writeInitExpr(b, d.Offset)
			writeUint(b, len(d.Init))
			b.Write(d.Init)
		}
	})

	return out
}

func writeUint(b *bytes.Buffer, n int) {
	leb128.WriteUint(b, uint64(n))
}

func writeTypes(b *bytes.Buffer, ts []ValueType) {
	writeUint(b, len(ts))
	for _, t := range ts {
		b.WriteByte(byte(t))
	}
}

func writeInitExpr(b *bytes.Buffer, v int32) {
	b.WriteByte(byte(OP_I32_CONST))
	leb128.WriteInt(b, int64(v))
	b.WriteByte(byte(OP_END))
}

// Dump writes a human-readable listing of m to w.
func (m *Module) Dump(w io.Writer) error {
	ew := &errWriter{w: w}
	for i, t := range m.Types {
		ew.printf("type[%d] %s\n", i, t)
	}
	fn := 0
	for i, imp := range m.Imports {
		switch imp.Kind {
		case KindFunction:
			ew.printf("import[%d] func[%d] %s.%s type=%d\n", i, fn, imp.Module, imp.Field, imp.Type)
			fn++
		case KindMemory:
			ew.printf("import[%d] memory %s.%s pages=%d\n", i, imp.Module, imp.Field, imp.MinPages)
		default:
			ew.printf("import[%d] kind=%d %s.%s\n", i, imp.Kind, imp.Module, imp.Field)
		}
	}
	for i, g := range m.Globals {
		ew.printf("global[%d] %s mutable=%t init=%d\n", i, g.Type, g.Mutable, g.Init)
	}
	if m.Start != nil {
		ew.printf("start func[%d]\n", *m.Start)
	}
	for i, body := range m.Code {
		var ti uint32
		if i < len(m.Functions) {
			ti = m.Functions[i]
		}
		ew.printf("func[%d] type=%d locals=%v\n", fn+i, ti, body.Locals)
		text, err := Disassemble(body.Code)
		if err != nil {
			return err
		}
		ew.printf("%s", indent(text))
	}
	for i, d := range m.Data {
		ew.printf("data[%d] offset=%d %q\n", i, d.Offset, d.Init)
	}
	return ew.err
}

func indent(s string) string {
	var b bytes.Buffer
	for _, line := range bytes.SplitAfter([]byte(s), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		b.WriteString("  ")
		b.Write(line)
	}
	return b.String()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}
