package wasm

import (
	"bytes"

	"scriptc/encoding/leb128"
	"scriptc/errors"
)

type reader struct {
	b   []byte
	off int
}

func (r *reader) fail(err error, what string) error {
	return errors.WithDetailf(errors.Wrap(ErrBadModule, err.Error()), "%s at offset %d", what, r.off)
}

func (r *reader) byte(what string) (byte, error) {
	if r.off >= len(r.b) {
		return 0, r.fail(ErrShortCode, what)
	}
	c := r.b[r.off]
	r.off++
	return c, nil
}

func (r *reader) bytes(n int, what string) ([]byte, error) {
	if n < 0 || r.off+n > len(r.b) {
		return nil, r.fail(ErrShortCode, what)
	}
	p := r.b[r.off : r.off+n]
	r.off += n
	return p, nil
}

func (r *reader) uint32(what string) (uint32, error) {
	v, n, err := leb128.Uint(r.b[r.off:], 32)
	if err != nil {
		return 0, r.fail(err, what)
	}
	r.off += n
	return uint32(v), nil
}

func (r *reader) int32(what string) (int32, error) {
	v, n, err := leb128.Int(r.b[r.off:], 32)
	if err != nil {
		return 0, r.fail(err, what)
	}
	r.off += n
	return int32(v), nil
}

func (r *reader) name(what string) (string, error) {
	n, err := r.uint32(what)
	if err != nil {
		return "", err
	}
	p, err := r.bytes(int(n), what)
	return string(p), err
}

func (r *reader) types(what string) ([]ValueType, error) {
	n, err := r.uint32(what)
	if err != nil {
		return nil, err
	}
	var ts []ValueType
	for i := uint32(0); i < n; i++ {
		c, err := r.byte(what)
		if err != nil {
			return nil, err
		}
		ts = append(ts, ValueType(c))
	}
	return ts, nil
}

func (r *reader) initExpr(what string) (int32, error) {
	op, err := r.byte(what)
	if err != nil {
		return 0, err
	}
	if Op(op) != OP_I32_CONST {
		return 0, r.fail(ErrUnknownOpcode, what)
	}
	v, err := r.int32(what)
	if err != nil {
		return 0, err
	}
	end, err := r.byte(what)
	if err != nil {
		return 0, err
	}
	if Op(end) != OP_END {
		return 0, r.fail(ErrShortCode, what)
	}
	return v, nil
}

// Decode parses a binary module produced by Encode. Custom
// sections and sections the compiler never emits are skipped.
func Decode(b []byte) (*Module, error) {
	if len(b) < 8 || !bytes.Equal(b[:4], Magic[:]) || !bytes.Equal(b[4:8], Version[:]) {
		return nil, errors.WithDetail(ErrBadModule, "bad header")
	}
	m := new(Module)
	r := &reader{b: b, off: 8}
	for r.off < len(r.b) {
		id, err := r.byte("section id")
		if err != nil {
			return nil, err
		}
		size, err := r.uint32("section size")
		if err != nil {
			return nil, err
		}
		body, err := r.bytes(int(size), SectionID(id).String()+" section")
		if err != nil {
			return nil, err
		}
		sr := &reader{b: body}
		switch SectionID(id) {
		case SectionType:
			err = decodeTypes(sr, m)
		case SectionImport:
			err = decodeImports(sr, m)
		case SectionFunction:
			err = decodeFunctions(sr, m)
		case SectionGlobal:
			err = decodeGlobals(sr, m)
		case SectionStart:
			var start uint32
			start, err = sr.uint32("start index")
			m.Start = &start
		case SectionCode:
			err = decodeCode(sr, m)
		case SectionData:
			err = decodeData(sr, m)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s section", SectionID(id))
		}
	}
	return m, nil
}

func decodeTypes(r *reader, m *Module) error {
	n, err := r.uint32("type count")
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		form, err := r.byte("type form")
		if err != nil {
			return err
		}
		if form != funcForm {
			return r.fail(ErrUnknownOpcode, "type form")
		}
		var t FuncType
		if t.Params, err = r.types("params"); err != nil {
			return err
		}
		if t.Results, err = r.types("results"); err != nil {
			return err
		}
		m.Types = append(m.Types, t)
	}
	return nil
}

func decodeImports(r *reader, m *Module) error {
	n, err := r.uint32("import count")
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		var imp Import
		if imp.Module, err = r.name("module name"); err != nil {
			return err
		}
		if imp.Field, err = r.name("field name"); err != nil {
			return err
		}
		kind, err := r.byte("import kind")
		if err != nil {
			return err
		}
		imp.Kind = ExternalKind(kind)
		switch imp.Kind {
		case KindFunction:
			imp.Type, err = r.uint32("import type")
		case KindMemory:
			var flags byte
			if flags, err = r.byte("limits"); err != nil {
				return err
			}
			if imp.MinPages, err = r.uint32("min pages"); err != nil {
				return err
			}
			if flags&1 != 0 {
				_, err = r.uint32("max pages")
			}
		default:
			return r.fail(ErrUnknownOpcode, "import kind")
		}
		if err != nil {
			return err
		}
		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func decodeFunctions(r *reader, m *Module) error {
	n, err := r.uint32("function count")
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		ti, err := r.uint32("function type")
		if err != nil {
			return err
		}
		m.Functions = append(m.Functions, ti)
	}
	return nil
}

func decodeGlobals(r *reader, m *Module) error {
	n, err := r.uint32("global count")
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		t, err := r.byte("global type")
		if err != nil {
			return err
		}
		mut, err := r.byte("global mutability")
		if err != nil {
			return err
		}
		init, err := r.initExpr("global init")
		if err != nil {
			return err
		}
		m.Globals = append(m.Globals, Global{Type: ValueType(t), Mutable: mut == 1, Init: init})
	}
	return nil
}

func decodeCode(r *reader, m *Module) error {
	n, err := r.uint32("body count")
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		size, err := r.uint32("body size")
		if err != nil {
			return err
		}
		raw, err := r.bytes(int(size), "body")
		if err != nil {
			return err
		}
		br := &reader{b: raw}
		groups, err := br.uint32("local count")
		if err != nil {
			return err
		}
		var body Body
		for j := uint32(0); j < groups; j++ {
			count, err := br.uint32("local group")
			if err != nil {
				return err
			}
			t, err := br.byte("local type")
			if err != nil {
				return err
			}
			body.Locals = append(body.Locals, LocalEntry{Count: count, Type: ValueType(t)})
		}
		code := raw[br.off:]
		if len(code) == 0 || Op(code[len(code)-1]) != OP_END {
			return br.fail(ErrShortCode, "function end")
		}
		body.Code = code[:len(code)-1]
		m.Code = append(m.Code, body)
	}
	return nil
}

func decodeData(r *reader, m *Module) error {
	n, err := r.uint32("segment count")
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		if _, err := r.uint32("memory index"); err != nil {
			return err
		}
		off, err := r.initExpr("segment offset")
		if err != nil {
			return err
		}
		size, err := r.uint32("segment size")
		if err != nil {
			return err
		}
		init, err := r.bytes(int(size), "segment")
		if err != nil {
			return err
		}
		m.Data = append(m.Data, DataSegment{Offset: off, Init: init})
	}
	return nil
}
