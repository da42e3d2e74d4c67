package compiler

import (
	"scriptc/errors"
	"scriptc/wasm"
)

// assemble builds the module around the lowered entry function.
func (s *state) assemble() (*wasm.Module, error) {
	used := newUsedFuncs()
	used.noticeCode(s.code)

	m := new(wasm.Module)
	m.TypeIndex(wasm.FuncType{}) // entry function

	m.Imports = append(m.Imports, wasm.Import{
		Module:   "env",
		Field:    "memory",
		Kind:     wasm.KindMemory,
		MinPages: s.cfg.MemoryPages,
	})
	for _, f := range used.imports {
		sig, err := signatureOf(f)
		if err != nil {
			return nil, err
		}
		m.Imports = append(m.Imports, wasm.Import{
			Module: f.Module,
			Field:  f.Field,
			Kind:   wasm.KindFunction,
			Type:   m.TypeIndex(sig),
		})
	}

	entry, err := s.code.Encode(nil, used.indexOf)
	if err != nil {
		return nil, errors.Wrap(err, "encoding entry function")
	}
	m.Functions = append(m.Functions, 0)
	m.Code = append(m.Code, wasm.Body{Locals: wasm.CollapseLocals(s.localTypes), Code: entry})

	for _, f := range used.predefined {
		sig, err := signatureOf(f)
		if err != nil {
			return nil, err
		}
		body, err := f.Body.Encode(nil, used.indexOf)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", f.Key())
		}
		m.Functions = append(m.Functions, m.TypeIndex(sig))
		m.Code = append(m.Code, wasm.Body{Locals: wasm.CollapseLocals(f.Locals), Code: body})
	}

	// the stack pointer starts above the static data
	m.Globals = []wasm.Global{{
		Type:    wasm.I32,
		Mutable: true,
		Init:    int32(s.cfg.DataOffset) + int32(len(s.data)),
	}}

	start := used.entryIndex()
	m.Start = &start

	if len(s.data) > 0 {
		m.Data = []wasm.DataSegment{{Offset: int32(s.cfg.DataOffset), Init: s.data}}
	}
	return m, nil
}
