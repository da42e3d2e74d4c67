package compiler

import (
	"scriptc/errors"
	"scriptc/script"
	"scriptc/wasm"
)

// usedFuncs is the set of catalog functions a program calls.
// Imports are indexed first, in the order they were noticed; the
// entry function follows them, then the predefined functions.
type usedFuncs struct {
	imports    []*script.Function
	predefined []*script.Function
	seen       map[*script.Function]bool
}

func newUsedFuncs() *usedFuncs {
	return &usedFuncs{seen: make(map[*script.Function]bool)}
}

// notice records f. A predefined function brings in the functions
// its body calls; a macro is inlined and records only its callees.
func (u *usedFuncs) notice(f *script.Function) {
	if u.seen[f] {
		return
	}
	switch f.Kind {
	case script.Imported:
		u.seen[f] = true
		u.imports = append(u.imports, f)
	case script.Predefined:
		u.seen[f] = true
		u.predefined = append(u.predefined, f)
		for _, dep := range f.Deps() {
			u.notice(dep)
		}
	case script.Macro:
		for _, dep := range f.Deps() {
			u.notice(dep)
		}
	}
}

// noticeCode records every function called by code.
func (u *usedFuncs) noticeCode(code wasm.Code) {
	for _, in := range code {
		if f, ok := in.Callee.(*script.Function); ok {
			u.notice(f)
		}
	}
}

// entryIndex is the function index of the synthesized entry
// function, which the start section names.
func (u *usedFuncs) entryIndex() uint32 {
	return uint32(len(u.imports))
}

func (u *usedFuncs) indexOf(sym wasm.Symbol) (uint32, error) {
	f, ok := sym.(*script.Function)
	if !ok {
		return 0, errors.WithDetailf(wasm.ErrUnresolved, "%s is not a catalog function", sym.SymbolName())
	}
	for i, g := range u.imports {
		if g == f {
			return uint32(i), nil
		}
	}
	for i, g := range u.predefined {
		if g == f {
			return u.entryIndex() + 1 + uint32(i), nil
		}
	}
	return 0, errors.WithDetailf(wasm.ErrUnresolved, "%s was never noticed", f.Key())
}

// signatureOf returns the canonical signature of f: the value
// types of its parameters and of its result.
func signatureOf(f *script.Function) (wasm.FuncType, error) {
	var sig wasm.FuncType
	for _, p := range f.Params {
		reprs, err := script.Representations(p.Type)
		if err != nil {
			return sig, errors.Wrapf(err, "parameter %s of %s", p.Name, f.Key())
		}
		sig.Params = append(sig.Params, reprs...)
	}
	reprs, err := script.Representations(f.Result)
	if err != nil {
		return sig, errors.Wrapf(err, "result of %s", f.Key())
	}
	sig.Results = reprs
	return sig, nil
}
