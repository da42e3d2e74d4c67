package compiler

import (
	"fmt"
	"strings"

	"scriptc/errors"
	"scriptc/script"
	"scriptc/wasm"
)

// state is the bookkeeping of one compile. It is never shared
// between compiles.
type state struct {
	cfg Config
	row int

	code   wasm.Code // entry function body
	data   []byte
	scopes []*frame

	localTypes []wasm.ValueType
	slots      map[*script.VarDef]*localRef
	retired    map[*script.VarDef]bool // declared in a block that has ended
}

func newState(cfg Config) *state {
	return &state{
		cfg:     cfg,
		slots:   make(map[*script.VarDef]*localRef),
		retired: make(map[*script.VarDef]bool),
	}
}

// errorf attaches the current line to err. The detail reads
// "line N: ..." with N counted from 1.
func (s *state) errorf(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return errors.WithData(errors.WithDetailf(err, "line %d: %s", s.row+1, msg), "row", s.row)
}

// lineErr attaches the current line to an error returned from a
// helper, keeping its root and user-facing detail.
func (s *state) lineErr(err error) error {
	if _, ok := errors.Data(err)["row"]; ok {
		return err
	}
	detail := errors.Detail(err)
	if detail == "" {
		detail = err.Error()
	}
	return s.errorf(errors.Root(err), "%s", detail)
}

func (s *state) emit(code ...wasm.Instr) {
	s.code = append(s.code, code...)
}

// declare assigns the next local slots to def.
func (s *state) declare(def *script.VarDef, t *script.Type) (*localRef, error) {
	if _, ok := s.slots[def]; ok {
		return nil, s.errorf(ErrStructure, "%s is declared twice", def.Name)
	}
	ref, err := s.temp(t)
	if err != nil {
		return nil, s.errorf(err, "variable %s has type %s", def.Name, t)
	}
	s.slots[def] = ref
	if len(s.scopes) > 0 {
		f := s.scopes[len(s.scopes)-1]
		f.vars = append(f.vars, def)
	}
	return ref, nil
}

// retire makes the variables declared in f unresolvable. Their
// slots stay allocated.
func (s *state) retire(f *frame) {
	for _, def := range f.vars {
		s.retired[def] = true
	}
	f.vars = nil
}

// temp assigns the next local slots to a hidden variable.
func (s *state) temp(t *script.Type) (*localRef, error) {
	reprs, err := script.Representations(t)
	if err != nil {
		return nil, err
	}
	if len(reprs) == 0 {
		return nil, errors.WithDetailf(ErrUnsupported, "no variable can hold %s", t)
	}
	ref := &localRef{index: uint32(len(s.localTypes)), t: t}
	s.localTypes = append(s.localTypes, reprs...)
	return ref, nil
}

func (s *state) lookup(ref script.VarRef) (*localRef, error) {
	if ref.Def == nil {
		return nil, s.errorf(ErrUnbound, "reference to an unknown variable")
	}
	l, ok := s.slots[ref.Def]
	if !ok {
		return nil, s.errorf(ErrUnbound, "%s is referenced before it is declared", ref.Def.Name)
	}
	if s.retired[ref.Def] {
		return nil, s.errorf(ErrUnbound, "%s is declared in a block that has ended", ref.Def.Name)
	}
	return l, nil
}

func (s *state) store(l *localRef) {
	for i := len(l.t.Repr) - 1; i >= 0; i-- {
		s.emit(wasm.Index(wasm.OP_SET_LOCAL, l.index+uint32(i)))
	}
}

// stringLiteral places text in the data section. The sequence
// \n in the text stands for a newline.
func (s *state) stringLiteral(text string) *stringLiteral {
	text = strings.Replace(text, `\n`, "\n", -1)
	lit := &stringLiteral{
		addr:   int32(s.cfg.DataOffset) + int32(len(s.data)),
		length: int32(len(text)),
	}
	s.data = append(s.data, text...)
	return lit
}
