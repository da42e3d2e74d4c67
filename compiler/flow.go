package compiler

import (
	"scriptc/script"
	"scriptc/wasm"
)

type frameKind uint8

const (
	frameIf frameKind = iota
	frameWhile
	frameDoWhile
	frameFor
)

// frame is an open structured block. deferred is emitted when the
// frame closes, followed by ends end markers. For loops deferred
// ends with the branch back to the loop head. vars are the
// variables declared inside the block, or inside the current
// branch of an if.
type frame struct {
	kind       frameKind
	deferred   wasm.Code
	ends       int
	branchable bool
	elseSeen   bool
	vars       []*script.VarDef
}

// line lowers one line. Indentation decides how many open frames
// the line closes first.
func (s *state) line(line script.Line) error {
	toks := line.Tokens
	for len(toks) > 0 && (toks[0] == script.Let || toks[0] == script.Var) {
		toks = toks[1:]
	}

	depth := line.Indent
	isElse := len(toks) > 0 && toks[0] == script.Else
	if isElse {
		depth++
	}
	if len(s.scopes) < depth {
		return s.errorf(ErrStructure, "indented %d levels inside %d open blocks", line.Indent, len(s.scopes))
	}
	for len(s.scopes) > depth {
		if err := s.closeScope(); err != nil {
			return err
		}
	}
	if len(toks) == 0 {
		return nil
	}

	kw, ok := toks[0].(script.Keyword)
	if !ok {
		return s.statement(toks)
	}
	switch kw {
	case script.If:
		return s.ifStmt(toks[1:])
	case script.Else:
		return s.elseStmt(toks[1:])
	case script.While:
		return s.whileStmt(toks[1:])
	case script.DoWhile:
		return s.doWhileStmt(toks[1:])
	case script.For:
		return s.forStmt(toks[1:])
	case script.Break:
		return s.breakStmt(toks[1:])
	case script.Continue:
		return s.continueStmt(toks[1:])
	case script.Func, script.Return:
		return s.errorf(ErrUnsupported, "%s is not supported", kw)
	}
	return s.errorf(ErrStructure, "unexpected %s", kw)
}

func (s *state) push(f *frame) {
	s.scopes = append(s.scopes, f)
}

func (s *state) closeScope() error {
	if len(s.scopes) == 0 {
		return s.errorf(ErrStructure, "closing more blocks than were opened")
	}
	f := s.scopes[len(s.scopes)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]
	s.retire(f)
	s.emit(f.deferred...)
	for i := 0; i < f.ends; i++ {
		s.emit(wasm.Simple(wasm.OP_END))
	}
	return nil
}

func (s *state) condition(toks []script.Token) (wasm.Code, error) {
	if len(toks) == 0 {
		return nil, s.errorf(ErrStructure, "missing condition")
	}
	_, code, err := s.expression(toks, script.Bool)
	return code, err
}

func (s *state) ifStmt(toks []script.Token) error {
	cond, err := s.condition(toks)
	if err != nil {
		return err
	}
	s.emit(cond...)
	s.emit(wasm.Block(wasm.OP_IF, wasm.BlockVoid))
	s.push(&frame{kind: frameIf, ends: 1})
	return nil
}

// elseStmt continues the if frame left open by line. "else if"
// nests a new if inside the else branch of the same frame.
func (s *state) elseStmt(toks []script.Token) error {
	f := s.scopes[len(s.scopes)-1]
	if f.kind != frameIf || f.elseSeen {
		return s.errorf(ErrStructure, "else without a matching if")
	}
	s.emit(wasm.Simple(wasm.OP_ELSE))
	s.retire(f)
	f.elseSeen = true
	if len(toks) == 0 {
		return nil
	}
	if toks[0] != script.If {
		return s.errorf(ErrStructure, "unexpected %s after else", toks[0])
	}
	cond, err := s.condition(toks[1:])
	if err != nil {
		return err
	}
	s.emit(cond...)
	s.emit(wasm.Block(wasm.OP_IF, wasm.BlockVoid))
	f.ends++
	f.elseSeen = false
	return nil
}

func (s *state) whileStmt(toks []script.Token) error {
	s.emit(wasm.Block(wasm.OP_BLOCK, wasm.BlockVoid), wasm.Block(wasm.OP_LOOP, wasm.BlockVoid))
	cond, err := s.condition(toks)
	if err != nil {
		return err
	}
	s.emit(cond...)
	s.emit(wasm.Simple(wasm.OP_I32_EQZ), wasm.Index(wasm.OP_BR_IF, 1))
	s.push(&frame{
		kind:       frameWhile,
		deferred:   wasm.Code{wasm.Index(wasm.OP_BR, 0)},
		ends:       2,
		branchable: true,
	})
	return nil
}

// doWhileStmt opens a loop whose condition, written on the opening
// line, is tested after the body.
func (s *state) doWhileStmt(toks []script.Token) error {
	s.emit(wasm.Block(wasm.OP_BLOCK, wasm.BlockVoid), wasm.Block(wasm.OP_LOOP, wasm.BlockVoid))
	cond, err := s.condition(toks)
	if err != nil {
		return err
	}
	s.push(&frame{
		kind:       frameDoWhile,
		deferred:   append(cond, wasm.Index(wasm.OP_BR_IF, 0)),
		ends:       2,
		branchable: true,
	})
	return nil
}

// forStmt lowers "for v in a .. b [step c]". The end bound and
// the step are kept in hidden locals allocated after v.
func (s *state) forStmt(toks []script.Token) error {
	if len(toks) < 3 || toks[1] != script.In {
		return s.errorf(ErrStructure, "for needs a variable, in and a range")
	}
	var (
		def     *script.VarDef
		loopVar *localRef
		varType *script.Type
	)
	switch v := toks[0].(type) {
	case *script.VarDef:
		def, varType = v, v.Type
	case script.VarRef:
		l, err := s.lookup(v)
		if err != nil {
			return err
		}
		loopVar, varType = l, l.t
	default:
		return s.errorf(ErrStructure, "for needs a loop variable, not %s", toks[0])
	}

	rangeToks, stepToks := toks[2:], []script.Token(nil)
	for i, tok := range rangeToks {
		if tok == script.Step {
			rangeToks, stepToks = rangeToks[:i], rangeToks[i+1:]
			if len(stepToks) == 0 {
				return s.errorf(ErrStructure, "step without a value")
			}
			break
		}
	}

	items, err := s.items(rangeToks)
	if err != nil {
		return err
	}
	v, err := evaluate(items, varType)
	if err != nil {
		return s.lineErr(err)
	}
	rng, ok := v.(*rangeOperand)
	if !ok {
		return s.errorf(ErrStructure, "for needs a range such as 0 .. 10")
	}
	if varType == nil {
		varType = rng.t
	}
	if rng.t != varType {
		return s.errorf(ErrMissingCoercion, "range of %s for a loop variable of type %s", rng.t, varType)
	}
	if def != nil {
		if loopVar, err = s.declare(def, varType); err != nil {
			return err
		}
	}

	end, err := s.temp(varType)
	if err != nil {
		return s.lineErr(err)
	}
	step, err := s.temp(varType)
	if err != nil {
		return s.lineErr(err)
	}
	var stepCode wasm.Code
	if stepToks != nil {
		if _, stepCode, err = s.expression(stepToks, varType); err != nil {
			return err
		}
	} else {
		stepCode = (&numericLiteral{i: 1}).code(varType)
	}

	get := func(l *localRef) wasm.Instr { return wasm.Index(wasm.OP_GET_LOCAL, l.index) }
	set := func(l *localRef) wasm.Instr { return wasm.Index(wasm.OP_SET_LOCAL, l.index) }

	s.emit(rng.bounds...)
	s.emit(stepCode...)
	s.emit(set(step), set(end), set(loopVar))
	s.emit(wasm.Block(wasm.OP_BLOCK, wasm.BlockVoid), wasm.Block(wasm.OP_LOOP, wasm.BlockVoid))
	s.emit(get(loopVar), get(end), rng.cmp, wasm.Simple(wasm.OP_I32_EQZ), wasm.Index(wasm.OP_BR_IF, 1))
	s.push(&frame{
		kind:       frameFor,
		deferred:   wasm.Code{get(loopVar), get(step), rng.inc, set(loopVar), wasm.Index(wasm.OP_BR, 0)},
		ends:       2,
		branchable: true,
	})
	return nil
}

// loopLabel returns the loop depth named after break or continue.
func (s *state) loopLabel(toks []script.Token) (int, error) {
	switch len(toks) {
	case 0:
		return 1, nil
	case 1:
		if l, ok := toks[0].(script.LoopLabel); ok && l.Depth >= 1 {
			return l.Depth, nil
		}
	}
	return 0, s.errorf(ErrStructure, "break and continue take only a loop depth")
}

// target finds the frame of the n-th enclosing loop and the number
// of block labels between the current position and that frame.
func (s *state) target(n int) (*frame, uint32, error) {
	var crossed uint32
	for i := len(s.scopes) - 1; i >= 0; i-- {
		f := s.scopes[i]
		if f.branchable {
			n--
			if n == 0 {
				return f, crossed, nil
			}
		}
		crossed += uint32(f.ends)
	}
	return nil, 0, s.errorf(ErrStructure, "not inside enough loops")
}

// breakStmt branches to the block surrounding the target loop,
// one label past the loop itself.
func (s *state) breakStmt(toks []script.Token) error {
	n, err := s.loopLabel(toks)
	if err != nil {
		return err
	}
	_, crossed, err := s.target(n)
	if err != nil {
		return err
	}
	s.emit(wasm.Index(wasm.OP_BR, crossed+1))
	return nil
}

// continueStmt repeats the target loop's end-of-body code with its
// final branch retargeted from the current depth.
func (s *state) continueStmt(toks []script.Token) error {
	n, err := s.loopLabel(toks)
	if err != nil {
		return err
	}
	f, crossed, err := s.target(n)
	if err != nil {
		return err
	}
	last := len(f.deferred) - 1
	s.emit(f.deferred[:last]...)
	s.emit(wasm.Index(f.deferred[last].Op, crossed))
	if f.kind == frameDoWhile {
		// condition false: leave the loop
		s.emit(wasm.Index(wasm.OP_BR, crossed+1))
	}
	return nil
}
