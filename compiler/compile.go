// Package compiler lowers a program of token lines to a
// WebAssembly module in one forward pass.
//
// Each line is either structural (if, else, while, do while, for,
// break, continue) or a statement. Expressions are compiled with a
// two-stack precedence evaluator that folds literal arithmetic.
// Structural lines open frames on a scope stack; a decrease in
// indentation closes them. All top-level code goes into a single
// entry function that the module's start section runs on
// instantiation. Library functions the program calls are added to
// the module as imports or predefined bodies.
package compiler

import (
	"context"

	"scriptc/errors"
	"scriptc/script"
	"scriptc/wasm"
)

// Compile compiles prog to the binary form of a WebAssembly module.
// A zero Config uses DefaultConfig. No partial module is returned
// on error; use errors.Root to recover the sentinel and
// errors.Detail for a message naming the offending line.
func Compile(ctx context.Context, prog *script.Program, cfg Config) ([]byte, error) {
	m, err := CompileModule(ctx, prog, cfg)
	if err != nil {
		return nil, err
	}
	return m.Encode(), nil
}

// CompileModule is like Compile but returns the module before it
// is encoded.
func CompileModule(ctx context.Context, prog *script.Program, cfg Config) (*wasm.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "compile not started")
	}
	s := newState(cfg.withDefaults())
	if err := s.program(ctx, prog.Lines); err != nil {
		return nil, err
	}
	return s.assemble()
}

// program lowers lines into the entry function. The end of the
// program closes every open block.
func (s *state) program(ctx context.Context, lines []script.Line) error {
	for row, line := range lines {
		if row%256 == 255 {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "compile interrupted at line %d", row+1)
			}
		}
		s.row = row
		if err := s.line(line); err != nil {
			return err
		}
	}
	s.row = len(lines)
	for len(s.scopes) > 0 {
		if err := s.closeScope(); err != nil {
			return err
		}
	}
	return s.balanced()
}

// balanced checks that every block, loop and if in the entry
// function has its end marker.
func (s *state) balanced() error {
	depth := 0
	for _, in := range s.code {
		switch in.Op {
		case wasm.OP_BLOCK, wasm.OP_LOOP, wasm.OP_IF:
			depth++
		case wasm.OP_END:
			depth--
		}
		if depth < 0 {
			return s.errorf(ErrStructure, "end without a matching block")
		}
	}
	if depth != 0 {
		return s.errorf(ErrStructure, "%d blocks left open", depth)
	}
	return nil
}
