package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// maxFrames bounds the frames kept for one error.
const maxFrames = 10

// StackFrame is one call in a stack captured by Wrap.
type StackFrame struct {
	Func string
	File string
	Line int
}

func (f StackFrame) String() string {
	return fmt.Sprintf("%s:%d - %s", f.File, f.Line, f.Func)
}

// Stack returns the stack captured when err was first wrapped by
// this package. It looks through errors wrapped with fmt.Errorf's
// %w as well.
func Stack(err error) []StackFrame {
	var w wrapperError
	if errors.As(err, &w) {
		return w.stack
	}
	return nil
}

// callers returns the stack starting skip frames above the caller
// of callers.
func callers(skip int) []StackFrame {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]StackFrame, 0, n)
	for {
		f, more := frames.Next()
		stack = append(stack, StackFrame{Func: f.Function, File: f.File, Line: f.Line})
		if !more {
			return stack
		}
	}
}
