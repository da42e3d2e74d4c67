// Package errors adds context to errors produced while compiling
// and serving programs: a message chain, a user-facing detail
// string, key/value data such as the offending row and column,
// and the stack at the point the error was first wrapped.
//
// Use Root to recover the original sentinel for comparison.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Is and As forward to the standard library so callers can keep a
// single errors import.
var (
	Is = errors.Is
	As = errors.As
)

type wrapperError struct {
	msg    string
	detail []string
	data   map[string]interface{}
	stack  []StackFrame
	root   error
}

func (e wrapperError) Error() string {
	return e.msg
}

// Unwrap exposes the root so errors.Is works across Wrap calls.
func (e wrapperError) Unwrap() error {
	return e.root
}

// Root returns the original error that was wrapped by one or more
// calls to Wrap. If e does not wrap other errors, it will be returned
// as-is.
func Root(e error) error {
	if wErr, ok := e.(wrapperError); ok {
		return wErr.root
	}
	return e
}

// wrap is composed by the exported wrappers. stackSkip is the number
// of frames to ascend when capturing the stack, where 0 is the
// caller of wrap.
func wrap(err error, msg string, stackSkip int) error {
	if err == nil {
		return nil
	}

	werr, ok := err.(wrapperError)
	if !ok {
		werr.root = err
		werr.msg = err.Error()
		werr.stack = callers(stackSkip + 1)
	}
	if msg != "" {
		werr.msg = msg + ": " + werr.msg
	}
	return werr
}

// Wrap adds a context message and stack trace to err and returns a new error
// with the new context. Arguments are handled as in fmt.Print.
// Wrap returns nil if err is nil.
func Wrap(err error, a ...interface{}) error {
	return wrap(err, fmt.Sprint(a...), 1)
}

// Wrapf is like Wrap, but arguments are handled as in fmt.Printf.
func Wrapf(err error, format string, a ...interface{}) error {
	return wrap(err, fmt.Sprintf(format, a...), 1)
}

// WithDetail returns a new error that wraps err with text as
// additional user-facing context. Detail returns every piece of
// detail text attached this way.
func WithDetail(err error, text string) error {
	if err == nil {
		return nil
	}
	if text == "" {
		return err
	}
	e1 := wrap(err, text, 1).(wrapperError)
	e1.detail = append(e1.detail[:len(e1.detail):len(e1.detail)], text)
	return e1
}

// WithDetailf is like WithDetail, except it formats
// the detail message as in fmt.Printf.
func WithDetailf(err error, format string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	text := fmt.Sprintf(format, v...)
	e1 := wrap(err, text, 1).(wrapperError)
	e1.detail = append(e1.detail[:len(e1.detail):len(e1.detail)], text)
	return e1
}

// Detail returns the detail message contained in err, if any.
func Detail(err error) string {
	wrapper, _ := err.(wrapperError)
	return strings.Join(wrapper.detail, "; ")
}

// WithData returns a new error that wraps err and carries the
// key/value pairs in keyval in addition to any data already
// attached to err. Keys must be strings.
//
//	errors.WithData(err, "row", 3, "col", 1)
func WithData(err error, keyval ...interface{}) error {
	if err == nil {
		return nil
	}
	newkv := make(map[string]interface{})
	for k, v := range Data(err) {
		newkv[k] = v
	}
	for i := 0; i+1 < len(keyval); i += 2 {
		newkv[keyval[i].(string)] = keyval[i+1]
	}
	e1 := wrap(err, "", 1).(wrapperError)
	e1.data = newkv
	return e1
}

// Data returns the data item in err, if any.
func Data(err error) map[string]interface{} {
	wrapper, _ := err.(wrapperError)
	return wrapper.data
}
