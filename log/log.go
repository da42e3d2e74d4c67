// Package log writes structured log entries as K=V pairs, one entry
// per line. Output goes to stdout unless redirected with SetOutput.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"scriptc/errors"
)

const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Conventional key names for log entries
const (
	KeyCaller  = "at"      // location of caller
	KeyTime    = "t"       // time of call
	KeyCompile = "compile" // compile ID from context

	KeyMessage = "message" // produced by Printf
	KeyError   = "error"   // produced by Error
	KeyStack   = "stack"   // printed on the lines after the entry

	keyLogError = "log-error" // for misuse of this package
)

// Characters that separate pairs. Values containing any of them are
// quoted; keys have them replaced.
const (
	pairDelims      = " ,;|&\t\n\r"
	illegalKeyChars = pairDelims + `="`
)

var (
	mu     sync.Mutex // protects out and prefix
	out    io.Writer  = os.Stdout
	prefix string
)

// SetOutput sets the log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

// SetPrefix sets pairs written at the start of every entry.
// It panics if keyval has odd length.
func SetPrefix(keyval ...interface{}) {
	if len(keyval)%2 != 0 {
		panic(fmt.Sprintf("odd-length prefix args: %v", keyval))
	}
	var e entry
	for i := 0; i < len(keyval); i += 2 {
		e.add(keyval[i], keyval[i+1])
	}
	mu.Lock()
	prefix = e.String()
	mu.Unlock()
}

type entry struct {
	strings.Builder
}

func (e *entry) add(k, v interface{}) {
	e.WriteString(formatKey(k))
	e.WriteByte('=')
	e.WriteString(formatValue(v))
	e.WriteByte(' ')
}

// Printkv writes one entry built from alternating keys and values.
// Duplicate keys are kept.
//
// Each entry starts with at=[file:line] of the caller (see SkipFunc)
// and t=[time], followed by compile=[id] when ctx carries a compile
// ID. A stack trace, taken from a KeyStack value of type []byte or
// []errors.StackFrame or else from a KeyError error, is written on
// the lines following the entry.
func Printkv(ctx context.Context, keyvals ...interface{}) {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "", keyLogError, "odd number of log params")
	}

	var e entry
	e.add(KeyCaller, caller())
	e.add(KeyTime, time.Now().UTC().Format(timeFormat))
	if id := CompileID(ctx); id != "" {
		e.add(KeyCompile, id)
	}

	var stack interface{}
	for i := 0; i < len(keyvals); i += 2 {
		k, v := keyvals[i], keyvals[i+1]
		if k == KeyStack && isStack(v) {
			stack = v
			continue
		}
		if err, ok := v.(error); ok && k == KeyError && stack == nil {
			stack = errors.Stack(errors.Wrap(err))
		}
		e.add(k, v)
	}
	line := strings.TrimSuffix(e.String(), " ") + "\n"

	mu.Lock()
	defer mu.Unlock()
	io.WriteString(out, prefix+line) // ignore errors
	writeStack(out, stack)
}

func isStack(v interface{}) bool {
	switch v.(type) {
	case []byte, []errors.StackFrame:
		return true
	}
	return false
}

func writeStack(w io.Writer, v interface{}) {
	switch v := v.(type) {
	case []byte:
		if len(v) > 0 {
			w.Write(v)
			io.WriteString(w, "\n")
		}
	case []errors.StackFrame:
		for _, f := range v {
			io.WriteString(w, f.String()+"\n")
		}
	}
}

// Printf writes an entry with the formatted text under KeyMessage.
func Printf(ctx context.Context, format string, a ...interface{}) {
	Printkv(ctx, KeyMessage, fmt.Sprintf(format, a...))
}

// Error writes an entry for err under KeyError, plus its detail if
// it has any. Arguments in a, handled as in fmt.Print, prefix the
// message.
func Error(ctx context.Context, err error, a ...interface{}) {
	if len(a) > 0 {
		if len(errors.Stack(err)) > 0 {
			err = errors.Wrap(err, a...)
		} else {
			err = fmt.Errorf("%s: %s", fmt.Sprint(a...), err)
		}
	}
	kv := []interface{}{KeyError, err}
	if d := errors.Detail(err); d != "" {
		kv = append(kv, "detail", d)
	}
	Printkv(ctx, kv...)
}

func formatKey(k interface{}) string {
	s := fmt.Sprint(k)
	if s == "" {
		return "?"
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalKeyChars, r) {
			return '-'
		}
		return r
	}, s)
}

func formatValue(v interface{}) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, pairDelims) {
		return strconv.Quote(s)
	}
	return s
}
