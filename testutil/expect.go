package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"scriptc/errors"
	"scriptc/wasm"
)

var wd, _ = os.Getwd()

var dump = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}

// ExpectEqual reports an error if actual and expected are not
// DeepEqual, dumping both values.
func ExpectEqual(t testing.TB, actual, expected interface{}, msg string) {
	t.Helper()
	if !DeepEqual(actual, expected) {
		t.Errorf("%s:\ngot:\n%s\nexpected:\n%s\n%s", msg, dump.Sdump(actual), dump.Sdump(expected), stackTrace())
	}
}

// ExpectCodeEqual compares two encoded instruction sequences and
// prints both as disassembly on mismatch.
func ExpectCodeEqual(t testing.TB, actual, expected []byte, msg string) {
	t.Helper()
	if !bytes.Equal(expected, actual) {
		expectedStr, _ := wasm.Disassemble(expected)
		actualStr, _ := wasm.Disassemble(actual)
		t.Errorf("%s:\ngot:\n%s\nexpected:\n%s\n%s", msg, actualStr, expectedStr, stackTrace())
	}
}

// ExpectError reports an error unless the root of the error
// returned by fn is expected.
func ExpectError(t testing.TB, expected error, msg string, fn func() error) {
	t.Helper()
	actual := fn()
	if expected != errors.Root(actual) {
		t.Errorf("%s: got error %v, expected %v\n%s", msg, actual, expected, stackTrace())
	}
}

// FatalErr fails the test, printing err along with the stack
// recorded when it was first wrapped.
func FatalErr(t testing.TB, err error) {
	t.Helper()
	args := []interface{}{err}
	if d := errors.Detail(err); d != "" && d != err.Error() {
		args = append(args, "\ndetail: "+d)
	}
	for _, frame := range errors.Stack(err) {
		file := frame.File
		if rel, err := filepath.Rel(wd, file); err == nil && !strings.HasPrefix(rel, "../") {
			file = rel
		}
		funcname := frame.Func[strings.IndexByte(frame.Func, '.')+1:]
		s := fmt.Sprintf("\n%s:%d: %s", file, frame.Line, funcname)
		args = append(args, s)
	}
	t.Fatal(args...)
}

func stackTrace() []byte {
	buf := make([]byte, 16384)
	n := runtime.Stack(buf, false)
	return buf[:n]
}
