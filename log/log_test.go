package log

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"scriptc/errors"
)

func setTestLogWriter(w io.Writer) func() {
	mu.Lock()
	old := out
	out = w
	mu.Unlock()

	return func() {
		mu.Lock()
		out = old
		mu.Unlock()
	}
}

func expectContains(t *testing.T, got string, want []string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("Result did not contain string:\ngot:  %s\nwant: %s", got, w)
		}
	}
}

func TestPrintkv(t *testing.T) {
	examples := []struct {
		keyvals []interface{}
		want    []string
	}{
		// Basic example
		{
			keyvals: []interface{}{"msg", "compile started"},
			want: []string{
				"at=log_test.go:",
				"t=",
				`msg="compile started"`,
			},
		},

		// Duplicate keys
		{
			keyvals: []interface{}{"msg", "compile started", "msg", "compile done"},
			want: []string{
				"at=log_test.go:",
				"t=",
				`msg="compile started"`,
				`msg="compile done"`,
			},
		},

		// Zero log params
		{
			keyvals: nil,
			want: []string{
				"at=log_test.go:",
				"t=",
			},
		},

		// Odd number of log params
		{
			keyvals: []interface{}{"k1", "v1", "k2"},
			want: []string{
				"at=log_test.go:",
				"t=",
				"k1=v1",
				"k2=",
				`log-error="odd number of log params"`,
			},
		},
	}

	for i, ex := range examples {
		t.Log("Example", i)

		buf := new(bytes.Buffer)
		reset := setTestLogWriter(buf)
		Printkv(context.Background(), ex.keyvals...)
		reset()

		expectContains(t, buf.String(), ex.want)
	}
}

func TestPrintkvCompileID(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	Printkv(WithCompileID(context.Background(), "c0ffee"))
	expectContains(t, buf.String(), []string{"compile=c0ffee"})
}

func TestNewCompileIDKeepsExisting(t *testing.T) {
	ctx := WithCompileID(context.Background(), "abc")
	if got := CompileID(NewCompileID(ctx)); got != "abc" {
		t.Errorf("CompileID = %q want abc", got)
	}
	if got := CompileID(NewCompileID(context.Background())); len(got) != 16 {
		t.Errorf("fresh CompileID = %q want 16 hex digits", got)
	}
}

func TestPrintf(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	Printf(context.Background(), "compiled %d lines", 3)
	expectContains(t, buf.String(), []string{
		"at=log_test.go:",
		`message="compiled 3 lines"`,
	})
}

func TestError(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	err := errors.WithDetail(errors.New("boo"), "line 2")
	Error(context.Background(), err, "failure x ", 0)
	expectContains(t, buf.String(), []string{
		"at=log_test.go:",
		`error="failure x 0: line 2: boo"`,
		`detail="line 2"`,
	})
}

func TestFormatKey(t *testing.T) {
	examples := []struct {
		key  interface{}
		want string
	}{
		{"rows", "rows"},
		{"compile started", "compile-started"},
		{"", "?"},
		{true, "true"},
		{"a b\"c\nd;e\tf龜g", "a-b-c-d-e-f龜g"},
	}

	for i, ex := range examples {
		t.Log("Example", i)
		got := formatKey(ex.key)
		if got != ex.want {
			t.Errorf("formatKey(%#v) = %q want %q", ex.key, got, ex.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	examples := []struct {
		value interface{}
		want  string
	}{
		{"rows", "rows"},
		{"compile started", `"compile started"`},
		{1.5, "1.5"},
		{true, "true"},
		{errors.New("x is referenced before it is declared"), `"x is referenced before it is declared"`},
		{[]byte{'a', 'b', 'c'}, `"[97 98 99]"`},
		{bytes.NewBuffer([]byte{'a', 'b', 'c'}), "abc"},
		{"a b\"c\nd;e\tf龜g", `"a b\"c\nd;e\tf龜g"`},
	}

	for i, ex := range examples {
		t.Log("Example", i)
		got := formatValue(ex.value)
		if got != ex.want {
			t.Errorf("formatValue(%#v) = %q want %q", ex.value, got, ex.want)
		}
	}
}

func TestSetPrefix(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()
	defer SetPrefix()

	SetPrefix("app", "scriptc", "build", "dev 1")
	Printkv(context.Background(), "k", "v")
	got := buf.String()
	if !strings.HasPrefix(got, `app=scriptc build="dev 1" at=log_test.go:`) {
		t.Errorf("entry = %q", got)
	}
	expectContains(t, got, []string{"k=v\n"})
}

func TestErrorStack(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	Printkv(context.Background(), KeyError, errors.Wrap(errors.New("bad")))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) < 2 {
		t.Fatalf("want entry followed by stack, got %q", buf.String())
	}
	expectContains(t, lines[1], []string{"log_test.go"})
}

func logVia(ctx context.Context) { Printkv(ctx, "k", "v") }

func TestSkipFunc(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()
	SkipFunc("scriptc/log.logVia")
	defer delete(skipFunc, "scriptc/log.logVia")

	_, _, line, _ := runtime.Caller(0)
	logVia(context.Background())
	expectContains(t, buf.String(), []string{"at=log_test.go:" + strconv.Itoa(line+1) + " "})
}
