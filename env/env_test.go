package env

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func fakeEnv(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	s := &Set{Lookup: fakeEnv(nil)}
	var (
		n     int
		off   uint32
		b     bool
		str   string
		list  []string
		delay time.Duration
	)
	s.IntVar(&n, "N", 15)
	s.Uint32Var(&off, "OFF", 1024)
	s.BoolVar(&b, "B", true)
	s.StringVar(&str, "S", "stdout")
	s.StringSliceVar(&list, "L", "a", "b")
	s.DurationVar(&delay, "D", time.Second)
	if err := s.Parse(); err != nil {
		t.Fatal(err)
	}

	if n != 15 || off != 1024 || !b || str != "stdout" || delay != time.Second {
		t.Errorf("got %d %d %t %q %v, want defaults", n, off, b, str, delay)
	}
	if !reflect.DeepEqual(list, []string{"a", "b"}) {
		t.Errorf("list = %v want [a b]", list)
	}
}

func TestOverrides(t *testing.T) {
	s := &Set{Lookup: fakeEnv(map[string]string{
		"N":   "25",
		"OFF": "0x800",
		"B":   "false",
		"S":   "/tmp/log",
		"L":   "x,y,z",
		"D":   "5ms",
	})}
	var (
		n     int
		off   uint32
		b     bool
		str   string
		list  []string
		delay time.Duration
	)
	s.IntVar(&n, "N", 15)
	s.Uint32Var(&off, "OFF", 1024)
	s.BoolVar(&b, "B", true)
	s.StringVar(&str, "S", "stdout")
	s.StringSliceVar(&list, "L")
	s.DurationVar(&delay, "D", time.Second)
	if err := s.Parse(); err != nil {
		t.Fatal(err)
	}

	if n != 25 || off != 2048 || b || str != "/tmp/log" || delay != 5*time.Millisecond {
		t.Errorf("got %d %d %t %q %v", n, off, b, str, delay)
	}
	if !reflect.DeepEqual(list, []string{"x", "y", "z"}) {
		t.Errorf("list = %v want [x y z]", list)
	}
}

func TestParseErrors(t *testing.T) {
	s := &Set{Lookup: fakeEnv(map[string]string{
		"PAGES": "-1",
		"N":     "ten",
	})}
	var (
		pages uint32
		n     int
	)
	s.Uint32Var(&pages, "PAGES", 1)
	s.IntVar(&n, "N", 3)
	err := s.Parse()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range []string{"PAGES", "N"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
	if pages != 1 || n != 3 {
		t.Errorf("bad values overwrote defaults: pages=%d n=%d", pages, n)
	}
}

func TestFloat64(t *testing.T) {
	s := &Set{Lookup: fakeEnv(map[string]string{"RATE": "0.5", "BAD": "fast"})}
	var rate, def, bad float64
	s.Float64Var(&rate, "RATE", 0)
	s.Float64Var(&def, "UNSET", 2.5)
	s.Float64Var(&bad, "BAD", 1)
	err := s.Parse()
	if err == nil || !strings.Contains(err.Error(), "BAD") {
		t.Errorf("Parse() = %v, want an error naming BAD", err)
	}
	if rate != 0.5 || def != 2.5 || bad != 1 {
		t.Errorf("got %g %g %g, want 0.5 2.5 1", rate, def, bad)
	}
}
