// Package env provides a convenient way to convert environment
// variables into Go data. It is similar in design to package
// flag: variables are registered with a default value and
// assigned when Parse is called.
package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"scriptc/errors"
)

// A Set is a collection of registered environment variables.
// Lookup defaults to os.LookupEnv; tests may replace it.
type Set struct {
	Lookup func(name string) (string, bool)
	funcs  []func() error
}

// Default is the set used by the package-level functions.
var Default = new(Set)

func (s *Set) lookup(name string) string {
	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(name)
	return v
}

func (s *Set) register(name string, parse func(string) error) {
	s.funcs = append(s.funcs, func() error {
		v := s.lookup(name)
		if v == "" {
			return nil
		}
		return errors.Wrap(parse(v), name)
	})
}

// IntVar defines an int var with the specified
// name and default value. The argument p points
// to an int variable in which to store the
// value of the environment var.
func (s *Set) IntVar(p *int, name string, value int) {
	*p = value
	s.register(name, func(v string) error {
		n, err := strconv.Atoi(v)
		if err == nil {
			*p = n
		}
		return err
	})
}

// Uint32Var is like IntVar for values that must fit in
// an unsigned 32-bit integer, such as linear memory offsets.
func (s *Set) Uint32Var(p *uint32, name string, value uint32) {
	*p = value
	s.register(name, func(v string) error {
		n, err := strconv.ParseUint(v, 0, 32)
		if err == nil {
			*p = uint32(n)
		}
		return err
	})
}

// Float64Var defines a float64 var, such as a rate per second.
func (s *Set) Float64Var(p *float64, name string, value float64) {
	*p = value
	s.register(name, func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			*p = f
		}
		return err
	})
}

// BoolVar defines a bool var parsed with strconv.ParseBool.
func (s *Set) BoolVar(p *bool, name string, value bool) {
	*p = value
	s.register(name, func(v string) error {
		b, err := strconv.ParseBool(v)
		if err == nil {
			*p = b
		}
		return err
	})
}

// StringVar defines a string with the
// specified name and default value.
func (s *Set) StringVar(p *string, name string, value string) {
	*p = value
	s.register(name, func(v string) error {
		*p = v
		return nil
	})
}

// StringSliceVar defines a comma-separated list of strings.
func (s *Set) StringSliceVar(p *[]string, name string, value ...string) {
	*p = value
	s.register(name, func(v string) error {
		*p = strings.Split(v, ",")
		return nil
	})
}

// DurationVar defines a time.Duration parsed with time.ParseDuration.
func (s *Set) DurationVar(p *time.Duration, name string, value time.Duration) {
	*p = value
	s.register(name, func(v string) error {
		d, err := time.ParseDuration(v)
		if err == nil {
			*p = d
		}
		return err
	})
}

// Parse assigns every registered variable present in the
// environment. It reports all values that could not be parsed.
func (s *Set) Parse() error {
	var msgs []string
	for _, f := range s.funcs {
		if err := f(); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("env: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Int returns a new int pointer registered in Default.
func Int(name string, value int) *int {
	p := new(int)
	Default.IntVar(p, name, value)
	return p
}

// Uint32 returns a new uint32 pointer registered in Default.
func Uint32(name string, value uint32) *uint32 {
	p := new(uint32)
	Default.Uint32Var(p, name, value)
	return p
}

// Float64 returns a new float64 pointer registered in Default.
func Float64(name string, value float64) *float64 {
	p := new(float64)
	Default.Float64Var(p, name, value)
	return p
}

// Bool returns a new bool pointer registered in Default.
func Bool(name string, value bool) *bool {
	p := new(bool)
	Default.BoolVar(p, name, value)
	return p
}

// String returns a new string pointer registered in Default.
func String(name string, value string) *string {
	p := new(string)
	Default.StringVar(p, name, value)
	return p
}

// StringSlice returns a pointer to a slice of strings registered in Default.
func StringSlice(name string, value ...string) *[]string {
	p := new([]string)
	Default.StringSliceVar(p, name, value...)
	return p
}

// Duration returns a new time.Duration pointer registered in Default.
func Duration(name string, value time.Duration) *time.Duration {
	p := new(time.Duration)
	Default.DurationVar(p, name, value)
	return p
}

// Parse parses the variables registered in Default.
// If any values cannot be parsed, Parse prints an error
// message and exits the process with status 1.
func Parse() {
	if err := Default.Parse(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
