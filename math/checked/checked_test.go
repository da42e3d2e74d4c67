package checked

import (
	"math"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestInt64(t *testing.T) {
	cases := []struct {
		f       func(a, b int64) (int64, error)
		a, b    int64
		want    int64
		wantErr error
	}{
		{Add, 2, 3, 5, nil},
		{Add, 2, -3, -1, nil},
		{Add, math.MaxInt64, 1, 0, ErrOverflow},
		{Add, math.MinInt64, -1, 0, ErrOverflow},
		{Add, math.MinInt64, math.MaxInt64, -1, nil},
		{Sub, 2, 3, -1, nil},
		{Sub, math.MinInt64, 1, 0, ErrOverflow},
		{Sub, 0, math.MinInt64, 0, ErrOverflow},
		{Sub, -1, math.MinInt64, math.MaxInt64, nil},
		{Mul, -2, 3, -6, nil},
		{Mul, math.MaxInt64, -1, math.MinInt64 + 1, nil},
		{Mul, math.MinInt64, -1, 0, ErrOverflow},
		{Mul, -1, math.MinInt64, 0, ErrOverflow},
		{Mul, math.MaxInt64, 2, 0, ErrOverflow},
		{Mul, 1 << 32, 1 << 31, 0, ErrOverflow},
		{Mul, 0, math.MinInt64, 0, nil},
		{Div, 7, 2, 3, nil},
		{Div, -7, 2, -3, nil},
		{Div, 1, 0, 0, ErrDivideByZero},
		{Div, math.MinInt64, -1, 0, ErrOverflow},
		{Rem, -7, 2, -1, nil},
		{Rem, 7, -2, 1, nil},
		{Rem, 1, 0, 0, ErrDivideByZero},
		{Rem, math.MinInt64, -1, 0, nil},
		{Shl, 1, 4, 16, nil},
		{Shl, -1, 2, -4, nil},
		{Shl, 1, 64, 0, ErrShiftRange},
		{Shl, 2, 63, 0, ErrOverflow},
		{Shl, 1, -1, 0, ErrShiftRange},
		{Shr, -16, 2, -4, nil},
		{Shr, 16, 64, 0, ErrShiftRange},
	}
	for _, c := range cases {
		got, err := c.f(c.a, c.b)
		if got != c.want || err != c.wantErr {
			t.Errorf("%s(%d, %d) = %d, %v want %d, %v", fname(c.f), c.a, c.b, got, err, c.want, c.wantErr)
		}
	}
}

func TestNeg(t *testing.T) {
	cases := []struct {
		a, want int64
		wantErr error
	}{
		{1, -1, nil},
		{-1, 1, nil},
		{0, 0, nil},
		{math.MinInt64, 0, ErrOverflow},
	}
	for _, c := range cases {
		got, err := Neg(c.a)
		if got != c.want || err != c.wantErr {
			t.Errorf("Neg(%d) = %d, %v want %d, %v", c.a, got, err, c.want, c.wantErr)
		}
	}
}

func fname(f interface{}) string {
	name := runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
	return name[strings.IndexRune(name, '.')+1:]
}
