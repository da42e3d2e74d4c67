// Package checked implements int64 arithmetic that reports
// overflow and division by zero instead of wrapping or panicking.
package checked

import (
	"math"

	"scriptc/errors"
)

var (
	ErrOverflow     = errors.New("arithmetic overflow")
	ErrDivideByZero = errors.New("division by zero")
	ErrShiftRange   = errors.New("shift count out of range")
)

// Add returns a + b.
func Add(a, b int64) (int64, error) {
	s := a + b
	if (s > a) != (b > 0) {
		return 0, ErrOverflow
	}
	return s, nil
}

// Sub returns a - b.
func Sub(a, b int64) (int64, error) {
	d := a - b
	if (d < a) != (b > 0) {
		return 0, ErrOverflow
	}
	return d, nil
}

// Mul returns a * b.
func Mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	p := a * b
	if p/b != a || (a == math.MinInt64 && b == -1) {
		return 0, ErrOverflow
	}
	return p, nil
}

// Div returns a / b, truncated toward zero.
func Div(a, b int64) (int64, error) {
	switch {
	case b == 0:
		return 0, ErrDivideByZero
	case a == math.MinInt64 && b == -1:
		return 0, ErrOverflow
	}
	return a / b, nil
}

// Rem returns the remainder of a / b, with the sign of a.
func Rem(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if b == -1 {
		return 0, nil
	}
	return a % b, nil
}

// Neg returns -a.
func Neg(a int64) (int64, error) {
	if a == math.MinInt64 {
		return 0, ErrOverflow
	}
	return -a, nil
}

// Shl returns a << b. Bits shifted out of the sign are an
// overflow.
func Shl(a, b int64) (int64, error) {
	if b < 0 || b > 63 {
		return 0, ErrShiftRange
	}
	r := a << uint(b)
	if r>>uint(b) != a {
		return 0, ErrOverflow
	}
	return r, nil
}

// Shr returns a >> b, shifting in copies of the sign bit.
func Shr(a, b int64) (int64, error) {
	if b < 0 || b > 63 {
		return 0, ErrShiftRange
	}
	return a >> uint(b), nil
}
