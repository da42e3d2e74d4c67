// Package leb128 encodes and decodes the variable-length integers
// used throughout the WebAssembly binary format: 7 bits per byte,
// least significant group first, with the high bit of each byte
// set when more bytes follow. The signed form sign-extends from
// bit 6 of the final byte.
package leb128

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

var (
	ErrOverflow = errors.New("leb128: value overflows target size")
	ErrShort    = errors.New("leb128: unexpected end of input")
	ErrRange    = errors.New("leb128: value out of range")
)

// AppendUint appends the unsigned encoding of v to b.
// The unsigned LEB128 encoding is the same as the one used by
// encoding/binary's Uvarint.
func AppendUint(b []byte, v uint64) []byte {
	return binary.AppendUvarint(b, v)
}

// AppendInt appends the signed encoding of v to b.
func AppendInt(b []byte, v int64) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7 // arithmetic shift keeps the sign
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			return append(b, c)
		}
		b = append(b, c|0x80)
	}
}

// Uint returns the unsigned value encoded at the start of b and the
// number of bytes it occupies. Values wider than bits are rejected.
func Uint(b []byte, bits uint) (uint64, int, error) {
	v, n := binary.Uvarint(b)
	switch {
	case n == 0:
		return 0, 0, ErrShort
	case n < 0:
		return 0, -n, ErrOverflow
	}
	if bits < 64 && v>>bits != 0 {
		return 0, n, ErrOverflow
	}
	return v, n, nil
}

// Int returns the signed value encoded at the start of b and the
// number of bytes it occupies. Values wider than bits are rejected.
func Int(b []byte, bits uint) (int64, int, error) {
	var (
		v     int64
		shift uint
	)
	for i, c := range b {
		if shift >= 64 {
			return 0, i, ErrOverflow
		}
		v |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 != 0 {
			continue
		}
		if shift < 64 && c&0x40 != 0 {
			v |= -1 << shift
		}
		if bits < 64 && (v < -1<<(bits-1) || v > 1<<(bits-1)-1) {
			return 0, i + 1, ErrOverflow
		}
		return v, i + 1, nil
	}
	return 0, len(b), ErrShort
}

// WriteUint writes the unsigned encoding of v to w.
func WriteUint(w io.Writer, v uint64) (int, error) {
	var buf [binary.MaxVarintLen64]byte
	return w.Write(AppendUint(buf[:0], v))
}

// WriteInt writes the signed encoding of v to w.
func WriteInt(w io.Writer, v int64) (int, error) {
	var buf [binary.MaxVarintLen64]byte
	return w.Write(AppendInt(buf[:0], v))
}

// WriteUint32 is WriteUint for values that a WebAssembly
// varuint32 field can hold.
func WriteUint32(w io.Writer, v uint64) (int, error) {
	if v > math.MaxUint32 {
		return 0, ErrRange
	}
	return WriteUint(w, v)
}

// WriteString writes a length-prefixed UTF-8 string, the name
// encoding used by import entries.
func WriteString(w io.Writer, s string) (int, error) {
	n, err := WriteUint32(w, uint64(len(s)))
	if err != nil {
		return n, err
	}
	n2, err := io.WriteString(w, s)
	return n + n2, err
}
