package wasm

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"scriptc/encoding/leb128"
	"scriptc/errors"
)

// Symbol names a function whose index is not known until the
// module is assembled. Call instructions carry a Symbol and are
// resolved by Code.Encode.
type Symbol interface {
	SymbolName() string
}

// Instr is one instruction: an opcode and its encoded immediates.
// A call built with Call has a nil Imm and a non-nil Callee.
type Instr struct {
	Op     Op
	Imm    []byte
	Callee Symbol
}

// Code is a sequence of instructions.
type Code []Instr

// Simple returns an instruction without immediates.
func Simple(op Op) Instr {
	return Instr{Op: op}
}

// Index returns an instruction with a single varuint32 immediate,
// such as get_local, set_local, br or br_if.
func Index(op Op, i uint32) Instr {
	return Instr{Op: op, Imm: leb128.AppendUint(nil, uint64(i))}
}

// Block returns block, loop or if with the given signature.
func Block(op Op, bt BlockType) Instr {
	return Instr{Op: op, Imm: []byte{byte(bt)}}
}

// Call returns a call to fn, resolved when the code is encoded.
func Call(fn Symbol) Instr {
	return Instr{Op: OP_CALL, Callee: fn}
}

// MemArg returns a load or store with the given alignment
// exponent and offset.
func MemArg(op Op, align, offset uint32) Instr {
	imm := leb128.AppendUint(nil, uint64(align))
	return Instr{Op: op, Imm: leb128.AppendUint(imm, uint64(offset))}
}

func I32Const(v int32) Instr {
	return Instr{Op: OP_I32_CONST, Imm: leb128.AppendInt(nil, int64(v))}
}

func I64Const(v int64) Instr {
	return Instr{Op: OP_I64_CONST, Imm: leb128.AppendInt(nil, v)}
}

func F32Const(v float32) Instr {
	imm := make([]byte, 4)
	binary.LittleEndian.PutUint32(imm, math.Float32bits(v))
	return Instr{Op: OP_F32_CONST, Imm: imm}
}

func F64Const(v float64) Instr {
	imm := make([]byte, 8)
	binary.LittleEndian.PutUint64(imm, math.Float64bits(v))
	return Instr{Op: OP_F64_CONST, Imm: imm}
}

// Encode appends the binary form of c to dst. Calls carrying a
// Callee are resolved to function indexes with resolve.
func (c Code) Encode(dst []byte, resolve func(Symbol) (uint32, error)) ([]byte, error) {
	for _, in := range c {
		dst = append(dst, byte(in.Op))
		if in.Callee != nil {
			if resolve == nil {
				return nil, errors.WithDetailf(ErrUnresolved, "call %s", in.Callee.SymbolName())
			}
			idx, err := resolve(in.Callee)
			if err != nil {
				return nil, errors.Wrapf(err, "resolving %s", in.Callee.SymbolName())
			}
			dst = leb128.AppendUint(dst, uint64(idx))
			continue
		}
		dst = append(dst, in.Imm...)
	}
	return dst, nil
}

// Count returns the number of instructions in c with opcode op.
func (c Code) Count(op Op) int {
	n := 0
	for _, in := range c {
		if in.Op == op {
			n++
		}
	}
	return n
}

func (c Code) String() string {
	parts := make([]string, len(c))
	for i, in := range c {
		parts[i] = in.String()
	}
	return strings.Join(parts, "; ")
}

func (in Instr) String() string {
	if in.Callee != nil {
		return "call " + in.Callee.SymbolName()
	}
	name := in.Op.String()
	imm, err := formatImm(ops[in.Op].imm, in.Imm)
	if err != nil {
		return name + " <" + err.Error() + ">"
	}
	if imm == "" {
		return name
	}
	return name + " " + imm
}

func formatImm(kind immKind, b []byte) (string, error) {
	switch kind {
	case immNone:
		return "", nil
	case immBlock:
		if len(b) != 1 {
			return "", ErrShortCode
		}
		if BlockType(b[0]) == BlockVoid {
			return "", nil
		}
		return ValueType(b[0]).String(), nil
	case immIndex, immMemory:
		v, _, err := leb128.Uint(b, 32)
		return strconv.FormatUint(v, 10), err
	case immCallIndirect:
		v, _, err := leb128.Uint(b, 32)
		return "type=" + strconv.FormatUint(v, 10), err
	case immMemArg:
		align, n, err := leb128.Uint(b, 32)
		if err != nil {
			return "", err
		}
		off, _, err := leb128.Uint(b[n:], 32)
		return fmt.Sprintf("align=%d offset=%d", align, off), err
	case immBrTable:
		count, n, err := leb128.Uint(b, 32)
		if err != nil {
			return "", err
		}
		var targets []string
		for i := uint64(0); i <= count; i++ {
			t, m, err := leb128.Uint(b[n:], 32)
			if err != nil {
				return "", err
			}
			n += m
			targets = append(targets, strconv.FormatUint(t, 10))
		}
		return strings.Join(targets, " "), nil
	case immI32:
		v, _, err := leb128.Int(b, 32)
		return strconv.FormatInt(v, 10), err
	case immI64:
		v, _, err := leb128.Int(b, 64)
		return strconv.FormatInt(v, 10), err
	case immF32:
		if len(b) != 4 {
			return "", ErrShortCode
		}
		f := math.Float32frombits(binary.LittleEndian.Uint32(b))
		return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	case immF64:
		if len(b) != 8 {
			return "", ErrShortCode
		}
		f := math.Float64frombits(binary.LittleEndian.Uint64(b))
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	return "", ErrUnknownOpcode
}

// DecodeCode splits an encoded instruction sequence into
// instructions. Call targets remain numeric immediates.
func DecodeCode(b []byte) (Code, error) {
	var c Code
	for pc := 0; pc < len(b); {
		op := Op(b[pc])
		info := ops[op]
		if info.name == "" {
			return nil, errors.WithDetailf(ErrUnknownOpcode, "0x%02x at offset %d", b[pc], pc)
		}
		pc++
		n, err := immLen(info.imm, b[pc:])
		if err != nil {
			return nil, errors.WithDetailf(err, "%s at offset %d", info.name, pc-1)
		}
		in := Instr{Op: op}
		if n > 0 {
			in.Imm = append([]byte(nil), b[pc:pc+n]...)
		}
		c = append(c, in)
		pc += n
	}
	return c, nil
}

func immLen(kind immKind, b []byte) (int, error) {
	uleb := func(b []byte) (int, error) {
		_, n, err := leb128.Uint(b, 32)
		return n, err
	}
	switch kind {
	case immNone:
		return 0, nil
	case immBlock, immMemory:
		if len(b) < 1 {
			return 0, ErrShortCode
		}
		if kind == immMemory {
			return uleb(b)
		}
		return 1, nil
	case immIndex:
		return uleb(b)
	case immCallIndirect:
		n, err := uleb(b)
		if err != nil {
			return 0, err
		}
		if len(b) < n+1 {
			return 0, ErrShortCode
		}
		return n + 1, nil
	case immMemArg:
		n, err := uleb(b)
		if err != nil {
			return 0, err
		}
		m, err := uleb(b[n:])
		return n + m, err
	case immBrTable:
		count, n, err := leb128.Uint(b, 32)
		if err != nil {
			return 0, err
		}
		for i := uint64(0); i <= count; i++ {
			m, err := uleb(b[n:])
			if err != nil {
				return 0, err
			}
			n += m
		}
		return n, nil
	case immI32:
		_, n, err := leb128.Int(b, 32)
		return n, err
	case immI64:
		_, n, err := leb128.Int(b, 64)
		return n, err
	case immF32, immF64:
		size := 4
		if kind == immF64 {
			size = 8
		}
		if len(b) < size {
			return 0, ErrShortCode
		}
		return size, nil
	}
	return 0, ErrUnknownOpcode
}

// Disassemble returns a textual listing of an encoded instruction
// sequence, one instruction per line, indented by block depth.
func Disassemble(b []byte) (string, error) {
	c, err := DecodeCode(b)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	depth := 0
	for _, in := range c {
		if in.Op == OP_END || in.Op == OP_ELSE {
			depth--
		}
		if depth < 0 {
			depth = 0
		}
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(in.String())
		sb.WriteByte('\n')
		switch in.Op {
		case OP_BLOCK, OP_LOOP, OP_IF, OP_ELSE:
			depth++
		}
	}
	return sb.String(), nil
}
