package script

import (
	"fmt"

	"scriptc/wasm"
)

// OpID identifies an entry of the operator table.
type OpID uint8

const (
	OpAssign OpID = iota
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpRemAssign
	OpXorAssign
	OpAndAssign
	OpOrAssign
	OpShlAssign
	OpShrAssign

	OpRange
	OpRangeInclusive

	OpOrOr
	OpAndAnd
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpOr
	OpXor
	OpAnd
	OpShl
	OpShr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem

	OpNeg
	OpNot

	OpOpenParen
	OpCloseParen
	OpBeginArgs
	OpArgSep
	OpEndArgs

	numOps
)

// Impl is the lowering of an operator for one operand type.
// Range operators carry the loop comparison followed by the
// increment.
type Impl struct {
	Result *Type
	Code   wasm.Code
}

// Operator is an immutable operator descriptor. Precedence and
// arity never depend on where the operator appears.
type Operator struct {
	ID         OpID
	Name       string // as displayed
	Key        string // unique spelling used by the program encoding
	Precedence int
	Unary      bool
	Foldable   bool
	Range      bool

	// Opener and Closer mark grouping and argument delimiters.
	Opener, Closer bool

	// Arith is the operator a compound assignment applies before
	// storing. It is set only on assignment operators.
	Arith      *Operator
	Assignment bool

	impls [numTypes]*Impl
}

func (o *Operator) String() string { return o.Name }

// Impl returns the lowering of o for operands of type t.
func (o *Operator) Impl(t *Type) (Impl, bool) {
	if t == nil || o.impls[t.id] == nil {
		return Impl{}, false
	}
	return *o.impls[t.id], true
}

var operators [numOps]*Operator

// Op returns the operator with the given id.
func Op(id OpID) *Operator {
	return operators[id]
}

// OperatorByKey returns the operator spelled key in the program
// encoding.
func OperatorByKey(key string) (*Operator, bool) {
	for _, o := range operators {
		if o.Key == key {
			return o, true
		}
	}
	return nil, false
}

func defOp(id OpID, name string, prec int) *Operator {
	o := &Operator{ID: id, Name: name, Key: name, Precedence: prec}
	operators[id] = o
	return o
}

func (o *Operator) impl(result *Type, code wasm.Code, ts ...*Type) *Operator {
	for _, t := range ts {
		r := result
		if r == nil {
			r = t
		}
		o.impls[t.id] = &Impl{Result: r, Code: code}
	}
	return o
}

var (
	ints32 = []*Type{I32, U32}
	ints64 = []*Type{I64, U64}
)

func init() {
	// binary arithmetic and bitwise operators, result type equal
	// to the operand type
	arith := func(id OpID, name string, prec int, foldable bool, i32s, i32u, i64s, i64u, f32, f64 wasm.Op) {
		o := defOp(id, name, prec)
		o.Foldable = foldable
		o.impl(nil, simple(i32s), I32)
		o.impl(nil, simple(i32u), U32)
		o.impl(nil, simple(i64s), I64)
		o.impl(nil, simple(i64u), U64)
		if f32 != 0 {
			o.impl(nil, simple(f32), F32)
			o.impl(nil, simple(f64), F64)
		}
	}
	arith(OpAdd, "+", 8, true, wasm.OP_I32_ADD, wasm.OP_I32_ADD, wasm.OP_I64_ADD, wasm.OP_I64_ADD, wasm.OP_F32_ADD, wasm.OP_F64_ADD)
	arith(OpSub, "-", 8, true, wasm.OP_I32_SUB, wasm.OP_I32_SUB, wasm.OP_I64_SUB, wasm.OP_I64_SUB, wasm.OP_F32_SUB, wasm.OP_F64_SUB)
	arith(OpMul, "*", 9, true, wasm.OP_I32_MUL, wasm.OP_I32_MUL, wasm.OP_I64_MUL, wasm.OP_I64_MUL, wasm.OP_F32_MUL, wasm.OP_F64_MUL)
	arith(OpDiv, "/", 9, true, wasm.OP_I32_DIV_S, wasm.OP_I32_DIV_U, wasm.OP_I64_DIV_S, wasm.OP_I64_DIV_U, wasm.OP_F32_DIV, wasm.OP_F64_DIV)
	arith(OpRem, "%", 9, true, wasm.OP_I32_REM_S, wasm.OP_I32_REM_U, wasm.OP_I64_REM_S, wasm.OP_I64_REM_U, 0, 0)
	arith(OpOr, "|", 4, true, wasm.OP_I32_OR, wasm.OP_I32_OR, wasm.OP_I64_OR, wasm.OP_I64_OR, 0, 0)
	arith(OpXor, "^", 5, true, wasm.OP_I32_XOR, wasm.OP_I32_XOR, wasm.OP_I64_XOR, wasm.OP_I64_XOR, 0, 0)
	arith(OpAnd, "&", 6, true, wasm.OP_I32_AND, wasm.OP_I32_AND, wasm.OP_I64_AND, wasm.OP_I64_AND, 0, 0)
	arith(OpShl, "<<", 7, true, wasm.OP_I32_SHL, wasm.OP_I32_SHL, wasm.OP_I64_SHL, wasm.OP_I64_SHL, 0, 0)
	arith(OpShr, ">>", 7, true, wasm.OP_I32_SHR_S, wasm.OP_I32_SHR_U, wasm.OP_I64_SHR_S, wasm.OP_I64_SHR_U, 0, 0)

	// bitwise operators double as non-short-circuit logic on bool
	operators[OpOr].impl(nil, simple(wasm.OP_I32_OR), Bool)
	operators[OpXor].impl(nil, simple(wasm.OP_I32_XOR), Bool)
	operators[OpAnd].impl(nil, simple(wasm.OP_I32_AND), Bool)

	defOp(OpAndAnd, "&&", 2).impl(nil, simple(wasm.OP_I32_AND), Bool)
	defOp(OpOrOr, "||", 1).impl(nil, simple(wasm.OP_I32_OR), Bool)

	compare := func(id OpID, name string, i32s, i32u, i64s, i64u, f32, f64 wasm.Op) *Operator {
		o := defOp(id, name, 3)
		o.impl(Bool, simple(i32s), I32)
		o.impl(Bool, simple(i32u), U32)
		o.impl(Bool, simple(i64s), I64)
		o.impl(Bool, simple(i64u), U64)
		o.impl(Bool, simple(f32), F32)
		o.impl(Bool, simple(f64), F64)
		return o
	}
	compare(OpEq, "==", wasm.OP_I32_EQ, wasm.OP_I32_EQ, wasm.OP_I64_EQ, wasm.OP_I64_EQ, wasm.OP_F32_EQ, wasm.OP_F64_EQ).
		impl(Bool, simple(wasm.OP_I32_EQ), Bool)
	compare(OpNe, "!=", wasm.OP_I32_NE, wasm.OP_I32_NE, wasm.OP_I64_NE, wasm.OP_I64_NE, wasm.OP_F32_NE, wasm.OP_F64_NE).
		impl(Bool, simple(wasm.OP_I32_NE), Bool)
	compare(OpLt, "<", wasm.OP_I32_LT_S, wasm.OP_I32_LT_U, wasm.OP_I64_LT_S, wasm.OP_I64_LT_U, wasm.OP_F32_LT, wasm.OP_F64_LT)
	compare(OpGt, ">", wasm.OP_I32_GT_S, wasm.OP_I32_GT_U, wasm.OP_I64_GT_S, wasm.OP_I64_GT_U, wasm.OP_F32_GT, wasm.OP_F64_GT)
	compare(OpLe, "<=", wasm.OP_I32_LE_S, wasm.OP_I32_LE_U, wasm.OP_I64_LE_S, wasm.OP_I64_LE_U, wasm.OP_F32_LE, wasm.OP_F64_LE)
	compare(OpGe, ">=", wasm.OP_I32_GE_S, wasm.OP_I32_GE_U, wasm.OP_I64_GE_S, wasm.OP_I64_GE_U, wasm.OP_F32_GE, wasm.OP_F64_GE)

	// ranges lower to the loop's continue test and its increment
	rng := func(id OpID, name string, cmp [6]wasm.Op) {
		o := defOp(id, name, 0)
		o.Range = true
		adds := [6]wasm.Op{wasm.OP_I32_ADD, wasm.OP_I32_ADD, wasm.OP_I64_ADD, wasm.OP_I64_ADD, wasm.OP_F32_ADD, wasm.OP_F64_ADD}
		for i, t := range []*Type{I32, U32, I64, U64, F32, F64} {
			o.impl(nil, simple(cmp[i], adds[i]), t)
		}
	}
	rng(OpRange, "..", [6]wasm.Op{wasm.OP_I32_LT_S, wasm.OP_I32_LT_U, wasm.OP_I64_LT_S, wasm.OP_I64_LT_U, wasm.OP_F32_LT, wasm.OP_F64_LT})
	rng(OpRangeInclusive, "..=", [6]wasm.Op{wasm.OP_I32_LE_S, wasm.OP_I32_LE_U, wasm.OP_I64_LE_S, wasm.OP_I64_LE_U, wasm.OP_F32_LE, wasm.OP_F64_LE})

	neg := defOp(OpNeg, "-", 10)
	neg.Key = "neg"
	neg.Unary, neg.Foldable = true, true
	neg.impl(nil, wasm.Code{wasm.I32Const(-1), wasm.Simple(wasm.OP_I32_MUL)}, ints32...)
	neg.impl(nil, wasm.Code{wasm.I64Const(-1), wasm.Simple(wasm.OP_I64_MUL)}, ints64...)
	neg.impl(nil, simple(wasm.OP_F32_NEG), F32)
	neg.impl(nil, simple(wasm.OP_F64_NEG), F64)

	not := defOp(OpNot, "!", 10)
	not.Unary, not.Foldable = true, true
	not.impl(nil, simple(wasm.OP_I32_EQZ), Bool)
	not.impl(nil, wasm.Code{wasm.I32Const(-1), wasm.Simple(wasm.OP_I32_XOR)}, ints32...)
	not.impl(nil, wasm.Code{wasm.I64Const(-1), wasm.Simple(wasm.OP_I64_XOR)}, ints64...)

	for _, g := range []struct {
		id     OpID
		name   string
		opener bool
	}{
		{OpOpenParen, "(", true},
		{OpCloseParen, ")", false},
		{OpBeginArgs, "⟨", true},
		{OpArgSep, ",", false},
		{OpEndArgs, "⟩", false},
	} {
		o := defOp(g.id, g.name, 0)
		o.Opener, o.Closer = g.opener, !g.opener
	}

	assign := defOp(OpAssign, "=", 0)
	assign.Assignment = true
	for _, a := range []struct {
		id    OpID
		arith OpID
	}{
		{OpAddAssign, OpAdd},
		{OpSubAssign, OpSub},
		{OpMulAssign, OpMul},
		{OpDivAssign, OpDiv},
		{OpRemAssign, OpRem},
		{OpXorAssign, OpXor},
		{OpAndAssign, OpAnd},
		{OpOrAssign, OpOr},
		{OpShlAssign, OpShl},
		{OpShrAssign, OpShr},
	} {
		base := operators[a.arith]
		o := defOp(a.id, base.Name+"=", 0)
		o.Assignment = true
		o.Arith = base
	}

	for id, o := range operators {
		if o == nil {
			panic(fmt.Sprintf("operator %d undefined", id))
		}
	}
}
