package wasm

import "fmt"

// Op is a single-byte WebAssembly MVP opcode.
type Op uint8

func (op Op) String() string {
	if ops[op].name == "" {
		return fmt.Sprintf("op(0x%02x)", uint8(op))
	}
	return ops[op].name
}

const (
	// control flow
	OP_UNREACHABLE   Op = 0x00
	OP_NOP           Op = 0x01
	OP_BLOCK         Op = 0x02
	OP_LOOP          Op = 0x03
	OP_IF            Op = 0x04
	OP_ELSE          Op = 0x05
	OP_END           Op = 0x0b
	OP_BR            Op = 0x0c
	OP_BR_IF         Op = 0x0d
	OP_BR_TABLE      Op = 0x0e
	OP_RETURN        Op = 0x0f
	OP_CALL          Op = 0x10
	OP_CALL_INDIRECT Op = 0x11

	// parametric
	OP_DROP   Op = 0x1a
	OP_SELECT Op = 0x1b

	// variable access
	OP_GET_LOCAL  Op = 0x20
	OP_SET_LOCAL  Op = 0x21
	OP_TEE_LOCAL  Op = 0x22
	OP_GET_GLOBAL Op = 0x23
	OP_SET_GLOBAL Op = 0x24

	// memory
	OP_I32_LOAD     Op = 0x28
	OP_I64_LOAD     Op = 0x29
	OP_F32_LOAD     Op = 0x2a
	OP_F64_LOAD     Op = 0x2b
	OP_I32_LOAD8_S  Op = 0x2c
	OP_I32_LOAD8_U  Op = 0x2d
	OP_I32_LOAD16_S Op = 0x2e
	OP_I32_LOAD16_U Op = 0x2f
	OP_I64_LOAD8_S  Op = 0x30
	OP_I64_LOAD8_U  Op = 0x31
	OP_I64_LOAD16_S Op = 0x32
	OP_I64_LOAD16_U Op = 0x33
	OP_I64_LOAD32_S Op = 0x34
	OP_I64_LOAD32_U Op = 0x35
	OP_I32_STORE    Op = 0x36
	OP_I64_STORE    Op = 0x37
	OP_F32_STORE    Op = 0x38
	OP_F64_STORE    Op = 0x39
	OP_I32_STORE8   Op = 0x3a
	OP_I32_STORE16  Op = 0x3b
	OP_I64_STORE8   Op = 0x3c
	OP_I64_STORE16  Op = 0x3d
	OP_I64_STORE32  Op = 0x3e
	OP_MEMORY_SIZE  Op = 0x3f
	OP_MEMORY_GROW  Op = 0x40

	// constants
	OP_I32_CONST Op = 0x41
	OP_I64_CONST Op = 0x42
	OP_F32_CONST Op = 0x43
	OP_F64_CONST Op = 0x44

	// comparison
	OP_I32_EQZ  Op = 0x45
	OP_I32_EQ   Op = 0x46
	OP_I32_NE   Op = 0x47
	OP_I32_LT_S Op = 0x48
	OP_I32_LT_U Op = 0x49
	OP_I32_GT_S Op = 0x4a
	OP_I32_GT_U Op = 0x4b
	OP_I32_LE_S Op = 0x4c
	OP_I32_LE_U Op = 0x4d
	OP_I32_GE_S Op = 0x4e
	OP_I32_GE_U Op = 0x4f
	OP_I64_EQZ  Op = 0x50
	OP_I64_EQ   Op = 0x51
	OP_I64_NE   Op = 0x52
	OP_I64_LT_S Op = 0x53
	OP_I64_LT_U Op = 0x54
	OP_I64_GT_S Op = 0x55
	OP_I64_GT_U Op = 0x56
	OP_I64_LE_S Op = 0x57
	OP_I64_LE_U Op = 0x58
	OP_I64_GE_S Op = 0x59
	OP_I64_GE_U Op = 0x5a
	OP_F32_EQ   Op = 0x5b
	OP_F32_NE   Op = 0x5c
	OP_F32_LT   Op = 0x5d
	OP_F32_GT   Op = 0x5e
	OP_F32_LE   Op = 0x5f
	OP_F32_GE   Op = 0x60
	OP_F64_EQ   Op = 0x61
	OP_F64_NE   Op = 0x62
	OP_F64_LT   Op = 0x63
	OP_F64_GT   Op = 0x64
	OP_F64_LE   Op = 0x65
	OP_F64_GE   Op = 0x66

	// numeric
	OP_I32_CLZ      Op = 0x67
	OP_I32_CTZ      Op = 0x68
	OP_I32_POPCNT   Op = 0x69
	OP_I32_ADD      Op = 0x6a
	OP_I32_SUB      Op = 0x6b
	OP_I32_MUL      Op = 0x6c
	OP_I32_DIV_S    Op = 0x6d
	OP_I32_DIV_U    Op = 0x6e
	OP_I32_REM_S    Op = 0x6f
	OP_I32_REM_U    Op = 0x70
	OP_I32_AND      Op = 0x71
	OP_I32_OR       Op = 0x72
	OP_I32_XOR      Op = 0x73
	OP_I32_SHL      Op = 0x74
	OP_I32_SHR_S    Op = 0x75
	OP_I32_SHR_U    Op = 0x76
	OP_I32_ROTL     Op = 0x77
	OP_I32_ROTR     Op = 0x78
	OP_I64_CLZ      Op = 0x79
	OP_I64_CTZ      Op = 0x7a
	OP_I64_POPCNT   Op = 0x7b
	OP_I64_ADD      Op = 0x7c
	OP_I64_SUB      Op = 0x7d
	OP_I64_MUL      Op = 0x7e
	OP_I64_DIV_S    Op = 0x7f
	OP_I64_DIV_U    Op = 0x80
	OP_I64_REM_S    Op = 0x81
	OP_I64_REM_U    Op = 0x82
	OP_I64_AND      Op = 0x83
	OP_I64_OR       Op = 0x84
	OP_I64_XOR      Op = 0x85
	OP_I64_SHL      Op = 0x86
	OP_I64_SHR_S    Op = 0x87
	OP_I64_SHR_U    Op = 0x88
	OP_I64_ROTL     Op = 0x89
	OP_I64_ROTR     Op = 0x8a
	OP_F32_ABS      Op = 0x8b
	OP_F32_NEG      Op = 0x8c
	OP_F32_CEIL     Op = 0x8d
	OP_F32_FLOOR    Op = 0x8e
	OP_F32_TRUNC    Op = 0x8f
	OP_F32_NEAREST  Op = 0x90
	OP_F32_SQRT     Op = 0x91
	OP_F32_ADD      Op = 0x92
	OP_F32_SUB      Op = 0x93
	OP_F32_MUL      Op = 0x94
	OP_F32_DIV      Op = 0x95
	OP_F32_MIN      Op = 0x96
	OP_F32_MAX      Op = 0x97
	OP_F32_COPYSIGN Op = 0x98
	OP_F64_ABS      Op = 0x99
	OP_F64_NEG      Op = 0x9a
	OP_F64_CEIL     Op = 0x9b
	OP_F64_FLOOR    Op = 0x9c
	OP_F64_TRUNC    Op = 0x9d
	OP_F64_NEAREST  Op = 0x9e
	OP_F64_SQRT     Op = 0x9f
	OP_F64_ADD      Op = 0xa0
	OP_F64_SUB      Op = 0xa1
	OP_F64_MUL      Op = 0xa2
	OP_F64_DIV      Op = 0xa3
	OP_F64_MIN      Op = 0xa4
	OP_F64_MAX      Op = 0xa5
	OP_F64_COPYSIGN Op = 0xa6

	// conversions
	OP_I32_WRAP_FROM_I64        Op = 0xa7
	OP_I32_TRUNC_S_FROM_F32     Op = 0xa8
	OP_I32_TRUNC_U_FROM_F32     Op = 0xa9
	OP_I32_TRUNC_S_FROM_F64     Op = 0xaa
	OP_I32_TRUNC_U_FROM_F64     Op = 0xab
	OP_I64_EXTEND_S_FROM_I32    Op = 0xac
	OP_I64_EXTEND_U_FROM_I32    Op = 0xad
	OP_I64_TRUNC_S_FROM_F32     Op = 0xae
	OP_I64_TRUNC_U_FROM_F32     Op = 0xaf
	OP_I64_TRUNC_S_FROM_F64     Op = 0xb0
	OP_I64_TRUNC_U_FROM_F64     Op = 0xb1
	OP_F32_CONVERT_S_FROM_I32   Op = 0xb2
	OP_F32_CONVERT_U_FROM_I32   Op = 0xb3
	OP_F32_CONVERT_S_FROM_I64   Op = 0xb4
	OP_F32_CONVERT_U_FROM_I64   Op = 0xb5
	OP_F32_DEMOTE_FROM_F64      Op = 0xb6
	OP_F64_CONVERT_S_FROM_I32   Op = 0xb7
	OP_F64_CONVERT_U_FROM_I32   Op = 0xb8
	OP_F64_CONVERT_S_FROM_I64   Op = 0xb9
	OP_F64_CONVERT_U_FROM_I64   Op = 0xba
	OP_F64_PROMOTE_FROM_F32     Op = 0xbb
	OP_I32_REINTERPRET_FROM_F32 Op = 0xbc
	OP_I64_REINTERPRET_FROM_F64 Op = 0xbd
	OP_F32_REINTERPRET_FROM_I32 Op = 0xbe
	OP_F64_REINTERPRET_FROM_I64 Op = 0xbf
)

// immKind describes the immediate operands that follow an opcode.
type immKind uint8

const (
	immNone immKind = iota
	immBlock
	immIndex
	immBrTable
	immCallIndirect
	immMemory
	immMemArg
	immI32
	immI64
	immF32
	immF64
)

type opInfo struct {
	op   Op
	name string
	imm  immKind
}

var ops = [256]opInfo{
	// control flow
	OP_UNREACHABLE:   {OP_UNREACHABLE, "unreachable", immNone},
	OP_NOP:           {OP_NOP, "nop", immNone},
	OP_BLOCK:         {OP_BLOCK, "block", immBlock},
	OP_LOOP:          {OP_LOOP, "loop", immBlock},
	OP_IF:            {OP_IF, "if", immBlock},
	OP_ELSE:          {OP_ELSE, "else", immNone},
	OP_END:           {OP_END, "end", immNone},
	OP_BR:            {OP_BR, "br", immIndex},
	OP_BR_IF:         {OP_BR_IF, "br_if", immIndex},
	OP_BR_TABLE:      {OP_BR_TABLE, "br_table", immBrTable},
	OP_RETURN:        {OP_RETURN, "return", immNone},
	OP_CALL:          {OP_CALL, "call", immIndex},
	OP_CALL_INDIRECT: {OP_CALL_INDIRECT, "call_indirect", immCallIndirect},

	// parametric
	OP_DROP:   {OP_DROP, "drop", immNone},
	OP_SELECT: {OP_SELECT, "select", immNone},

	// variable access
	OP_GET_LOCAL:  {OP_GET_LOCAL, "get_local", immIndex},
	OP_SET_LOCAL:  {OP_SET_LOCAL, "set_local", immIndex},
	OP_TEE_LOCAL:  {OP_TEE_LOCAL, "tee_local", immIndex},
	OP_GET_GLOBAL: {OP_GET_GLOBAL, "get_global", immIndex},
	OP_SET_GLOBAL: {OP_SET_GLOBAL, "set_global", immIndex},

	// memory
	OP_I32_LOAD:     {OP_I32_LOAD, "i32.load", immMemArg},
	OP_I64_LOAD:     {OP_I64_LOAD, "i64.load", immMemArg},
	OP_F32_LOAD:     {OP_F32_LOAD, "f32.load", immMemArg},
	OP_F64_LOAD:     {OP_F64_LOAD, "f64.load", immMemArg},
	OP_I32_LOAD8_S:  {OP_I32_LOAD8_S, "i32.load8_s", immMemArg},
	OP_I32_LOAD8_U:  {OP_I32_LOAD8_U, "i32.load8_u", immMemArg},
	OP_I32_LOAD16_S: {OP_I32_LOAD16_S, "i32.load16_s", immMemArg},
	OP_I32_LOAD16_U: {OP_I32_LOAD16_U, "i32.load16_u", immMemArg},
	OP_I64_LOAD8_S:  {OP_I64_LOAD8_S, "i64.load8_s", immMemArg},
	OP_I64_LOAD8_U:  {OP_I64_LOAD8_U, "i64.load8_u", immMemArg},
	OP_I64_LOAD16_S: {OP_I64_LOAD16_S, "i64.load16_s", immMemArg},
	OP_I64_LOAD16_U: {OP_I64_LOAD16_U, "i64.load16_u", immMemArg},
	OP_I64_LOAD32_S: {OP_I64_LOAD32_S, "i64.load32_s", immMemArg},
	OP_I64_LOAD32_U: {OP_I64_LOAD32_U, "i64.load32_u", immMemArg},
	OP_I32_STORE:    {OP_I32_STORE, "i32.store", immMemArg},
	OP_I64_STORE:    {OP_I64_STORE, "i64.store", immMemArg},
	OP_F32_STORE:    {OP_F32_STORE, "f32.store", immMemArg},
	OP_F64_STORE:    {OP_F64_STORE, "f64.store", immMemArg},
	OP_I32_STORE8:   {OP_I32_STORE8, "i32.store8", immMemArg},
	OP_I32_STORE16:  {OP_I32_STORE16, "i32.store16", immMemArg},
	OP_I64_STORE8:   {OP_I64_STORE8, "i64.store8", immMemArg},
	OP_I64_STORE16:  {OP_I64_STORE16, "i64.store16", immMemArg},
	OP_I64_STORE32:  {OP_I64_STORE32, "i64.store32", immMemArg},
	OP_MEMORY_SIZE:  {OP_MEMORY_SIZE, "memory.size", immMemory},
	OP_MEMORY_GROW:  {OP_MEMORY_GROW, "memory.grow", immMemory},

	// constants
	OP_I32_CONST: {OP_I32_CONST, "i32.const", immI32},
	OP_I64_CONST: {OP_I64_CONST, "i64.const", immI64},
	OP_F32_CONST: {OP_F32_CONST, "f32.const", immF32},
	OP_F64_CONST: {OP_F64_CONST, "f64.const", immF64},

	// comparison
	OP_I32_EQZ:  {OP_I32_EQZ, "i32.eqz", immNone},
	OP_I32_EQ:   {OP_I32_EQ, "i32.eq", immNone},
	OP_I32_NE:   {OP_I32_NE, "i32.ne", immNone},
	OP_I32_LT_S: {OP_I32_LT_S, "i32.lt_s", immNone},
	OP_I32_LT_U: {OP_I32_LT_U, "i32.lt_u", immNone},
	OP_I32_GT_S: {OP_I32_GT_S, "i32.gt_s", immNone},
	OP_I32_GT_U: {OP_I32_GT_U, "i32.gt_u", immNone},
	OP_I32_LE_S: {OP_I32_LE_S, "i32.le_s", immNone},
	OP_I32_LE_U: {OP_I32_LE_U, "i32.le_u", immNone},
	OP_I32_GE_S: {OP_I32_GE_S, "i32.ge_s", immNone},
	OP_I32_GE_U: {OP_I32_GE_U, "i32.ge_u", immNone},
	OP_I64_EQZ:  {OP_I64_EQZ, "i64.eqz", immNone},
	OP_I64_EQ:   {OP_I64_EQ, "i64.eq", immNone},
	OP_I64_NE:   {OP_I64_NE, "i64.ne", immNone},
	OP_I64_LT_S: {OP_I64_LT_S, "i64.lt_s", immNone},
	OP_I64_LT_U: {OP_I64_LT_U, "i64.lt_u", immNone},
	OP_I64_GT_S: {OP_I64_GT_S, "i64.gt_s", immNone},
	OP_I64_GT_U: {OP_I64_GT_U, "i64.gt_u", immNone},
	OP_I64_LE_S: {OP_I64_LE_S, "i64.le_s", immNone},
	OP_I64_LE_U: {OP_I64_LE_U, "i64.le_u", immNone},
	OP_I64_GE_S: {OP_I64_GE_S, "i64.ge_s", immNone},
	OP_I64_GE_U: {OP_I64_GE_U, "i64.ge_u", immNone},
	OP_F32_EQ:   {OP_F32_EQ, "f32.eq", immNone},
	OP_F32_NE:   {OP_F32_NE, "f32.ne", immNone},
	OP_F32_LT:   {OP_F32_LT, "f32.lt", immNone},
	OP_F32_GT:   {OP_F32_GT, "f32.gt", immNone},
	OP_F32_LE:   {OP_F32_LE, "f32.le", immNone},
	OP_F32_GE:   {OP_F32_GE, "f32.ge", immNone},
	OP_F64_EQ:   {OP_F64_EQ, "f64.eq", immNone},
	OP_F64_NE:   {OP_F64_NE, "f64.ne", immNone},
	OP_F64_LT:   {OP_F64_LT, "f64.lt", immNone},
	OP_F64_GT:   {OP_F64_GT, "f64.gt", immNone},
	OP_F64_LE:   {OP_F64_LE, "f64.le", immNone},
	OP_F64_GE:   {OP_F64_GE, "f64.ge", immNone},

	// numeric
	OP_I32_CLZ:      {OP_I32_CLZ, "i32.clz", immNone},
	OP_I32_CTZ:      {OP_I32_CTZ, "i32.ctz", immNone},
	OP_I32_POPCNT:   {OP_I32_POPCNT, "i32.popcnt", immNone},
	OP_I32_ADD:      {OP_I32_ADD, "i32.add", immNone},
	OP_I32_SUB:      {OP_I32_SUB, "i32.sub", immNone},
	OP_I32_MUL:      {OP_I32_MUL, "i32.mul", immNone},
	OP_I32_DIV_S:    {OP_I32_DIV_S, "i32.div_s", immNone},
	OP_I32_DIV_U:    {OP_I32_DIV_U, "i32.div_u", immNone},
	OP_I32_REM_S:    {OP_I32_REM_S, "i32.rem_s", immNone},
	OP_I32_REM_U:    {OP_I32_REM_U, "i32.rem_u", immNone},
	OP_I32_AND:      {OP_I32_AND, "i32.and", immNone},
	OP_I32_OR:       {OP_I32_OR, "i32.or", immNone},
	OP_I32_XOR:      {OP_I32_XOR, "i32.xor", immNone},
	OP_I32_SHL:      {OP_I32_SHL, "i32.shl", immNone},
	OP_I32_SHR_S:    {OP_I32_SHR_S, "i32.shr_s", immNone},
	OP_I32_SHR_U:    {OP_I32_SHR_U, "i32.shr_u", immNone},
	OP_I32_ROTL:     {OP_I32_ROTL, "i32.rotl", immNone},
	OP_I32_ROTR:     {OP_I32_ROTR, "i32.rotr", immNone},
	OP_I64_CLZ:      {OP_I64_CLZ, "i64.clz", immNone},
	OP_I64_CTZ:      {OP_I64_CTZ, "i64.ctz", immNone},
	OP_I64_POPCNT:   {OP_I64_POPCNT, "i64.popcnt", immNone},
	OP_I64_ADD:      {OP_I64_ADD, "i64.add", immNone},
	OP_I64_SUB:      {OP_I64_SUB, "i64.sub", immNone},
	OP_I64_MUL:      {OP_I64_MUL, "i64.mul", immNone},
	OP_I64_DIV_S:    {OP_I64_DIV_S, "i64.div_s", immNone},
	OP_I64_DIV_U:    {OP_I64_DIV_U, "i64.div_u", immNone},
	OP_I64_REM_S:    {OP_I64_REM_S, "i64.rem_s", immNone},
	OP_I64_REM_U:    {OP_I64_REM_U, "i64.rem_u", immNone},
	OP_I64_AND:      {OP_I64_AND, "i64.and", immNone},
	OP_I64_OR:       {OP_I64_OR, "i64.or", immNone},
	OP_I64_XOR:      {OP_I64_XOR, "i64.xor", immNone},
	OP_I64_SHL:      {OP_I64_SHL, "i64.shl", immNone},
	OP_I64_SHR_S:    {OP_I64_SHR_S, "i64.shr_s", immNone},
	OP_I64_SHR_U:    {OP_I64_SHR_U, "i64.shr_u", immNone},
	OP_I64_ROTL:     {OP_I64_ROTL, "i64.rotl", immNone},
	OP_I64_ROTR:     {OP_I64_ROTR, "i64.rotr", immNone},
	OP_F32_ABS:      {OP_F32_ABS, "f32.abs", immNone},
	OP_F32_NEG:      {OP_F32_NEG, "f32.neg", immNone},
	OP_F32_CEIL:     {OP_F32_CEIL, "f32.ceil", immNone},
	OP_F32_FLOOR:    {OP_F32_FLOOR, "f32.floor", immNone},
	OP_F32_TRUNC:    {OP_F32_TRUNC, "f32.trunc", immNone},
	OP_F32_NEAREST:  {OP_F32_NEAREST, "f32.nearest", immNone},
	OP_F32_SQRT:     {OP_F32_SQRT, "f32.sqrt", immNone},
	OP_F32_ADD:      {OP_F32_ADD, "f32.add", immNone},
	OP_F32_SUB:      {OP_F32_SUB, "f32.sub", immNone},
	OP_F32_MUL:      {OP_F32_MUL, "f32.mul", immNone},
	OP_F32_DIV:      {OP_F32_DIV, "f32.div", immNone},
	OP_F32_MIN:      {OP_F32_MIN, "f32.min", immNone},
	OP_F32_MAX:      {OP_F32_MAX, "f32.max", immNone},
	OP_F32_COPYSIGN: {OP_F32_COPYSIGN, "f32.copysign", immNone},
	OP_F64_ABS:      {OP_F64_ABS, "f64.abs", immNone},
	OP_F64_NEG:      {OP_F64_NEG, "f64.neg", immNone},
	OP_F64_CEIL:     {OP_F64_CEIL, "f64.ceil", immNone},
	OP_F64_FLOOR:    {OP_F64_FLOOR, "f64.floor", immNone},
	OP_F64_TRUNC:    {OP_F64_TRUNC, "f64.trunc", immNone},
	OP_F64_NEAREST:  {OP_F64_NEAREST, "f64.nearest", immNone},
	OP_F64_SQRT:     {OP_F64_SQRT, "f64.sqrt", immNone},
	OP_F64_ADD:      {OP_F64_ADD, "f64.add", immNone},
	OP_F64_SUB:      {OP_F64_SUB, "f64.sub", immNone},
	OP_F64_MUL:      {OP_F64_MUL, "f64.mul", immNone},
	OP_F64_DIV:      {OP_F64_DIV, "f64.div", immNone},
	OP_F64_MIN:      {OP_F64_MIN, "f64.min", immNone},
	OP_F64_MAX:      {OP_F64_MAX, "f64.max", immNone},
	OP_F64_COPYSIGN: {OP_F64_COPYSIGN, "f64.copysign", immNone},

	// conversions
	OP_I32_WRAP_FROM_I64:        {OP_I32_WRAP_FROM_I64, "i32.wrap/i64", immNone},
	OP_I32_TRUNC_S_FROM_F32:     {OP_I32_TRUNC_S_FROM_F32, "i32.trunc_s/f32", immNone},
	OP_I32_TRUNC_U_FROM_F32:     {OP_I32_TRUNC_U_FROM_F32, "i32.trunc_u/f32", immNone},
	OP_I32_TRUNC_S_FROM_F64:     {OP_I32_TRUNC_S_FROM_F64, "i32.trunc_s/f64", immNone},
	OP_I32_TRUNC_U_FROM_F64:     {OP_I32_TRUNC_U_FROM_F64, "i32.trunc_u/f64", immNone},
	OP_I64_EXTEND_S_FROM_I32:    {OP_I64_EXTEND_S_FROM_I32, "i64.extend_s/i32", immNone},
	OP_I64_EXTEND_U_FROM_I32:    {OP_I64_EXTEND_U_FROM_I32, "i64.extend_u/i32", immNone},
	OP_I64_TRUNC_S_FROM_F32:     {OP_I64_TRUNC_S_FROM_F32, "i64.trunc_s/f32", immNone},
	OP_I64_TRUNC_U_FROM_F32:     {OP_I64_TRUNC_U_FROM_F32, "i64.trunc_u/f32", immNone},
	OP_I64_TRUNC_S_FROM_F64:     {OP_I64_TRUNC_S_FROM_F64, "i64.trunc_s/f64", immNone},
	OP_I64_TRUNC_U_FROM_F64:     {OP_I64_TRUNC_U_FROM_F64, "i64.trunc_u/f64", immNone},
	OP_F32_CONVERT_S_FROM_I32:   {OP_F32_CONVERT_S_FROM_I32, "f32.convert_s/i32", immNone},
	OP_F32_CONVERT_U_FROM_I32:   {OP_F32_CONVERT_U_FROM_I32, "f32.convert_u/i32", immNone},
	OP_F32_CONVERT_S_FROM_I64:   {OP_F32_CONVERT_S_FROM_I64, "f32.convert_s/i64", immNone},
	OP_F32_CONVERT_U_FROM_I64:   {OP_F32_CONVERT_U_FROM_I64, "f32.convert_u/i64", immNone},
	OP_F32_DEMOTE_FROM_F64:      {OP_F32_DEMOTE_FROM_F64, "f32.demote/f64", immNone},
	OP_F64_CONVERT_S_FROM_I32:   {OP_F64_CONVERT_S_FROM_I32, "f64.convert_s/i32", immNone},
	OP_F64_CONVERT_U_FROM_I32:   {OP_F64_CONVERT_U_FROM_I32, "f64.convert_u/i32", immNone},
	OP_F64_CONVERT_S_FROM_I64:   {OP_F64_CONVERT_S_FROM_I64, "f64.convert_s/i64", immNone},
	OP_F64_CONVERT_U_FROM_I64:   {OP_F64_CONVERT_U_FROM_I64, "f64.convert_u/i64", immNone},
	OP_F64_PROMOTE_FROM_F32:     {OP_F64_PROMOTE_FROM_F32, "f64.promote/f32", immNone},
	OP_I32_REINTERPRET_FROM_F32: {OP_I32_REINTERPRET_FROM_F32, "i32.reinterpret/f32", immNone},
	OP_I64_REINTERPRET_FROM_F64: {OP_I64_REINTERPRET_FROM_F64, "i64.reinterpret/f64", immNone},
	OP_F32_REINTERPRET_FROM_I32: {OP_F32_REINTERPRET_FROM_I32, "f32.reinterpret/i32", immNone},
	OP_F64_REINTERPRET_FROM_I64: {OP_F64_REINTERPRET_FROM_I64, "f64.reinterpret/i64", immNone},
}
