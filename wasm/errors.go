package wasm

import "scriptc/errors"

var (
	ErrBadModule     = errors.New("malformed module")
	ErrShortCode     = errors.New("unexpected end of code")
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrUnresolved    = errors.New("unresolved call target")
)
