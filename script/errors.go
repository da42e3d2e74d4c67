package script

import "scriptc/errors"

var (
	// ErrNoRepresentation is returned for types that cannot be
	// stored in a local or passed on the value stack.
	ErrNoRepresentation = errors.New("type has no binary representation")

	// ErrUnknownToken is returned when decoding a program that
	// names an unknown operator, keyword, type, function or
	// variable.
	ErrUnknownToken = errors.New("unknown token")
)
