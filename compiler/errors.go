package compiler

import "scriptc/errors"

// Errors returned by Compile. Use errors.Root to compare.
var (
	ErrUnbound         = errors.New("variable referenced before it is declared")
	ErrStructure       = errors.New("unbalanced program structure")
	ErrMissingCoercion = errors.New("no conversion between types")
	ErrMissingArgument = errors.New("missing argument")
	ErrConstantFold    = errors.New("invalid constant expression")
	ErrUnsupported     = errors.New("unsupported construct")
)
