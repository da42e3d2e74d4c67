package log

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type compileIDKey struct{}

// WithCompileID returns a context carrying id. Entries logged with
// the returned context include compile=[id].
func WithCompileID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, compileIDKey{}, id)
}

// NewCompileID returns ctx with a fresh random compile ID, unless
// ctx already carries one.
func NewCompileID(ctx context.Context) context.Context {
	if CompileID(ctx) != "" {
		return ctx
	}
	var b [8]byte
	rand.Read(b[:])
	return WithCompileID(ctx, hex.EncodeToString(b[:]))
}

// CompileID returns the compile ID carried by ctx, or "".
func CompileID(ctx context.Context) string {
	id, _ := ctx.Value(compileIDKey{}).(string)
	return id
}
