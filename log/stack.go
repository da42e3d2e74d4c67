package log

import (
	"path/filepath"
	"runtime"
	"strconv"
)

// skipFunc holds the functions left out of at=[file:line], keyed
// by fully-qualified name.
var skipFunc = map[string]bool{
	"scriptc/log.Printkv": true,
	"scriptc/log.Printf":  true,
	"scriptc/log.Error":   true,
}

// SkipFunc leaves the named function, usually a logging helper,
// out of at=[file:line] so its callers are reported instead. It
// must not be called concurrently with logging.
func SkipFunc(name string) {
	skipFunc[name] = true
}

// maxDepth bounds the frames searched for a caller.
const maxDepth = 16

// caller returns file:line of the nearest frame above it that is
// not in skipFunc, or "?:?".
func caller() string {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for n > 0 {
		f, more := frames.Next()
		if !skipFunc[f.Function] {
			return filepath.Base(f.File) + ":" + strconv.Itoa(f.Line)
		}
		if !more {
			break
		}
	}
	return "?:?"
}
