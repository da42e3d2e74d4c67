package compiler

// Config controls the memory layout of compiled modules.
type Config struct {
	// DataOffset is the linear-memory address of the first byte of
	// static data. The stack pointer global starts just past the
	// data.
	DataOffset uint32

	// MemoryPages is the initial size of the imported memory in
	// 64KiB pages.
	MemoryPages uint32
}

// DefaultConfig is used when Compile is given a zero Config.
var DefaultConfig = Config{
	DataOffset:  1024,
	MemoryPages: 1,
}

func (c Config) withDefaults() Config {
	if c.DataOffset == 0 {
		c.DataOffset = DefaultConfig.DataOffset
	}
	if c.MemoryPages == 0 {
		c.MemoryPages = DefaultConfig.MemoryPages
	}
	return c
}
