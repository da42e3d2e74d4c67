/*
Command scriptc compiles programs to WebAssembly modules.

Usage:

	scriptc [-o out.wasm] [-d] [-hash] [program.json...]
	scriptc -script id [-o out.wasm] [-d] [-hash]

With no files it reads one program from stdin. A single program
is written to the -o file, or to stdout. Each of several programs
is written next to its source with the extension .wasm.

Flag -d prints a listing of each module instead of the module.
Flag -hash prints the content hash of each program instead.
Flag -script loads the program from the Postgres store named by
SCRIPTC_DATABASE_URL.

Configuration is read from the environment:

	SCRIPTC_DATA_OFFSET    address of the first string literal (1024)
	SCRIPTC_MEMORY_PAGES   pages of linear memory required (1)
	SCRIPTC_CACHE_SIZE     compiled modules kept in memory (128)
	SCRIPTC_RATE           compiles per second per client, such as 0.5; 0 for no limit (0)
	SCRIPTC_BURST          compiles allowed at once under SCRIPTC_RATE (1)
	SCRIPTC_LOGFILE        log destination; stderr when empty
	SCRIPTC_DATABASE_URL   Postgres URL for -script
*/
package main
