package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"scriptc/compiler"
	"scriptc/compilesvc"
	"scriptc/env"
	"scriptc/errors"
	"scriptc/log"
	"scriptc/script"
	"scriptc/store/pgstore"
)

var (
	dataOffset  = env.Uint32("SCRIPTC_DATA_OFFSET", compiler.DefaultConfig.DataOffset)
	memoryPages = env.Uint32("SCRIPTC_MEMORY_PAGES", compiler.DefaultConfig.MemoryPages)
	cacheSize   = env.Int("SCRIPTC_CACHE_SIZE", compilesvc.DefaultCacheSize)
	rateLimit   = env.Float64("SCRIPTC_RATE", 0)
	burst       = env.Int("SCRIPTC_BURST", 1)
	logFile     = env.String("SCRIPTC_LOGFILE", "")
	dbURL       = env.String("SCRIPTC_DATABASE_URL", "postgres:///scriptc?sslmode=disable")
)

var (
	output      = flag.String("o", "", "write the module to `file`")
	disassemble = flag.Bool("d", false, "print a listing of each module")
	hashOnly    = flag.Bool("hash", false, "print the content hash of each program")
	scriptID    = flag.Int64("script", 0, "load program `id` from the database")
)

func main() {
	ctx := context.Background()
	env.Parse()
	flag.Parse()

	log.SetPrefix("app", "scriptc")
	w, err := logWriter()
	if err != nil {
		fatalf("%v", err)
	}
	log.SetOutput(w)

	svc := compilesvc.New(compilesvc.Config{
		Compiler:  compiler.Config{DataOffset: *dataOffset, MemoryPages: *memoryPages},
		CacheSize: *cacheSize,
		Rate:      *rateLimit,
		Burst:     *burst,
	})

	names, progs, err := load(ctx, flag.Args())
	if err != nil {
		fatalf("%v", err)
	}

	if *hashOnly {
		for i, prog := range progs {
			h, err := compilesvc.HashProgram(prog)
			if err != nil {
				fatalf("%s: %v", names[i], err)
			}
			fmt.Printf("%s  %s\n", h, names[i])
		}
		return
	}

	if *disassemble {
		for i, prog := range progs {
			text, err := svc.Disassemble(ctx, prog)
			if err != nil {
				fatalErr(names[i], err)
			}
			if len(progs) > 1 {
				fmt.Printf("%s:\n", names[i])
			}
			fmt.Print(text)
		}
		return
	}

	arts, err := svc.CompileMany(ctx, progs)
	if err != nil {
		fatalErr("", err)
	}
	if len(arts) == 1 {
		if err := writeModule(*output, arts[0].Binary); err != nil {
			fatalf("%v", err)
		}
		return
	}
	if *output != "" {
		fatalf("-o needs exactly one program")
	}
	for i, a := range arts {
		out := strings.TrimSuffix(names[i], filepath.Ext(names[i])) + ".wasm"
		if err := writeModule(out, a.Binary); err != nil {
			fatalf("%v", err)
		}
	}
}

// load reads the programs named on the command line, the program
// on stdin, or the program selected by -script.
func load(ctx context.Context, files []string) ([]string, []*script.Program, error) {
	if *scriptID != 0 {
		if len(files) > 0 {
			return nil, nil, errors.New("-script takes no files")
		}
		db, err := pgstore.Open(ctx, *dbURL)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		prog, _, err := pgstore.New(db).Load(ctx, *scriptID)
		if err != nil {
			return nil, nil, err
		}
		return []string{fmt.Sprintf("script %d", *scriptID)}, []*script.Program{prog}, nil
	}

	if len(files) == 0 {
		prog, err := decode(os.Stdin)
		if err != nil {
			return nil, nil, errors.Wrap(err, "stdin")
		}
		return []string{"-"}, []*script.Program{prog}, nil
	}

	var progs []*script.Program
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, err
		}
		prog, err := decode(f)
		f.Close()
		if err != nil {
			return nil, nil, errors.Wrap(err, name)
		}
		progs = append(progs, prog)
	}
	return files, progs, nil
}

func decode(r io.Reader) (*script.Program, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	prog := new(script.Program)
	if err := json.Unmarshal(b, prog); err != nil {
		return nil, err
	}
	return prog, nil
}

func writeModule(name string, b []byte) error {
	if name == "" || name == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return ioutil.WriteFile(name, b, 0644)
}

func logWriter() (io.Writer, error) {
	if *logFile == "" {
		return os.Stderr, nil
	}
	return os.OpenFile(*logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
}

// fatalErr prints err with its user-facing detail and exits.
func fatalErr(name string, err error) {
	msg := errors.Detail(err)
	if msg == "" {
		msg = err.Error()
	}
	if name != "" {
		msg = name + ": " + msg
	}
	fatalf("%s", msg)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "scriptc: "+format+"\n", args...)
	os.Exit(1)
}
