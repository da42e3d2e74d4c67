/*
Command leb128 encodes a decimal number to or from LEB128.

Usage:

	leb128 [-s] [number]

It reads from stdin when decoding, and takes a parameter when
encoding. Flag -s selects the signed encoding.

Examples:

Obtain the decimal value of the hex-encoded LEB128 e58e26:

	printf e58e26 | xxd -r -p | leb128

Obtain the signed encoding of -123456:

	leb128 -s -- -123456 | xxd -p
*/
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"scriptc/encoding/leb128"
)

var signed = flag.Bool("s", false, "use the signed encoding")

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		b, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			errorf("could not read from stdin: %s", err)
		}
		if *signed {
			n, _, err := leb128.Int(b, 64)
			if err != nil {
				errorf("could not parse leb128: %s", err)
			}
			fmt.Println(n)
			return
		}
		n, _, err := leb128.Uint(b, 64)
		if err != nil {
			errorf("could not parse leb128: %s", err)
		}
		fmt.Println(n)
		return
	}

	if len(args) != 1 {
		errorf("invalid argument count %d; leb128 must read from stdin or take 1 argument", len(args))
	}

	var out []byte
	if *signed {
		v, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			errorf("could not parse base 10 int")
		}
		out = leb128.AppendInt(nil, v)
	} else {
		v, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			errorf("could not parse base 10 uint")
		}
		out = leb128.AppendUint(nil, v)
	}
	if _, err := os.Stdout.Write(out); err != nil {
		errorf("could not write to stdout: %s", err)
	}
}

func errorf(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "leb128: "+msg+"\n", args...)
	os.Exit(1)
}
