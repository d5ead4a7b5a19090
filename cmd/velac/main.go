// Command velac is the Vela toolchain CLI: run, check, compile, wasm,
// transpile, fmt, and repl subcommands over the shared lexer/parser/
// types/interp/bytecode/jit/wasm/transpile pipeline, grounded on the
// teacher's cmd/dwscript entry point (cmd.Execute() called from main).
package main

import (
	"fmt"
	"os"

	"github.com/velalang/vela/cmd/velac/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
