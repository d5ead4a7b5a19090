// Package cmd implements velac, the Vela toolchain CLI: a thin Cobra
// wrapper over internal/lexer, internal/parser, internal/types,
// internal/interp, internal/bytecode, internal/jit, internal/wasm, and
// internal/transpile, one subcommand per file in the teacher's
// cmd/dwscript/cmd layout.
package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "velac",
	Short: "Vela language toolchain",
	Long: `velac is the Vela toolchain: a lexer, Pratt parser, Hindley-Milner
type inferencer, tree-walking interpreter, register-based VM with JIT
and hybrid bytecode/interpreter delegation, a WASM emitter, and a Go
transpiler, all sharing one AST.

Subcommands:
  run        execute a Vela script
  check      type-check a Vela script without running it
  compile    compile to register-VM bytecode and disassemble it
  wasm       emit a WebAssembly module
  transpile  lower a Vela script to Go source
  fmt        reformat Vela source files
  repl       start an interactive session
  version    print version information`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color in diagnostic output")
}

// colorEnabled reports whether diagnostics should carry ANSI color:
// disabled by --no-color or NO_COLOR, otherwise on only when stderr is a
// real terminal (github.com/mattn/go-isatty), so piped/redirected output
// never carries escape codes.
func colorEnabled() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
