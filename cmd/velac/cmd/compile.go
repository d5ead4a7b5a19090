package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/velalang/vela/internal/bytecode"
	"github.com/spf13/cobra"
)

var (
	compileOut       string
	compileSkipCheck bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a Vela script to register-VM bytecode and disassemble it",
	Long: `Compile every top-level function in a Vela program to the
register-based VM's bytecode and print its disassembly.

internal/bytecode has no on-disk chunk format (unlike a bytecode cache
file): this command is a compiler/disassembler front end, not a
persistence step. Use 'velac run --backend vm' to execute compiled
bytecode directly.

Examples:
  velac compile script.vela
  velac compile script.vela -o script.disasm`,
	Args: cobra.ExactArgs(1),
	RunE: runCompileCmd,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOut, "output", "o", "", "write the disassembly to this file instead of stdout")
	compileCmd.Flags().BoolVar(&compileSkipCheck, "skip-type-check", false, "skip type inference before compiling")
}

func runCompileCmd(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(data)

	block, err := parseOrReport(input, filename)
	if err != nil {
		return err
	}

	if !compileSkipCheck {
		if err := inferOrReport(block, input, filename); err != nil {
			return err
		}
	}

	fns := topFunctions(block)
	if len(fns) == 0 {
		return fmt.Errorf("%s declares no top-level functions to compile", filename)
	}

	funcs, err := bytecode.CompileProgram(fns)
	if err != nil {
		return fmt.Errorf("bytecode compilation failed: %w", err)
	}

	out := os.Stdout
	if compileOut != "" {
		f, err := os.Create(compileOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", compileOut, err)
		}
		defer f.Close()
		out = f
	}

	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fn := funcs[name]
		fmt.Fprintf(out, "== %s (arity %d) ==\n", fn.Name, fn.Arity)
		bytecode.Disassemble(out, fn.Chunk)
		fmt.Fprintln(out)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "compiled %d function(s)\n", len(funcs))
	}
	return nil
}
