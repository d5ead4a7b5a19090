package cmd

import (
	"fmt"
	"os"

	"github.com/velalang/vela/internal/bytecode"
	"github.com/velalang/vela/internal/interp"
	"github.com/velalang/vela/internal/jit"
	"github.com/spf13/cobra"
)

var (
	runEval      string
	runDumpAST   bool
	runTypeCheck bool
	runBackend   string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Vela script or expression",
	Long: `Execute a Vela program from a file, an inline expression, or a
vela.yaml manifest's default entry.

Examples:
  # Run a script file
  velac run script.vela

  # Evaluate an inline expression
  velac run -e "println(1 + 2)"

  # Run the function named main through the register VM instead of the
  # tree-walking interpreter
  velac run --backend vm script.vela`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "print the parsed AST before running")
	runCmd.Flags().BoolVar(&runTypeCheck, "type-check", true, "run type inference before execution")
	runCmd.Flags().StringVar(&runBackend, "backend", "interp", "execution backend: interp, vm, or jit")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := resolveInput(runEval, args, false)
	if err != nil {
		return err
	}

	block, err := parseOrReport(input, filename)
	if err != nil {
		return err
	}

	if runDumpAST {
		fmt.Println(block.String())
	}

	if runTypeCheck {
		if err := inferOrReport(block, input, filename); err != nil {
			return err
		}
	}

	switch runBackend {
	case "interp":
		i := interp.New(os.Stdout)
		v, runErr := i.Run(block)
		if runErr != nil {
			fmt.Fprintln(os.Stderr, runErr.Format(colorEnabled()))
			return fmt.Errorf("execution failed")
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "=> %s\n", v.String())
		}
		return nil

	case "vm":
		fns := topFunctions(block)
		funcs, err := bytecode.CompileProgram(fns)
		if err != nil {
			return fmt.Errorf("bytecode compilation failed: %w", err)
		}
		entry, ok := funcs["main"]
		if !ok {
			return fmt.Errorf("run --backend vm requires a zero-argument `main` function")
		}
		i := interp.New(os.Stdout)
		vm := bytecode.New(i, i.Globals())
		v, err := vm.Run(entry.Chunk, nil)
		if err != nil {
			return fmt.Errorf("vm execution failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "=> %s\n", v.String())
		}
		return nil

	case "jit":
		fns := topFunctions(block)
		funcs, err := jit.CompileProgram(fns)
		if err != nil {
			return fmt.Errorf("jit compilation failed: %w", err)
		}
		entry, ok := funcs["main"]
		if !ok {
			return fmt.Errorf("run --backend jit requires a zero-argument `main` function")
		}
		v, err := entry.Call(nil)
		if err != nil {
			return fmt.Errorf("jit execution failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "=> %s\n", v.String())
		}
		return nil

	default:
		return fmt.Errorf("unknown --backend %q (use interp, vm, or jit)", runBackend)
	}
}
