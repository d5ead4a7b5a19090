package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/parser"
	"github.com/velalang/vela/internal/types"
)

// resolveInput determines the source text and a display filename for a
// subcommand, honoring the shared `-e`/file-argument/stdin/vela.yaml
// conventions every subcommand in this package follows: an inline -e
// expression wins, then a file argument; after that, commands that accept
// stdin read it, and the others fall back to the project manifest's
// default entry.
func resolveInput(evalExpr string, args []string, allowStdin bool) (input, filename string, err error) {
	switch {
	case evalExpr != "":
		return evalExpr, "<eval>", nil
	case len(args) == 1:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		return string(data), filename, nil
	case allowStdin:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	default:
		cfg, cerr := loadProjectConfig()
		if cerr == nil && cfg.Entry != "" {
			data, err := os.ReadFile(cfg.Entry)
			if err != nil {
				return "", "", fmt.Errorf("failed to read manifest entry %s: %w", cfg.Entry, err)
			}
			return string(data), cfg.Entry, nil
		}
		return "", "", fmt.Errorf("provide a file path, -e/--eval, or an `entry:` in %s", manifestFile)
	}
}

// parseOrReport parses src and, on failure, prints every syntax error
// through internal/errors' caret-style renderer and returns a plain
// summary error for the subcommand's RunE to propagate as velac's exit
// status.
func parseOrReport(src, filename string) (*ast.Block, error) {
	block, perrs := parser.Parse(src)
	if len(perrs) == 0 {
		return block, nil
	}
	ces := make([]*errors.CompilerError, len(perrs))
	for i, pe := range perrs {
		ces[i] = errors.NewCompilerError(errors.Syntax, pe.Pos, pe.Message, src, filename)
	}
	fmt.Fprint(os.Stderr, errors.FormatErrors(ces, colorEnabled()))
	return nil, fmt.Errorf("parsing failed with %d error(s)", len(perrs))
}

// inferOrReport runs internal/types.Infer and reports any diagnostics
// the same way parseOrReport does for syntax errors.
func inferOrReport(block *ast.Block, src, filename string) error {
	_, terrs := types.Infer(block)
	if len(terrs) == 0 {
		return nil
	}
	ces := make([]*errors.CompilerError, len(terrs))
	for i, te := range terrs {
		ces[i] = errors.NewCompilerError(errors.Type, te.Pos, te.Message, src, filename)
	}
	fmt.Fprint(os.Stderr, errors.FormatErrors(ces, colorEnabled()))
	return fmt.Errorf("type checking failed with %d error(s)", len(terrs))
}

// topFunctions extracts every top-level *ast.Function from a parsed
// block, the shape internal/bytecode.CompileProgram,
// internal/jit.CompileProgram, and internal/wasm.CompileProgram all
// expect.
func topFunctions(block *ast.Block) []*ast.Function {
	var fns []*ast.Function
	for _, e := range block.Exprs {
		if fn, ok := e.(*ast.Function); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
