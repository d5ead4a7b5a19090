package bytecode

import (
	"bytes"
	"sort"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestDisassemblySnapshots follows the teacher's fixture_test.go use of
// github.com/gkampitakis/go-snaps to pin down the register VM's compiled
// output for a handful of representative programs, so a change to the
// compiler's register allocation or opcode selection shows up as a diff
// against internal/bytecode/__snapshots__ instead of silently changing
// behavior.
func TestDisassemblySnapshots(t *testing.T) {
	programs := map[string]string{
		"arithmetic": `fn add(a: Int, b: Int) -> Int { a + b * 2 }`,
		"recursive_fib": `fn fib(n: Int) -> Int {
			if n < 2 { n } else { fib(n - 1) + fib(n - 2) }
		}`,
		"while_loop": `fn sumTo(n: Int) -> Int {
			let mut i = 0
			let mut total = 0
			while i < n {
				total = total + i
				i = i + 1
			}
			total
		}`,
	}

	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		src := programs[name]
		fns := parseFunctions(t, src)
		funcs, err := CompileProgram(fns)
		if err != nil {
			t.Fatalf("%s: compile: %s", name, err)
		}
		for _, fn := range funcs {
			var buf bytes.Buffer
			Disassemble(&buf, fn.Chunk)
			snaps.MatchSnapshot(t, name+"/"+fn.Name, buf.String())
		}
	}
}
