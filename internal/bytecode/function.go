package bytecode

import "fmt"

// maxRegisters is the spec's per-frame register-window ceiling ("up to
// 32 general-purpose registers; a frame owns a contiguous register
// window" — spec §4.5). The compiler refuses to compile a function that
// would need more; CompileProgram then returns that error for the whole
// program.
const maxRegisters = 32

// FunctionValue wraps a compiled Chunk so it can sit in a register or a
// constant pool as an ordinary interp.Value: calling it recurses into
// the VM rather than back out to Go, which is what makes OpCall able to
// express direct and mutually recursive calls without a dedicated
// opcode per call shape.
type FunctionValue struct {
	Name  string
	Arity int
	Chunk *Chunk
}

func (f *FunctionValue) Type() string   { return "CompiledFunction" }
func (f *FunctionValue) String() string { return fmt.Sprintf("<compiled fn %s>", f.Name) }
