package bytecode

import (
	"fmt"
	"strings"

	"github.com/quart-lang/qrc/internal/symbols"
	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Function is the IR container for one compiled function: its basic
// blocks, local slot types, and register allocation state.
type Function struct {
	Sym         *symbols.FunctionSymbol
	Name        string
	EntryBlock  *BasicBlock
	Blocks      []*BasicBlock
	Locals      []*types.Type // Indexed by local slot; grows via NewLocal.
	Used        bool          // Not set by any pass; EliminateDeadFunctions removes unreachable functions from the Module instead.

	regSeq   uint32
	blockSeq int
}

// ---------------------
// ----- functions -----
// ---------------------

// NewFunctionIR allocates an empty IR function named name for sym. The
// caller must still call CreateBlock at least once to establish the entry
// block.
func NewFunctionIR(name string, sym *symbols.FunctionSymbol) *Function {
	return &Function{
		Sym:    sym,
		Name:   name,
		Blocks: make([]*BasicBlock, 0, 8),
		Locals: make([]*types.Type, 0, 8),
	}
}

// CreateBlock allocates a new, uniquely named basic block appended to f's
// block list. The first call establishes f.EntryBlock.
func (f *Function) CreateBlock(hint string) *BasicBlock {
	name := fmt.Sprintf("%s%d", blockHint(hint), f.blockSeq)
	f.blockSeq++
	b := &BasicBlock{Name: name, Parent: f}
	f.Blocks = append(f.Blocks, b)
	if f.EntryBlock == nil {
		f.EntryBlock = b
	}
	return b
}

func blockHint(hint string) string {
	if hint == "" {
		return "block"
	}
	return hint
}

// NewRegister allocates a fresh, function-unique register. Register 0 is
// reserved as the accumulator convention and is never returned here.
func (f *Function) NewRegister() Register {
	f.regSeq++
	return Register(f.regSeq)
}

// NewLocal appends a new local slot of type t and returns its index.
func (f *Function) NewLocal(t *types.Type) int {
	f.Locals = append(f.Locals, t)
	return len(f.Locals) - 1
}

// BlockByName returns the block named name, or nil.
func (f *Function) BlockByName(name string) *BasicBlock {
	for _, b := range f.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// String renders f as a textual bytecode listing.
func (f *Function) String() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "function %s {\n", f.Name)
	for i, t := range f.Locals {
		fmt.Fprintf(&sb, "\tlocal %d: %s\n", i, t.String())
	}
	for _, b := range f.Blocks {
		sb.WriteString(b.String())
	}
	sb.WriteString("}\n")
	return sb.String()
}
