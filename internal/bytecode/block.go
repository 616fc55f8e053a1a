package bytecode

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// BasicBlock is a sequence of instructions terminated by exactly one
// terminator instruction. Appending after termination is a compiler bug,
// not a user diagnostic — Append panics in that case.
type BasicBlock struct {
	Name         string
	Instructions []*Instruction
	Terminated   bool
	Parent       *Function
}

// ---------------------
// ----- functions -----
// ---------------------

// Append adds inst to the end of b's instruction list. Appending to an
// already-terminated block panics: this signals an internal inconsistency
// in the generator, not something a user program can trigger.
func (b *BasicBlock) Append(inst *Instruction) {
	if b.Terminated {
		panic(fmt.Sprintf("bytecode: append to terminated block %q", b.Name))
	}
	b.Instructions = append(b.Instructions, inst)
	if inst.IsTerminator() {
		b.Terminated = true
	}
}

// Terminator returns b's terminating instruction, or nil if b has not yet
// been terminated.
func (b *BasicBlock) Terminator() *Instruction {
	if !b.Terminated || len(b.Instructions) == 0 {
		return nil
	}
	return b.Instructions[len(b.Instructions)-1]
}

// Successors returns the basic-block names b's terminator jumps to: one for
// Jump, two (true, false) for JumpIf, none for Return or an unterminated
// block.
func (b *BasicBlock) Successors() []string {
	term := b.Terminator()
	if term == nil {
		return nil
	}
	switch term.Op {
	case Jump:
		return []string{term.Targets[0]}
	case JumpIf:
		return []string{term.Targets[0], term.Targets[1]}
	default:
		return nil
	}
}

// String renders b's instructions as an indented textual listing.
func (b *BasicBlock) String() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%s:\n", b.Name)
	for _, inst := range b.Instructions {
		sb.WriteRune('\t')
		sb.WriteString(inst.String())
		sb.WriteRune('\n')
	}
	return sb.String()
}
