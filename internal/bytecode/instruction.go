package bytecode

import (
	"fmt"
	"strings"

	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Op is the exhaustive, fixed instruction opcode enumeration from §4.5 — a
// tagged sum rather than an open class hierarchy, so dispatch in every
// downstream consumer (the generator's emitters, the passes, the LLVM
// lowerer) is an exhaustive switch with no risk of a missed case.
type Op int

const (
	Move Op = iota
	NewString
	NewArray
	NewLocalScope
	GetLocal
	GetLocalRef
	SetLocal
	GetGlobal
	GetGlobalRef
	SetGlobal
	Read
	Write
	GetMember
	GetMemberRef
	SetMember
	Add
	Sub
	Mul
	Div
	Mod
	Or
	And
	LogicalOr
	LogicalAnd
	Xor
	Rsh
	Lsh
	Eq
	Neq
	Gt
	Lt
	Gte
	Lte
	Cast
	Jump
	JumpIf
	NewFunction
	GetFunction
	Return
	Call
	NewStruct
	Construct
	Alloca
	Null
	Boolean
)

var opNames = [...]string{
	Move: "Move", NewString: "NewString", NewArray: "NewArray",
	NewLocalScope: "NewLocalScope", GetLocal: "GetLocal", GetLocalRef: "GetLocalRef",
	SetLocal: "SetLocal", GetGlobal: "GetGlobal", GetGlobalRef: "GetGlobalRef",
	SetGlobal: "SetGlobal", Read: "Read", Write: "Write",
	GetMember: "GetMember", GetMemberRef: "GetMemberRef", SetMember: "SetMember",
	Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div", Mod: "Mod",
	Or: "Or", And: "And", LogicalOr: "LogicalOr", LogicalAnd: "LogicalAnd",
	Xor: "Xor", Rsh: "Rsh", Lsh: "Lsh",
	Eq: "Eq", Neq: "Neq", Gt: "Gt", Lt: "Lt", Gte: "Gte", Lte: "Lte",
	Cast: "Cast", Jump: "Jump", JumpIf: "JumpIf",
	NewFunction: "NewFunction", GetFunction: "GetFunction", Return: "Return",
	Call: "Call", NewStruct: "NewStruct", Construct: "Construct",
	Alloca: "Alloca", Null: "Null", Boolean: "Boolean",
}

// String returns the opcode's textual mnemonic.
func (op Op) String() string {
	if int(op) < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", op)
	}
	return opNames[op]
}

// IsTerminator reports whether op ends a basic block. Per §4.5, every block
// must end with exactly one terminator; appending after one is a compiler
// bug, not a user diagnostic.
func (op Op) IsTerminator() bool {
	switch op {
	case Jump, JumpIf, Return:
		return true
	default:
		return false
	}
}

// Instruction is one bytecode operation. Not every field is meaningful for
// every Op; see the Instruction literals built by package gen (emit,
// emitSlot, emitIndexed, emitString and the statement lowerers) for the
// operand shape each opcode expects.
type Instruction struct {
	Op  Op
	Dst Register    // Destination register, for opcodes that write one.
	Typ *types.Type // Result/operand type, when the instruction needs one beyond what its operands carry.

	Operands []Operand // Read operands, e.g. lhs/rhs of a binary op, call arguments.

	Str string // NewString literal payload; Call/GetFunction/NewFunction target name.

	Index int // Local/global/member slot index; specific struct/function table index.

	Targets []string // Jump/JumpIf basic-block name targets (1 for Jump, 2 for JumpIf: [true, false]).
}

// ---------------------
// ----- functions -----
// ---------------------

// IsTerminator reports whether inst ends its basic block.
func (inst *Instruction) IsTerminator() bool {
	return inst.Op.IsTerminator()
}

// String renders inst in a debug-friendly textual bytecode form.
func (inst *Instruction) String() string {
	sb := strings.Builder{}
	switch inst.Op {
	case Jump:
		fmt.Fprintf(&sb, "jump %s", inst.Targets[0])
	case JumpIf:
		fmt.Fprintf(&sb, "jumpif %s, %s, %s", inst.Operands[0], inst.Targets[0], inst.Targets[1])
	case Return:
		if len(inst.Operands) == 0 {
			sb.WriteString("return")
		} else {
			fmt.Fprintf(&sb, "return %s", inst.Operands[0])
		}
	case SetLocal:
		fmt.Fprintf(&sb, "setlocal %d, %s", inst.Index, inst.Operands[0])
	case SetGlobal:
		fmt.Fprintf(&sb, "setglobal %d, %s", inst.Index, inst.Operands[0])
	case SetMember:
		fmt.Fprintf(&sb, "setmember %s[%d], %s", inst.Operands[0], inst.Index, inst.Operands[1])
	case Write:
		fmt.Fprintf(&sb, "write %s, %s", inst.Operands[0], inst.Operands[1])
	case NewLocalScope:
		fmt.Fprintf(&sb, "newlocalscope %s", inst.Str)
	case NewFunction:
		fmt.Fprintf(&sb, "newfunction %s", inst.Str)
	case NewStruct:
		fmt.Fprintf(&sb, "newstruct %s", inst.Str)
	case Call:
		parts := make([]string, len(inst.Operands))
		for i, o := range inst.Operands {
			parts[i] = o.String()
		}
		fmt.Fprintf(&sb, "r%d = call %s(%s)", inst.Dst, inst.Str, strings.Join(parts, ", "))
	default:
		if inst.Op == GetFunction || inst.Op == NewString {
			fmt.Fprintf(&sb, "r%d = %s %q", inst.Dst, inst.Op, inst.Str)
		} else if len(inst.Operands) == 0 {
			fmt.Fprintf(&sb, "r%d = %s", inst.Dst, inst.Op)
		} else {
			parts := make([]string, len(inst.Operands))
			for i, o := range inst.Operands {
				parts[i] = o.String()
			}
			fmt.Fprintf(&sb, "r%d = %s %s", inst.Dst, inst.Op, strings.Join(parts, ", "))
		}
	}
	return sb.String()
}
