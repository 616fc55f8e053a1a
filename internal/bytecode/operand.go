// Package bytecode defines the register-based intermediate representation:
// a fixed, regular instruction set (§4.5) operating over typed operands,
// grouped into terminated basic blocks owned by IR functions.
package bytecode

import (
	"fmt"

	"github.com/quart-lang/qrc/internal/constant"
	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// OperandKind discriminates what an Operand refers to.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandImmediate
)

// Register is an opaque per-function index. Register 0 is the "accumulator"
// convention: the generator's default destination when a caller doesn't
// otherwise need to name one.
type Register uint32

// Accumulator is the conventional register 0.
const Accumulator Register = 0

// Operand is the value an instruction reads or writes: either a register or
// an immediate constant, each carrying its own Type.
type Operand struct {
	Kind OperandKind
	Reg  Register
	Imm  *constant.Constant
	Typ  *types.Type
}

// ---------------------
// ----- functions -----
// ---------------------

// RegOperand returns an Operand referring to register r of type t.
func RegOperand(r Register, t *types.Type) Operand {
	return Operand{Kind: OperandRegister, Reg: r, Typ: t}
}

// ImmOperand returns an Operand wrapping the immediate constant c.
func ImmOperand(c *constant.Constant) Operand {
	return Operand{Kind: OperandImmediate, Imm: c, Typ: c.Type()}
}

// NoOperand is the empty operand used by instructions with no value to
// report, e.g. a void Return.
var NoOperand = Operand{Kind: OperandNone}

// Type returns the static type carried by the operand.
func (o Operand) Type() *types.Type { return o.Typ }

// String renders o for bytecode dumps.
func (o Operand) String() string {
	switch o.Kind {
	case OperandRegister:
		return fmt.Sprintf("r%d", o.Reg)
	case OperandImmediate:
		return o.Imm.String()
	default:
		return "<none>"
	}
}
