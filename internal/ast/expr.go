package ast

import (
	"github.com/quart-lang/qrc/internal/symbols"
	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// BinaryOp enumerates the binary operators the generator understands. The
// operator class (arithmetic/comparison/logical) determines the bytecode
// generator's result-type rule per §4.6.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitOr
	OpBitAnd
	OpLogicalOr
	OpLogicalAnd
	OpXor
	OpRsh
	OpLsh
	OpEq
	OpNeq
	OpGt
	OpLt
	OpGte
	OpLte
)

// IsComparison reports whether op yields an i1 boolean result.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpLt, OpGte, OpLte:
		return true
	default:
		return false
	}
}

// IntLiteral is an integer literal expression.
type IntLiteral struct {
	base
	Value int64
	Type  *types.Type // Bit-width-typed per the literal's suffix/inference.
}

func (*IntLiteral) exprNode() {}

// FloatLiteral is a float or double literal expression.
type FloatLiteral struct {
	base
	Value float64
	Type  *types.Type
}

func (*FloatLiteral) exprNode() {}

// StringLiteral is a string literal expression. Always lowered via
// NewString, never as an immediate operand.
type StringLiteral struct {
	base
	Value string
}

func (*StringLiteral) exprNode() {}

// BoolLiteral is a boolean literal expression.
type BoolLiteral struct {
	base
	Value bool
}

func (*BoolLiteral) exprNode() {}

// NullLiteral is the `null` literal of a pointer/reference type.
type NullLiteral struct {
	base
	Type *types.Type
}

func (*NullLiteral) exprNode() {}

// ArrayLiteral is an array literal expression. Elements that don't share the
// unified element type but are safely castable receive an explicit Cast
// during lowering; elements that are neither identical nor castable are a
// type error raised by the generator.
type ArrayLiteral struct {
	base
	Elements []Expr
	Type     *types.Type // ArrayKind, unified element type x len(Elements).
}

func (*ArrayLiteral) exprNode() {}

// TupleLiteral is a tuple literal expression.
type TupleLiteral struct {
	base
	Elements []Expr
	Type     *types.Type
}

func (*TupleLiteral) exprNode() {}

// Identifier is a reference to a previously declared name, resolved to its
// Symbol ahead of generation (name resolution is assumed complete by the
// time the bytecode generator runs).
type Identifier struct {
	base
	Name string
	Sym  symbols.Symbol
}

func (*Identifier) exprNode() {}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	base
	Op          BinaryOp
	Left, Right Expr
	ResultType  *types.Type
}

func (*BinaryExpr) exprNode() {}

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
	OpAddressOf    // `&x`
	OpAddressOfMut // `&mut x`
	OpDeref        // `*x`
)

// UnaryExpr is a unary operator application.
type UnaryExpr struct {
	base
	Op         UnaryOp
	Operand    Expr
	ResultType *types.Type
}

func (*UnaryExpr) exprNode() {}

// AssignExpr assigns Value to Target. The lowerer re-analyzes Target in
// "reference mode" per §4.6.
type AssignExpr struct {
	base
	Target Expr
	Value  Expr
}

func (*AssignExpr) exprNode() {}

// MemberAccess is `expr.field`.
type MemberAccess struct {
	base
	Target    Expr
	Field     string
	FieldType *types.Type
}

func (*MemberAccess) exprNode() {}

// IndexAccess is `expr[index]`, over an array or a pointer.
type IndexAccess struct {
	base
	Target Expr
	Index  Expr
	ElemType *types.Type
}

func (*IndexAccess) exprNode() {}

// CallArg is one argument to a Call, optionally named for keyword
// parameters.
type CallArg struct {
	Name  string // Empty for positional arguments.
	Value Expr
}

// CallExpr is a function call. Callee resolves to a FunctionSymbol (direct
// call) or an arbitrary function-typed Expr (indirect call through a
// variable).
type CallExpr struct {
	base
	Callee Expr
	Args   []CallArg
	Type   *types.Type // Function type of Callee, carries variadicity.
}

func (*CallExpr) exprNode() {}

// CastExpr is an explicit `expr as T`. The generator must have already
// verified types.CanSafelyCast(expr type, To) before emitting this node's
// Cast instruction.
type CastExpr struct {
	base
	Operand Expr
	To      *types.Type
}

func (*CastExpr) exprNode() {}

// IfExpr is `if cond { then } else { else }`, usable as a statement or (when
// Then/Else both yield a value of the same type) as an expression.
type IfExpr struct {
	base
	Cond       Expr
	Then       *Block
	Else       *Block // nil when there is no else branch.
	ResultType *types.Type // nil when used as a statement.
}

func (*IfExpr) exprNode() {}

// MatchArm is one `pattern => body` arm of a MatchExpr.
type MatchArm struct {
	Pattern Expr // A constant-valued pattern, lowered to an Eq comparison.
	Body    *Block
}

// MatchExpr is a `match` expression/statement: each arm's pattern lowers to
// a chain of Eq + JumpIf, falling through to the default arm.
type MatchExpr struct {
	base
	Scrutinee  Expr
	Arms       []MatchArm
	Default    *Block
	ResultType *types.Type // nil when used as a statement; arms must agree otherwise.
}

func (*MatchExpr) exprNode() {}

// SizeofExpr is `sizeof(T)`, resolved by the constant evaluator.
type SizeofExpr struct {
	base
	Of *types.Type
}

func (*SizeofExpr) exprNode() {}

// OffsetofExpr is `offsetof(T, field)`, resolved by the constant evaluator.
type OffsetofExpr struct {
	base
	Of    *types.Type
	Field string
}

func (*OffsetofExpr) exprNode() {}
