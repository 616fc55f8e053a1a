package ast

import "github.com/quart-lang/qrc/internal/types"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Block is a braced sequence of statements, the building block of function
// bodies, if/while/match arms.
type Block struct {
	base
	Stmts []Stmt
}

func (*Block) stmtNode() {}

// ExprStmt wraps an expression evaluated for its side effects only.
type ExprStmt struct {
	base
	X Expr
}

func (*ExprStmt) stmtNode() {}

// DeclStmt is a local variable declaration, e.g. `let mut x: i32 = 1`.
type DeclStmt struct {
	base
	Name    string
	Type    *types.Type
	Init    Expr // nil for an uninitialized declaration.
	Mutable bool
}

func (*DeclStmt) stmtNode() {}

// DestructureStmt is `let (a, *rest, b) = tuple`. See DESIGN.md's Open
// Question decision for the *rest semantics when Source is pointer-typed.
type DestructureStmt struct {
	base
	Names   []string
	RestIdx int // Index of the *rest binding, or -1 if there is none.
	Source  Expr
}

func (*DestructureStmt) stmtNode() {}

// ReturnStmt is `return [expr]`.
type ReturnStmt struct {
	base
	Value Expr // nil for an empty return, only legal in a void function.
}

func (*ReturnStmt) stmtNode() {}

// WhileStmt is `while cond { body }`.
type WhileStmt struct {
	base
	Cond Expr
	Body *Block
}

func (*WhileStmt) stmtNode() {}

// BreakStmt and ContinueStmt are only legal inside a WhileStmt's Body.
type BreakStmt struct{ base }

func (*BreakStmt) stmtNode() {}

type ContinueStmt struct{ base }

func (*ContinueStmt) stmtNode() {}

// StaticAssertStmt is `static_assert(cond, "message")`, evaluated entirely
// at compile time by the constant evaluator.
type StaticAssertStmt struct {
	base
	Cond    Expr
	Message string
}

func (*StaticAssertStmt) stmtNode() {}
