// Package ast defines the typed AST node contract the bytecode generator
// consumes. The surface syntax and the tokenizer/parser that produce these
// nodes are external collaborators (see spec §1); this package only fixes
// what the IR must be able to express about a fully type-checked program.
package ast

import (
	"github.com/quart-lang/qrc/internal/source"
	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Node is implemented by every AST node. Span locates the node for
// diagnostics; dispatch over concrete node kinds is done with a type switch
// at call sites (exhaustive pattern matching, per the redesign notes,
// rather than runtime downcasts of a base class).
type Node interface {
	Span() source.Span
}

// Expr is an expression node. Each concrete node carries its static type in
// its own field (Type, ResultType, FieldType, ElemType), filled in by the
// type checker (external to this package's contract, but assumed present by
// the time the bytecode generator runs).
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a top-level or member declaration node.
type Decl interface {
	Node
	declNode()
}

// base carries the span every node has; embedded by each concrete node.
type base struct {
	Sp source.Span
}

func (b base) Span() source.Span { return b.Sp }

// File is one parsed, type-checked translation unit.
type File struct {
	base
	Path    string
	Imports []*Import
	Decls   []Decl
}

// Import is a `import a::b::c` directive.
type Import struct {
	base
	Path []string
}
