package ast

import "github.com/quart-lang/qrc/internal/types"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// TypeExpr is the un-evaluated form of a type, as written in a generic type
// alias body or an impl's target type pattern — i.e. it may reference
// generic parameter names that only resolve to a concrete types.Type once
// bound by internal/generics.
type TypeExpr struct {
	Kind TypeExprKind

	Name string // NameRef: the referenced identifier (a generic parameter or a concrete declared type).

	Pointee *TypeExpr // PointerExpr / ReferenceExpr.
	Mutable bool

	Element *TypeExpr // ArrayExpr.
	Size    int

	Elements []*TypeExpr // TupleExpr.

	Ret    *TypeExpr // FunctionExpr.
	Params []*TypeExpr
	VarArg bool

	Applied *TypeExpr   // AppliedExpr: the alias being instantiated, e.g. `Pair` in `Pair<i32>`.
	Args    []*TypeExpr // AppliedExpr: the argument list, e.g. `[i32]`.

	Concrete *types.Type // NameRef that already resolved to a concrete (non-generic-parameter) type.
}

// TypeExprKind discriminates a TypeExpr's shape.
type TypeExprKind int

const (
	NameRef TypeExprKind = iota
	PointerExpr
	ReferenceExpr
	ArrayExpr
	TupleExpr
	FunctionExpr
	AppliedExpr
)
