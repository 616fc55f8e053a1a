package ast

import (
	"github.com/quart-lang/qrc/internal/symbols"
	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Param is one declared function parameter, before binding to a
// symbols.FunctionParameter.
type Param struct {
	Name  string
	Type  *types.Type
	Flags symbols.ParamFlag
}

// FuncDecl is a function (or method, when nested in a StructDecl/ImplDecl)
// declaration.
type FuncDecl struct {
	base
	Name       string
	Params     []Param
	ReturnType *types.Type
	Body       *Block // nil for an extern/intrinsic declaration.
	Linkage    symbols.Linkage
	Attrs      []Attribute
	GenericParams []string // Empty for a non-generic function.
	Sym        *symbols.FunctionSymbol
}

func (*FuncDecl) declNode() {}

// StructFieldDecl is one field in a StructDecl.
type StructFieldDecl struct {
	Name  string
	Type  *types.Type
	Flags symbols.FieldFlag
}

// StructDecl is a struct declaration, with its methods as nested FuncDecls.
type StructDecl struct {
	base
	Name    string
	Fields  []StructFieldDecl
	Methods []*FuncDecl
	Attrs   []Attribute
	Sym     *symbols.StructSymbol
}

func (*StructDecl) declNode() {}

// EnumVariant is one `Name = value` member of an EnumDecl.
type EnumVariant struct {
	Name  string
	Value Expr // Constant-evaluable; nil to auto-increment from the prior variant.
}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	base
	Name     string
	Inner    *types.Type
	Variants []EnumVariant
	Sym      *symbols.EnumSymbol
}

func (*EnumDecl) declNode() {}

// TraitDecl is a trait declaration: a named capability set resolved by name
// equality at the IR level.
type TraitDecl struct {
	base
	Name    string
	Methods []*FuncDecl // Signatures only; Body is nil for trait methods.
	Sym     *symbols.TraitSymbol
}

func (*TraitDecl) declNode() {}

// ImplCondition is one conditional clause of a generic ImplDecl, e.g.
// `where T: Trait`.
type ImplCondition struct {
	TypeVar string
	Trait   string
}

// ImplDecl attaches methods/associated items to a type, optionally generic
// over a type pattern with conditions.
type ImplDecl struct {
	base
	TargetType  *types.Type // Set directly for a plain (non-generic) impl.
	TypeExpr    *TypeExpr   // Un-evaluated type pattern for a generic impl.
	Conditions  []ImplCondition
	Methods     []*FuncDecl
	TraitName   string // Empty unless this is a trait implementation.
}

func (*ImplDecl) declNode() {}

// TypeAliasDecl is a (possibly generic) `type Name<Params> = Expr`
// declaration.
type TypeAliasDecl struct {
	base
	Name     string
	Params   []string
	Defaults map[string]*types.Type
	Expr     *TypeExpr // Un-evaluated type expression.
	Sym      *symbols.AliasSymbol
}

func (*TypeAliasDecl) declNode() {}

// GlobalVarDecl is a module-scope variable declaration.
type GlobalVarDecl struct {
	base
	Name    string
	Type    *types.Type
	Init    Expr
	Mutable bool
	Public  bool
	Sym     *symbols.Variable
}

func (*GlobalVarDecl) declNode() {}
