package symbols

import (
	"strings"

	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// SymbolKind discriminates the named-entity variants a Symbol can be.
type SymbolKind int

const (
	KindVariable SymbolKind = iota
	KindFunction
	KindStruct
	KindEnum
	KindTypeAlias
	KindModule
	KindTrait
)

// Linkage controls how a Function's qualified name is mangled for the
// linker.
type Linkage int

const (
	LinkageNone Linkage = iota
	LinkageUnspecified
	LinkageC
)

// VarFlag is a bit in a Variable's flag set.
type VarFlag uint32

const (
	FlagReference VarFlag = 1 << iota
	FlagMutable
	FlagUsed
	FlagMutated
	FlagConstant
	FlagPublic
	FlagGlobal
)

// ParamFlag is a bit in a FunctionParameter's flag set.
type ParamFlag uint32

const (
	ParamKeyword ParamFlag = 1 << iota
	ParamMutable
	ParamSelf
	ParamVariadic
)

// FieldFlag is a bit in a struct Field's flag set.
type FieldFlag uint32

const (
	FieldPrivate FieldFlag = 1 << iota
	FieldReadonly
	FieldMutable
)

// Symbol is implemented by every named entity the scope tree can hold.
type Symbol interface {
	symbolKind() SymbolKind
	Public() bool
	QualifiedName() string
}

// Variable is a Symbol representing a local, global, or parameter binding.
type Variable struct {
	QName  string
	Index  int // Local slot index in a function scope, global slot index at module scope.
	Type   *types.Type
	Flags  VarFlag
	owner  *ModuleSymbol
}

// FunctionParameter is one entry in a Function's parameter list.
type FunctionParameter struct {
	Name  string
	Type  *types.Type
	Flags ParamFlag
}

// LoopContext records the jump targets for the innermost enclosing loop, so
// that break/continue in the bytecode generator know where to jump.
type LoopContext struct {
	Start string // Header block name.
	End   string // End block name.
}

// FunctionSymbol is a Symbol representing a named function, including
// specialized clones of a generic template.
type FunctionSymbol struct {
	QName       string
	Linkage     Linkage
	Type        *types.Type // FunctionKind type.
	Parameters  []FunctionParameter
	Scope       *Scope
	Locals      []*types.Type // Indexed by local slot.
	CurrentLoop *LoopContext
	IsPublic    bool

	// specializations caches clones of a generic function template, keyed
	// by the canonical joined string of the instantiating parameter types.
	specializations map[string]*FunctionSymbol
	owner           *ModuleSymbol
}

// StructField is one named, indexed member of a StructSymbol.
type StructField struct {
	Index int
	Type  *types.Type
	Flags FieldFlag
}

// StructSymbol is a Symbol representing a struct declaration. Its methods
// live as FunctionSymbols in its own Scope.
type StructSymbol struct {
	QName    string
	Type     *types.Type // StructKind type.
	Fields   map[string]StructField
	Scope    *Scope
	Opaque   bool
	IsPublic bool
	owner    *ModuleSymbol
}

// EnumSymbol is a Symbol representing an enum declaration.
type EnumSymbol struct {
	QName      string
	Type       *types.Type // EnumKind type.
	Variants   map[string]int64
	IsPublic   bool
	owner      *ModuleSymbol
}

// ModuleState tracks import-cycle detection: a module re-entered while
// still Importing is a cycle.
type ModuleState int

const (
	Importing ModuleState = iota
	Ready
)

// ModuleSymbol is a Symbol representing a `.qr` file or package directory.
type ModuleSymbol struct {
	QName        string
	AbsolutePath string
	Scope        *Scope
	State        ModuleState
	ParentModule *ModuleSymbol
}

// TraitSymbol is a Symbol representing a named capability set.
type TraitSymbol struct {
	QName    string
	Type     *types.Type // TraitKind type.
	IsPublic bool
	owner    *ModuleSymbol
}

// AliasSymbol is a Symbol representing a (possibly generic) type alias.
type AliasSymbol struct {
	QName      string
	Params     []string // Generic parameter names, empty for a concrete alias.
	Defaults   map[string]*types.Type
	Underlying *types.Type // Set directly for a concrete alias.
	Expr       interface{} // Un-evaluated type expression (ast.TypeExpr) for a generic alias.
	cache      map[string]*types.Type
	owner      *ModuleSymbol
}

// ---------------------
// ----- functions -----
// ---------------------

func (v *Variable) symbolKind() SymbolKind        { return KindVariable }
func (f *FunctionSymbol) symbolKind() SymbolKind  { return KindFunction }
func (s *StructSymbol) symbolKind() SymbolKind    { return KindStruct }
func (e *EnumSymbol) symbolKind() SymbolKind      { return KindEnum }
func (m *ModuleSymbol) symbolKind() SymbolKind    { return KindModule }
func (t *TraitSymbol) symbolKind() SymbolKind     { return KindTrait }
func (a *AliasSymbol) symbolKind() SymbolKind     { return KindTypeAlias }

func (v *Variable) Public() bool       { return v.Flags&FlagPublic != 0 }
func (f *FunctionSymbol) Public() bool { return f.IsPublic }
func (s *StructSymbol) Public() bool   { return s.IsPublic }
func (e *EnumSymbol) Public() bool     { return e.IsPublic }
func (m *ModuleSymbol) Public() bool   { return true }
func (t *TraitSymbol) Public() bool    { return t.IsPublic }
func (a *AliasSymbol) Public() bool    { return true }

func (v *Variable) QualifiedName() string       { return v.QName }
func (f *FunctionSymbol) QualifiedName() string { return f.QName }
func (s *StructSymbol) QualifiedName() string   { return s.QName }
func (e *EnumSymbol) QualifiedName() string     { return e.QName }
func (m *ModuleSymbol) QualifiedName() string   { return m.QName }
func (t *TraitSymbol) QualifiedName() string    { return t.QName }
func (a *AliasSymbol) QualifiedName() string    { return a.QName }

// GetSpecialization returns the cached specialized clone of f for the given
// argument type vector, if one has been generated.
func (f *FunctionSymbol) GetSpecialization(argTypes []*types.Type) (*FunctionSymbol, bool) {
	if f.specializations == nil {
		return nil, false
	}
	spec, ok := f.specializations[specializationKey(argTypes)]
	return spec, ok
}

// CacheSpecialization records clone as the specialized form of f for
// argTypes.
func (f *FunctionSymbol) CacheSpecialization(argTypes []*types.Type, clone *FunctionSymbol) {
	if f.specializations == nil {
		f.specializations = make(map[string]*FunctionSymbol, 4)
	}
	f.specializations[specializationKey(argTypes)] = clone
}

func specializationKey(argTypes []*types.Type) string {
	parts := make([]string, len(argTypes))
	for i, t := range argTypes {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// AliasCache returns the memoized instantiation for argTypes, if present.
func (a *AliasSymbol) AliasCache(argTypes []*types.Type) (*types.Type, bool) {
	if a.cache == nil {
		return nil, false
	}
	t, ok := a.cache[specializationKey(argTypes)]
	return t, ok
}

// CacheAlias memoizes result as the instantiation of a for argTypes.
func (a *AliasSymbol) CacheAlias(argTypes []*types.Type, result *types.Type) {
	if a.cache == nil {
		a.cache = make(map[string]*types.Type, 4)
	}
	a.cache[specializationKey(argTypes)] = result
}
