package generics

import (
	"github.com/quart-lang/qrc/internal/symbols"
	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// CloneFunc lowers a cloned, re-bound function body into a fresh bytecode
// function (emitting NewFunction + NewLocalScope) and registers it
// globally. It is supplied by the caller of Specialize, since generics does
// not lower function bodies itself — generics only owns the specialization
// cache and the scope/symbol cloning around it.
type CloneFunc func(template *symbols.FunctionSymbol, scope *symbols.Scope, argTypes []*types.Type) (*symbols.FunctionSymbol, error)

// ---------------------
// ----- functions -----
// ---------------------

// Specialize returns the specialized clone of template for the parameter
// type vector argTypes, building and caching it on a cache miss via clone.
//
// Key: the vector of parameter types. On a cache miss, the function's
// signature/scope is cloned, the body is re-bound under the new scope, and
// it is lowered into a fresh bytecode function.
func Specialize(template *symbols.FunctionSymbol, argTypes []*types.Type, clone CloneFunc) (*symbols.FunctionSymbol, error) {
	if spec, ok := template.GetSpecialization(argTypes); ok {
		return spec, nil
	}

	childScope := symbols.CreateScope(template.QName+"<specialized>", symbols.Function, template.Scope.Parent)
	spec, err := clone(template, childScope, argTypes)
	if err != nil {
		return nil, err
	}

	template.CacheSpecialization(argTypes, spec)
	return spec, nil
}
