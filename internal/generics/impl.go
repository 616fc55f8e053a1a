package generics

import (
	"fmt"

	"github.com/quart-lang/qrc/internal/ast"
	"github.com/quart-lang/qrc/internal/symbols"
	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Impl is either a plain {type, scope} pair (Pattern == nil) or a generic
// impl {pattern, body, conditions} with a memoized target-type -> scope map
// produced by structural matching.
type Impl struct {
	Pattern    *ast.TypeExpr // nil for a plain (non-generic) impl.
	Conditions []ast.ImplCondition
	Body       *symbols.Scope // The un-elaborated impl body scope (template), for generic impls.

	// PlainType/PlainScope hold the resolved pair for a non-generic impl.
	PlainType  *types.Type
	PlainScope *symbols.Scope

	matched map[*types.Type]*symbols.Scope
}

// TraitSatisfied checks whether target's elaborated impl scope declares a
// symbol for every method the trait requires. It is consulted by the type
// checker (external to this contract, but the call is provided here since
// impl matching is the natural place to check the requirement) before a
// trait bound is considered satisfied.
func TraitSatisfied(implScope *symbols.Scope, requiredMethods []string) bool {
	for _, m := range requiredMethods {
		if implScope.ResolveLocal(m) == nil {
			return false
		}
	}
	return true
}

// ---------------------
// ----- functions -----
// ---------------------

// MatchImpl resolves the elaborated method scope of impl for target,
// memoized per concrete type. For a plain impl this is just PlainScope
// (after checking target == PlainType); for a generic impl it performs a
// structural pattern match of target against Pattern and binds the matched
// type variables, plus Self = target, as aliases in a freshly materialized
// scope whose parent is Body's parent. The impl body is not elaborated into
// that scope: none of Body's symbols are copied or re-typed, so the
// returned scope holds only those aliases.
func MatchImpl(reg *types.Registry, impl *Impl, target *types.Type) (*symbols.Scope, error) {
	if impl.Pattern == nil {
		if impl.PlainType != target {
			return nil, fmt.Errorf("impl target %s does not match requested type %s", impl.PlainType.String(), target.String())
		}
		return impl.PlainScope, nil
	}

	if impl.matched == nil {
		impl.matched = make(map[*types.Type]*symbols.Scope, 4)
	}
	if scope, ok := impl.matched[target]; ok {
		return scope, nil
	}

	bindings := make(map[string]*types.Type, 4)
	if !matchPattern(impl.Pattern, target, bindings) {
		return nil, fmt.Errorf("type %s does not match impl pattern", target.String())
	}

	scope := symbols.CreateScope("<impl>", symbols.Impl, impl.Body.Parent)
	for name, bound := range bindings {
		_ = scope.Declare(name, &symbols.AliasSymbol{QName: name, Underlying: bound})
	}
	_ = scope.Declare("Self", &symbols.AliasSymbol{QName: "Self", Underlying: target})

	impl.matched[target] = scope
	return scope, nil
}

// matchPattern structurally matches target against pattern, binding any
// Empty{name} type-variable occurrences into bindings. A type variable that
// occurs more than once in pattern must bind consistently every time.
func matchPattern(pattern *ast.TypeExpr, target *types.Type, bindings map[string]*types.Type) bool {
	switch pattern.Kind {
	case ast.NameRef:
		if existing, bound := bindings[pattern.Name]; bound {
			return existing == target
		}
		if pattern.Concrete != nil {
			return pattern.Concrete == target
		}
		// An unbound NameRef is a type-variable occurrence (Empty{name}
		// binds here); non-generic concrete names are resolved to
		// pattern.Concrete ahead of matching by the caller.
		bindings[pattern.Name] = target
		return true

	case ast.PointerExpr:
		if target.Kind() != types.PointerKind || target.Mutable() != pattern.Mutable {
			return false
		}
		return matchPattern(pattern.Pointee, target.Pointee(), bindings)

	case ast.ReferenceExpr:
		if target.Kind() != types.ReferenceKind || target.Mutable() != pattern.Mutable {
			return false
		}
		return matchPattern(pattern.Pointee, target.Pointee(), bindings)

	case ast.ArrayExpr:
		if target.Kind() != types.ArrayKind || target.ArrayLen() != pattern.Size {
			return false
		}
		return matchPattern(pattern.Element, target.Element(), bindings)

	case ast.TupleExpr:
		if target.Kind() != types.TupleKind || len(target.Elements()) != len(pattern.Elements) {
			return false
		}
		for i, p := range pattern.Elements {
			if !matchPattern(p, target.Elements()[i], bindings) {
				return false
			}
		}
		return true

	case ast.FunctionExpr:
		if target.Kind() != types.FunctionKind || len(target.Params()) != len(pattern.Params) || target.VarArg() != pattern.VarArg {
			return false
		}
		if !matchPattern(pattern.Ret, target.Return(), bindings) {
			return false
		}
		for i, p := range pattern.Params {
			if !matchPattern(p, target.Params()[i], bindings) {
				return false
			}
		}
		return true

	default:
		return false
	}
}
