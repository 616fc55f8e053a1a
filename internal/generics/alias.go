// Package generics implements the parameterized type-alias evaluator,
// generic function specialization cache and impl structural matcher
// described in spec §4.4.
package generics

import (
	"fmt"

	"github.com/quart-lang/qrc/internal/ast"
	"github.com/quart-lang/qrc/internal/source"
	"github.com/quart-lang/qrc/internal/symbols"
	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// State bundles the registry and the current scope, the two pieces of
// ambient context EvaluateAlias needs to thread through type-expression
// evaluation the way the teacher's AST walker threads (builder, module)
// through its lowering functions.
type State struct {
	Registry *Registry
	Scope    *symbols.Scope
}

// Registry is an alias of the whole types.Registry, named here so callers
// can pass *types.Registry directly.
type Registry = types.Registry

// ---------------------
// ----- functions -----
// ---------------------

// EvaluateAlias instantiates alias with the given argument types, per
// §4.4: a transient anonymous scope binds each generic parameter name to a
// concrete TypeAlias symbol, the stored type expression is evaluated under
// that scope, and the result is memoized.
//
// Parameter-list arity must match args unless every omitted parameter has a
// default; passing more args than alias.Params is always an arity error.
func EvaluateAlias(st *State, decl *ast.TypeAliasDecl, args []*types.Type) (*types.Type, error) {
	if cached, ok := decl.Sym.AliasCache(args); ok {
		return cached, nil
	}

	bound, err := bindArgs(decl.Params, decl.Defaults, args, decl.Span())
	if err != nil {
		return nil, err
	}

	// Transient anonymous scope binding each generic parameter to its
	// argument type as a concrete alias symbol. CreateScope links it as a
	// child of st.Scope; it is used only for this evaluation and st.Scope
	// itself is left unchanged.
	transient := symbols.CreateScope("<alias-eval>", symbols.Anonymous, st.Scope)
	for name, argType := range bound {
		_ = transient.Declare(name, &symbols.AliasSymbol{
			QName:      name,
			Underlying: argType,
		})
	}

	result, err := evaluateTypeExpr(st.Registry, transient, decl.Expr)
	if err != nil {
		return nil, err
	}

	decl.Sym.CacheAlias(args, result)
	return result, nil
}

// bindArgs arity-checks args against params/defaults and returns the
// name -> concrete-type binding.
func bindArgs(params []string, defaults map[string]*types.Type, args []*types.Type, span source.Span) (map[string]*types.Type, error) {
	if len(args) > len(params) {
		return nil, source.Errorf(span, "generic arity mismatch: expected at most %d arguments, got %d", len(params), len(args))
	}
	bound := make(map[string]*types.Type, len(params))
	for i, p := range params {
		if i < len(args) {
			bound[p] = args[i]
			continue
		}
		def, ok := defaults[p]
		if !ok {
			return nil, source.Errorf(span, "generic arity mismatch: parameter %q has no argument and no default", p)
		}
		bound[p] = def
	}
	return bound, nil
}

// evaluateTypeExpr resolves expr to a concrete types.Type under scope,
// looking up NameRef identifiers (generic parameters bound as transient
// AliasSymbols, or ordinary declared types) through the scope chain.
func evaluateTypeExpr(reg *types.Registry, scope *symbols.Scope, expr *ast.TypeExpr) (*types.Type, error) {
	switch expr.Kind {
	case ast.NameRef:
		if expr.Concrete != nil {
			return expr.Concrete, nil
		}
		sym := scope.Resolve(expr.Name)
		if sym == nil {
			return nil, fmt.Errorf("undefined type %q", expr.Name)
		}
		alias, ok := sym.(*symbols.AliasSymbol)
		if !ok {
			return nil, fmt.Errorf("%q does not name a type", expr.Name)
		}
		if alias.Underlying == nil {
			return nil, fmt.Errorf("type alias %q used before its generic parameters were bound", expr.Name)
		}
		return alias.Underlying, nil

	case ast.PointerExpr:
		pointee, err := evaluateTypeExpr(reg, scope, expr.Pointee)
		if err != nil {
			return nil, err
		}
		return reg.Pointer(pointee, expr.Mutable), nil

	case ast.ReferenceExpr:
		referent, err := evaluateTypeExpr(reg, scope, expr.Pointee)
		if err != nil {
			return nil, err
		}
		return reg.Reference(referent, expr.Mutable), nil

	case ast.ArrayExpr:
		element, err := evaluateTypeExpr(reg, scope, expr.Element)
		if err != nil {
			return nil, err
		}
		return reg.Array(element, expr.Size), nil

	case ast.TupleExpr:
		elems := make([]*types.Type, len(expr.Elements))
		for i, e := range expr.Elements {
			t, err := evaluateTypeExpr(reg, scope, e)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return reg.Tuple(elems), nil

	case ast.FunctionExpr:
		ret, err := evaluateTypeExpr(reg, scope, expr.Ret)
		if err != nil {
			return nil, err
		}
		params := make([]*types.Type, len(expr.Params))
		for i, p := range expr.Params {
			t, err := evaluateTypeExpr(reg, scope, p)
			if err != nil {
				return nil, err
			}
			params[i] = t
		}
		return reg.Function(ret, params, expr.VarArg), nil

	case ast.AppliedExpr:
		sym := scope.Resolve(expr.Applied.Name)
		alias, ok := sym.(*symbols.AliasSymbol)
		if !ok {
			return nil, fmt.Errorf("%q is not a generic type alias", expr.Applied.Name)
		}
		argTypes := make([]*types.Type, len(expr.Args))
		for i, a := range expr.Args {
			t, err := evaluateTypeExpr(reg, scope, a)
			if err != nil {
				return nil, err
			}
			argTypes[i] = t
		}
		if cached, ok := alias.AliasCache(argTypes); ok {
			return cached, nil
		}
		return nil, fmt.Errorf("applied alias %q must be instantiated via EvaluateAlias before use", expr.Applied.Name)

	default:
		return nil, fmt.Errorf("evaluateTypeExpr: unhandled TypeExprKind %d", expr.Kind)
	}
}
