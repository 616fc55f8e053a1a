package types

import (
	"fmt"

	"tinygo.org/x/go-llvm"
)

// ToLLVM lowers t to its LLVM representation under ctx. Unlike named LLVM
// functions/globals, llvm.Context.StructCreateNamed never returns an
// existing type for a name already in use — it silently disambiguates with
// a numeric suffix instead — so a StructKind Type caches its own `backing`
// llvm.Type (set once, on first lowering) rather than relying on LLVM to
// deduplicate repeated calls for the same logical struct.
func (t *Type) ToLLVM(ctx llvm.Context, target Target) llvm.Type {
	switch t.kind {
	case Void:
		return ctx.VoidType()
	case IntKind:
		return ctx.IntType(t.bits)
	case FloatKind:
		return ctx.FloatType()
	case DoubleKind:
		return ctx.DoubleType()
	case PointerKind, ReferenceKind:
		if t.pointee.kind == Void {
			return llvm.PointerType(ctx.Int8Type(), 0)
		}
		return llvm.PointerType(t.pointee.ToLLVM(ctx, target), 0)
	case ArrayKind:
		return llvm.ArrayType(t.element.ToLLVM(ctx, target), t.size)
	case TupleKind:
		members := make([]llvm.Type, len(t.elements))
		for i, e := range t.elements {
			members[i] = e.ToLLVM(ctx, target)
		}
		return ctx.StructType(members, false)
	case StructKind:
		if !t.backingSet {
			t.backing = ctx.StructCreateNamed(t.name)
			t.backingSet = true
		}
		if !t.opaque && !t.bodySet {
			members := make([]llvm.Type, len(t.fields))
			for i, f := range t.fields {
				members[i] = f.Type.ToLLVM(ctx, target)
			}
			t.backing.StructSetBody(members, t.packed)
			t.bodySet = true
		}
		return t.backing
	case EnumKind:
		return t.inner.ToLLVM(ctx, target)
	case FunctionKind:
		params := make([]llvm.Type, len(t.params))
		for i, p := range t.params {
			params[i] = p.ToLLVM(ctx, target)
		}
		return llvm.FunctionType(t.ret.ToLLVM(ctx, target), params, t.varArg)
	case TraitKind, EmptyKind:
		panic(fmt.Sprintf("ToLLVM: %s has no concrete LLVM representation", t.String()))
	default:
		panic(fmt.Sprintf("ToLLVM: unhandled kind %d", t.kind))
	}
}
