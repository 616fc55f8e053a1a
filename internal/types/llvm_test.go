package types

import (
	"testing"

	"tinygo.org/x/go-llvm"
)

func TestToLLVMCachesStructBackingAcrossCallSites(t *testing.T) {
	r := NewRegistry()
	point := r.DeclareStruct("Point")
	r.CompleteStruct(point, []Field{
		{Name: "x", Type: r.I32(), Index: 0},
		{Name: "y", Type: r.I32(), Index: 1},
	}, false)

	ctx := llvm.NewContext()
	defer ctx.Dispose()
	target := Target{WordSize: 64, OS: "linux"}

	// Simulate the same struct being lowered independently from more than
	// one call site: a global's type, then a function parameter's type,
	// then a local alloca's type. All three must resolve to the identical
	// llvm.Type, not three distinct StructCreateNamed allocations.
	fromGlobal := point.ToLLVM(ctx, target)
	fnType := r.Function(r.Void(), []*Type{point}, false)
	fromParam := fnType.Params()[0].ToLLVM(ctx, target)
	fromLocal := point.ToLLVM(ctx, target)

	if fromGlobal != fromParam {
		t.Error("struct type lowered via a function parameter should be identical to the one lowered via a global")
	}
	if fromGlobal != fromLocal {
		t.Error("struct type lowered a second time directly should return the cached backing, not a new StructCreateNamed type")
	}
}

func TestToLLVMStructBodySetOnlyOnce(t *testing.T) {
	r := NewRegistry()
	s := r.DeclareStruct("S")
	r.CompleteStruct(s, []Field{{Name: "x", Type: r.I32(), Index: 0}}, false)

	ctx := llvm.NewContext()
	defer ctx.Dispose()
	target := Target{WordSize: 64, OS: "linux"}

	// Lowering the same completed struct twice must not panic (LLVM's
	// StructSetBody on an already-sized struct would be invalid), which
	// would happen if bodySet weren't tracked.
	first := s.ToLLVM(ctx, target)
	second := s.ToLLVM(ctx, target)
	if first != second {
		t.Error("repeated ToLLVM calls for a completed struct should return the same backing type")
	}
}
