package types

import "testing"

func TestCanSafelyCastIdentity(t *testing.T) {
	r := NewRegistry()
	i32 := r.I32()
	if !CanSafelyCast(i32, i32) {
		t.Error("identical types should always be castable")
	}
}

func TestCanSafelyCastIntWidening(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name string
		from *Type
		to   *Type
		want bool
	}{
		{"widen signed", r.I8(), r.I32(), true},
		{"narrow signed", r.I32(), r.I8(), false},
		{"same width different sign", r.I32(), r.U32(), false},
		{"widen unsigned", r.U8(), r.U32(), true},
		{"anything to i1", r.I32(), r.I1(), true},
		{"equal width", r.I32(), r.I32(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSafelyCast(tt.from, tt.to); got != tt.want {
				t.Errorf("CanSafelyCast(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanSafelyCastFloats(t *testing.T) {
	r := NewRegistry()
	if !CanSafelyCast(r.Float(), r.Double()) {
		t.Error("f32 -> f64 should be permitted")
	}
	if CanSafelyCast(r.Double(), r.Float()) {
		t.Error("f64 -> f32 should be forbidden (narrowing)")
	}
	if !CanSafelyCast(r.Float(), r.Float()) {
		t.Error("f32 -> f32 should be permitted")
	}
}

func TestCanSafelyCastPointers(t *testing.T) {
	r := NewRegistry()
	i32 := r.I32()
	i8 := r.I8()

	constI32Ptr := r.Pointer(i32, false)
	mutI32Ptr := r.Pointer(i32, true)
	constI8Ptr := r.Pointer(i8, false)
	voidPtr := r.Pointer(r.Void(), false)

	tests := []struct {
		name string
		from *Type
		to   *Type
		want bool
	}{
		{"const to const, same pointee", constI32Ptr, r.Pointer(i32, false), true},
		{"mut to const", mutI32Ptr, constI32Ptr, true},
		{"const to mut forbidden", constI32Ptr, mutI32Ptr, false},
		{"different pointee forbidden", constI32Ptr, constI8Ptr, false},
		{"any to void* allowed", constI32Ptr, voidPtr, true},
		{"void* to any allowed", voidPtr, constI32Ptr, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSafelyCast(tt.from, tt.to); got != tt.want {
				t.Errorf("CanSafelyCast(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanSafelyCastReferencesRequireIdenticalReferent(t *testing.T) {
	r := NewRegistry()
	i32 := r.I32()
	i8 := r.I8()

	ref1 := r.Reference(i32, false)
	ref2 := r.Reference(i32, false)
	refI8 := r.Reference(i8, false)

	if !CanSafelyCast(ref1, ref2) {
		t.Error("references to the identical interned pointee should cast")
	}
	// i8 -> i32 is a safe widening cast for pointers, but references demand
	// an exact referent match per the preserved open-question resolution.
	if CanSafelyCast(refI8, ref1) {
		t.Error("&i8 -> &i32 should be forbidden even though i8 safely widens to i32")
	}
}

func TestCanSafelyCastArrays(t *testing.T) {
	r := NewRegistry()
	i32 := r.I32()
	if !CanSafelyCast(r.Array(i32, 4), r.Array(i32, 4)) {
		t.Error("identical arrays should cast")
	}
	if CanSafelyCast(r.Array(i32, 4), r.Array(i32, 8)) {
		t.Error("arrays of different length should not cast")
	}
	if CanSafelyCast(r.Array(i32, 4), r.Array(r.I8(), 4)) {
		t.Error("arrays of different element type should not cast")
	}
}

func TestCanSafelyCastStructsRequireIdentity(t *testing.T) {
	r := NewRegistry()
	a := r.DeclareStruct("A")
	b := r.DeclareStruct("B")
	if !CanSafelyCast(a, a) {
		t.Error("a struct should cast to itself")
	}
	if CanSafelyCast(a, b) {
		t.Error("distinct struct types should not cast")
	}
}

func TestCanSafelyCastEnumRequiresSameEnum(t *testing.T) {
	r := NewRegistry()
	e1 := r.Enum("Color", r.I32())
	e2 := r.Enum("Shape", r.I32())
	if !CanSafelyCast(e1, e1) {
		t.Error("an enum should cast to itself")
	}
	if CanSafelyCast(e2, e1) {
		t.Error("casting to an enum should require the source be the same enum")
	}
	if CanSafelyCast(r.I32(), e1) {
		t.Error("an int should not safely cast to an unrelated enum")
	}
}

func TestCanSafelyCastTuples(t *testing.T) {
	r := NewRegistry()
	i32 := r.I32()
	i8 := r.I8()
	if !CanSafelyCast(r.Tuple([]*Type{i32, i8}), r.Tuple([]*Type{i32, i8})) {
		t.Error("identical tuples should cast")
	}
	if CanSafelyCast(r.Tuple([]*Type{i32, i8}), r.Tuple([]*Type{i8, i32})) {
		t.Error("tuples with reordered element types should not cast")
	}
	if CanSafelyCast(r.Tuple([]*Type{i32}), r.Tuple([]*Type{i32, i8})) {
		t.Error("tuples of different arity should not cast")
	}
}

func TestCanSafelyCastUnrelatedKindsForbidden(t *testing.T) {
	r := NewRegistry()
	if CanSafelyCast(r.I32(), r.Float()) {
		t.Error("int -> float should not be a safe cast")
	}
	if CanSafelyCast(r.Pointer(r.I32(), false), r.I64()) {
		t.Error("pointer -> int should not be a safe cast")
	}
}
