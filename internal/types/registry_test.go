package types

import "testing"

func TestRegistryIntInterning(t *testing.T) {
	r := NewRegistry()
	a := r.Int(32, true)
	b := r.Int(32, true)
	if a != b {
		t.Fatal("Int(32, true) returned distinct pointers for the same key")
	}
	u := r.Int(32, false)
	if a == u {
		t.Fatal("Int(32, true) and Int(32, false) interned to the same type")
	}
	if r.I32() != r.Int(32, true) {
		t.Fatal("I32() did not return the interned Int(32, true) singleton")
	}
}

func TestRegistryPointerVsReference(t *testing.T) {
	r := NewRegistry()
	i32 := r.I32()

	p1 := r.Pointer(i32, false)
	p2 := r.Pointer(i32, false)
	if p1 != p2 {
		t.Fatal("Pointer(i32, false) returned distinct pointers for the same key")
	}

	ref := r.Reference(i32, false)
	if p1 == ref {
		t.Fatal("Pointer and Reference to the same pointee/mutability interned identically")
	}

	mutPtr := r.Pointer(i32, true)
	if mutPtr == p1 {
		t.Fatal("mutable and immutable pointers to the same pointee interned identically")
	}
}

func TestRegistryArrayAndTuple(t *testing.T) {
	r := NewRegistry()
	i32 := r.I32()

	arr1 := r.Array(i32, 4)
	arr2 := r.Array(i32, 4)
	if arr1 != arr2 {
		t.Fatal("Array(i32, 4) returned distinct pointers for the same key")
	}
	arr3 := r.Array(i32, 8)
	if arr1 == arr3 {
		t.Fatal("arrays of different length interned identically")
	}

	tup1 := r.Tuple([]*Type{i32, r.I8()})
	tup2 := r.Tuple([]*Type{i32, r.I8()})
	if tup1 != tup2 {
		t.Fatal("Tuple returned distinct pointers for the same element list")
	}
	tup3 := r.Tuple([]*Type{r.I8(), i32})
	if tup1 == tup3 {
		t.Fatal("tuples with reordered elements interned identically")
	}
}

func TestRegistryStructCompletion(t *testing.T) {
	r := NewRegistry()
	s := r.DeclareStruct("Point")
	if !s.IsOpaque() {
		t.Fatal("freshly declared struct should be opaque")
	}
	if r.DeclareStruct("Point") != s {
		t.Fatal("DeclareStruct did not return the same struct on redeclaration")
	}

	fields := []Field{
		{Name: "x", Type: r.I32(), Index: 0},
		{Name: "y", Type: r.I32(), Index: 1},
	}
	r.CompleteStruct(s, fields, false)
	if s.IsOpaque() {
		t.Fatal("struct remained opaque after CompleteStruct")
	}
	if len(s.Fields()) != 2 {
		t.Fatalf("Fields() = %d entries, want 2", len(s.Fields()))
	}
	if s.IsPacked() {
		t.Fatal("struct completed with packed=false should report IsPacked() == false")
	}
}

func TestRegistryCompleteStructPacked(t *testing.T) {
	r := NewRegistry()
	s := r.DeclareStruct("Packed")
	r.CompleteStruct(s, []Field{{Name: "x", Type: r.I32(), Index: 0}}, true)
	if !s.IsPacked() {
		t.Fatal("struct completed with packed=true should report IsPacked() == true")
	}
}

func TestRegistryCompleteStructTwicePanics(t *testing.T) {
	r := NewRegistry()
	s := r.DeclareStruct("Point")
	r.CompleteStruct(s, []Field{{Name: "x", Type: r.I32(), Index: 0}}, false)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second CompleteStruct call")
		}
	}()
	r.CompleteStruct(s, []Field{{Name: "x", Type: r.I32(), Index: 0}}, false)
}

func TestTypeStringRendering(t *testing.T) {
	r := NewRegistry()
	i32 := r.I32()

	tests := []struct {
		name string
		typ  *Type
		want string
	}{
		{"void", r.Void(), "void"},
		{"i32", i32, "i32"},
		{"u8", r.U8(), "u8"},
		{"f32", r.Float(), "f32"},
		{"f64", r.Double(), "f64"},
		{"const ptr", r.Pointer(i32, false), "*const i32"},
		{"mut ptr", r.Pointer(i32, true), "*mut i32"},
		{"ref", r.Reference(i32, false), "&i32"},
		{"mut ref", r.Reference(i32, true), "&mut i32"},
		{"array", r.Array(i32, 3), "[i32; 3]"},
		{"tuple", r.Tuple([]*Type{i32, r.U8()}), "(i32, u8)"},
		{"function", r.Function(i32, []*Type{i32, r.U8()}, false), "func(i32, u8) -> i32"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeSize(t *testing.T) {
	r := NewRegistry()
	target := Target{WordSize: 64}
	i32 := r.I32()

	tests := []struct {
		name string
		typ  *Type
		want int
	}{
		{"void", r.Void(), 0},
		{"i8", r.I8(), 1},
		{"i32", i32, 4},
		{"i64", r.I64(), 8},
		{"f32", r.Float(), 4},
		{"f64", r.Double(), 8},
		{"pointer", r.Pointer(i32, false), 8},
		{"array", r.Array(i32, 4), 16},
		{"tuple", r.Tuple([]*Type{i32, r.I8()}), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Size(target); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTypeSize32BitTarget(t *testing.T) {
	r := NewRegistry()
	target := Target{WordSize: 32}
	if got := r.Pointer(r.I32(), false).Size(target); got != 4 {
		t.Errorf("Size() on a 32-bit target = %d, want 4", got)
	}
}
