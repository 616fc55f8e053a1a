package constant

import (
	"math"
	"testing"

	"github.com/quart-lang/qrc/internal/types"
)

func TestPoolIntInterning(t *testing.T) {
	reg := types.NewRegistry()
	p := NewPool()
	i32 := reg.I32()

	a := p.Int(i32, 42)
	b := p.Int(i32, 42)
	if a != b {
		t.Fatal("Int(i32, 42) returned distinct pointers for the same key")
	}
	c := p.Int(i32, 43)
	if a == c {
		t.Fatal("different int values interned to the same constant")
	}
	d := p.Int(reg.I64(), 42)
	if a == d {
		t.Fatal("same value, different type interned to the same constant")
	}
}

func TestPoolFloatInterningIncludingNaN(t *testing.T) {
	p := NewPool()
	reg := types.NewRegistry()
	f32 := reg.Float()

	a := p.Float(f32, 1.5)
	b := p.Float(f32, 1.5)
	if a != b {
		t.Fatal("Float(f32, 1.5) returned distinct pointers for the same key")
	}

	n1 := p.Float(f32, math.NaN())
	n2 := p.Float(f32, math.NaN())
	if n1 != n2 {
		t.Fatal("two NaN constants of the same type should intern identically")
	}
}

func TestPoolStringInterning(t *testing.T) {
	p := NewPool()
	reg := types.NewRegistry()
	cstr := reg.Cstr()

	a := p.String(cstr, "hello")
	b := p.String(cstr, "hello")
	if a != b {
		t.Fatal("String(cstr, \"hello\") returned distinct pointers for the same key")
	}
	c := p.String(cstr, "world")
	if a == c {
		t.Fatal("different string payloads interned to the same constant")
	}
}

func TestPoolArrayInterning(t *testing.T) {
	p := NewPool()
	reg := types.NewRegistry()
	i32 := reg.I32()
	arrType := reg.Array(i32, 2)

	e1 := p.Int(i32, 1)
	e2 := p.Int(i32, 2)

	a := p.Array(arrType, []*Constant{e1, e2})
	b := p.Array(arrType, []*Constant{e1, e2})
	if a != b {
		t.Fatal("Array with identical element constants should intern to the same pointer")
	}
	c := p.Array(arrType, []*Constant{e2, e1})
	if a == c {
		t.Fatal("arrays with reordered elements interned identically")
	}
	if len(a.Elements()) != 2 {
		t.Fatalf("Elements() = %d, want 2", len(a.Elements()))
	}
}

func TestPoolNullPerType(t *testing.T) {
	p := NewPool()
	reg := types.NewRegistry()
	i32 := reg.I32()
	i64 := reg.I64()

	a := p.Null(i32)
	b := p.Null(i32)
	if a != b {
		t.Fatal("Null(i32) returned distinct pointers for the same type")
	}
	c := p.Null(i64)
	if a == c {
		t.Fatal("Null for different types interned identically")
	}
}

func TestConstantAccessors(t *testing.T) {
	p := NewPool()
	reg := types.NewRegistry()
	i32 := reg.I32()

	c := p.Int(i32, 7)
	if c.Kind() != Int {
		t.Errorf("Kind() = %v, want Int", c.Kind())
	}
	if c.Type() != i32 {
		t.Error("Type() did not return the interned i32")
	}
	if c.Int() != 7 {
		t.Errorf("Int() = %d, want 7", c.Int())
	}
}

func TestConstantString(t *testing.T) {
	p := NewPool()
	reg := types.NewRegistry()
	i32 := reg.I32()

	c := p.Int(i32, 7)
	want := "7: i32"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	arrC := p.Array(reg.Array(i32, 2), []*Constant{p.Int(i32, 1), p.Int(i32, 2)})
	wantArr := "[1: i32, 2: i32]: [i32; 2]"
	if got := arrC.String(); got != wantArr {
		t.Errorf("String() = %q, want %q", got, wantArr)
	}

	nullC := p.Null(i32)
	wantNull := "null: i32"
	if got := nullC.String(); got != wantNull {
		t.Errorf("String() = %q, want %q", got, wantNull)
	}
}
