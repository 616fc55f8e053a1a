package types

import (
	"fmt"
	"sync"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// intKey, ptrKey, arrKey, fnKey are the structural keys the Registry hashes
// on for the corresponding Type variant. Using one typed map per variant
// (rather than a single polymorphic key) avoids the source's reliance on an
// operator-overloaded map comparator, per the redesign notes.
type intKey struct {
	bits   int
	signed bool
}

type ptrKey struct {
	pointee *Type
	mutable bool
	ref     bool // true selects ReferenceKind over PointerKind.
}

type arrKey struct {
	element *Type
	size    int
}

type fnKey struct {
	ret    *Type
	params string // tupleKey of the params (their %p addresses joined); arity+identity implied.
	varArg bool
}

// Registry is the sole source of Type identities for one compilation. Every
// construction goes through it; entries are never freed until the Registry
// itself is dropped.
type Registry struct {
	mu sync.Mutex

	ints    map[intKey]*Type
	ptrs    map[ptrKey]*Type
	arrs    map[arrKey]*Type
	tuples  map[string]*Type
	fns     map[fnKey]*Type
	structs map[string]*Type
	enums   map[string]*Type
	traits  map[string]*Type
	empties map[string]*Type

	// Singletons.
	voidT *Type
	f32T  *Type
	f64T  *Type
}

// ---------------------
// ----- functions -----
// ---------------------

// NewRegistry returns an empty Registry with the primitive singletons
// pre-created, so that e.g. every i32 is the same object from first use.
func NewRegistry() *Registry {
	r := &Registry{
		ints:    make(map[intKey]*Type, 16),
		ptrs:    make(map[ptrKey]*Type, 64),
		arrs:    make(map[arrKey]*Type, 16),
		tuples:  make(map[string]*Type, 16),
		fns:     make(map[fnKey]*Type, 32),
		structs: make(map[string]*Type, 32),
		enums:   make(map[string]*Type, 16),
		traits:  make(map[string]*Type, 16),
		empties: make(map[string]*Type, 16),
	}
	r.voidT = &Type{kind: Void}
	r.f32T = &Type{kind: FloatKind}
	r.f64T = &Type{kind: DoubleKind}
	for bits := 1; bits <= 64; bits++ {
		if bits == 1 || bits == 8 || bits == 16 || bits == 32 || bits == 64 {
			r.Int(bits, true)
			r.Int(bits, false)
		}
	}
	return r
}

// Void returns the singleton void type.
func (r *Registry) Void() *Type { return r.voidT }

// Float returns the singleton 32-bit float type.
func (r *Registry) Float() *Type { return r.f32T }

// Double returns the singleton 64-bit float type.
func (r *Registry) Double() *Type { return r.f64T }

// I1, I8, I16, I32, I64 are the signed integer singletons.
func (r *Registry) I1() *Type  { return r.Int(1, true) }
func (r *Registry) I8() *Type  { return r.Int(8, true) }
func (r *Registry) I16() *Type { return r.Int(16, true) }
func (r *Registry) I32() *Type { return r.Int(32, true) }
func (r *Registry) I64() *Type { return r.Int(64, true) }

// U8, U16, U32, U64 are the unsigned integer singletons.
func (r *Registry) U8() *Type  { return r.Int(8, false) }
func (r *Registry) U16() *Type { return r.Int(16, false) }
func (r *Registry) U32() *Type { return r.Int(32, false) }
func (r *Registry) U64() *Type { return r.Int(64, false) }

// Cstr returns `*const i8`, the canonical C-string pointer type.
func (r *Registry) Cstr() *Type {
	return r.Pointer(r.I8(), false)
}

// Int returns the unique interned integer type for (bits, signed).
func (r *Registry) Int(bits int, signed bool) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := intKey{bits, signed}
	if t, ok := r.ints[k]; ok {
		return t
	}
	t := &Type{kind: IntKind, bits: bits, signed: signed}
	r.ints[k] = t
	return t
}

// Pointer returns the unique interned `*T`/`*mut T` type.
func (r *Registry) Pointer(pointee *Type, mutable bool) *Type {
	return r.ptrOrRef(pointee, mutable, false)
}

// Reference returns the unique interned `&T`/`&mut T` type.
func (r *Registry) Reference(referent *Type, mutable bool) *Type {
	return r.ptrOrRef(referent, mutable, true)
}

func (r *Registry) ptrOrRef(pointee *Type, mutable, ref bool) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := ptrKey{pointee, mutable, ref}
	if t, ok := r.ptrs[k]; ok {
		return t
	}
	kind := PointerKind
	if ref {
		kind = ReferenceKind
	}
	t := &Type{kind: kind, pointee: pointee, mutable: mutable}
	r.ptrs[k] = t
	return t
}

// GetPointerTo is sugar for Pointer(t, mutable).
func (t *Type) GetPointerTo(r *Registry, mutable bool) *Type {
	return r.Pointer(t, mutable)
}

// GetReferenceTo is sugar for Reference(t, mutable).
func (t *Type) GetReferenceTo(r *Registry, mutable bool) *Type {
	return r.Reference(t, mutable)
}

// Array returns the unique interned `[T; N]` type.
func (r *Registry) Array(element *Type, size int) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := arrKey{element, size}
	if t, ok := r.arrs[k]; ok {
		return t
	}
	t := &Type{kind: ArrayKind, element: element, size: size}
	r.arrs[k] = t
	return t
}

// Tuple returns the unique interned `(A, B, C)` type.
func (r *Registry) Tuple(elements []*Type) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := tupleKey(elements)
	if t, ok := r.tuples[key]; ok {
		return t
	}
	cp := append([]*Type(nil), elements...)
	t := &Type{kind: TupleKind, elements: cp}
	r.tuples[key] = t
	return t
}

func tupleKey(elements []*Type) string {
	s := ""
	for _, e := range elements {
		s += fmt.Sprintf("%p,", e)
	}
	return s
}

// Function returns the unique interned function type.
func (r *Registry) Function(ret *Type, params []*Type, varArg bool) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fnKey{ret: ret, params: tupleKey(params), varArg: varArg}
	if t, ok := r.fns[key]; ok {
		return t
	}
	cp := append([]*Type(nil), params...)
	t := &Type{kind: FunctionKind, ret: ret, params: cp, varArg: varArg}
	r.fns[key] = t
	return t
}

// DeclareStruct returns the (possibly pre-existing, still opaque) struct
// type named name. The caller must ensure uniqueness of names within a
// module.
func (r *Registry) DeclareStruct(name string) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.structs[name]; ok {
		return t
	}
	t := &Type{kind: StructKind, name: name, opaque: true}
	r.structs[name] = t
	return t
}

// CompleteStruct rewrites t's field list exactly once, turning an opaque
// forward-declared struct into a concrete one. A second call panics: no
// later mutation of a struct's fields is permitted. packed carries the
// struct's packed attribute through to ToLLVM's StructSetBody, disabling
// the target ABI's usual inter-field alignment padding.
func (r *Registry) CompleteStruct(t *Type, fields []Field, packed bool) {
	if t.kind != StructKind {
		panic("CompleteStruct: not a struct type")
	}
	if !t.opaque {
		panic(fmt.Sprintf("CompleteStruct: struct %q already completed", t.name))
	}
	t.fields = fields
	t.packed = packed
	t.opaque = false
}

// Enum returns the unique interned enum type named name with the given
// backing type.
func (r *Registry) Enum(name string, inner *Type) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.enums[name]; ok {
		return t
	}
	t := &Type{kind: EnumKind, name: name, inner: inner}
	r.enums[name] = t
	return t
}

// Trait returns the unique interned trait type named name.
func (r *Registry) Trait(name string) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.traits[name]; ok {
		return t
	}
	t := &Type{kind: TraitKind, name: name}
	r.traits[name] = t
	return t
}

// Empty returns the unique interned generic-parameter placeholder named
// name.
func (r *Registry) Empty(name string) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.empties[name]; ok {
		return t
	}
	t := &Type{kind: EmptyKind, name: name}
	r.empties[name] = t
	return t
}
