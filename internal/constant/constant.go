// Package constant implements the hash-consed pool of IR-level constants.
// Every Constant is produced by a Pool, which keys on (Type, payload), so
// identity reduces to pointer equality the same way it does for types.
package constant

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind discriminates the payload a Constant carries.
type Kind int

const (
	Int Kind = iota
	Float
	String
	Array
	Struct
	Null
)

// Constant is a hash-consed, typed IR-level value.
type Constant struct {
	kind Kind
	typ  *types.Type

	i   int64
	f   float64
	s   string
	arr []*Constant
}

// Pool hash-conses every constant created during a compilation.
type Pool struct {
	mu      sync.Mutex
	ints    map[intKey]*Constant
	floats  map[floatKey]*Constant
	strings map[strKey]*Constant
	arrays  map[string]*Constant
	structs map[string]*Constant
	nulls   map[*types.Type]*Constant
}

type intKey struct {
	typ *types.Type
	v   int64
}

type floatKey struct {
	typ  *types.Type
	bits uint64
}

type strKey struct {
	typ *types.Type
	v   string
}

// ---------------------
// ----- functions -----
// ---------------------

// NewPool returns an empty constant Pool.
func NewPool() *Pool {
	return &Pool{
		ints:    make(map[intKey]*Constant, 64),
		floats:  make(map[floatKey]*Constant, 16),
		strings: make(map[strKey]*Constant, 32),
		arrays:  make(map[string]*Constant, 16),
		structs: make(map[string]*Constant, 16),
		nulls:   make(map[*types.Type]*Constant, 16),
	}
}

// Int returns the unique interned integer constant of the given type.
func (p *Pool) Int(typ *types.Type, v int64) *Constant {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := intKey{typ, v}
	if c, ok := p.ints[k]; ok {
		return c
	}
	c := &Constant{kind: Int, typ: typ, i: v}
	p.ints[k] = c
	return c
}

// Float returns the unique interned float/double constant of the given
// type. The key is the value's math.Float64bits pattern, so that two NaN
// constants with the same bits and type are still the same interned instance.
func (p *Pool) Float(typ *types.Type, v float64) *Constant {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := floatKey{typ, math.Float64bits(v)}
	if c, ok := p.floats[k]; ok {
		return c
	}
	c := &Constant{kind: Float, typ: typ, f: v}
	p.floats[k] = c
	return c
}

// String returns the unique interned C-string constant.
func (p *Pool) String(typ *types.Type, v string) *Constant {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := strKey{typ, v}
	if c, ok := p.strings[k]; ok {
		return c
	}
	c := &Constant{kind: String, typ: typ, s: v}
	p.strings[k] = c
	return c
}

// Array returns the unique interned array constant, memoized by
// (type, []element constants).
func (p *Pool) Array(typ *types.Type, elements []*Constant) *Constant {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := aggregateKey(typ, elements)
	if c, ok := p.arrays[key]; ok {
		return c
	}
	c := &Constant{kind: Array, typ: typ, arr: append([]*Constant(nil), elements...)}
	p.arrays[key] = c
	return c
}

// Struct returns the unique interned struct constant, memoized by
// (type, []field constants).
func (p *Pool) Struct(typ *types.Type, fields []*Constant) *Constant {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := aggregateKey(typ, fields)
	if c, ok := p.structs[key]; ok {
		return c
	}
	c := &Constant{kind: Struct, typ: typ, arr: append([]*Constant(nil), fields...)}
	p.structs[key] = c
	return c
}

// Null returns the unique per-type null constant.
func (p *Pool) Null(typ *types.Type) *Constant {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.nulls[typ]; ok {
		return c
	}
	c := &Constant{kind: Null, typ: typ}
	p.nulls[typ] = c
	return c
}

func aggregateKey(typ *types.Type, elements []*Constant) string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%p:", typ)
	for _, e := range elements {
		fmt.Fprintf(&sb, "%p,", e)
	}
	return sb.String()
}

// Kind returns the payload discriminant of c.
func (c *Constant) Kind() Kind { return c.kind }

// Type returns the interned Type of c.
func (c *Constant) Type() *types.Type { return c.typ }

// Int returns the integer payload of an Int constant.
func (c *Constant) Int() int64 { return c.i }

// Float returns the float payload of a Float constant.
func (c *Constant) Float() float64 { return c.f }

// Str returns the string payload of a String constant.
func (c *Constant) Str() string { return c.s }

// Elements returns the member constants of an Array/Struct constant.
func (c *Constant) Elements() []*Constant { return c.arr }

// String renders a debug-friendly representation of c.
func (c *Constant) String() string {
	switch c.kind {
	case Int:
		return fmt.Sprintf("%d: %s", c.i, c.typ.String())
	case Float:
		return fmt.Sprintf("%g: %s", c.f, c.typ.String())
	case String:
		return fmt.Sprintf("%q: %s", c.s, c.typ.String())
	case Array:
		parts := make([]string, len(c.arr))
		for i, e := range c.arr {
			parts[i] = e.String()
		}
		return fmt.Sprintf("[%s]: %s", strings.Join(parts, ", "), c.typ.String())
	case Struct:
		parts := make([]string, len(c.arr))
		for i, e := range c.arr {
			parts[i] = e.String()
		}
		return fmt.Sprintf("{%s}: %s", strings.Join(parts, ", "), c.typ.String())
	case Null:
		return fmt.Sprintf("null: %s", c.typ.String())
	default:
		return "<unknown constant>"
	}
}
