package bytecode

import (
	"strings"
	"sync"

	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Global is one module-scope variable slot.
type Global struct {
	Name string
	Type *types.Type
	Used bool
}

// Module is the IR container for an entire compilation unit: its functions
// and globals, in registration order (the order downstream passes and the
// LLVM lowerer must preserve, per the ordering guarantees in §5).
type Module struct {
	mu sync.Mutex

	Name      string
	Functions []*Function
	Globals   []*Global

	byName map[string]*Function
}

// ---------------------
// ----- functions -----
// ---------------------

// NewModule returns an empty IR Module named name.
func NewModule(name string) *Module {
	return &Module{
		Name:      name,
		Functions: make([]*Function, 0, 16),
		Globals:   make([]*Global, 0, 16),
		byName:    make(map[string]*Function, 16),
	}
}

// AddFunction registers fn in m, in call order. Registration order is
// preserved through every later pass.
func (m *Module) AddFunction(fn *Function) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Functions = append(m.Functions, fn)
	m.byName[fn.Name] = fn
}

// AddGlobal registers g in m.
func (m *Module) AddGlobal(g *Global) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Globals = append(m.Globals, g)
}

// Filter replaces m.Functions with the subset for which keep returns true,
// removing the rest from the name index too. Used by passes.
// EliminateDeadFunctions to drop functions unreachable from the program's
// entry point.
func (m *Module) Filter(keep func(*Function) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Functions[:0]
	for _, fn := range m.Functions {
		if keep(fn) {
			kept = append(kept, fn)
		} else {
			delete(m.byName, fn.Name)
		}
	}
	m.Functions = kept
}

// FunctionByName returns the registered function named name, or nil.
func (m *Module) FunctionByName(name string) *Function {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byName[name]
}

// String renders the whole module as a textual bytecode listing, in
// registration order.
func (m *Module) String() string {
	sb := strings.Builder{}
	sb.WriteString("module " + m.Name + "\n\n")
	for _, g := range m.Globals {
		sb.WriteString("global " + g.Name + ": " + g.Type.String() + "\n")
	}
	if len(m.Globals) > 0 {
		sb.WriteRune('\n')
	}
	for _, fn := range m.Functions {
		sb.WriteString(fn.String())
		sb.WriteRune('\n')
	}
	return sb.String()
}
