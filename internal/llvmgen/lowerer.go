// Package llvmgen lowers the register-based bytecode IR (package bytecode)
// into LLVM IR via tinygo.org/x/go-llvm, the teacher's own LLVM binding, and
// emits the result in any of the formats §6 names.
package llvmgen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/quart-lang/qrc/internal/bytecode"
	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Lowerer owns the LLVM context/module/builder triple for one compilation
// unit's lowering pass, generalized from the teacher's single global
// ctx/m/b trio in GenLLVM to a struct so a driver can run several
// lowerings (e.g. one per linked translation unit) without global state.
type Lowerer struct {
	Target types.Target

	ctx llvm.Context
	mod llvm.Module

	fns           map[string]llvm.Value
	globals       map[string]llvm.Value
	globalsByIdx  []llvm.Value
	stringLiterals map[string]llvm.Value
}

// ---------------------
// ----- functions -----
// ---------------------

// NewLowerer returns a Lowerer with a fresh context and an empty module
// named moduleName.
func NewLowerer(target types.Target, moduleName string) *Lowerer {
	ctx := llvm.NewContext()
	return &Lowerer{
		Target:         target,
		ctx:            ctx,
		mod:            ctx.NewModule(moduleName),
		fns:            make(map[string]llvm.Value, 32),
		globals:        make(map[string]llvm.Value, 16),
		stringLiterals: make(map[string]llvm.Value, 16),
	}
}

// Dispose releases the underlying LLVM context and everything owned by it
// (the module included). Must be called exactly once, after emission.
func (lw *Lowerer) Dispose() {
	lw.mod.Dispose()
	lw.ctx.Dispose()
}

// Module returns the lowered llvm.Module, valid until Dispose.
func (lw *Lowerer) Module() llvm.Module { return lw.mod }

// Lower lowers every global and function of m into the receiver's LLVM
// module: first every global and every function signature, so forward and
// mutually recursive calls resolve regardless of registration order, then
// every function body. Mirrors the two-pass shape of the teacher's
// GenLLVM (global/header pass, then body pass), minus its parallelism —
// goroutine-per-function codegen would race on the shared llvm.Context, so
// the functions are lowered one after another.
func (lw *Lowerer) Lower(m *bytecode.Module) error {
	for _, g := range m.Globals {
		llvmType := g.Type.ToLLVM(lw.ctx, lw.Target)
		gv := llvm.AddGlobal(lw.mod, llvmType, g.Name)
		gv.SetInitializer(llvm.ConstNull(llvmType))
		lw.globals[g.Name] = gv
		lw.globalsByIdx = append(lw.globalsByIdx, gv)
	}

	for _, fn := range m.Functions {
		lw.declareFunction(fn)
	}

	for _, fn := range m.Functions {
		if len(fn.Blocks) == 0 {
			continue // Declaration only, e.g. an extern libc binding.
		}
		if err := lw.lowerFunction(fn); err != nil {
			return fmt.Errorf("lowering function %q: %w", fn.Name, err)
		}
	}
	return nil
}

func (lw *Lowerer) declareFunction(fn *bytecode.Function) llvm.Value {
	if v, ok := lw.fns[fn.Name]; ok {
		return v
	}
	var fnType llvm.Type
	if fn.Sym != nil {
		fnType = fn.Sym.Type.ToLLVM(lw.ctx, lw.Target)
	}
	llvmFn := llvm.AddFunction(lw.mod, fn.Name, fnType)
	lw.fns[fn.Name] = llvmFn
	return llvmFn
}
