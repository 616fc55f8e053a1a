package passes

import "github.com/quart-lang/qrc/internal/bytecode"

// EliminateDeadFunctions removes every function in m unreachable from
// entryName by a call-graph walk, per §4.7. A function whose address is
// taken via GetFunction is conservatively kept regardless of reachability,
// since an indirect call through that value could target it from anywhere
// the lowerer can't statically rule out.
func EliminateDeadFunctions(m *bytecode.Module, entryName string) {
	addressTaken := make(map[string]bool, len(m.Functions))
	for _, fn := range m.Functions {
		for _, b := range fn.Blocks {
			for _, inst := range b.Instructions {
				if inst.Op == bytecode.GetFunction && inst.Str != "" {
					addressTaken[inst.Str] = true
				}
			}
		}
	}

	reachable := make(map[string]bool, len(m.Functions))
	var visit func(name string)
	visit = func(name string) {
		if reachable[name] {
			return
		}
		fn := m.FunctionByName(name)
		if fn == nil {
			return
		}
		reachable[name] = true
		refs := make(map[string]bool, 8)
		collectFunctionRefs(fn, refs)
		for callee := range refs {
			visit(callee)
		}
	}

	if entryName != "" {
		visit(entryName)
	}
	for name := range addressTaken {
		visit(name)
	}

	m.Filter(func(fn *bytecode.Function) bool { return reachable[fn.Name] })
}

// collectFunctionRefs records every function name fn's body names, either
// as a direct Call target or as the operand of a GetFunction (address-of).
func collectFunctionRefs(fn *bytecode.Function, out map[string]bool) {
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			switch inst.Op {
			case bytecode.Call, bytecode.GetFunction:
				if inst.Str != "" {
					out[inst.Str] = true
				}
			}
		}
	}
}
