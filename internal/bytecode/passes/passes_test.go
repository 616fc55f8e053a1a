package passes

import (
	"testing"

	"github.com/quart-lang/qrc/internal/bytecode"
)

// buildFunc returns an empty IR function named name; each test creates,
// terminates and wires together its blocks itself.
func buildFunc(name string) *bytecode.Function {
	return bytecode.NewFunctionIR(name, nil)
}

func TestEliminateUnreachableBlocks(t *testing.T) {
	fn := buildFunc("f")
	entry := fn.CreateBlock("entry")
	live := fn.CreateBlock("live")
	dead := fn.CreateBlock("dead")
	_ = dead

	entry.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{live.Name}})
	live.Append(&bytecode.Instruction{Op: bytecode.Return})
	// dead is never targeted by anything and stays unterminated.

	if len(fn.Blocks) != 3 {
		t.Fatalf("expected 3 blocks before the pass, got %d", len(fn.Blocks))
	}

	EliminateUnreachableBlocks(fn)

	if len(fn.Blocks) != 2 {
		t.Fatalf("expected 2 reachable blocks after the pass, got %d", len(fn.Blocks))
	}
	for _, b := range fn.Blocks {
		if b.Name == dead.Name {
			t.Fatalf("unreachable block %q survived the pass", b.Name)
		}
	}
}

func TestEliminateUnreachableBlocksDiamond(t *testing.T) {
	fn := buildFunc("f")
	entry := fn.CreateBlock("entry")
	thenB := fn.CreateBlock("then")
	elseB := fn.CreateBlock("else")
	end := fn.CreateBlock("end")

	entry.Append(&bytecode.Instruction{
		Op:      bytecode.JumpIf,
		Targets: []string{thenB.Name, elseB.Name},
	})
	thenB.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{end.Name}})
	elseB.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{end.Name}})
	end.Append(&bytecode.Instruction{Op: bytecode.Return})

	EliminateUnreachableBlocks(fn)

	if len(fn.Blocks) != 4 {
		t.Fatalf("expected all 4 diamond blocks to survive, got %d", len(fn.Blocks))
	}
}

func TestEliminateDeadFunctions(t *testing.T) {
	m := bytecode.NewModule("m")

	main := buildFunc("main")
	mainEntry := main.CreateBlock("entry")
	mainEntry.Append(&bytecode.Instruction{Op: bytecode.Call, Dst: 1, Str: "helper"})
	mainEntry.Append(&bytecode.Instruction{Op: bytecode.Return})
	m.AddFunction(main)

	helper := buildFunc("helper")
	helperEntry := helper.CreateBlock("entry")
	helperEntry.Append(&bytecode.Instruction{Op: bytecode.Return})
	m.AddFunction(helper)

	unused := buildFunc("unused")
	unusedEntry := unused.CreateBlock("entry")
	unusedEntry.Append(&bytecode.Instruction{Op: bytecode.Return})
	m.AddFunction(unused)

	EliminateDeadFunctions(m, "main")

	if m.FunctionByName("unused") != nil {
		t.Fatal("unreachable function \"unused\" survived dead-function elimination")
	}
	if m.FunctionByName("main") == nil || m.FunctionByName("helper") == nil {
		t.Fatal("reachable functions were incorrectly removed")
	}
}

func TestEliminateDeadFunctionsKeepsAddressTaken(t *testing.T) {
	m := bytecode.NewModule("m")

	main := buildFunc("main")
	mainEntry := main.CreateBlock("entry")
	mainEntry.Append(&bytecode.Instruction{Op: bytecode.GetFunction, Dst: 1, Str: "callback"})
	mainEntry.Append(&bytecode.Instruction{Op: bytecode.Return})
	m.AddFunction(main)

	callback := buildFunc("callback")
	callbackEntry := callback.CreateBlock("entry")
	callbackEntry.Append(&bytecode.Instruction{Op: bytecode.Return})
	m.AddFunction(callback)

	EliminateDeadFunctions(m, "main")

	if m.FunctionByName("callback") == nil {
		t.Fatal("function whose address is taken via GetFunction was incorrectly removed")
	}
}

func TestPassManagerRunSequential(t *testing.T) {
	m := bytecode.NewModule("m")
	fn := buildFunc("main")
	entry := fn.CreateBlock("entry")
	dead := fn.CreateBlock("dead")
	_ = dead
	entry.Append(&bytecode.Instruction{Op: bytecode.Return})
	m.AddFunction(fn)

	pm := NewPassManager(1)
	if err := pm.Run(m, "main"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(fn.Blocks) != 1 {
		t.Fatalf("expected dead block pruned, got %d blocks", len(fn.Blocks))
	}
}

func TestPassManagerRunParallel(t *testing.T) {
	m := bytecode.NewModule("m")
	for i := 0; i < 8; i++ {
		fn := buildFunc(nameFor(i))
		entry := fn.CreateBlock("entry")
		dead := fn.CreateBlock("dead")
		_ = dead
		entry.Append(&bytecode.Instruction{Op: bytecode.Return})
		m.AddFunction(fn)
	}

	pm := NewPassManager(4)
	if err := pm.Run(m, "fn0"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for _, fn := range m.Functions {
		if len(fn.Blocks) != 1 {
			t.Fatalf("function %q: expected dead block pruned, got %d blocks", fn.Name, len(fn.Blocks))
		}
	}
}

func nameFor(i int) string {
	return "fn" + string(rune('0'+i))
}
