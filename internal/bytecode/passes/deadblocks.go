// Package passes implements the bytecode-level optimisations the spec's
// Non-goals permit: dead-block and dead-function elimination, nothing more
// ambitious (no constant folding across registers, no inlining).
package passes

import "github.com/quart-lang/qrc/internal/bytecode"

// EliminateUnreachableBlocks removes every basic block of fn unreachable by
// walking successor edges from the entry block, per §4.7. The entry block
// itself is always kept.
func EliminateUnreachableBlocks(fn *bytecode.Function) {
	if fn.EntryBlock == nil {
		return
	}

	reachable := make(map[string]bool, len(fn.Blocks))
	queue := []*bytecode.BasicBlock{fn.EntryBlock}
	reachable[fn.EntryBlock.Name] = true
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		for _, succName := range b.Successors() {
			if reachable[succName] {
				continue
			}
			reachable[succName] = true
			if nb := fn.BlockByName(succName); nb != nil {
				queue = append(queue, nb)
			}
		}
	}

	kept := fn.Blocks[:0]
	for _, b := range fn.Blocks {
		if reachable[b.Name] {
			kept = append(kept, b)
		}
	}
	fn.Blocks = kept
}
