package passes

import (
	"fmt"
	"sync"

	"github.com/quart-lang/qrc/internal/bytecode"
	"github.com/quart-lang/qrc/internal/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// PassManager runs the fixed pass sequence the Non-goals section permits:
// dead-block elimination per function, then dead-function elimination
// across the whole module. There is no pass registration mechanism because
// the set is closed by design, not meant to grow a plugin surface.
type PassManager struct {
	Threads int // > 1 runs per-function block elimination across goroutines, mirroring the teacher's parallel optimise pass.
}

// ---------------------
// ----- functions -----
// ---------------------

// NewPassManager returns a PassManager that fans per-function work out
// across threads worker goroutines when threads > 1.
func NewPassManager(threads int) *PassManager {
	return &PassManager{Threads: threads}
}

// Run eliminates unreachable blocks in every function of m, then drops
// every function unreachable from entryName.
func (pm *PassManager) Run(m *bytecode.Module, entryName string) error {
	if err := pm.eliminateUnreachableBlocksAll(m); err != nil {
		return err
	}
	EliminateDeadFunctions(m, entryName)
	return nil
}

func (pm *PassManager) eliminateUnreachableBlocksAll(m *bytecode.Module) error {
	fns := m.Functions
	if pm.Threads <= 1 || len(fns) < 2 {
		for _, fn := range fns {
			EliminateUnreachableBlocks(fn)
		}
		return nil
	}

	threads := pm.Threads
	if threads > len(fns) {
		threads = len(fns)
	}
	n := len(fns) / threads
	res := len(fns) % threads

	wg := sync.WaitGroup{}
	errs := util.NewPerror(threads)
	wg.Add(threads)

	start := 0
	for i := 0; i < threads; i++ {
		end := start + n
		if i < res {
			end++
		}
		go func(start, end int) {
			defer wg.Done()
			for _, fn := range fns[start:end] {
				func() {
					defer func() {
						if r := recover(); r != nil {
							errs.Append(fmt.Errorf("pass panic in function %q: %v", fn.Name, r))
						}
					}()
					EliminateUnreachableBlocks(fn)
				}()
			}
		}(start, end)
		start = end
	}

	wg.Wait()
	errs.Stop()

	if errs.Len() > 0 {
		for e := range errs.Errors() {
			return e
		}
	}
	return nil
}
