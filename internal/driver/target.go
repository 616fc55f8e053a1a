package driver

import (
	"fmt"
	"strings"

	"tinygo.org/x/go-llvm"

	"github.com/quart-lang/qrc/internal/types"
)

// ResolveTriple returns the LLVM target triple to compile for: opt.Target
// verbatim if set, otherwise the host's default triple, per §6
// ("--target=TRIPLE — default host triple"). Unlike the teacher's
// genTargetTriple (which only ever built a triple from a closed
// arch/vendor/os enum trio), qrc accepts an opaque triple string directly
// and defers all validation to LLVM's own GetTargetFromTriple.
func ResolveTriple(opt Options) string {
	if opt.Target != "" {
		return opt.Target
	}
	return llvm.DefaultTargetTriple()
}

// WordSize infers the target's pointer width from its triple's
// architecture component, per §6 ("Target::word_size() returns 32 or 64
// per the triple"). A handful of known 32-bit archs are listed explicitly;
// everything else defaults to 64, matching the teacher's own default ("i"
// was Int64Type unless Riscv32 was selected).
func WordSize(triple string) int {
	arch := triple
	if idx := strings.IndexByte(triple, '-'); idx >= 0 {
		arch = triple[:idx]
	}
	switch arch {
	case "i386", "i486", "i586", "i686", "x86", "arm", "armv7", "riscv32":
		return 32
	default:
		return 64
	}
}

// TargetOf returns the types.Target derived from triple, for threading
// into the type registry's Size() calculations, the LLVM lowerer, and the
// bytecode generator's `link(platform=...)` filtering.
func TargetOf(triple string) types.Target {
	return types.Target{WordSize: WordSize(triple), OS: OSOf(triple)}
}

// OSOf extracts the OS component from triple's dash-separated segments,
// per the common `arch-vendor-os[-environment]` triple shape. Returns ""
// if no recognized OS segment is present (e.g. a bare "wasm32-unknown").
func OSOf(triple string) string {
	for _, part := range strings.Split(triple, "-") {
		switch part {
		case "linux", "darwin", "windows", "freebsd", "netbsd", "openbsd", "wasi", "none":
			return part
		}
	}
	return ""
}

// PrintAllTargets implements --print-all-targets: lists every target
// triple's architecture the host LLVM build supports.
func PrintAllTargets() {
	llvm.InitializeAllTargetInfos()
	for t := llvm.FirstTarget(); !t.IsNil(); t = t.NextTarget() {
		fmt.Printf("%s - %s\n", t.Name(), t.Description())
	}
}

// CPUFor picks a target-machine CPU string for triple. qrc has no
// per-architecture tuning table (the teacher's TODO-laden "causes LLVM to
// crash" riscv64 special case isn't something to inherit); "generic" is a
// safe default every backend accepts.
func CPUFor(triple string) string {
	return "generic"
}
