package llvmgen

import (
	"errors"
	"fmt"

	"tinygo.org/x/go-llvm"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Format selects what EmitToBytes produces, the lowering-side half of §6's
// format list (the driver handles the remaining two, shared-object and
// executable, by invoking the linker over an Object emission).
type Format int

const (
	FormatIR Format = iota
	FormatBitcode
	FormatAssembly
	FormatObject
)

// ---------------------
// ----- functions -----
// ---------------------

var targetsInitialized bool

func ensureTargetsInitialized() {
	if targetsInitialized {
		return
	}
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()
	targetsInitialized = true
}

// Verify runs LLVM's module verifier over the receiver's module, per §4.8
// step 5 ("the module is verified ... in the requested format").
func (lw *Lowerer) Verify() error {
	return llvm.VerifyModule(lw.mod, llvm.ReturnStatusAction)
}

// CodeGenOptLevelFor maps a §6 -O level string to the llvm.CodeGenOptLevel
// CreateTargetMachine expects. -Os/-Oz (size-optimizing) both map to
// LLVM's "default" tier, which is the closest built-in equivalent the
// CreateTargetMachine API exposes; true -Os/-Oz size tuning belongs to the
// pass-pipeline builder this compiler doesn't run (§5 Non-goals: no
// source-level optimizations beyond dead-function elimination).
func CodeGenOptLevelFor(level string) llvm.CodeGenOptLevel {
	switch level {
	case "0":
		return llvm.CodeGenLevelNone
	case "1":
		return llvm.CodeGenLevelLess
	case "3":
		return llvm.CodeGenLevelAggressive
	default:
		return llvm.CodeGenLevelDefault
	}
}

// targetMachine constructs the llvm.TargetMachine for triple/cpu, the
// direct analogue of the teacher's inline CreateTargetMachine call in
// GenLLVM, generalized to take an explicit triple/cpu pair instead of
// switching over a closed TargetArch enum — qrc's target set isn't fixed
// to the teacher's riscv32/riscv64/default trio.
func targetMachine(triple, cpu, features string, optLevel llvm.CodeGenOptLevel) (llvm.TargetMachine, error) {
	ensureTargetsInitialized()
	t, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return llvm.TargetMachine{}, fmt.Errorf("resolving target triple %q: %w", triple, err)
	}
	tm := t.CreateTargetMachine(triple, cpu, features,
		optLevel,
		llvm.RelocDefault,
		llvm.CodeModelDefault)
	return tm, nil
}

// EmitToBytes lowers the receiver's module to format, for the given target
// triple/cpu/optimization level, returning the raw bytes. Mirrors the
// teacher's tm.EmitToMemoryBuffer(m, ft) call, generalized over Format
// instead of a single hardcoded llvm.ObjectFile.
func (lw *Lowerer) EmitToBytes(triple, cpu, features string, optLevel llvm.CodeGenOptLevel, format Format) ([]byte, error) {
	if format == FormatIR {
		return []byte(lw.mod.String()), nil
	}
	if format == FormatBitcode {
		buf := llvm.WriteBitcodeToMemoryBuffer(lw.mod)
		if buf.IsNil() {
			return nil, errors.New("llvmgen: bitcode emission produced an empty buffer")
		}
		return buf.Bytes(), nil
	}

	tm, err := targetMachine(triple, cpu, features, optLevel)
	if err != nil {
		return nil, err
	}
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()
	lw.mod.SetDataLayout(td.String())
	lw.mod.SetTarget(tm.Triple())

	var ft llvm.CodeGenFileType
	switch format {
	case FormatAssembly:
		ft = llvm.AssemblyFile
	case FormatObject:
		ft = llvm.ObjectFile
	default:
		return nil, fmt.Errorf("llvmgen: unhandled format %d", format)
	}

	buf, err := tm.EmitToMemoryBuffer(lw.mod, ft)
	if err != nil {
		return nil, err
	}
	if buf.IsNil() {
		return nil, errors.New("llvmgen: emission produced an empty buffer")
	}
	return buf.Bytes(), nil
}
