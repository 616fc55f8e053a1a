package driver

import (
	"fmt"
	"os"

	"github.com/quart-lang/qrc/internal/ast"
	"github.com/quart-lang/qrc/internal/bytecode/gen"
	"github.com/quart-lang/qrc/internal/bytecode/passes"
	"github.com/quart-lang/qrc/internal/constant"
	"github.com/quart-lang/qrc/internal/llvmgen"
	"github.com/quart-lang/qrc/internal/resolve"
	"github.com/quart-lang/qrc/internal/types"
)

// Frontend produces a fully type-checked AST for one input file. The
// tokenizer/parser/type-checker are external collaborators per spec §1;
// the driver only depends on this narrow contract so the rest of the
// pipeline (resolve → generate → passes → lower → link) never needs to
// know how a *ast.File came to exist.
type Frontend interface {
	ParseFile(path string) (*ast.File, error)
}

// Compile runs the full pipeline for opt: parse every input via fe,
// resolve its imports, lower to bytecode, run the optimisation passes,
// lower to LLVM IR, and emit/link the requested output. Mirrors the
// shape of the teacher's src/main.go run() function (parse → optimise →
// either LLVM-generate or hand-written-backend-generate), generalized
// to qrc's resolve/generate/passes/lower/link stage list.
func Compile(opt Options, fe Frontend) error {
	if opt.PrintAllTargets {
		PrintAllTargets()
		return nil
	}
	if len(opt.Inputs) == 0 {
		return fmt.Errorf("driver: no input files")
	}
	if opt.JIT {
		return fmt.Errorf("driver: --jit execution is not supported by this build")
	}

	triple := ResolveTriple(opt)
	target := TargetOf(triple)

	registry := types.NewRegistry()
	pool := constant.NewPool()
	resolver := resolve.NewResolver(resolve.Options{ImportPaths: opt.ImportPaths})

	g := gen.New(registry, pool, target)
	for _, input := range opt.Inputs {
		file, err := fe.ParseFile(input)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", input, err)
		}
		if err := resolveImports(resolver, file); err != nil {
			return err
		}
		if opt.Verbose {
			fmt.Printf("generating bytecode for %s\n", input)
		}
		if err := g.GenerateFile(file); err != nil {
			return fmt.Errorf("generating %s: %w", input, err)
		}
	}

	pm := passes.NewPassManager(opt.Threads)
	if err := pm.Run(g.Module, opt.Entry); err != nil {
		return fmt.Errorf("running optimisation passes: %w", err)
	}

	if opt.Verbose {
		fmt.Print(g.Module.String())
	}

	lw := llvmgen.NewLowerer(target, g.Module.Name)
	defer lw.Dispose()
	if err := lw.Lower(g.Module); err != nil {
		return fmt.Errorf("lowering to LLVM IR: %w", err)
	}
	if err := lw.Verify(); err != nil {
		return fmt.Errorf("module verification failed: %w", err)
	}

	return emitAndLink(opt, lw, triple)
}

// resolveImports resolves every import of file, reporting the first
// cycle or lookup failure. Full transitive module-body loading is out of
// scope (§5 Non-goals: "full module-import resolution beyond path
// search"); this only exercises the path-search/cycle-detection contract
// package resolve implements.
func resolveImports(r *resolve.Resolver, file *ast.File) error {
	dir := "."
	for _, imp := range file.Imports {
		mod, err := r.Resolve(imp.Path, dir)
		if err != nil {
			return fmt.Errorf("import %v: %w", imp.Path, err)
		}
		r.MarkReady(mod)
	}
	return nil
}

// emitAndLink writes the lowered module in opt.Format, invoking the
// linker for FormatExe/FormatShared per §6's linker-invocation rule.
func emitAndLink(opt Options, lw *llvmgen.Lowerer, triple string) error {
	out := DefaultOutputPath(opt)
	cpu := CPUFor(triple)

	switch opt.Format {
	case FormatLLVMIR:
		return writeFile(opt, out, lw, triple, cpu, llvmgen.FormatIR)
	case FormatLLVMBC:
		return writeFile(opt, out, lw, triple, cpu, llvmgen.FormatBitcode)
	case FormatAssembly:
		return writeFile(opt, out, lw, triple, cpu, llvmgen.FormatAssembly)
	case FormatObject:
		return writeFile(opt, out, lw, triple, cpu, llvmgen.FormatObject)
	case FormatExe, FormatShared:
		objPath := out + ".o"
		if err := writeFile(opt, objPath, lw, triple, cpu, llvmgen.FormatObject); err != nil {
			return err
		}
		defer os.Remove(objPath)
		return Link(opt, []string{objPath}, out)
	default:
		return fmt.Errorf("driver: unhandled output format %d", opt.Format)
	}
}

func writeFile(opt Options, path string, lw *llvmgen.Lowerer, triple, cpu string, format llvmgen.Format) error {
	data, err := lw.EmitToBytes(triple, cpu, "", llvmgen.CodeGenOptLevelFor(opt.OptLevel), format)
	if err != nil {
		return fmt.Errorf("emitting %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
