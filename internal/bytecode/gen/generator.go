// Package gen walks a type-checked AST and emits the register-based
// bytecode IR defined by package bytecode, per spec §4.6.
package gen

import (
	"fmt"

	"github.com/quart-lang/qrc/internal/ast"
	"github.com/quart-lang/qrc/internal/bytecode"
	"github.com/quart-lang/qrc/internal/constant"
	"github.com/quart-lang/qrc/internal/source"
	"github.com/quart-lang/qrc/internal/symbols"
	"github.com/quart-lang/qrc/internal/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Generator holds the ambient state threaded through every lowering
// function: the destination IR module, the registry/constant pool shared
// with the rest of the compilation, and the function/block currently being
// built. This is the explicit (&mut State, &Ast) pair the redesign notes
// call for, in place of the original visitor's mutable-tree-walk.
type Generator struct {
	Module   *bytecode.Module
	Registry *types.Registry
	Pool     *constant.Pool
	Target   types.Target

	fn      *bytecode.Function
	block   *bytecode.BasicBlock
	locals  map[string]int // Name -> local slot index, function-scoped.
	globals map[string]int // Name -> global slot index, module-scoped.
	loops   []symbols.LoopContext

	// linkNames caches the resolved call-site name for every FuncDecl seen
	// so far, across every GenerateFile call this Generator makes: a
	// link(name=...) override, the llvm_intrinsic name, or the bare/
	// qualified name symbols.LinkName derives from linkage. Populated
	// eagerly per file so forward references (a call appearing before the
	// callee's own declaration) resolve correctly.
	linkNames map[*symbols.FunctionSymbol]string

	Errors []error
}

// ---------------------
// ----- functions -----
// ---------------------

// New returns a Generator targeting a fresh empty Module.
func New(reg *types.Registry, pool *constant.Pool, target types.Target) *Generator {
	return &Generator{
		Module:    bytecode.NewModule("main"),
		Registry:  reg,
		Pool:      pool,
		Target:    target,
		globals:   make(map[string]int, 16),
		linkNames: make(map[*symbols.FunctionSymbol]string, 16),
	}
}

// GenerateFile lowers every declaration in f into g.Module. Per-declaration
// errors are collected rather than aborting the whole file, so a caller can
// report every broken function in one pass instead of one-at-a-time.
func (g *Generator) GenerateFile(f *ast.File) error {
	g.precomputeLinkNames(f)
	for _, d := range f.Decls {
		if err := g.genDecl(d); err != nil {
			g.Errors = append(g.Errors, err)
		}
	}
	if len(g.Errors) > 0 {
		return g.Errors[0]
	}
	return nil
}

// precomputeLinkNames resolves and caches the call-site name of every
// function declared in f (including struct/impl methods), so that
// lowerCall (expr.go) can name a Call instruction correctly even for a
// callee whose body hasn't been generated yet. Per spec §4: an
// llvm_intrinsic attribute redirects the call straight to the named LLVM
// intrinsic; otherwise symbols.LinkName applies the usual
// attribute-override > C-linkage-bare-name > qualified-name precedence.
func (g *Generator) precomputeLinkNames(f *ast.File) {
	for _, d := range f.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			g.cacheLinkName(decl)
		case *ast.StructDecl:
			for _, m := range decl.Methods {
				g.cacheLinkName(m)
			}
		case *ast.ImplDecl:
			for _, m := range decl.Methods {
				g.cacheLinkName(m)
			}
		}
	}
}

func (g *Generator) cacheLinkName(decl *ast.FuncDecl) {
	if decl.Sym == nil {
		return
	}
	if _, ok := g.linkNames[decl.Sym]; ok {
		return
	}
	g.linkNames[decl.Sym] = linkNameFor(decl)
}

// cachedLinkName returns decl's precomputed link name, falling back to
// computing it directly for a declaration precomputeLinkNames didn't see
// (decl.Sym nil, or a method generated outside the normal file walk).
func (g *Generator) cachedLinkName(decl *ast.FuncDecl) string {
	if decl.Sym != nil {
		if name, ok := g.linkNames[decl.Sym]; ok {
			return name
		}
	}
	return linkNameFor(decl)
}

// linkNameFor is the single source of truth for a FuncDecl's call-site
// name, shared by genFunction (which registers the bytecode.Function under
// this name) and lowerCall (which targets a direct Call instruction at
// it).
func linkNameFor(decl *ast.FuncDecl) string {
	if attr, ok := ast.Find(decl.Attrs, ast.AttrLLVMIntrinsic); ok && attr.IntrinsicName != "" {
		return attr.IntrinsicName
	}
	linkName := ""
	if attr, ok := ast.Find(decl.Attrs, ast.AttrLink); ok {
		linkName = attr.LinkName
	}
	return symbols.LinkName(decl.Sym, linkName, decl.Name)
}

// genDecl dispatches on the concrete Decl variant.
func (g *Generator) genDecl(d ast.Decl) error {
	switch decl := d.(type) {
	case *ast.FuncDecl:
		if ast.SkipForPlatform(decl.Attrs, g.Target.OS) {
			return nil
		}
		return g.genFunction(decl)
	case *ast.GlobalVarDecl:
		return g.genGlobalVar(decl)
	case *ast.StructDecl:
		return g.genStruct(decl)
	case *ast.ImplDecl:
		return g.genImpl(decl)
	case *ast.EnumDecl, *ast.TraitDecl, *ast.TypeAliasDecl:
		// Purely semantic-model declarations: they register symbols/types
		// but emit no bytecode of their own. TraitDecl methods are only
		// signatures (Body == nil) and never generated directly.
		return nil
	default:
		return fmt.Errorf("genDecl: unhandled declaration %T", d)
	}
}

func (g *Generator) genGlobalVar(decl *ast.GlobalVarDecl) error {
	idx := len(g.Module.Globals)
	g.Module.AddGlobal(&bytecode.Global{Name: decl.Name, Type: decl.Type})
	g.globals[decl.Name] = idx
	return nil
}

func (g *Generator) genStruct(decl *ast.StructDecl) error {
	for _, m := range decl.Methods {
		if ast.SkipForPlatform(m.Attrs, g.Target.OS) {
			continue
		}
		if err := g.genFunction(m); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genImpl(decl *ast.ImplDecl) error {
	for _, m := range decl.Methods {
		if ast.SkipForPlatform(m.Attrs, g.Target.OS) {
			continue
		}
		if err := g.genFunction(m); err != nil {
			return err
		}
	}
	return nil
}

// genFunction lowers one function declaration's body into a bytecode
// Function, per the NewFunction + NewLocalScope contract in §4.5/§4.6. The
// Function is registered under its resolved link name (see linkNameFor),
// which may differ from decl.Name for a C-linkage or link(name=...)
// function, so lowerCall's direct calls find it under the same name.
func (g *Generator) genFunction(decl *ast.FuncDecl) error {
	name := g.cachedLinkName(decl)

	if decl.Body == nil {
		// Extern/intrinsic declaration: no IR body, but still registered as
		// a zero-block Function so llvmgen.Lower can declareFunction it for
		// callers (an extern libc binding, or an llvm_intrinsic redirect)
		// without panicking on an unresolved call target.
		g.Module.AddFunction(bytecode.NewFunctionIR(name, decl.Sym))
		return nil
	}

	prevFn, prevBlock, prevLocals := g.fn, g.block, g.locals
	defer func() { g.fn, g.block, g.locals = prevFn, prevBlock, prevLocals }()

	fn := bytecode.NewFunctionIR(name, decl.Sym)
	g.fn = fn
	g.locals = make(map[string]int, len(decl.Params)+4)
	g.block = fn.CreateBlock("entry")
	g.block.Append(&bytecode.Instruction{Op: bytecode.NewFunction, Str: name})
	g.block.Append(&bytecode.Instruction{Op: bytecode.NewLocalScope, Str: name})

	for _, p := range decl.Params {
		idx := fn.NewLocal(p.Type)
		g.locals[p.Name] = idx
	}

	if err := g.genBlock(decl.Body); err != nil {
		return err
	}

	if !g.block.Terminated {
		if decl.ReturnType == nil || decl.ReturnType.Kind() == types.Void {
			g.block.Append(&bytecode.Instruction{Op: bytecode.Return})
		} else {
			return source.Errorf(decl.Span(), "function %q does not return a value on all paths", decl.Name)
		}
	}

	g.Module.AddFunction(fn)
	return nil
}

// newReg allocates a fresh register in the function currently being
// generated.
func (g *Generator) newReg() bytecode.Register {
	return g.fn.NewRegister()
}

// emit appends inst to the current block and returns a register Operand
// typed t referring to inst's destination, for callers that immediately
// need to chain the result into another instruction.
func (g *Generator) emit(op bytecode.Op, t *types.Type, operands ...bytecode.Operand) bytecode.Operand {
	dst := g.newReg()
	g.block.Append(&bytecode.Instruction{Op: op, Dst: dst, Typ: t, Operands: operands})
	return bytecode.RegOperand(dst, t)
}

// emitIndexed is emit's variant for opcodes that also carry a slot/field
// Index (GetMember/GetMemberRef).
func (g *Generator) emitIndexed(op bytecode.Op, t *types.Type, idx int, operands ...bytecode.Operand) bytecode.Operand {
	dst := g.newReg()
	g.block.Append(&bytecode.Instruction{Op: op, Dst: dst, Typ: t, Index: idx, Operands: operands})
	return bytecode.RegOperand(dst, t)
}

// resolveVariable looks up name as a local, then a global, returning
// (slot index, isGlobal, found).
func (g *Generator) resolveVariable(name string) (int, bool, bool) {
	if idx, ok := g.locals[name]; ok {
		return idx, false, true
	}
	if idx, ok := g.globals[name]; ok {
		return idx, true, true
	}
	return 0, false, false
}

func (g *Generator) currentLoop() (symbols.LoopContext, bool) {
	if len(g.loops) == 0 {
		return symbols.LoopContext{}, false
	}
	return g.loops[len(g.loops)-1], true
}

func (g *Generator) pushLoop(lc symbols.LoopContext) {
	g.loops = append(g.loops, lc)
}

func (g *Generator) popLoop() {
	g.loops = g.loops[:len(g.loops)-1]
}
