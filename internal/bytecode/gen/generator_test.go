package gen

import (
	"testing"

	"github.com/quart-lang/qrc/internal/ast"
	"github.com/quart-lang/qrc/internal/bytecode"
	"github.com/quart-lang/qrc/internal/constant"
	"github.com/quart-lang/qrc/internal/symbols"
	"github.com/quart-lang/qrc/internal/types"
)

func newTestGenerator() (*Generator, *types.Registry) {
	reg := types.NewRegistry()
	pool := constant.NewPool()
	return New(reg, pool, types.Target{WordSize: 64, OS: "linux"}), reg
}

func voidFuncType(reg *types.Registry) *types.Type {
	return reg.Function(reg.Void(), nil, false)
}

func TestGenFunctionEmitsEntryBlockAndReturn(t *testing.T) {
	g, _ := newTestGenerator()
	sym := &symbols.FunctionSymbol{QName: "main", Linkage: symbols.LinkageUnspecified}
	decl := &ast.FuncDecl{
		Name: "main",
		Body: &ast.Block{},
		Sym:  sym,
	}

	if err := g.genFunction(decl); err != nil {
		t.Fatalf("genFunction returned error: %s", err)
	}
	fn := g.Module.FunctionByName("main")
	if fn == nil {
		t.Fatal("expected the generated function to be registered as \"main\"")
	}
	if !fn.EntryBlock.Terminated {
		t.Fatal("entry block should have an implicit Return appended")
	}
	if fn.EntryBlock.Instructions[len(fn.EntryBlock.Instructions)-1].Op != bytecode.Return {
		t.Fatal("expected the last instruction to be Return")
	}
}

func TestGenFunctionRegistersExternDeclarationWithZeroBlocks(t *testing.T) {
	g, _ := newTestGenerator()
	sym := &symbols.FunctionSymbol{QName: "puts", Linkage: symbols.LinkageC}
	decl := &ast.FuncDecl{
		Name: "puts",
		Body: nil, // extern: no body.
		Sym:  sym,
	}

	if err := g.genFunction(decl); err != nil {
		t.Fatalf("genFunction returned error: %s", err)
	}
	fn := g.Module.FunctionByName("puts")
	if fn == nil {
		t.Fatal("expected the extern declaration to be registered in the module")
	}
	if len(fn.Blocks) != 0 {
		t.Fatalf("extern declaration should have zero blocks, got %d", len(fn.Blocks))
	}
}

func TestGenFunctionUsesLinkNameAttributeOverride(t *testing.T) {
	g, _ := newTestGenerator()
	sym := &symbols.FunctionSymbol{QName: "net::connect", Linkage: symbols.LinkageUnspecified}
	decl := &ast.FuncDecl{
		Name:  "connect",
		Body:  nil,
		Sym:   sym,
		Attrs: []ast.Attribute{{Kind: ast.AttrLink, LinkName: "my_connect"}},
	}

	if err := g.genFunction(decl); err != nil {
		t.Fatalf("genFunction returned error: %s", err)
	}
	if g.Module.FunctionByName("my_connect") == nil {
		t.Fatal("expected the function to be registered under its link(name=...) override")
	}
	if g.Module.FunctionByName("net::connect") != nil {
		t.Fatal("the qualified name should not be used once an explicit link name is given")
	}
}

func TestGenFunctionUsesLLVMIntrinsicName(t *testing.T) {
	g, _ := newTestGenerator()
	sym := &symbols.FunctionSymbol{QName: "sqrt_f64", Linkage: symbols.LinkageUnspecified}
	decl := &ast.FuncDecl{
		Name:  "sqrt_f64",
		Body:  nil,
		Sym:   sym,
		Attrs: []ast.Attribute{{Kind: ast.AttrLLVMIntrinsic, IntrinsicName: "llvm.sqrt.f64"}},
	}

	if err := g.genFunction(decl); err != nil {
		t.Fatalf("genFunction returned error: %s", err)
	}
	if g.Module.FunctionByName("llvm.sqrt.f64") == nil {
		t.Fatal("expected the function to be registered under its llvm_intrinsic name")
	}
}

func TestGenDeclSkipsPlatformFilteredFunction(t *testing.T) {
	g, _ := newTestGenerator()
	sym := &symbols.FunctionSymbol{QName: "windows_only", Linkage: symbols.LinkageUnspecified}
	decl := &ast.FuncDecl{
		Name:  "windows_only",
		Body:  &ast.Block{},
		Sym:   sym,
		Attrs: []ast.Attribute{{Kind: ast.AttrLink, LinkPlatform: "windows"}},
	}

	if err := g.genDecl(decl); err != nil {
		t.Fatalf("genDecl returned error: %s", err)
	}
	if g.Module.FunctionByName("windows_only") != nil {
		t.Fatal("a link(platform=windows) function should be skipped when targeting linux")
	}
}

func TestLowerCallUsesPrecomputedLinkName(t *testing.T) {
	g, reg := newTestGenerator()
	calleeSym := &symbols.FunctionSymbol{QName: "net::connect", Linkage: symbols.LinkageUnspecified}
	calleeDecl := &ast.FuncDecl{
		Name:  "connect",
		Body:  nil,
		Sym:   calleeSym,
		Attrs: []ast.Attribute{{Kind: ast.AttrLink, LinkName: "my_connect"}},
	}
	file := &ast.File{Decls: []ast.Decl{calleeDecl}}
	g.precomputeLinkNames(file)
	if err := g.genDecl(calleeDecl); err != nil {
		t.Fatalf("genDecl(callee) returned error: %s", err)
	}

	// Set up a minimal caller context so lowerCall can append an
	// instruction to some block.
	callerSym := &symbols.FunctionSymbol{QName: "main"}
	fn := bytecode.NewFunctionIR("main", callerSym)
	g.fn = fn
	g.block = fn.CreateBlock("entry")

	ce := &ast.CallExpr{
		Callee: &ast.Identifier{Name: "connect", Sym: calleeSym},
		Type:   voidFuncType(reg),
	}
	g.lowerCall(ce)

	inst := g.block.Instructions[len(g.block.Instructions)-1]
	if inst.Op != bytecode.Call {
		t.Fatalf("expected a Call instruction, got %v", inst.Op)
	}
	if inst.Str != "my_connect" {
		t.Errorf("Call.Str = %q, want the link(name=...) override %q", inst.Str, "my_connect")
	}
}

