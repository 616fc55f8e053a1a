package gen

import (
	"fmt"

	"github.com/quart-lang/qrc/internal/ast"
	"github.com/quart-lang/qrc/internal/bytecode"
	"github.com/quart-lang/qrc/internal/source"
	"github.com/quart-lang/qrc/internal/symbols"
	"github.com/quart-lang/qrc/internal/types"
)

// genBlock lowers every statement of b into the current block. Generation
// stops early if a statement terminates the block (return/break/continue),
// since anything lexically after it is unreachable and the bytecode passes'
// dead-block elimination will discard it anyway.
func (g *Generator) genBlock(b *ast.Block) error {
	for _, s := range b.Stmts {
		if g.block.Terminated {
			break
		}
		if err := g.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) genStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.Block:
		return g.genBlock(st)
	case *ast.ExprStmt:
		g.lowerExpr(st.X)
		return nil
	case *ast.DeclStmt:
		return g.genDeclStmt(st)
	case *ast.DestructureStmt:
		return g.genDestructure(st)
	case *ast.ReturnStmt:
		return g.genReturn(st)
	case *ast.WhileStmt:
		return g.genWhile(st)
	case *ast.BreakStmt:
		return g.genBreak(st)
	case *ast.ContinueStmt:
		return g.genContinue(st)
	case *ast.StaticAssertStmt:
		return g.genStaticAssert(st)
	default:
		return fmt.Errorf("genStmt: unhandled statement %T", s)
	}
}

func (g *Generator) genDeclStmt(d *ast.DeclStmt) error {
	idx := g.fn.NewLocal(d.Type)
	g.locals[d.Name] = idx
	g.block.Append(&bytecode.Instruction{Op: bytecode.Alloca, Index: idx, Typ: d.Type})
	if d.Init != nil {
		val := g.lowerExpr(d.Init)
		g.block.Append(&bytecode.Instruction{Op: bytecode.SetLocal, Index: idx, Operands: []bytecode.Operand{val}})
	}
	return nil
}

// genDestructure lowers `let (a, *rest, b) = src`. Per the consume-rest
// design decision, the rest binding takes the whole source value rather
// than a sliced view — narrowing it to a proper slice-view needs a
// dedicated aggregate-slicing opcode the fixed instruction set doesn't
// have, so for now *rest is a plain alias of src.
func (g *Generator) genDestructure(d *ast.DestructureStmt) error {
	src := g.lowerExpr(d.Source)
	srcType := src.Type()

	for i, name := range d.Names {
		if i == d.RestIdx {
			idx := g.fn.NewLocal(srcType)
			g.locals[name] = idx
			g.block.Append(&bytecode.Instruction{Op: bytecode.SetLocal, Index: idx, Operands: []bytecode.Operand{src}})
			continue
		}
		elemType := destructureElemType(srcType, i)
		val := g.emitIndexed(bytecode.GetMember, elemType, i, src)
		idx := g.fn.NewLocal(elemType)
		g.locals[name] = idx
		g.block.Append(&bytecode.Instruction{Op: bytecode.SetLocal, Index: idx, Operands: []bytecode.Operand{val}})
	}
	return nil
}

func destructureElemType(srcType *types.Type, i int) *types.Type {
	if srcType.Kind() == types.TupleKind {
		return srcType.Elements()[i]
	}
	return srcType.Element()
}

func (g *Generator) genReturn(r *ast.ReturnStmt) error {
	if r.Value == nil {
		g.block.Append(&bytecode.Instruction{Op: bytecode.Return})
		return nil
	}
	val := g.lowerExpr(r.Value)
	g.block.Append(&bytecode.Instruction{Op: bytecode.Return, Operands: []bytecode.Operand{val}})
	return nil
}

func (g *Generator) genWhile(w *ast.WhileStmt) error {
	headerBlock := g.fn.CreateBlock("while.header")
	bodyBlock := g.fn.CreateBlock("while.body")
	endBlock := g.fn.CreateBlock("while.end")

	g.block.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{headerBlock.Name}})

	g.block = headerBlock
	cond := g.lowerExpr(w.Cond)
	g.block.Append(&bytecode.Instruction{Op: bytecode.JumpIf, Operands: []bytecode.Operand{cond}, Targets: []string{bodyBlock.Name, endBlock.Name}})

	g.pushLoop(symbols.LoopContext{Start: headerBlock.Name, End: endBlock.Name})
	g.block = bodyBlock
	err := g.genBlock(w.Body)
	g.popLoop()
	if err != nil {
		return err
	}

	if !g.block.Terminated {
		g.block.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{headerBlock.Name}})
	}

	g.block = endBlock
	return nil
}

func (g *Generator) genBreak(b *ast.BreakStmt) error {
	lc, ok := g.currentLoop()
	if !ok {
		return source.Errorf(b.Span(), "break outside of a loop")
	}
	g.block.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{lc.End}})
	return nil
}

func (g *Generator) genContinue(c *ast.ContinueStmt) error {
	lc, ok := g.currentLoop()
	if !ok {
		return source.Errorf(c.Span(), "continue outside of a loop")
	}
	g.block.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{lc.Start}})
	return nil
}

// genStaticAssert evaluates sa.Cond entirely at compile time: it never
// emits bytecode, only a diagnostic if the assertion fails.
func (g *Generator) genStaticAssert(sa *ast.StaticAssertStmt) error {
	ok, err := g.EvalConstBool(sa.Cond)
	if err != nil {
		return err
	}
	if !ok {
		msg := sa.Message
		if msg == "" {
			msg = "static assertion failed"
		}
		return source.Errorf(sa.Span(), "%s", msg)
	}
	return nil
}
