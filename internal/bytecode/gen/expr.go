package gen

import (
	"github.com/quart-lang/qrc/internal/ast"
	"github.com/quart-lang/qrc/internal/bytecode"
	"github.com/quart-lang/qrc/internal/source"
	"github.com/quart-lang/qrc/internal/symbols"
	"github.com/quart-lang/qrc/internal/types"
)

// lowerExpr lowers e to the operand holding its value, emitting whatever
// instructions are needed into the current block.
func (g *Generator) lowerExpr(e ast.Expr) bytecode.Operand {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return bytecode.ImmOperand(g.Pool.Int(ex.Type, ex.Value))
	case *ast.FloatLiteral:
		return bytecode.ImmOperand(g.Pool.Float(ex.Type, ex.Value))
	case *ast.BoolLiteral:
		v := int64(0)
		if ex.Value {
			v = 1
		}
		return g.emit(bytecode.Boolean, g.Registry.I1(), bytecode.ImmOperand(g.Pool.Int(g.Registry.I1(), v)))
	case *ast.NullLiteral:
		return g.emit(bytecode.Null, ex.Type)
	case *ast.StringLiteral:
		return g.emitString(ex.Value)
	case *ast.ArrayLiteral:
		return g.lowerArrayLiteral(ex)
	case *ast.TupleLiteral:
		return g.lowerTupleLiteral(ex)
	case *ast.Identifier:
		return g.lowerIdentifier(ex)
	case *ast.BinaryExpr:
		return g.lowerBinary(ex)
	case *ast.UnaryExpr:
		return g.lowerUnary(ex)
	case *ast.AssignExpr:
		return g.lowerAssign(ex)
	case *ast.MemberAccess:
		return g.lowerMember(ex)
	case *ast.IndexAccess:
		return g.lowerIndex(ex)
	case *ast.CallExpr:
		return g.lowerCall(ex)
	case *ast.CastExpr:
		return g.lowerCast(ex)
	case *ast.IfExpr:
		return g.lowerIfExpr(ex)
	case *ast.MatchExpr:
		return g.lowerMatchExpr(ex)
	case *ast.SizeofExpr:
		return bytecode.ImmOperand(g.Pool.Int(g.Registry.I64(), int64(ex.Of.Size(g.Target))))
	case *ast.OffsetofExpr:
		return bytecode.ImmOperand(g.Pool.Int(g.Registry.I64(), int64(g.fieldOffset(ex.Of, ex.Field))))
	default:
		panic("gen: unhandled expression node")
	}
}

func (g *Generator) fieldOffset(structType *types.Type, field string) int {
	off := 0
	for _, f := range structType.Fields() {
		if f.Name == field {
			return off
		}
		off += f.Type.Size(g.Target)
	}
	return off
}

// emitString is emit's variant for NewString, which carries its literal
// text in Instruction.Str rather than an operand.
func (g *Generator) emitString(v string) bytecode.Operand {
	dst := g.newReg()
	typ := g.Registry.Cstr()
	g.block.Append(&bytecode.Instruction{Op: bytecode.NewString, Dst: dst, Typ: typ, Str: v})
	return bytecode.RegOperand(dst, typ)
}

func (g *Generator) lowerArrayLiteral(ex *ast.ArrayLiteral) bytecode.Operand {
	elemType := ex.Type.Element()
	elems := make([]bytecode.Operand, len(ex.Elements))
	for i, e := range ex.Elements {
		elems[i] = g.lowerExpr(e)
		if t := elems[i].Type(); t != elemType {
			if t == nil || !types.CanSafelyCast(t, elemType) {
				g.Errors = append(g.Errors, source.Errorf(e.Span(), "array element %d cannot be cast to %s", i, elemType.String()))
				continue
			}
			elems[i] = g.emit(bytecode.Cast, elemType, elems[i])
		}
	}
	return g.emit(bytecode.NewArray, ex.Type, elems...)
}

func (g *Generator) lowerTupleLiteral(ex *ast.TupleLiteral) bytecode.Operand {
	elems := make([]bytecode.Operand, len(ex.Elements))
	for i, e := range ex.Elements {
		elems[i] = g.lowerExpr(e)
	}
	return g.emit(bytecode.Construct, ex.Type, elems...)
}

func (g *Generator) lowerIdentifier(id *ast.Identifier) bytecode.Operand {
	if idx, isGlobal, ok := g.resolveVariable(id.Name); ok {
		t := variableType(id.Sym)
		if isGlobal {
			return g.emitSlot(bytecode.GetGlobal, idx, t)
		}
		return g.emitSlot(bytecode.GetLocal, idx, t)
	}
	if fs, ok := id.Sym.(*symbols.FunctionSymbol); ok {
		return g.emitFunctionRef(fs)
	}
	panic("gen: unresolved identifier " + id.Name)
}

func variableType(sym symbols.Symbol) *types.Type {
	if v, ok := sym.(*symbols.Variable); ok {
		return v.Type
	}
	return nil
}

func (g *Generator) emitSlot(op bytecode.Op, idx int, t *types.Type) bytecode.Operand {
	dst := g.newReg()
	g.block.Append(&bytecode.Instruction{Op: op, Dst: dst, Index: idx, Typ: t})
	return bytecode.RegOperand(dst, t)
}

func (g *Generator) emitFunctionRef(fs *symbols.FunctionSymbol) bytecode.Operand {
	dst := g.newReg()
	g.block.Append(&bytecode.Instruction{Op: bytecode.GetFunction, Dst: dst, Typ: fs.Type, Str: fs.QName})
	return bytecode.RegOperand(dst, fs.Type)
}

var binaryOps = map[ast.BinaryOp]bytecode.Op{
	ast.OpAdd: bytecode.Add, ast.OpSub: bytecode.Sub, ast.OpMul: bytecode.Mul,
	ast.OpDiv: bytecode.Div, ast.OpMod: bytecode.Mod,
	ast.OpBitOr: bytecode.Or, ast.OpBitAnd: bytecode.And, ast.OpXor: bytecode.Xor,
	ast.OpRsh: bytecode.Rsh, ast.OpLsh: bytecode.Lsh,
	ast.OpEq: bytecode.Eq, ast.OpNeq: bytecode.Neq,
	ast.OpGt: bytecode.Gt, ast.OpLt: bytecode.Lt, ast.OpGte: bytecode.Gte, ast.OpLte: bytecode.Lte,
}

func (g *Generator) lowerBinary(be *ast.BinaryExpr) bytecode.Operand {
	if be.Op == ast.OpLogicalOr || be.Op == ast.OpLogicalAnd {
		return g.lowerLogical(be)
	}
	lhs := g.lowerExpr(be.Left)
	rhs := g.lowerExpr(be.Right)
	op, ok := binaryOps[be.Op]
	if !ok {
		panic("gen: unhandled binary operator")
	}
	return g.emit(op, be.ResultType, lhs, rhs)
}

// lowerLogical implements short-circuit && / || via an explicit local slot
// and a diamond of basic blocks: the right operand is only evaluated when
// its side effects can actually fire.
func (g *Generator) lowerLogical(be *ast.BinaryExpr) bytecode.Operand {
	lhs := g.lowerExpr(be.Left)
	slot := g.fn.NewLocal(be.ResultType)
	g.block.Append(&bytecode.Instruction{Op: bytecode.SetLocal, Index: slot, Operands: []bytecode.Operand{lhs}})

	rhsBlock := g.fn.CreateBlock("logical.rhs")
	endBlock := g.fn.CreateBlock("logical.end")

	if be.Op == ast.OpLogicalAnd {
		g.block.Append(&bytecode.Instruction{Op: bytecode.JumpIf, Operands: []bytecode.Operand{lhs}, Targets: []string{rhsBlock.Name, endBlock.Name}})
	} else {
		g.block.Append(&bytecode.Instruction{Op: bytecode.JumpIf, Operands: []bytecode.Operand{lhs}, Targets: []string{endBlock.Name, rhsBlock.Name}})
	}

	g.block = rhsBlock
	rhs := g.lowerExpr(be.Right)
	g.block.Append(&bytecode.Instruction{Op: bytecode.SetLocal, Index: slot, Operands: []bytecode.Operand{rhs}})
	g.block.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{endBlock.Name}})

	g.block = endBlock
	return g.emitSlot(bytecode.GetLocal, slot, be.ResultType)
}

func (g *Generator) lowerUnary(ue *ast.UnaryExpr) bytecode.Operand {
	switch ue.Op {
	case ast.OpAddressOf, ast.OpAddressOfMut:
		return g.lowerLValueRef(ue.Operand)
	case ast.OpDeref:
		ptr := g.lowerExpr(ue.Operand)
		return g.emit(bytecode.Read, ue.ResultType, ptr)
	case ast.OpNeg:
		operand := g.lowerExpr(ue.Operand)
		zero := g.zeroOperand(ue.ResultType)
		return g.emit(bytecode.Sub, ue.ResultType, zero, operand)
	case ast.OpNot:
		operand := g.lowerExpr(ue.Operand)
		one := bytecode.ImmOperand(g.Pool.Int(g.Registry.I1(), 1))
		return g.emit(bytecode.Xor, ue.ResultType, operand, one)
	case ast.OpBitNot:
		operand := g.lowerExpr(ue.Operand)
		allOnes := bytecode.ImmOperand(g.Pool.Int(ue.ResultType, -1))
		return g.emit(bytecode.Xor, ue.ResultType, operand, allOnes)
	default:
		panic("gen: unhandled unary operator")
	}
}

// zeroOperand returns the additive identity immediate for t, used to lower
// unary negation as a subtraction (the instruction set has no dedicated
// Neg opcode).
func (g *Generator) zeroOperand(t *types.Type) bytecode.Operand {
	if t.Kind() == types.FloatKind || t.Kind() == types.DoubleKind {
		return bytecode.ImmOperand(g.Pool.Float(t, 0))
	}
	return bytecode.ImmOperand(g.Pool.Int(t, 0))
}

func (g *Generator) lowerMember(ma *ast.MemberAccess) bytecode.Operand {
	target := g.lowerExpr(ma.Target)
	idx := fieldIndex(ma.Target, ma.Field)
	return g.emitIndexed(bytecode.GetMember, ma.FieldType, idx, target)
}

func fieldIndex(target ast.Expr, field string) int {
	t := exprType(target)
	if t == nil {
		return -1
	}
	structType := t
	if structType.Kind() == types.PointerKind || structType.Kind() == types.ReferenceKind {
		structType = structType.Pointee()
	}
	for _, f := range structType.Fields() {
		if f.Name == field {
			return f.Index
		}
	}
	return -1
}

// exprType recovers the static type an already-typechecked Expr carries,
// since not every node stores it under the same field name.
func exprType(e ast.Expr) *types.Type {
	switch ex := e.(type) {
	case *ast.Identifier:
		return variableType(ex.Sym)
	case *ast.MemberAccess:
		return ex.FieldType
	case *ast.IndexAccess:
		return ex.ElemType
	case *ast.UnaryExpr:
		return ex.ResultType
	case *ast.CallExpr:
		if ex.Type != nil {
			return ex.Type.Return()
		}
	}
	return nil
}

func (g *Generator) lowerIndex(ia *ast.IndexAccess) bytecode.Operand {
	ptr := g.indexElemPointer(ia)
	return g.emit(bytecode.Read, ia.ElemType, ptr)
}

// indexElemPointer computes the element address of ia as base + index *
// elementSize, entirely with ordinary arithmetic instructions so no new
// opcode is needed beyond the fixed §4.5 set.
func (g *Generator) indexElemPointer(ia *ast.IndexAccess) bytecode.Operand {
	var base bytecode.Operand
	if t := exprType(ia.Target); t != nil && t.Kind() == types.PointerKind {
		// Indexing through a pointer value: use the pointer itself, not its
		// address.
		base = g.lowerExpr(ia.Target)
	} else {
		// Indexing an array lvalue: decay its address to a pointer.
		base = g.lowerLValueRef(ia.Target)
	}
	idx := g.lowerExpr(ia.Index)
	idx64 := g.castOperand(idx, g.Registry.I64())
	elemSize := ia.ElemType.Size(g.Target)
	sizeImm := bytecode.ImmOperand(g.Pool.Int(g.Registry.I64(), int64(elemSize)))
	offset := g.emit(bytecode.Mul, g.Registry.I64(), idx64, sizeImm)
	ptrType := ia.ElemType.GetPointerTo(g.Registry, true)
	return g.emit(bytecode.Add, ptrType, base, offset)
}

func (g *Generator) castOperand(o bytecode.Operand, to *types.Type) bytecode.Operand {
	if o.Type() == to {
		return o
	}
	return g.emit(bytecode.Cast, to, o)
}

// lowerLValueRef produces a pointer-typed operand addressing e's storage,
// for use by &e, index arithmetic, and assignment targets.
func (g *Generator) lowerLValueRef(e ast.Expr) bytecode.Operand {
	switch ex := e.(type) {
	case *ast.Identifier:
		idx, isGlobal, ok := g.resolveVariable(ex.Name)
		if !ok {
			panic("gen: unresolved identifier " + ex.Name)
		}
		t := variableType(ex.Sym)
		ptrType := t.GetPointerTo(g.Registry, true)
		if isGlobal {
			return g.emitSlot(bytecode.GetGlobalRef, idx, ptrType)
		}
		return g.emitSlot(bytecode.GetLocalRef, idx, ptrType)
	case *ast.MemberAccess:
		target := g.lowerExpr(ex.Target)
		idx := fieldIndex(ex.Target, ex.Field)
		ptrType := ex.FieldType.GetPointerTo(g.Registry, true)
		return g.emitIndexed(bytecode.GetMemberRef, ptrType, idx, target)
	case *ast.IndexAccess:
		return g.indexElemPointer(ex)
	case *ast.UnaryExpr:
		if ex.Op == ast.OpDeref {
			return g.lowerExpr(ex.Operand)
		}
	}
	return g.lowerExpr(e)
}

func (g *Generator) lowerAssign(ae *ast.AssignExpr) bytecode.Operand {
	value := g.lowerExpr(ae.Value)
	switch target := ae.Target.(type) {
	case *ast.Identifier:
		idx, isGlobal, ok := g.resolveVariable(target.Name)
		if !ok {
			panic("gen: unresolved assignment target " + target.Name)
		}
		op := bytecode.SetLocal
		if isGlobal {
			op = bytecode.SetGlobal
		}
		g.block.Append(&bytecode.Instruction{Op: op, Index: idx, Operands: []bytecode.Operand{value}})
	case *ast.MemberAccess:
		base := g.lowerExpr(target.Target)
		idx := fieldIndex(target.Target, target.Field)
		g.block.Append(&bytecode.Instruction{Op: bytecode.SetMember, Index: idx, Operands: []bytecode.Operand{base, value}})
	case *ast.IndexAccess:
		ptr := g.indexElemPointer(target)
		g.block.Append(&bytecode.Instruction{Op: bytecode.Write, Operands: []bytecode.Operand{ptr, value}})
	case *ast.UnaryExpr:
		if target.Op != ast.OpDeref {
			panic("gen: invalid assignment target")
		}
		ptr := g.lowerExpr(target.Operand)
		g.block.Append(&bytecode.Instruction{Op: bytecode.Write, Operands: []bytecode.Operand{ptr, value}})
	default:
		panic("gen: invalid assignment target")
	}
	return value
}

func (g *Generator) lowerCast(ce *ast.CastExpr) bytecode.Operand {
	operand := g.lowerExpr(ce.Operand)
	if !types.CanSafelyCast(operand.Type(), ce.To) {
		panic("gen: cast lowered without a prior CanSafelyCast check")
	}
	return g.emit(bytecode.Cast, ce.To, operand)
}

func (g *Generator) lowerCall(ce *ast.CallExpr) bytecode.Operand {
	var calleeName string
	indirect := true
	if id, ok := ce.Callee.(*ast.Identifier); ok {
		if fs, ok := id.Sym.(*symbols.FunctionSymbol); ok {
			if name, ok := g.linkNames[fs]; ok {
				calleeName = name
			} else {
				calleeName = fs.QName
			}
			indirect = false
		}
	}

	operands := make([]bytecode.Operand, 0, len(ce.Args)+1)
	if indirect {
		operands = append(operands, g.lowerExpr(ce.Callee))
	}
	for _, a := range ce.Args {
		operands = append(operands, g.lowerExpr(a.Value))
	}

	retType := g.Registry.Void()
	if ce.Type != nil {
		retType = ce.Type.Return()
	}
	dst := g.newReg()
	g.block.Append(&bytecode.Instruction{Op: bytecode.Call, Dst: dst, Typ: retType, Str: calleeName, Operands: operands})
	return bytecode.RegOperand(dst, retType)
}

func (g *Generator) lowerIfExpr(ie *ast.IfExpr) bytecode.Operand {
	cond := g.lowerExpr(ie.Cond)
	thenBlock := g.fn.CreateBlock("if.then")
	endBlock := g.fn.CreateBlock("if.end")
	elseBlock := endBlock
	if ie.Else != nil {
		elseBlock = g.fn.CreateBlock("if.else")
	}
	g.block.Append(&bytecode.Instruction{Op: bytecode.JumpIf, Operands: []bytecode.Operand{cond}, Targets: []string{thenBlock.Name, elseBlock.Name}})

	var slot = -1
	if ie.ResultType != nil {
		slot = g.fn.NewLocal(ie.ResultType)
	}

	g.block = thenBlock
	thenVal := g.genBlockValue(ie.Then)
	if slot >= 0 && !g.block.Terminated {
		g.block.Append(&bytecode.Instruction{Op: bytecode.SetLocal, Index: slot, Operands: []bytecode.Operand{thenVal}})
	}
	if !g.block.Terminated {
		g.block.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{endBlock.Name}})
	}

	if ie.Else != nil {
		g.block = elseBlock
		elseVal := g.genBlockValue(ie.Else)
		if slot >= 0 && !g.block.Terminated {
			g.block.Append(&bytecode.Instruction{Op: bytecode.SetLocal, Index: slot, Operands: []bytecode.Operand{elseVal}})
		}
		if !g.block.Terminated {
			g.block.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{endBlock.Name}})
		}
	}

	g.block = endBlock
	if slot >= 0 {
		return g.emitSlot(bytecode.GetLocal, slot, ie.ResultType)
	}
	return bytecode.NoOperand
}

func (g *Generator) lowerMatchExpr(me *ast.MatchExpr) bytecode.Operand {
	scrutinee := g.lowerExpr(me.Scrutinee)
	endBlock := g.fn.CreateBlock("match.end")

	var slot = -1
	if me.ResultType != nil {
		slot = g.fn.NewLocal(me.ResultType)
	}

	for _, arm := range me.Arms {
		pattern := g.lowerExpr(arm.Pattern)
		matched := g.emit(bytecode.Eq, g.Registry.I1(), scrutinee, pattern)
		armBlock := g.fn.CreateBlock("match.arm")
		nextBlock := g.fn.CreateBlock("match.next")
		g.block.Append(&bytecode.Instruction{Op: bytecode.JumpIf, Operands: []bytecode.Operand{matched}, Targets: []string{armBlock.Name, nextBlock.Name}})

		g.block = armBlock
		armVal := g.genBlockValue(arm.Body)
		if slot >= 0 && !g.block.Terminated {
			g.block.Append(&bytecode.Instruction{Op: bytecode.SetLocal, Index: slot, Operands: []bytecode.Operand{armVal}})
		}
		if !g.block.Terminated {
			g.block.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{endBlock.Name}})
		}

		g.block = nextBlock
	}

	if me.Default != nil {
		defVal := g.genBlockValue(me.Default)
		if slot >= 0 && !g.block.Terminated {
			g.block.Append(&bytecode.Instruction{Op: bytecode.SetLocal, Index: slot, Operands: []bytecode.Operand{defVal}})
		}
	}
	if !g.block.Terminated {
		g.block.Append(&bytecode.Instruction{Op: bytecode.Jump, Targets: []string{endBlock.Name}})
	}

	g.block = endBlock
	if slot >= 0 {
		return g.emitSlot(bytecode.GetLocal, slot, me.ResultType)
	}
	return bytecode.NoOperand
}

// genBlockValue lowers a Block used in value position (if/match arm body):
// every statement but the last is lowered as a statement, and a trailing
// bare ExprStmt supplies the arm's value.
func (g *Generator) genBlockValue(b *ast.Block) bytecode.Operand {
	if len(b.Stmts) == 0 {
		return bytecode.NoOperand
	}
	for _, s := range b.Stmts[:len(b.Stmts)-1] {
		if err := g.genStmt(s); err != nil {
			g.Errors = append(g.Errors, err)
		}
	}
	last := b.Stmts[len(b.Stmts)-1]
	if es, ok := last.(*ast.ExprStmt); ok {
		return g.lowerExpr(es.X)
	}
	if err := g.genStmt(last); err != nil {
		g.Errors = append(g.Errors, err)
	}
	return bytecode.NoOperand
}

