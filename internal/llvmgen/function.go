package llvmgen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/quart-lang/qrc/internal/bytecode"
	"github.com/quart-lang/qrc/internal/types"
)

// funcCtx holds the per-function lowering state: the register file and
// local-slot allocas, the generalization of the teacher's single symTab
// (which only ever held one flat name->value map) to bytecode's register
// IDs plus a separate local-slot array.
type funcCtx struct {
	llvmFn llvm.Value
	blocks map[string]llvm.BasicBlock
	regs   map[bytecode.Register]llvm.Value
	locals []llvm.Value // Indexed by local slot, allocas created up front in the entry block.
}

// lowerFunction lowers one bytecode Function's basic blocks and
// instructions into fc's already-declared llvm.Value, the direct
// analogue of the teacher's genFuncBody.
func (lw *Lowerer) lowerFunction(fn *bytecode.Function) error {
	llvmFn := lw.fns[fn.Name]
	b := lw.ctx.NewBuilder()
	defer b.Dispose()

	fc := &funcCtx{
		llvmFn: llvmFn,
		blocks: make(map[string]llvm.BasicBlock, len(fn.Blocks)),
		regs:   make(map[bytecode.Register]llvm.Value, 16),
		locals: make([]llvm.Value, len(fn.Locals)),
	}

	for _, bb := range fn.Blocks {
		fc.blocks[bb.Name] = llvm.AddBasicBlock(llvmFn, bb.Name)
	}

	// Every local slot gets its alloca up front in the entry block, so a
	// local declared inside a loop body still dominates every later read:
	// Function.Locals is already fully populated by the time the generator
	// hands the module to the lowerer, unlike the teacher's single-pass
	// walk where CreateAlloca happens exactly where the DECLARATION node
	// is visited.
	entryLLVM := fc.blocks[fn.EntryBlock.Name]
	b.SetInsertPointAtEnd(entryLLVM)
	for i, t := range fn.Locals {
		fc.locals[i] = b.CreateAlloca(t.ToLLVM(lw.ctx, lw.Target), fmt.Sprintf("local%d", i))
	}
	if fn.Sym != nil {
		for i := range fn.Sym.Parameters {
			if i < len(fc.locals) {
				b.CreateStore(llvmFn.Param(i), fc.locals[i])
			}
		}
	}

	for _, bb := range fn.Blocks {
		b.SetInsertPointAtEnd(fc.blocks[bb.Name])
		for _, inst := range bb.Instructions {
			if err := lw.lowerInstruction(b, fc, inst); err != nil {
				return fmt.Errorf("block %s: %w", bb.Name, err)
			}
		}
	}
	return nil
}

// operandValue resolves a bytecode Operand to its llvm.Value: a register
// lookup or a lowered immediate constant.
func (lw *Lowerer) operandValue(fc *funcCtx, o bytecode.Operand) llvm.Value {
	switch o.Kind {
	case bytecode.OperandRegister:
		return fc.regs[o.Reg]
	case bytecode.OperandImmediate:
		return lw.constToLLVM(o.Imm)
	default:
		return llvm.Value{}
	}
}

// lowerInstruction dispatches one bytecode Instruction to the builder
// calls that implement it, the generalization of the teacher's single big
// gen() switch over ast.NodeType to a switch over bytecode.Op.
func (lw *Lowerer) lowerInstruction(b llvm.Builder, fc *funcCtx, inst *bytecode.Instruction) error {
	switch inst.Op {
	case bytecode.NewFunction, bytecode.NewLocalScope, bytecode.Alloca:
		// Markers/already handled by the entry-block alloca pre-pass.
		return nil

	case bytecode.Move:
		fc.regs[inst.Dst] = lw.operandValue(fc, inst.Operands[0])

	case bytecode.NewString:
		fc.regs[inst.Dst] = lw.internString(inst.Str)

	case bytecode.NewArray, bytecode.Construct:
		fc.regs[inst.Dst] = lw.lowerAggregate(b, fc, inst)

	case bytecode.GetLocal:
		fc.regs[inst.Dst] = b.CreateLoad(fc.locals[inst.Index], "")
	case bytecode.GetLocalRef:
		fc.regs[inst.Dst] = fc.locals[inst.Index]
	case bytecode.SetLocal:
		b.CreateStore(lw.operandValue(fc, inst.Operands[0]), fc.locals[inst.Index])

	case bytecode.GetGlobal:
		fc.regs[inst.Dst] = b.CreateLoad(lw.globalsByIdx[inst.Index], "")
	case bytecode.GetGlobalRef:
		fc.regs[inst.Dst] = lw.globalsByIdx[inst.Index]
	case bytecode.SetGlobal:
		b.CreateStore(lw.operandValue(fc, inst.Operands[0]), lw.globalsByIdx[inst.Index])

	case bytecode.Read:
		fc.regs[inst.Dst] = b.CreateLoad(lw.operandValue(fc, inst.Operands[0]), "")
	case bytecode.Write:
		b.CreateStore(lw.operandValue(fc, inst.Operands[1]), lw.operandValue(fc, inst.Operands[0]))

	case bytecode.GetMember:
		ptr := lw.fieldPtr(b, fc, inst)
		fc.regs[inst.Dst] = b.CreateLoad(ptr, "")
	case bytecode.GetMemberRef:
		fc.regs[inst.Dst] = lw.fieldPtr(b, fc, inst)
	case bytecode.SetMember:
		ptr := lw.fieldPtr(b, fc, inst)
		b.CreateStore(lw.operandValue(fc, inst.Operands[1]), ptr)

	case bytecode.Add, bytecode.Sub, bytecode.Mul, bytecode.Div, bytecode.Mod,
		bytecode.Or, bytecode.And, bytecode.LogicalOr, bytecode.LogicalAnd,
		bytecode.Xor, bytecode.Rsh, bytecode.Lsh:
		fc.regs[inst.Dst] = lw.lowerArith(b, fc, inst)

	case bytecode.Eq, bytecode.Neq, bytecode.Gt, bytecode.Lt, bytecode.Gte, bytecode.Lte:
		fc.regs[inst.Dst] = lw.lowerCompare(b, fc, inst)

	case bytecode.Cast:
		fc.regs[inst.Dst] = lw.lowerCast(b, fc, inst)

	case bytecode.Jump:
		b.CreateBr(fc.blocks[inst.Targets[0]])
	case bytecode.JumpIf:
		cond := lw.operandValue(fc, inst.Operands[0])
		b.CreateCondBr(cond, fc.blocks[inst.Targets[0]], fc.blocks[inst.Targets[1]])

	case bytecode.Return:
		if len(inst.Operands) == 0 {
			b.CreateRetVoid()
		} else {
			b.CreateRet(lw.operandValue(fc, inst.Operands[0]))
		}

	case bytecode.Call:
		fc.regs[inst.Dst] = lw.lowerCall(b, fc, inst)

	case bytecode.GetFunction:
		callee, ok := lw.fns[inst.Str]
		if !ok {
			return fmt.Errorf("reference to undeclared function %q", inst.Str)
		}
		fc.regs[inst.Dst] = callee

	case bytecode.NewStruct:
		// NewStruct lowers to an undef aggregate of the instruction's type,
		// with no alloca and no field writes of its own.
		fc.regs[inst.Dst] = llvm.Undef(inst.Typ.ToLLVM(lw.ctx, lw.Target))

	case bytecode.Null:
		fc.regs[inst.Dst] = llvm.ConstNull(inst.Typ.ToLLVM(lw.ctx, lw.Target))

	case bytecode.Boolean:
		v := int64(0)
		if len(inst.Operands) > 0 && inst.Operands[0].Kind == bytecode.OperandImmediate && inst.Operands[0].Imm.Int() != 0 {
			v = 1
		}
		fc.regs[inst.Dst] = llvm.ConstInt(lw.ctx.Int1Type(), uint64(v), false)

	default:
		return fmt.Errorf("unhandled opcode %s", inst.Op)
	}
	return nil
}

// fieldPtr computes the GEP for a GetMember/GetMemberRef/SetMember
// instruction's target[index] field. The generator's lowerMember/
// lowerLValueRef/lowerAssign (package gen) always pass the base as
// whatever g.lowerExpr(target) produces, which is the aggregate's address
// when the target is itself pointer-typed, but a plain SSA aggregate value
// when accessing a field of a by-value struct local — since LLVM's GEP
// needs a memory address either way, a by-value base is first spilled to
// a fresh stack slot. The teacher has no struct types to ground this on
// (vslc is variables-and-arrays only); the two-index [0, field] GEP idiom
// is the standard LLVM struct-field-address pattern, composing with the
// single-index GEP the teacher does use for argv indexing in genMain.
func (lw *Lowerer) fieldPtr(b llvm.Builder, fc *funcCtx, inst *bytecode.Instruction) llvm.Value {
	base := lw.operandValue(fc, inst.Operands[0])
	if base.Type().TypeKind() != llvm.PointerTypeKind {
		slot := b.CreateAlloca(base.Type(), "")
		b.CreateStore(base, slot)
		base = slot
	}
	zero := llvm.ConstInt(lw.ctx.Int32Type(), 0, false)
	idx := llvm.ConstInt(lw.ctx.Int32Type(), uint64(inst.Index), false)
	return b.CreateGEP(base, []llvm.Value{zero, idx}, "")
}

// lowerAggregate builds an array or tuple/struct-literal value by folding
// InsertValue over an undef seed of the instruction's result type.
func (lw *Lowerer) lowerAggregate(b llvm.Builder, fc *funcCtx, inst *bytecode.Instruction) llvm.Value {
	agg := llvm.Undef(inst.Typ.ToLLVM(lw.ctx, lw.Target))
	for i, o := range inst.Operands {
		agg = b.CreateInsertValue(agg, lw.operandValue(fc, o), i, "")
	}
	return agg
}

// lowerArith selects the signed/unsigned/float variant of the requested
// arithmetic opcode based on inst.Typ, generalizing the teacher's
// genExpression arithmetic switch (which only ever chose between its two
// fixed kinds, i/f) to the full Kind set.
func (lw *Lowerer) lowerArith(b llvm.Builder, fc *funcCtx, inst *bytecode.Instruction) llvm.Value {
	lhs := lw.operandValue(fc, inst.Operands[0])
	rhs := lw.operandValue(fc, inst.Operands[1])
	isFloat := inst.Typ.Kind() == types.FloatKind || inst.Typ.Kind() == types.DoubleKind
	signed := inst.Typ.Kind() == types.IntKind && inst.Typ.Signed()

	switch inst.Op {
	case bytecode.Add:
		if isFloat {
			return b.CreateFAdd(lhs, rhs, "")
		}
		return b.CreateAdd(lhs, rhs, "")
	case bytecode.Sub:
		if isFloat {
			return b.CreateFSub(lhs, rhs, "")
		}
		return b.CreateSub(lhs, rhs, "")
	case bytecode.Mul:
		if isFloat {
			return b.CreateFMul(lhs, rhs, "")
		}
		return b.CreateMul(lhs, rhs, "")
	case bytecode.Div:
		if isFloat {
			return b.CreateFDiv(lhs, rhs, "")
		}
		if signed {
			return b.CreateSDiv(lhs, rhs, "")
		}
		return b.CreateUDiv(lhs, rhs, "")
	case bytecode.Mod:
		if isFloat {
			return b.CreateFRem(lhs, rhs, "")
		}
		if signed {
			return b.CreateSRem(lhs, rhs, "")
		}
		return b.CreateURem(lhs, rhs, "")
	case bytecode.Or, bytecode.LogicalOr:
		return b.CreateOr(lhs, rhs, "")
	case bytecode.And, bytecode.LogicalAnd:
		return b.CreateAnd(lhs, rhs, "")
	case bytecode.Xor:
		return b.CreateXor(lhs, rhs, "")
	case bytecode.Lsh:
		return b.CreateShl(lhs, rhs, "")
	case bytecode.Rsh:
		if signed {
			return b.CreateAShr(lhs, rhs, "")
		}
		return b.CreateLShr(lhs, rhs, "")
	default:
		panic(fmt.Sprintf("llvmgen: lowerArith called with non-arithmetic op %s", inst.Op))
	}
}

// lowerCompare lowers Eq/Neq/Gt/Lt/Gte/Lte, selecting ICmp vs FCmp and the
// signed/unsigned ICmp predicate from the compared operands' type,
// generalizing the teacher's genRelation (which only ever handled EQ, LT,
// GT over its two fixed kinds).
func (lw *Lowerer) lowerCompare(b llvm.Builder, fc *funcCtx, inst *bytecode.Instruction) llvm.Value {
	lhs := lw.operandValue(fc, inst.Operands[0])
	rhs := lw.operandValue(fc, inst.Operands[1])
	opType := inst.Operands[0].Type()
	isFloat := opType != nil && (opType.Kind() == types.FloatKind || opType.Kind() == types.DoubleKind)
	signed := opType == nil || opType.Kind() != types.IntKind || opType.Signed()

	if isFloat {
		pred := map[bytecode.Op]llvm.FloatPredicate{
			bytecode.Eq: llvm.FloatOEQ, bytecode.Neq: llvm.FloatONE,
			bytecode.Gt: llvm.FloatOGT, bytecode.Lt: llvm.FloatOLT,
			bytecode.Gte: llvm.FloatOGE, bytecode.Lte: llvm.FloatOLE,
		}[inst.Op]
		return b.CreateFCmp(pred, lhs, rhs, "")
	}

	var pred llvm.IntPredicate
	switch inst.Op {
	case bytecode.Eq:
		pred = llvm.IntEQ
	case bytecode.Neq:
		pred = llvm.IntNE
	case bytecode.Gt:
		if signed {
			pred = llvm.IntSGT
		} else {
			pred = llvm.IntUGT
		}
	case bytecode.Lt:
		if signed {
			pred = llvm.IntSLT
		} else {
			pred = llvm.IntULT
		}
	case bytecode.Gte:
		if signed {
			pred = llvm.IntSGE
		} else {
			pred = llvm.IntUGE
		}
	case bytecode.Lte:
		if signed {
			pred = llvm.IntSLE
		} else {
			pred = llvm.IntULE
		}
	}
	return b.CreateICmp(pred, lhs, rhs, "")
}

// lowerCast implements every Cast conversion the type system's
// CanSafelyCast (and the explicit `as` operator) permits: int<->int
// widening/truncation, int<->float, float<->double, and pointer bitcasts.
// The teacher's only cast is the implicit int->float promotion inlined at
// genAssign/genDeclaration's "typ == i but value is f" check; this
// generalizes that one case to the full from/to Kind product.
func (lw *Lowerer) lowerCast(b llvm.Builder, fc *funcCtx, inst *bytecode.Instruction) llvm.Value {
	src := lw.operandValue(fc, inst.Operands[0])
	from := inst.Operands[0].Type()
	to := inst.Typ
	dstLLVM := to.ToLLVM(lw.ctx, lw.Target)

	switch {
	case from.Kind() == types.IntKind && to.Kind() == types.IntKind:
		switch {
		case to.Bits() == from.Bits():
			return src
		case to.Bits() < from.Bits():
			return b.CreateTrunc(src, dstLLVM, "")
		case from.Signed():
			return b.CreateSExt(src, dstLLVM, "")
		default:
			return b.CreateZExt(src, dstLLVM, "")
		}
	case from.Kind() == types.IntKind && (to.Kind() == types.FloatKind || to.Kind() == types.DoubleKind):
		if from.Signed() {
			return b.CreateSIToFP(src, dstLLVM, "")
		}
		return b.CreateUIToFP(src, dstLLVM, "")
	case (from.Kind() == types.FloatKind || from.Kind() == types.DoubleKind) && to.Kind() == types.IntKind:
		if to.Signed() {
			return b.CreateFPToSI(src, dstLLVM, "")
		}
		return b.CreateFPToUI(src, dstLLVM, "")
	case from.Kind() == types.FloatKind && to.Kind() == types.DoubleKind:
		return b.CreateFPExt(src, dstLLVM, "")
	case from.Kind() == types.DoubleKind && to.Kind() == types.FloatKind:
		return b.CreateFPTrunc(src, dstLLVM, "")
	case (from.Kind() == types.PointerKind || from.Kind() == types.ReferenceKind) &&
		(to.Kind() == types.PointerKind || to.Kind() == types.ReferenceKind):
		return b.CreateBitCast(src, dstLLVM, "")
	case (from.Kind() == types.PointerKind || from.Kind() == types.ReferenceKind) && to.Kind() == types.IntKind:
		return b.CreatePtrToInt(src, dstLLVM, "")
	case from.Kind() == types.IntKind && (to.Kind() == types.PointerKind || to.Kind() == types.ReferenceKind):
		return b.CreateIntToPtr(src, dstLLVM, "")
	default:
		return b.CreateBitCast(src, dstLLVM, "")
	}
}

// lowerCall lowers a direct or indirect Call instruction, the counterpart
// of the teacher's genExpression CALL arm (which only ever resolved the
// callee by name via the globals symbol table; indirect calls through a
// function-valued register are new here since function values didn't
// exist in vslc).
func (lw *Lowerer) lowerCall(b llvm.Builder, fc *funcCtx, inst *bytecode.Instruction) llvm.Value {
	args := make([]llvm.Value, len(inst.Operands))
	for i, o := range inst.Operands {
		args[i] = lw.operandValue(fc, o)
	}
	if inst.Str != "" {
		callee, ok := lw.fns[inst.Str]
		if !ok {
			panic(fmt.Sprintf("llvmgen: call to undeclared function %q", inst.Str))
		}
		return b.CreateCall(callee, args, "")
	}
	// Indirect call: the callee is the register named by the instruction's
	// own destination-adjacent operand slot 0 isn't used for calls, so an
	// indirect call instead stashes the callee value as the first operand
	// ahead of the real arguments.
	callee := args[0]
	return b.CreateCall(callee, args[1:], "")
}
