package llvmgen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/quart-lang/qrc/internal/constant"
	"github.com/quart-lang/qrc/internal/types"
)

// constToLLVM lowers an interned IR constant to its LLVM value, the
// generalization of the teacher's inline "is it an int or a float literal"
// branch (transform.go, every genExpression arm that handles a CONSTANT
// node) to the full Constant.Kind() variant set.
func (lw *Lowerer) constToLLVM(c *constant.Constant) llvm.Value {
	llt := c.Type().ToLLVM(lw.ctx, lw.Target)
	switch c.Kind() {
	case constant.Int:
		return llvm.ConstInt(llt, uint64(c.Int()), c.Type().Kind() == types.IntKind && c.Type().Signed())
	case constant.Float:
		return llvm.ConstFloat(llt, c.Float())
	case constant.String:
		return lw.internString(c.Str())
	case constant.Array:
		elems := c.Elements()
		vals := make([]llvm.Value, len(elems))
		for i, e := range elems {
			vals[i] = lw.constToLLVM(e)
		}
		return llvm.ConstArray(llt.ElementType(), vals)
	case constant.Struct:
		elems := c.Elements()
		vals := make([]llvm.Value, len(elems))
		for i, e := range elems {
			vals[i] = lw.constToLLVM(e)
		}
		return llvm.ConstNamedStruct(llt, vals)
	case constant.Null:
		return llvm.ConstNull(llt)
	default:
		panic(fmt.Sprintf("llvmgen: unhandled constant kind %d", c.Kind()))
	}
}

// internString returns the global string-pointer constant for v, creating
// and caching it on first use. String literals recur across calls (e.g. a
// format string used in a loop body), so deduplicating keeps the module
// from growing one global per occurrence, unlike the teacher's transform.go
// (which never reuses a string, since vslc only ever calls
// CreateGlobalStringPtr for a fixed set of diagnostic templates).
func (lw *Lowerer) internString(v string) llvm.Value {
	if g, ok := lw.stringLiterals[v]; ok {
		return g
	}
	arrType := llvm.ArrayType(lw.ctx.Int8Type(), len(v)+1)
	g := llvm.AddGlobal(lw.mod, arrType, stringGlobalPrefix)
	g.SetInitializer(lw.ctx.ConstString(v, true))
	g.SetGlobalConstant(true)
	g.SetLinkage(llvm.PrivateLinkage)

	zero := llvm.ConstInt(lw.ctx.Int32Type(), 0, false)
	ptr := llvm.ConstGEP(g, []llvm.Value{zero, zero})
	lw.stringLiterals[v] = ptr
	return ptr
}

// stringGlobalPrefix mirrors the teacher's stringPrefix ("L_STR") naming
// convention for synthesized string globals.
const stringGlobalPrefix = "L_STR"
