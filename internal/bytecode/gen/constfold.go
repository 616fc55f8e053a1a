package gen

import (
	"fmt"

	"github.com/quart-lang/qrc/internal/ast"
)

// EvalConstInt evaluates e as a compile-time integer constant. It supports
// exactly the expression forms that static_assert conditions, array sizes,
// enum discriminants, and generic default arguments are allowed to use:
// integer/bool literals, sizeof/offsetof against a known Target, and
// arithmetic/bitwise/comparison/logical operators over other constant
// expressions. Anything that needs a register — a variable read, a call, a
// deref — is rejected.
func (g *Generator) EvalConstInt(e ast.Expr) (int64, error) {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return ex.Value, nil
	case *ast.BoolLiteral:
		return boolToInt(ex.Value), nil
	case *ast.SizeofExpr:
		return int64(ex.Of.Size(g.Target)), nil
	case *ast.OffsetofExpr:
		return int64(g.fieldOffset(ex.Of, ex.Field)), nil
	case *ast.UnaryExpr:
		return g.evalConstUnary(ex)
	case *ast.BinaryExpr:
		return g.evalConstBinary(ex)
	default:
		return 0, fmt.Errorf("gen: %T is not a constant expression", e)
	}
}

// EvalConstBool evaluates e as a compile-time boolean.
func (g *Generator) EvalConstBool(e ast.Expr) (bool, error) {
	v, err := g.EvalConstInt(e)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (g *Generator) evalConstUnary(ex *ast.UnaryExpr) (int64, error) {
	v, err := g.EvalConstInt(ex.Operand)
	if err != nil {
		return 0, err
	}
	switch ex.Op {
	case ast.OpNeg:
		return -v, nil
	case ast.OpNot:
		return boolToInt(v == 0), nil
	case ast.OpBitNot:
		return ^v, nil
	default:
		return 0, fmt.Errorf("gen: unary operator is not constant-evaluable")
	}
}

func (g *Generator) evalConstBinary(ex *ast.BinaryExpr) (int64, error) {
	l, err := g.EvalConstInt(ex.Left)
	if err != nil {
		return 0, err
	}
	r, err := g.EvalConstInt(ex.Right)
	if err != nil {
		return 0, err
	}
	switch ex.Op {
	case ast.OpAdd:
		return l + r, nil
	case ast.OpSub:
		return l - r, nil
	case ast.OpMul:
		return l * r, nil
	case ast.OpDiv:
		if r == 0 {
			return 0, fmt.Errorf("gen: constant division by zero")
		}
		return l / r, nil
	case ast.OpMod:
		if r == 0 {
			return 0, fmt.Errorf("gen: constant modulo by zero")
		}
		return l % r, nil
	case ast.OpBitOr:
		return l | r, nil
	case ast.OpBitAnd:
		return l & r, nil
	case ast.OpXor:
		return l ^ r, nil
	case ast.OpRsh:
		return l >> uint(r), nil
	case ast.OpLsh:
		return l << uint(r), nil
	case ast.OpEq:
		return boolToInt(l == r), nil
	case ast.OpNeq:
		return boolToInt(l != r), nil
	case ast.OpGt:
		return boolToInt(l > r), nil
	case ast.OpLt:
		return boolToInt(l < r), nil
	case ast.OpGte:
		return boolToInt(l >= r), nil
	case ast.OpLte:
		return boolToInt(l <= r), nil
	case ast.OpLogicalAnd:
		return boolToInt(l != 0 && r != 0), nil
	case ast.OpLogicalOr:
		return boolToInt(l != 0 || r != 0), nil
	default:
		return 0, fmt.Errorf("gen: binary operator is not constant-evaluable")
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
