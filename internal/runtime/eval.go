package runtime

import (
	"intlang/internal/ast"
	"intlang/internal/diag"
	"intlang/internal/span"
)

// Undefined is the value an unassigned variable evaluates to. It cannot be
// told apart from a variable explicitly assigned -1.
const Undefined int64 = -1

// ApplyOp computes a op b. Comparisons yield 1 or 0. Division truncates
// toward zero.
func ApplyOp(op ast.Op, a, b int64) (int64, error) {
	switch op {
	case ast.Add:
		return a + b, nil
	case ast.Sub:
		return a - b, nil
	case ast.Mul:
		return a * b, nil
	case ast.Div:
		if b == 0 {
			return 0, runtimeErr(diag.CodeDivisionByZero, ErrDivisionByZero, span.Span{}, "division by zero")
		}
		return a / b, nil
	case ast.Lt:
		return truth(a < b), nil
	case ast.Gt:
		return truth(a > b), nil
	case ast.Lte:
		return truth(a <= b), nil
	case ast.Gte:
		return truth(a >= b), nil
	case ast.Eq:
		return truth(a == b), nil
	case ast.Neq:
		return truth(a != b), nil
	default:
		return 0, runtimeErr(diag.CodeUnsupportedOp, ErrUnsupportedOperator, span.Span{}, "unsupported operator '%s'", op)
	}
}

func truth(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Fold collapses two literals into the literal a op b. It needs no
// environment and reports nothing; tree builders use it to fold constant
// operands at construction time.
func Fold(left *ast.Literal, op ast.Op, right *ast.Literal) (*ast.Literal, error) {
	v, err := ApplyOp(op, left.Value, right.Value)
	if err != nil {
		return nil, at(err, joinSpan(left, right))
	}
	lit := ast.Lit(v)
	lit.Span = joinSpan(left, right)
	return lit, nil
}

// Combine evaluates left and right, applies op and returns the result as a
// new literal. On failure the condition is reported and no expression is
// returned.
func (i *Interpreter) Combine(left ast.Expr, op ast.Op, right ast.Expr) (*ast.Literal, error) {
	a, err := i.Eval(left)
	if err != nil {
		return nil, err
	}
	b, err := i.Eval(right)
	if err != nil {
		return nil, err
	}
	s := joinSpan(left, right)
	v, err := ApplyOp(op, a, b)
	if err != nil {
		return nil, i.fail(at(err, s))
	}
	lit := ast.Lit(v)
	lit.Span = s
	return lit, nil
}

// Eval computes the integer value of expr.
func (i *Interpreter) Eval(expr ast.Expr) (int64, error) {
	if isNil(expr) {
		return 0, i.fail(runtimeErr(diag.CodeMalformedTree, ErrMalformedTree, span.Span{}, "missing expression"))
	}
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.Ref:
		return i.lookup(e)
	case *ast.Binary:
		a, err := i.Eval(e.Left)
		if err != nil {
			return 0, err
		}
		b, err := i.Eval(e.Right)
		if err != nil {
			return 0, err
		}
		v, err := ApplyOp(e.Op, a, b)
		if err != nil {
			return 0, i.fail(at(err, e.Span))
		}
		return v, nil
	default:
		return 0, i.fail(runtimeErr(diag.CodeMalformedTree, ErrMalformedTree, expr.GetSpan(), "unsupported expression type: %T", expr))
	}
}

func (i *Interpreter) lookup(r *ast.Ref) (int64, error) {
	if v, ok := i.env.Get(r.Name); ok {
		return v, nil
	}
	if i.strict {
		return 0, i.fail(runtimeErr(diag.CodeUndefinedVariable, ErrUndefinedVariable, r.Span, "undefined variable '%s'", r.Name))
	}
	d := diag.Warningf(diag.CodeUndefinedWarning, r.Span, "undefined variable '%s', evaluating to %d", r.Name, Undefined)
	d.Hint = "assign it before use"
	i.reporter.Report(d)
	return Undefined, nil
}

func joinSpan(left, right ast.Node) span.Span {
	var s span.Span
	if !isNil(left) {
		s.Start = left.GetSpan().Start
	}
	if !isNil(right) {
		s.End = right.GetSpan().End
	}
	if !s.End.Known() {
		s.End = s.Start
	}
	return s
}
