package build

import (
	"intlang/internal/ast"
	"intlang/internal/diag"
	"intlang/internal/runtime"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Statements
// ============================================================

// block builds a statement list. A null node is an absent block and a
// lone mapping is a one-statement block.
func (b *Builder) block(n *yaml.Node, kind string) ast.Block {
	n = resolve(n)
	if isNull(n) {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		if stmt := b.stmt(n); stmt != nil {
			return ast.Block{stmt}
		}
		return nil
	case yaml.SequenceNode:
		var out ast.Block
		for _, item := range n.Content {
			if stmt := b.stmt(item); stmt != nil {
				out = append(out, stmt)
			}
		}
		return out
	default:
		b.errorf(diag.CodeMalformedTree, n, "%s expects a list of statements", kind)
		return nil
	}
}

// stmt builds one statement, or returns nil after reporting why it could
// not be built.
func (b *Builder) stmt(n *yaml.Node) ast.Stmt {
	n = resolve(n)
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		b.errorf(diag.CodeMalformedTree, n, "a statement is a mapping with exactly one key")
		return nil
	}
	key, val := n.Content[0], n.Content[1]

	switch key.Value {
	case "assign":
		return b.assignStmt(n, val)
	case "print":
		return b.printStmt(n, val)
	case "if":
		return b.ifStmt(n, val)
	case "while":
		return b.whileStmt(n, val)
	case "for":
		return b.forStmt(n, val)
	default:
		b.errorf(diag.CodeUnknownStatement, key, "unknown statement kind '%s'", key.Value)
		return nil
	}
}

func (b *Builder) assignStmt(owner, n *yaml.Node) ast.Stmt {
	f, ok := b.fields(n, "assign", "name", "value")
	if !ok {
		return nil
	}
	nameNode, ok1 := b.require(f, owner, "assign", "name")
	valNode, ok2 := b.require(f, owner, "assign", "value")
	if !ok1 || !ok2 {
		return nil
	}
	name, ok := b.name(nameNode, "assign")
	if !ok {
		return nil
	}
	value, ok := b.expr(valNode)
	if !ok {
		return nil
	}
	stmt := ast.Assign(name, value)
	stmt.Span = posOf(owner)
	return stmt
}

func (b *Builder) printStmt(owner, n *yaml.Node) ast.Stmt {
	if isNull(n) {
		b.errorf(diag.CodeMalformedTree, owner, "print expects an expression")
		return nil
	}
	value, ok := b.expr(n)
	if !ok {
		return nil
	}
	stmt := ast.Print(value)
	stmt.Span = posOf(owner)
	return stmt
}

func (b *Builder) ifStmt(owner, n *yaml.Node) ast.Stmt {
	f, ok := b.fields(n, "if", "cond", "then", "else")
	if !ok {
		return nil
	}
	condNode, ok := b.require(f, owner, "if", "cond")
	if !ok {
		return nil
	}
	cond, ok := b.expr(condNode)
	if !ok {
		return nil
	}
	stmt := ast.If(cond, b.block(f["then"], "then"), b.block(f["else"], "else"))
	stmt.Span = posOf(owner)
	return stmt
}

func (b *Builder) whileStmt(owner, n *yaml.Node) ast.Stmt {
	f, ok := b.fields(n, "while", "cond", "body")
	if !ok {
		return nil
	}
	condNode, ok := b.require(f, owner, "while", "cond")
	if !ok {
		return nil
	}
	cond, ok := b.expr(condNode)
	if !ok {
		return nil
	}
	stmt := ast.While(cond, b.block(f["body"], "body"))
	stmt.Span = posOf(owner)
	return stmt
}

func (b *Builder) forStmt(owner, n *yaml.Node) ast.Stmt {
	f, ok := b.fields(n, "for", "var", "from", "to", "body")
	if !ok {
		return nil
	}
	varNode, ok1 := b.require(f, owner, "for", "var")
	fromNode, ok2 := b.require(f, owner, "for", "from")
	toNode, ok3 := b.require(f, owner, "for", "to")
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	name, ok := b.name(varNode, "for")
	if !ok {
		return nil
	}
	start, ok1 := b.expr(fromNode)
	end, ok2 := b.expr(toNode)
	if !ok1 || !ok2 {
		return nil
	}
	stmt := ast.For(name, start, end, b.block(f["body"], "body"))
	stmt.Span = posOf(owner)
	return stmt
}

// ============================================================
// Expressions
// ============================================================

func (b *Builder) expr(n *yaml.Node) (ast.Expr, bool) {
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return b.scalar(n)
	case yaml.MappingNode:
		f, ok := b.fields(n, "expression", "op", "left", "right")
		if !ok {
			return nil, false
		}
		opNode, ok1 := b.require(f, n, "expression", "op")
		left, ok2 := b.require(f, n, "expression", "left")
		right, ok3 := b.require(f, n, "expression", "right")
		if !ok1 || !ok2 || !ok3 {
			return nil, false
		}
		return b.binary(n, left, opNode, right)
	case yaml.SequenceNode:
		if len(n.Content) != 3 {
			b.errorf(diag.CodeMalformedTree, n, "infix expression expects [left, op, right], got %d items", len(n.Content))
			return nil, false
		}
		return b.binary(n, n.Content[0], n.Content[1], n.Content[2])
	default:
		b.errorf(diag.CodeMalformedTree, n, "expected an expression")
		return nil, false
	}
}

func (b *Builder) scalar(n *yaml.Node) (ast.Expr, bool) {
	switch n.Tag {
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			b.errorf(diag.CodeMalformedTree, n, "integer literal '%s' out of range", n.Value)
			return nil, false
		}
		lit := ast.Lit(v)
		lit.Span = posOf(n)
		return lit, true
	case "!!str":
		if !isIdent(n.Value) {
			b.errorf(diag.CodeMalformedTree, n, "'%s' is neither an integer nor a variable name", n.Value)
			return nil, false
		}
		ref := ast.Ident(n.Value)
		ref.Span = posOf(n)
		return ref, true
	case "!!null":
		b.errorf(diag.CodeMalformedTree, n, "missing expression")
		return nil, false
	default:
		b.errorf(diag.CodeMalformedTree, n, "only integer values are supported, got '%s'", n.Value)
		return nil, false
	}
}

// binary builds left op right. Operators are checked here so that an
// unsupported symbol fails construction, and two literal operands are
// folded when enabled.
func (b *Builder) binary(owner, leftNode, opNode, rightNode *yaml.Node) (ast.Expr, bool) {
	opNode = resolve(opNode)
	if opNode.Kind != yaml.ScalarNode {
		b.errorf(diag.CodeMalformedTree, opNode, "operator must be a symbol")
		return nil, false
	}
	op := ast.Op(opNode.Value)
	if !op.Valid() {
		b.errorf(diag.CodeUnsupportedOp, opNode, "unsupported operator '%s'", opNode.Value)
		return nil, false
	}

	left, ok1 := b.expr(leftNode)
	right, ok2 := b.expr(rightNode)
	if !ok1 || !ok2 {
		return nil, false
	}

	if b.opts.FoldConstants {
		l, lok := left.(*ast.Literal)
		r, rok := right.(*ast.Literal)
		if lok && rok {
			lit, err := runtime.Fold(l, op, r)
			if err != nil {
				b.foldError(err, owner)
				return nil, false
			}
			lit.Span = posOf(owner)
			return lit, true
		}
	}

	bin := ast.Bin(left, op, right)
	bin.Span = posOf(owner)
	return bin, true
}
