// Package ast defines the expression and statement trees executed by the
// interpreter.
package ast

import (
	"intlang/internal/span"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all tree nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is an integer-valued, side-effect-free node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is an executable node.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Program
// ============================================================

// Block is an ordered list of statements. A nil or empty Block marks an
// absent body or branch and executes as a no-op.
type Block []Stmt

// Program is the root of a built tree.
type Program struct {
	NodeBase
	Body Block
}

// ============================================================
// Expressions
// ============================================================

// Literal is a concrete integer.
type Literal struct {
	ExprBase
	Value int64
}

// Ref is a pending variable lookup.
type Ref struct {
	ExprBase
	Name string
}

// Binary applies Op to the values of Left and Right when evaluated.
type Binary struct {
	ExprBase
	Op    Op
	Left  Expr
	Right Expr
}

// Lit returns a literal expression holding n.
func Lit(n int64) *Literal {
	return &Literal{Value: n}
}

// Ident returns a reference to the variable name.
func Ident(name string) *Ref {
	return &Ref{Name: name}
}

// Bin returns an unevaluated binary expression.
func Bin(left Expr, op Op, right Expr) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

// ============================================================
// Statements
// ============================================================

// AssignStmt binds Name to the value of Value.
type AssignStmt struct {
	StmtBase
	Name  string
	Value Expr
}

// PrintStmt writes the value of Value followed by a newline.
type PrintStmt struct {
	StmtBase
	Value Expr
}

// IfStmt runs Then when Condition is non-zero, Else otherwise.
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      Block
	Else      Block // may be empty
}

// WhileStmt runs Body for as long as Condition is non-zero.
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      Block
}

// ForStmt runs Body once for each Var in [Start, End), ascending.
type ForStmt struct {
	StmtBase
	Var   string
	Start Expr
	End   Expr // exclusive
	Body  Block
}

// Assign returns an assignment statement.
func Assign(name string, value Expr) *AssignStmt {
	return &AssignStmt{Name: name, Value: value}
}

// Print returns a print statement.
func Print(value Expr) *PrintStmt {
	return &PrintStmt{Value: value}
}

// If returns a conditional. Pass a nil els for an if without else.
func If(cond Expr, then, els Block) *IfStmt {
	return &IfStmt{Condition: cond, Then: then, Else: els}
}

// While returns a while-loop.
func While(cond Expr, body Block) *WhileStmt {
	return &WhileStmt{Condition: cond, Body: body}
}

// For returns a bounded for-loop over [start, end).
func For(name string, start, end Expr, body Block) *ForStmt {
	return &ForStmt{Var: name, Start: start, End: end, Body: body}
}

// NewProgram wraps stmts into a Program.
func NewProgram(stmts ...Stmt) *Program {
	return &Program{Body: Block(stmts)}
}
