// Package build constructs statement trees from YAML documents.
//
// A document is either a sequence of statements (a program) or a single
// statement mapping. Each statement is a mapping with exactly one key:
//
//	- assign: {name: x, value: 0}
//	- while:
//	    cond: {op: "<", left: x, right: 3}
//	    body:
//	      - assign: {name: x, value: [x, "+", 1]}
//	- if: {cond: [x, "==", 3], then: [{print: x}], else: [{print: 0}]}
//	- for: {var: i, from: 0, to: 3, body: [{print: i}]}
//
// Expressions are integers (literals), identifiers (references), a mapping
// {op, left, right} or the infix triple [left, op, right]. Note that "!="
// must be quoted because a leading '!' starts a YAML tag.
package build

import (
	"errors"
	"intlang/internal/ast"
	"intlang/internal/diag"
	"intlang/internal/runtime"
	"intlang/internal/span"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Options controls tree construction.
type Options struct {
	// FoldConstants collapses binary nodes whose operands are both
	// literals while building, so errors such as 1/0 surface before
	// anything runs.
	FoldConstants bool
}

// DefaultOptions enables constant folding.
var DefaultOptions = Options{FoldConstants: true}

// Builder turns YAML nodes into ast nodes, collecting diagnostics.
type Builder struct {
	opts  Options
	diags []diag.Diagnostic
}

// New creates a builder.
func New(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Build decodes src and returns the program together with every
// diagnostic found. Statements that failed to build are left out of the
// program; see Runnable.
func (b *Builder) Build(src []byte) (*ast.Program, []diag.Diagnostic) {
	b.diags = nil
	prog := &ast.Program{}

	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		b.addError(diag.CodeMalformedTree, span.Span{}, "invalid YAML: "+err.Error())
		return prog, b.diags
	}
	if len(doc.Content) == 0 {
		return prog, b.diags
	}

	root := resolve(doc.Content[0])
	prog.Span = posOf(root)
	prog.Body = b.block(root, "program")
	return prog, b.diags
}

// Runnable reports whether a program built with diags may be executed.
// Statements that failed to build were left out, so only malformed input
// withholds the rest of the program.
func Runnable(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.Error && d.Code == diag.CodeMalformedTree {
			return false
		}
	}
	return true
}

// Build is a convenience wrapper around New(opts).Build(src).
func Build(src []byte, opts Options) (*ast.Program, []diag.Diagnostic) {
	return New(opts).Build(src)
}

// ---- diagnostics ----

func (b *Builder) addError(code string, s span.Span, msg string) {
	b.diags = append(b.diags, diag.Errorf(code, s, "%s", msg))
}

func (b *Builder) errorf(code string, n *yaml.Node, format string, args ...interface{}) {
	b.diags = append(b.diags, diag.Errorf(code, posOf(n), format, args...))
}

// ---- helpers ----

func posOf(n *yaml.Node) span.Span {
	if n == nil {
		return span.Span{}
	}
	return span.At(n.Line, n.Column)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// fields splits a mapping into its values by key. Keys outside allowed
// and duplicated keys are reported.
func (b *Builder) fields(n *yaml.Node, kind string, allowed ...string) (map[string]*yaml.Node, bool) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		b.errorf(diag.CodeMalformedTree, n, "%s expects a mapping with fields %v", kind, allowed)
		return nil, false
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	ok := true
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if !contains(allowed, key) {
			b.errorf(diag.CodeMalformedTree, n.Content[i], "unknown field '%s' in %s", key, kind)
			ok = false
			continue
		}
		if _, dup := out[key]; dup {
			b.errorf(diag.CodeMalformedTree, n.Content[i], "duplicate field '%s' in %s", key, kind)
			ok = false
			continue
		}
		out[key] = n.Content[i+1]
	}
	return out, ok
}

func (b *Builder) require(f map[string]*yaml.Node, owner *yaml.Node, kind, name string) (*yaml.Node, bool) {
	n, ok := f[name]
	if !ok || isNull(n) {
		b.errorf(diag.CodeMalformedTree, owner, "missing field '%s' in %s", name, kind)
		return nil, false
	}
	return n, true
}

func (b *Builder) name(n *yaml.Node, kind string) (string, bool) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || n.Tag != "!!str" || !isIdent(n.Value) {
		b.errorf(diag.CodeMalformedTree, n, "%s expects a variable name, got '%s'", kind, n.Value)
		return "", false
	}
	return n.Value, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// foldError converts a folding failure into a diagnostic at n.
func (b *Builder) foldError(err error, n *yaml.Node) {
	var re *runtime.RuntimeError
	if errors.As(err, &re) {
		b.errorf(re.Code, n, "%s", re.Message)
		return
	}
	b.errorf(diag.CodeMalformedTree, n, "%s", err)
}
