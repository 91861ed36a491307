// Package span provides the source positions attached to tree nodes.
package span

import "fmt"

// Position is a location in the document a tree was built from.
type Position struct {
	Line   int `json:"line"`   // 1-based line number, 0 if unknown
	Column int `json:"column"` // 1-based column number, 0 if unknown
}

// Known reports whether the position refers to a real location.
// Nodes constructed directly in Go code carry the zero Position.
func (p Position) Known() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.Known() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the region covered by a node. Documents decoded from YAML only
// expose start positions, so End may equal Start.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// At returns a span that starts and ends at line:col.
func At(line, col int) Span {
	p := Position{Line: line, Column: col}
	return Span{Start: p, End: p}
}

func (s Span) String() string {
	if s.End == s.Start {
		return s.Start.String()
	}
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}
