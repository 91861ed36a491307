package ast

import (
	"intlang/internal/span"
)

// NodeToMap converts a node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return m("Program", n.Span, "body", blockSlice(n.Body))

	// ---- Expressions ----
	case *Literal:
		return m("Literal", n.Span, "value", n.Value)
	case *Ref:
		return m("Ref", n.Span, "name", n.Name)
	case *Binary:
		return m("Binary", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))

	// ---- Statements ----
	case *AssignStmt:
		return m("AssignStmt", n.Span,
			"name", n.Name,
			"value", NodeToMap(n.Value))
	case *PrintStmt:
		return m("PrintStmt", n.Span, "value", NodeToMap(n.Value))
	case *IfStmt:
		result := m("IfStmt", n.Span,
			"condition", NodeToMap(n.Condition),
			"then", blockSlice(n.Then))
		if len(n.Else) > 0 {
			result["else"] = blockSlice(n.Else)
		}
		return result
	case *WhileStmt:
		return m("WhileStmt", n.Span,
			"condition", NodeToMap(n.Condition),
			"body", blockSlice(n.Body))
	case *ForStmt:
		return m("ForStmt", n.Span,
			"var", n.Var,
			"start", NodeToMap(n.Start),
			"end", NodeToMap(n.End),
			"body", blockSlice(n.Body))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{"kind": kind}
	if s.Start.Known() {
		result["pos"] = map[string]interface{}{
			"line":   s.Start.Line,
			"column": s.Start.Column,
		}
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func blockSlice(b Block) []interface{} {
	result := make([]interface{}, 0, len(b))
	for _, s := range b {
		if s == nil {
			continue
		}
		result = append(result, NodeToMap(s))
	}
	return result
}
