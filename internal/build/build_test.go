package build

import (
	"intlang/internal/ast"
	"intlang/internal/diag"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, diags := Build([]byte(src), DefaultOptions)
	require.Empty(t, diags, "unexpected diagnostics")
	return prog
}

func codes(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestBuildStatementKinds(t *testing.T) {
	prog := buildOK(t, `
- assign: {name: x, value: 1}
- print: x
- if: {cond: x, then: [{print: 1}], else: [{print: 0}]}
- while: {cond: [x, "<", 3], body: [{assign: {name: x, value: [x, "+", 1]}}]}
- for: {var: i, from: 0, to: 3, body: [{print: i}]}
`)
	require.Len(t, prog.Body, 5)
	assert.IsType(t, &ast.AssignStmt{}, prog.Body[0])
	assert.IsType(t, &ast.PrintStmt{}, prog.Body[1])
	assert.IsType(t, &ast.IfStmt{}, prog.Body[2])
	assert.IsType(t, &ast.WhileStmt{}, prog.Body[3])
	assert.IsType(t, &ast.ForStmt{}, prog.Body[4])

	forStmt := prog.Body[4].(*ast.ForStmt)
	assert.Equal(t, "i", forStmt.Var)
	assert.Equal(t, int64(0), forStmt.Start.(*ast.Literal).Value)
	assert.Equal(t, int64(3), forStmt.End.(*ast.Literal).Value)
	require.Len(t, forStmt.Body, 1)
}

func TestBuildTreeShape(t *testing.T) {
	prog := buildOK(t, `
- assign: {name: y, value: {op: "*", left: x, right: [x, "-", 2]}}
`)
	got := ast.NodeToMap(prog.Body[0])
	want := map[string]interface{}{
		"kind": "AssignStmt",
		"pos":  map[string]interface{}{"line": 2, "column": 3},
		"name": "y",
		"value": map[string]interface{}{
			"kind": "Binary",
			"pos":  map[string]interface{}{"line": 2, "column": 28},
			"op":   "*",
			"left": map[string]interface{}{
				"kind": "Ref",
				"pos":  map[string]interface{}{"line": 2, "column": 44},
				"name": "x",
			},
			"right": map[string]interface{}{
				"kind": "Binary",
				"pos":  map[string]interface{}{"line": 2, "column": 54},
				"op":   "-",
				"left": map[string]interface{}{
					"kind": "Ref",
					"pos":  map[string]interface{}{"line": 2, "column": 55},
					"name": "x",
				},
				"right": map[string]interface{}{
					"kind":  "Literal",
					"pos":   map[string]interface{}{"line": 2, "column": 63},
					"value": int64(2),
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSingleStatementDocument(t *testing.T) {
	prog := buildOK(t, `print: 42`)
	require.Len(t, prog.Body, 1)
	p := prog.Body[0].(*ast.PrintStmt)
	assert.Equal(t, int64(42), p.Value.(*ast.Literal).Value)
}

func TestBuildEmptyDocument(t *testing.T) {
	for _, src := range []string{"", "# nothing here\n", "~", "[]"} {
		prog, diags := Build([]byte(src), DefaultOptions)
		assert.Empty(t, diags, "source %q", src)
		assert.Empty(t, prog.Body, "source %q", src)
	}
}

func TestBuildAbsentBlocks(t *testing.T) {
	prog := buildOK(t, `
- if: {cond: 1}
- while: {cond: 0, body: ~}
- for: {var: i, from: 0, to: 1}
`)
	ifStmt := prog.Body[0].(*ast.IfStmt)
	assert.Nil(t, ifStmt.Then)
	assert.Nil(t, ifStmt.Else)
	assert.Nil(t, prog.Body[1].(*ast.WhileStmt).Body)
	assert.Nil(t, prog.Body[2].(*ast.ForStmt).Body)
}

func TestBuildBlockAsSingleMapping(t *testing.T) {
	prog := buildOK(t, `
- if:
    cond: 1
    then:
      print: 7
`)
	then := prog.Body[0].(*ast.IfStmt).Then
	require.Len(t, then, 1)
	assert.IsType(t, &ast.PrintStmt{}, then[0])
}

func TestBuildFoldsConstants(t *testing.T) {
	prog := buildOK(t, `- print: [[2, "+", 3], "*", 4]`)
	lit, ok := prog.Body[0].(*ast.PrintStmt).Value.(*ast.Literal)
	require.True(t, ok, "constant operands fold to a literal")
	assert.Equal(t, int64(20), lit.Value)
}

func TestBuildWithoutFolding(t *testing.T) {
	prog, diags := Build([]byte(`- print: [2, "+", 3]`), Options{FoldConstants: false})
	require.Empty(t, diags)
	bin, ok := prog.Body[0].(*ast.PrintStmt).Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)
}

func TestBuildKeepsReferencesLazy(t *testing.T) {
	prog := buildOK(t, `- while: {cond: [x, "<", 3]}`)
	cond := prog.Body[0].(*ast.WhileStmt).Condition
	assert.IsType(t, &ast.Binary{}, cond)
}

func TestBuildDivisionByZero(t *testing.T) {
	prog, diags := Build([]byte(`
- print: 1
- print: [1, "/", 0]
`), DefaultOptions)
	require.Equal(t, []string{diag.CodeDivisionByZero}, codes(diags))
	assert.Equal(t, 3, diags[0].Span.Start.Line)
	assert.Equal(t, diag.Error, diags[0].Severity)
	// The failed statement is left out.
	require.Len(t, prog.Body, 1)
}

func TestBuildNestedDivisionByZero(t *testing.T) {
	_, diags := Build([]byte(`- assign: {name: x, value: [5, "/", [3, "-", 3]]}`), DefaultOptions)
	assert.Equal(t, []string{diag.CodeDivisionByZero}, codes(diags))
}

func TestBuildDivisionByZeroUnfolded(t *testing.T) {
	_, diags := Build([]byte(`- print: [1, "/", 0]`), Options{})
	assert.Empty(t, diags, "without folding the failure waits for execution")
}

func TestBuildUnsupportedOperator(t *testing.T) {
	_, diags := Build([]byte(`
- print: [1, "%", 2]
- print: {op: "&&", left: 1, right: 0}
`), DefaultOptions)
	assert.Equal(t, []string{diag.CodeUnsupportedOp, diag.CodeUnsupportedOp}, codes(diags))
	assert.Contains(t, diags[0].Message, "'%'")
	assert.Equal(t, 2, diags[0].Span.Start.Line)
	assert.Equal(t, 3, diags[1].Span.Start.Line)
}

func TestBuildUnknownStatement(t *testing.T) {
	prog, diags := Build([]byte(`
- print: 1
- goto: 10
- print: 2
`), DefaultOptions)
	require.Equal(t, []string{diag.CodeUnknownStatement}, codes(diags))
	assert.Contains(t, diags[0].Message, "goto")
	assert.Equal(t, 3, diags[0].Span.Start.Line)
	assert.Len(t, prog.Body, 2)
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name, src, msg string
	}{
		{"invalid yaml", "- print: [1, 2", "invalid YAML"},
		{"scalar program", "42", "program expects a list of statements"},
		{"two keys", "- {print: 1, assign: {name: x, value: 1}}", "exactly one key"},
		{"missing field", "- assign: {name: x}", "missing field 'value' in assign"},
		{"unknown field", "- for: {var: i, from: 0, to: 1, step: 2}", "unknown field 'step' in for"},
		{"bad name", "- assign: {name: 3x, value: 1}", "expects a variable name"},
		{"quoted number", `- print: "12"`, "neither an integer nor a variable name"},
		{"float", "- print: 1.5", "only integer values are supported"},
		{"bool", "- print: true", "only integer values are supported"},
		{"null print", "- print: ~", "print expects an expression"},
		{"short triple", `- print: [1, "+"]`, "got 2 items"},
		{"huge literal", "- print: 10000000000000000000", "out of range"},
		{"missing cond", "- while: {body: [{print: 1}]}", "missing field 'cond' in while"},
		{"nested operator", `- print: [1, [2], 3]`, "operator must be a symbol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Build([]byte(tt.src), DefaultOptions)
			require.NotEmpty(t, diags)
			assert.Equal(t, diag.CodeMalformedTree, diags[0].Code)
			assert.Contains(t, diags[0].Message, tt.msg)
			assert.True(t, diag.HasErrors(diags))
		})
	}
}

func TestBuildAliases(t *testing.T) {
	prog := buildOK(t, `
- assign: {name: x, value: &limit 3}
- for: {var: i, from: 0, to: *limit}
`)
	end := prog.Body[1].(*ast.ForStmt).End.(*ast.Literal)
	assert.Equal(t, int64(3), end.Value)
}

func TestBuildReportsEveryProblem(t *testing.T) {
	_, diags := Build([]byte(`
- print: [1, "/", 0]
- jump: 1
- print: [1, "^", 1]
`), DefaultOptions)
	assert.Equal(t, []string{
		diag.CodeDivisionByZero,
		diag.CodeUnknownStatement,
		diag.CodeUnsupportedOp,
	}, codes(diags))
}

func TestBuilderReuse(t *testing.T) {
	b := New(DefaultOptions)
	_, diags := b.Build([]byte("- nope: 1"))
	require.Len(t, diags, 1)
	prog, diags := b.Build([]byte("- print: 1"))
	assert.Empty(t, diags)
	assert.Len(t, prog.Body, 1)
}

func TestRunnable(t *testing.T) {
	_, diags := Build([]byte("- print: [1, \"/\", 0]\n- jump: 1\n- print: [1, \"%\", 2]\n"), DefaultOptions)
	require.NotEmpty(t, diags)
	assert.True(t, Runnable(diags), "fold-time failures drop only their statement")

	_, diags = Build([]byte("- print: 1\n- assign: {name: x}\n"), DefaultOptions)
	assert.False(t, Runnable(diags))

	assert.True(t, Runnable(nil))
}
