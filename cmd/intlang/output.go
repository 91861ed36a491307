package main

import (
	"encoding/json"
	"fmt"
	"intlang/internal/diag"
	"intlang/internal/runtime"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = map[string]interface{}{
			"code":     d.Code,
			"severity": d.Severity.String(),
			"message":  d.Message,
			"line":     d.Span.Start.Line,
			"column":   d.Span.Start.Column,
		}
		if d.Hint != "" {
			result[i]["hint"] = d.Hint
		}
	}
	return result
}

var (
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
)

// coloredReporter prints diagnostics for interactive display.
func coloredReporter(w io.Writer) diag.Reporter {
	return diag.ReporterFunc(func(d diag.Diagnostic) {
		c := errorColor
		if d.Severity == diag.Warning {
			c = warningColor
		}
		fmt.Fprintln(w, c.Sprint(d.String()))
	})
}

// printEnv renders the bindings of env as a table, in assignment order.
func printEnv(w io.Writer, env *runtime.Environment) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Value"})
	for _, name := range env.Names() {
		v, _ := env.Get(name)
		table.Append([]string{name, strconv.FormatInt(v, 10)})
	}
	table.SetCaption(true, fmt.Sprintf("%d of %d names bound", env.Len(), env.Capacity()))
	table.Render()
}
