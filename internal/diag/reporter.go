package diag

import (
	"sync"

	"go.uber.org/zap"
)

// Reporter receives every diagnostic as soon as it is detected.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(d Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Collector keeps reported diagnostics in memory.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Codes returns the codes of the reported diagnostics in order.
func (c *Collector) Codes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	codes := make([]string, len(c.diags))
	for i, d := range c.diags {
		codes[i] = d.Code
	}
	return codes
}

// LogReporter writes diagnostics to a zap logger.
type LogReporter struct {
	logger *zap.Logger
}

// NewLogReporter returns a Reporter backed by logger. A nil logger
// falls back to the global zap logger.
func NewLogReporter(logger *zap.Logger) *LogReporter {
	if logger == nil {
		logger = zap.L()
	}
	return &LogReporter{logger: logger}
}

// Report logs d at error or warn level depending on its severity.
func (r *LogReporter) Report(d Diagnostic) {
	fields := []zap.Field{zap.String("code", d.Code)}
	if d.Span.Start.Known() {
		fields = append(fields,
			zap.Int("line", d.Span.Start.Line),
			zap.Int("column", d.Span.Start.Column))
	}
	if d.Hint != "" {
		fields = append(fields, zap.String("hint", d.Hint))
	}
	switch d.Severity {
	case Warning:
		r.logger.Warn(d.Message, fields...)
	default:
		r.logger.Error(d.Message, fields...)
	}
}

// Tee fans a diagnostic out to several reporters.
func Tee(reporters ...Reporter) Reporter {
	return ReporterFunc(func(d Diagnostic) {
		for _, r := range reporters {
			r.Report(d)
		}
	})
}
