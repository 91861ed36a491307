// Package runtime implements the environment, evaluator and executor for
// intlang trees.
package runtime

import (
	"errors"
	"fmt"
	"intlang/internal/ast"
	"intlang/internal/diag"
	"intlang/internal/span"
	"io"
	"reflect"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks statement trees against a single environment.
type Interpreter struct {
	env      *Environment
	output   io.Writer
	reporter diag.Reporter
	logger   *zap.Logger

	strict   bool  // unassigned references fail instead of yielding Undefined
	maxSteps int64 // 0 means unlimited
	steps    int64
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithEnvironment makes the interpreter read and write env.
func WithEnvironment(env *Environment) Option {
	return func(i *Interpreter) { i.env = env }
}

// WithReporter sets the sink every failure is reported to.
func WithReporter(r diag.Reporter) Option {
	return func(i *Interpreter) { i.reporter = r }
}

// WithLogger sets the logger used for run-level debug events.
func WithLogger(l *zap.Logger) Option {
	return func(i *Interpreter) { i.logger = l }
}

// WithStrictUndefined makes reads of unassigned variables an error.
func WithStrictUndefined(strict bool) Option {
	return func(i *Interpreter) { i.strict = strict }
}

// WithMaxSteps bounds the number of statements and loop iterations a
// single Run may perform. Zero disables the bound.
func WithMaxSteps(n int64) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// NewInterpreter creates an interpreter that prints to output.
func NewInterpreter(output io.Writer, opts ...Option) *Interpreter {
	i := &Interpreter{output: output}
	for _, opt := range opts {
		opt(i)
	}
	if i.env == nil {
		i.env = NewEnvironment(DefaultCapacity)
	}
	if i.logger == nil {
		i.logger = zap.L()
	}
	if i.reporter == nil {
		i.reporter = diag.NewLogReporter(i.logger)
	}
	return i
}

// Env returns the environment (useful for REPL).
func (i *Interpreter) Env() *Environment {
	return i.env
}

// Reset clears all bindings.
func (i *Interpreter) Reset() {
	i.env.Clear()
}

// Run executes the program body in order. A failing statement is skipped
// and the run goes on with the next one; the returned error combines every
// failure. Only an exhausted step budget or a broken output stops the run.
func (i *Interpreter) Run(program *ast.Program) error {
	i.steps = 0
	i.logger.Debug("run started", zap.Int("statements", len(program.Body)))
	err := i.execBlock(program.Body)
	i.logger.Debug("run finished",
		zap.Int64("steps", i.steps),
		zap.Int("variables", i.env.Len()),
		zap.Error(err))
	return err
}

// fail reports err and returns it for propagation.
func (i *Interpreter) fail(err error) error {
	var re *RuntimeError
	if errors.As(err, &re) {
		i.reporter.Report(re.Diagnostic())
	}
	return err
}

// tick charges one step against the budget.
func (i *Interpreter) tick(s span.Span) error {
	if i.maxSteps <= 0 {
		return nil
	}
	i.steps++
	if i.steps > i.maxSteps {
		return i.fail(runtimeErr(diag.CodeStepBudget, ErrStepBudgetExceeded, s, "step budget of %d exceeded", i.maxSteps))
	}
	return nil
}

// ============================================================
// Statement execution
// ============================================================

// Exec runs a single statement. A nil statement is a no-op.
func (i *Interpreter) Exec(stmt ast.Stmt) error {
	if isNil(stmt) {
		return nil
	}
	if err := i.tick(stmt.GetSpan()); err != nil {
		return err
	}

	switch s := stmt.(type) {
	case *ast.AssignStmt:
		return i.execAssign(s)
	case *ast.PrintStmt:
		return i.execPrint(s)
	case *ast.IfStmt:
		return i.execIf(s)
	case *ast.WhileStmt:
		return i.execWhile(s)
	case *ast.ForStmt:
		return i.execFor(s)
	default:
		return i.fail(runtimeErr(diag.CodeUnknownStatement, ErrUnknownStatement, stmt.GetSpan(), "unknown statement kind: %T", stmt))
	}
}

// isNil also catches typed nil pointers, e.g. a (*ast.PrintStmt)(nil)
// stored in a Block.
func isNil(n ast.Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// execBlock runs every statement of block. A statement that fails has
// already been reported; its siblings still run and the failures are
// returned together, so an enclosing loop stops after this pass.
func (i *Interpreter) execBlock(block ast.Block) error {
	var errs error
	for _, stmt := range block {
		if err := i.Exec(stmt); err != nil {
			if fatal(err) {
				return multierr.Append(errs, err)
			}
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// fatal reports whether err must end the whole run: the step budget is
// spent, or output could not be written.
func fatal(err error) bool {
	if errors.Is(err, ErrStepBudgetExceeded) {
		return true
	}
	for _, e := range multierr.Errors(err) {
		var re *RuntimeError
		if !errors.As(e, &re) {
			return true
		}
	}
	return false
}

func (i *Interpreter) execAssign(s *ast.AssignStmt) error {
	val, err := i.Eval(s.Value)
	if err != nil {
		return err
	}
	i.bind(s.Name, val, s.Span)
	return nil
}

// bind assigns name. A full environment drops the assignment; the
// condition is reported and execution carries on.
func (i *Interpreter) bind(name string, val int64, s span.Span) {
	if err := i.env.Set(name, val); err != nil {
		i.reporter.Report(diag.Errorf(diag.CodeCapacityExceeded, s, "%s", err))
	}
}

func (i *Interpreter) execPrint(s *ast.PrintStmt) error {
	val, err := i.Eval(s.Value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(i.output, "%d\n", val)
	return err
}

func (i *Interpreter) execIf(s *ast.IfStmt) error {
	cond, err := i.Eval(s.Condition)
	if err != nil {
		return err
	}
	if cond != 0 {
		return i.execBlock(s.Then)
	}
	return i.execBlock(s.Else)
}

func (i *Interpreter) execWhile(s *ast.WhileStmt) error {
	for {
		cond, err := i.Eval(s.Condition)
		if err != nil {
			return err
		}
		if cond == 0 {
			return nil
		}
		if err := i.tick(s.Span); err != nil {
			return err
		}
		if err := i.execBlock(s.Body); err != nil {
			return err
		}
	}
}

// execFor iterates an ascending half-open range. Both bounds are evaluated
// once. The counter is private to the loop, so reassigning the loop
// variable in the body changes the trace line but not the iteration count.
func (i *Interpreter) execFor(s *ast.ForStmt) error {
	start, err := i.Eval(s.Start)
	if err != nil {
		return err
	}
	end, err := i.Eval(s.End)
	if err != nil {
		return err
	}

	for n := start; n < end; n++ {
		if err := i.tick(s.Span); err != nil {
			return err
		}
		i.bind(s.Var, n, s.Span)
		if err := i.execBlock(s.Body); err != nil {
			return err
		}
		cur, ok := i.env.Get(s.Var)
		if !ok {
			cur = Undefined
		}
		if _, err := fmt.Fprintf(i.output, "Current value of %s: %d\n", s.Var, cur); err != nil {
			return err
		}
	}
	return nil
}
