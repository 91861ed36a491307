// Command intlang is the CLI entry point for the intlang evaluator.
//
// Programs are statement trees written as YAML (see package build).
//
// Usage:
//
//	intlang run   <file>           Build and execute a program
//	intlang check <file>           Build a program and report diagnostics
//	intlang dump  <file>           Print the built tree as JSON
//	intlang repl                   Start interactive REPL
package main

import (
	"errors"
	"fmt"
	"intlang/internal/ast"
	"intlang/internal/build"
	"intlang/internal/config"
	"intlang/internal/diag"
	"intlang/internal/logging"
	"intlang/internal/runtime"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"
)

type fileCmd struct {
	File string `arg:"positional,required" help:"program tree (YAML)"`
}

type replCmd struct{}

type args struct {
	Config   string `arg:"--config" help:"YAML configuration file"`
	Strict   bool   `arg:"--strict" help:"fail on reads of unassigned variables instead of yielding -1"`
	Capacity int    `arg:"--capacity" help:"maximum number of variables"`
	MaxSteps int64  `arg:"--max-steps" help:"stop a run after this many statements and loop iterations"`
	NoFold   bool   `arg:"--no-fold" help:"do not fold constant operands while building"`
	LogLevel string `arg:"--log-level" help:"debug, info, warn or error"`

	Run   *fileCmd `arg:"subcommand:run" help:"build and execute a program"`
	Check *fileCmd `arg:"subcommand:check" help:"build a program and report diagnostics"`
	Dump  *fileCmd `arg:"subcommand:dump" help:"print the built tree as JSON"`
	Repl  *replCmd `arg:"subcommand:repl" help:"start an interactive session"`
}

func (args) Description() string {
	return "intlang evaluates integer programs given as YAML statement trees."
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every command needs.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	reporter diag.Reporter
	stdout   io.Writer
	stderr   io.Writer
}

// execute runs the CLI and returns the process exit code.
func execute(argv []string, stdout, stderr io.Writer) int {
	var a args
	p, err := arg.NewParser(arg.Config{Program: "intlang"}, &a)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	if err := p.Parse(argv); err != nil {
		if errors.Is(err, arg.ErrHelp) {
			p.WriteHelp(stdout)
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		p.WriteUsage(stderr)
		return 2
	}
	if p.Subcommand() == nil {
		p.WriteUsage(stderr)
		return 2
	}

	cfg, err := loadConfig(a)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	logger, err := logging.New(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	defer logger.Sync() //nolint:errcheck
	defer zap.ReplaceGlobals(logger)()

	cli := &app{
		cfg:      cfg,
		logger:   logger,
		reporter: diag.NewLogReporter(logger),
		stdout:   stdout,
		stderr:   stderr,
	}

	switch {
	case a.Run != nil:
		return cli.cmdRun(a.Run.File)
	case a.Check != nil:
		return cli.cmdCheck(a.Check.File)
	case a.Dump != nil:
		return cli.cmdDump(a.Dump.File)
	case a.Repl != nil:
		return cli.cmdRepl()
	}
	return 2
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(a args) (config.Config, error) {
	cfg := config.Default()
	if a.Config != "" {
		var err error
		if cfg, err = config.Load(a.Config); err != nil {
			return config.Config{}, err
		}
	}
	if a.Strict {
		cfg.StrictUndefined = true
	}
	if a.Capacity != 0 {
		cfg.Capacity = a.Capacity
	}
	if a.MaxSteps != 0 {
		cfg.MaxSteps = a.MaxSteps
	}
	if a.NoFold {
		cfg.FoldConstants = false
	}
	if a.LogLevel != "" {
		cfg.Log.Level = a.LogLevel
	}
	return cfg, cfg.Validate()
}

func (a *app) buildOptions() build.Options {
	return build.Options{FoldConstants: a.cfg.FoldConstants}
}

func (a *app) newInterpreter(out io.Writer, reporter diag.Reporter) *runtime.Interpreter {
	return runtime.NewInterpreter(out,
		runtime.WithEnvironment(runtime.NewEnvironment(a.cfg.Capacity)),
		runtime.WithReporter(reporter),
		runtime.WithLogger(a.logger),
		runtime.WithStrictUndefined(a.cfg.StrictUndefined),
		runtime.WithMaxSteps(a.cfg.MaxSteps),
	)
}

// load reads and builds filename, reporting every diagnostic. A nil
// program means the file could not be read.
func (a *app) load(filename string) (*ast.Program, []diag.Diagnostic) {
	source, err := os.ReadFile(filename)
	if err != nil {
		a.logger.Error("cannot read file", zap.String("file", filename), zap.Error(err))
		return nil, nil
	}
	prog, diags := build.Build(source, a.buildOptions())
	for _, d := range diags {
		a.reporter.Report(d)
	}
	return prog, diags
}

// ---- run command ----

func (a *app) cmdRun(filename string) int {
	prog, diags := a.load(filename)
	if prog == nil || !build.Runnable(diags) {
		return 1
	}
	// Failures are reported where they happen; sink only remembers them
	// for the exit code.
	sink := &diag.Collector{}
	interp := a.newInterpreter(a.stdout, diag.Tee(a.reporter, sink))
	err := interp.Run(prog)
	if err != nil || diag.HasErrors(diags) || diag.HasErrors(sink.Diagnostics()) {
		return 1
	}
	return 0
}

// ---- check command ----

func (a *app) cmdCheck(filename string) int {
	prog, diags := a.load(filename)
	if prog == nil || diag.HasErrors(diags) {
		return 1
	}
	fmt.Fprintf(a.stdout, "%s: ok (%d top-level statements)\n", filename, len(prog.Body))
	return 0
}

// ---- dump command ----

func (a *app) cmdDump(filename string) int {
	prog, diags := a.load(filename)
	if prog == nil {
		return 1
	}
	output := map[string]interface{}{
		"tree":        ast.NodeToMap(prog),
		"diagnostics": diagsToSlice(diags),
	}
	if err := printJSON(a.stdout, output); err != nil {
		fmt.Fprintf(a.stderr, "error: JSON encoding failed: %v\n", err)
		return 1
	}
	if diag.HasErrors(diags) {
		return 1
	}
	return 0
}
