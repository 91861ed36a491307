package main

import (
	"errors"
	"fmt"
	"intlang/internal/build"
	"intlang/internal/diag"
	"intlang/internal/runtime"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	promptColor = color.New(color.FgGreen)
	hintColor   = color.New(color.FgHiBlack)
	bannerColor = color.New(color.FgCyan, color.Bold)
)

const replHelp = `Enter statements as YAML, one per line or as a [list]:
  {assign: {name: x, value: 5}}
  {print: [x, "*", 2]}
  {for: {var: i, from: 0, to: 3, body: [{print: i}]}}
Brackets may span several lines. Commands: :env, :reset, :help, exit`

// ---- repl command ----

func (a *app) cmdRepl() int {
	// Determine history file path (~/.intlang_history)
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".intlang_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptColor.Sprint("intlang> "),
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "readline init failed: %v\n", err)
		return 1
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s %s\n\n",
		bannerColor.Sprint("intlang REPL"), hintColor.Sprint("(type ':help', 'exit' or Ctrl+D)"))

	s := &session{
		interp:   a.newInterpreter(rl.Stdout(), coloredReporter(rl.Stderr())),
		opts:     a.buildOptions(),
		out:      rl.Stdout(),
		reporter: coloredReporter(rl.Stderr()),
	}

	for {
		if s.pending() {
			rl.SetPrompt(hintColor.Sprint("...      "))
		} else {
			rl.SetPrompt(promptColor.Sprint("intlang> "))
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if s.pending() {
					// Cancel multi-line input
					s.discard()
					continue
				}
				fmt.Fprintln(rl.Stdout(), hintColor.Sprint("(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if !s.feed(line) {
			break
		}
	}
	return 0
}

// session holds REPL state between lines.
type session struct {
	interp   *runtime.Interpreter
	opts     build.Options
	out      io.Writer
	reporter diag.Reporter

	buf   strings.Builder
	depth int
}

func (s *session) pending() bool { return s.depth > 0 }

func (s *session) discard() {
	s.buf.Reset()
	s.depth = 0
}

// feed consumes one input line. It returns false when the user asked to
// leave.
func (s *session) feed(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !s.pending() {
		switch trimmed {
		case "exit":
			return false
		case ":env":
			printEnv(s.out, s.interp.Env())
			return true
		case ":reset":
			s.interp.Reset()
			fmt.Fprintln(s.out, hintColor.Sprint("environment cleared"))
			return true
		case ":help":
			fmt.Fprintln(s.out, replHelp)
			return true
		}
	}

	// Count brackets for multi-line input
	s.depth += bracketDepth(line)
	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	if s.depth > 0 {
		return true
	}

	source := s.buf.String()
	s.discard()
	if strings.TrimSpace(source) == "" {
		return true
	}
	s.eval(source)
	return true
}

// eval builds and runs one complete input. Statements that failed to
// build are skipped and the rest still run. Failures have already been
// shown by the reporter when eval returns.
func (s *session) eval(source string) {
	prog, diags := build.Build([]byte(source), s.opts)
	for _, d := range diags {
		s.reporter.Report(d)
	}
	if !build.Runnable(diags) {
		return
	}
	_ = s.interp.Run(prog)
}

// bracketDepth returns the net number of opened { and [ on line, ignoring
// quoted text and comments. Backslash escapes only exist in double quotes;
// a doubled '' inside single quotes closes and reopens the quote, which
// counts the same.
func bracketDepth(line string) int {
	depth := 0
	var quote rune
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			escaped = false
		case quote == '"' && r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '{' || r == '[':
			depth++
		case r == '}' || r == ']':
			depth--
		case r == '#':
			return depth
		}
	}
	return depth
}
