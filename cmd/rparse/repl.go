package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	prompt         = "rparse> "
	continuePrompt = "   ...> "
)

func newReplCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Enter dumps interactively",
		Long: `repl reads dumps from the terminal and prints their ASTs. A dump may
span several lines; it is complete when its brackets are balanced.

	:format list|lines|tree|digest   switch the output format
	:quit                            leave (or <ctrl>D)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := readline.New(prompt)
			if err != nil {
				return err
			}
			defer rl.Close()
			intp := &Intp{conf: opts.conf, out: cmd.OutOrStdout()}
			pterm.Info.Println("Welcome to rparse")
			tracer().Infof("Quit with <ctrl>D")
			intp.REPL(rl)
			return nil
		},
	}
}

// Intp is the state of an interactive session.
type Intp struct {
	conf    *Config
	out     io.Writer
	pending []string // lines of an incomplete dump
}

// lineReader is the part of readline the REPL uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(string)
}

// REPL reads lines until end of input or :quit.
func (intp *Intp) REPL(rl lineReader) {
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		quit := intp.Eval(line)
		if quit {
			break
		}
		if len(intp.pending) > 0 {
			rl.SetPrompt(continuePrompt)
		} else {
			rl.SetPrompt(prompt)
		}
	}
	fmt.Fprintln(intp.out, "Good bye!")
}

// Eval handles one line of input. It returns true if the session should
// end.
func (intp *Intp) Eval(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(intp.pending) == 0 {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ":") {
			return intp.command(strings.Fields(trimmed))
		}
	}
	intp.pending = append(intp.pending, line)
	src := strings.Join(intp.pending, "\n")
	if depth(src) > 0 {
		return false
	}
	intp.pending = nil
	ast, err := intp.conf.parser("(repl)").Parse(src)
	if err != nil {
		pterm.Error.Println(err.Error())
		return false
	}
	if err := render(intp.out, ast, intp.conf.Format); err != nil {
		pterm.Error.Println(err.Error())
	}
	return false
}

func (intp *Intp) command(args []string) bool {
	switch args[0] {
	case ":quit", ":q":
		return true
	case ":format":
		if len(args) != 2 {
			pterm.Error.Println("usage: :format list|lines|tree|digest")
			return false
		}
		old := intp.conf.Format
		intp.conf.Format = args[1]
		if err := intp.conf.validate(); err != nil {
			intp.conf.Format = old
			pterm.Error.Println(err.Error())
			return false
		}
		pterm.Info.Println("format is " + args[1])
	default:
		pterm.Error.Println("unknown command " + args[0])
	}
	return false
}

// depth returns the number of brackets left open in a dump. Brackets inside
// string literals and comments do not count.
func depth(src string) int {
	d := 0
	inString, inComment, escaped := false, false, false
	for _, r := range src {
		switch {
		case inComment:
			inComment = r != '\n'
		case escaped:
			escaped = false
		case !inString && r == ';':
			inComment = true
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == '(' || r == '[':
			d++
		case r == ')' || r == ']':
			d--
		}
	}
	return d
}
