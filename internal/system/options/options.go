// Released under an MIT license. See LICENSE.

// Package options holds the process entry flags and the optional
// run-control file settings.
package options

import (
	"os"
	"path/filepath"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

//nolint:gochecknoglobals
var (
	emitPrompt  bool
	history     string
	interactive bool
	prompt      string
	verbose     bool

	usage = `tish - a tiny shell with job control

Usage:
  tish [-vp]
  tish -h

Options:
  -h, --help       Display this help.
  -v, --verbose    Emit additional diagnostic information.
  -p, --no-prompt  Do not emit a command prompt.
`
)

// rc is the optional ~/.tishrc file. A missing file is not an
// error; a malformed one is ignored rather than blocking startup.
type rc struct {
	Prompt  string `yaml:"prompt"`
	Verbose bool   `yaml:"verbose"`
	History string `yaml:"history"`
}

// EmitPrompt reports whether a prompt precedes each read.
func EmitPrompt() bool {
	return emitPrompt
}

// HistoryPath is the file used to persist interactive history.
func HistoryPath() string {
	return history
}

// Interactive reports whether line editing is available: stdin is
// a terminal and the prompt has not been suppressed for scripting.
func Interactive() bool {
	return interactive
}

// Parse reads the command-line flags and the run-control file.
func Parse() {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		// Error in the usage doc. This should never happen.
		panic(err.Error())
	}

	home, _ := os.UserHomeDir()

	prompt = "tish> "
	history = filepath.Join(home, ".tish_history")
	verbose = false

	if c, found := load(filepath.Join(home, ".tishrc")); found {
		apply(c)
	}

	if v, _ := opts.Bool("--verbose"); v {
		verbose = true
	}

	noPrompt, _ := opts.Bool("--no-prompt")
	emitPrompt = !noPrompt

	interactive = emitPrompt && isatty.IsTerminal(os.Stdin.Fd())
}

// Prompt is the string printed before each read.
func Prompt() string {
	return prompt
}

// Verbose reports whether diagnostic output was requested.
func Verbose() bool {
	return verbose
}

func apply(c rc) {
	if c.Prompt != "" {
		prompt = c.Prompt
	}

	if c.History != "" {
		history = c.History
	}

	verbose = c.Verbose
}

func load(path string) (rc, bool) {
	var c rc

	b, err := os.ReadFile(path)
	if err != nil {
		return c, false
	}

	if yaml.Unmarshal(b, &c) != nil {
		return rc{}, false
	}

	return c, true
}
