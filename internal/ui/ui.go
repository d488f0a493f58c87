// Released under an MIT license. See LICENSE.

// Package ui reads command lines, with line editing and history
// when stdin is a terminal and a plain scanner otherwise.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
	"github.com/tinyshell/tish/internal/system/history"
)

type UI struct {
	cli      *liner.State
	cooked   liner.ModeApplier
	uncooked liner.ModeApplier

	scanner *bufio.Scanner

	prompt      string
	historyPath string
}

// New builds a reader. When interactive, the terminal mode in
// effect at startup is saved so that it can be restored around
// every prompt; children expect a cooked terminal.
func New(prompt string, emit, interactive bool, historyPath string) *UI {
	u := &UI{historyPath: historyPath}

	if emit {
		u.prompt = prompt
	}

	if !interactive {
		u.scanner = bufio.NewScanner(os.Stdin)

		return u
	}

	cooked, err := liner.TerminalMode()
	if err != nil {
		fmt.Fprintf(os.Stdout, "terminal mode: %s\n", err)
		os.Exit(1)
	}

	u.cli = liner.NewLiner()

	uncooked, err := liner.TerminalMode()
	if err != nil {
		fmt.Fprintf(os.Stdout, "terminal mode: %s\n", err)
		os.Exit(1)
	}

	u.cooked = cooked
	u.uncooked = uncooked

	u.cli.SetCtrlCAborts(true)

	_ = history.Load(historyPath, u.cli.ReadHistory)

	return u
}

// ReadLine returns the next command line with its trailing newline
// stripped. It returns io.EOF at end of input. An interrupt at an
// interactive prompt abandons the line rather than the shell.
func (u *UI) ReadLine() (string, error) {
	if u.cli == nil {
		if u.prompt != "" {
			fmt.Fprint(os.Stdout, u.prompt)
		}

		if !u.scanner.Scan() {
			if err := u.scanner.Err(); err != nil {
				return "", err
			}

			return "", io.EOF
		}

		return u.scanner.Text(), nil
	}

	if err := u.uncooked.ApplyMode(); err != nil {
		return "", err
	}

	line, err := u.cli.Prompt(u.prompt)

	if merr := u.cooked.ApplyMode(); merr != nil {
		return "", merr
	}

	switch err {
	case nil:
		u.cli.AppendHistory(line)

		return line, nil

	case liner.ErrPromptAborted:
		fmt.Fprintf(os.Stdout, "\n")

		return "", nil

	default:
		return "", err
	}
}

// Close saves history and restores the terminal.
func (u *UI) Close() {
	if u.cli == nil {
		return
	}

	_ = history.Save(u.historyPath, u.cli.WriteHistory)

	_ = u.cli.Close()
}
