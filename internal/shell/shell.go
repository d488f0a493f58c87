// Released under an MIT license. See LICENSE.

// Package shell evaluates one command line at a time: built-ins run
// synchronously, anything else is handed to the job launcher.
package shell

import (
	"github.com/tinyshell/tish/internal/reader"
	"github.com/tinyshell/tish/internal/system/job"
)

type Shell struct {
	control *job.Control
	exit    func(code int)
}

func New(control *job.Control, exit func(code int)) *Shell {
	return &Shell{control: control, exit: exit}
}

// Eval evaluates a single command line. quit exits the shell
// without signaling still-running children; they are reparented by
// the kernel. jobs, bg and fg operate on the job table. Everything
// else is launched as an external command.
func (s *Shell) Eval(line string) {
	argv, background := reader.Parse(line)
	if len(argv) == 0 {
		return
	}

	switch argv[0] {
	case "quit":
		s.exit(0)

	case "jobs":
		s.control.Jobs()

	case "bg", "fg":
		s.control.Transition(argv)

	default:
		s.control.Launch(argv, background, line)
	}
}
