/*
Tish is a tiny Unix shell with job control.

It reads one command per line, launches external commands as
children in their own process groups, and tracks each one as a
foreground, background, or stopped job:

    tish> sleep 60 &
    [1] (12345) sleep 60 &
    tish> jobs
    [1] (12345) Running sleep 60 &
    tish> fg %1

Ctrl-C and ctrl-Z are relayed to the foreground job's process
group, never to background jobs or the shell itself. The built-ins
are quit, jobs, bg, and fg.

Tish is released under an MIT-style license.
*/
package main

import (
	"os"

	"github.com/tinyshell/tish/internal/shell"
	"github.com/tinyshell/tish/internal/system/job"
	"github.com/tinyshell/tish/internal/system/options"
	"github.com/tinyshell/tish/internal/ui"
)

func main() {
	options.Parse()

	control := job.New(os.Stdout, options.Verbose())
	control.Monitor()

	u := ui.New(options.Prompt(), options.EmitPrompt(), options.Interactive(), options.HistoryPath())

	s := shell.New(control, func(code int) {
		u.Close()
		os.Exit(code)
	})

	for {
		line, err := u.ReadLine()
		if err != nil {
			break
		}

		s.Eval(line)
	}

	u.Close()
	os.Exit(0)
}
