// Released under an MIT license. See LICENSE.

//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package job

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/michaelmacinnis/adapted"
	"github.com/tinyshell/tish/internal/system/process"
	"golang.org/x/sys/unix"
)

// How often the foreground waiter re-checks the table.
const pollInterval = 50 * time.Millisecond

// Primitives are the process-control operations Control depends on.
// Tests substitute fakes; everything else uses the defaults.
type Primitives struct {
	LookPath func(name string) (string, error)
	Start    func(path string, argv []string, attr *os.ProcAttr) (int, error)
	Wait     func(status *unix.WaitStatus) (int, error)
	Kill     func(pid int, sig unix.Signal) error
	Exit     func(code int)
}

// Control owns the job table. All table access happens on the
// monitor goroutine, which drains requestq and signalq. Multi-step
// sequences (launch then register, look up then signal) run as a
// single request so that reaping can never interleave with them.
// This is the moral equivalent of blocking SIGCHLD around the
// critical section: the reaper runs strictly before or strictly
// after it, never in the middle.
type Control struct {
	table   *Table
	w       io.Writer
	verbose bool

	requestq chan func()
	signalq  chan os.Signal

	prim Primitives
}

func New(w io.Writer, verbose bool) *Control {
	return &Control{
		table:   NewTable(w, verbose),
		w:       w,
		verbose: verbose,

		requestq: make(chan func(), 1),
		signalq:  make(chan os.Signal, 5),

		prim: Primitives{
			LookPath: lookPath,
			Start:    start,
			Wait:     wait,
			Kill:     process.Signal,
			Exit:     os.Exit,
		},
	}
}

// Monitor registers for the signals the shell relays or reaps on
// and starts the monitor goroutine. SIGTTIN and SIGTTOU are ignored
// so that the shell survives touching the terminal while a child
// owns the foreground group.
func (c *Control) Monitor() {
	signal.Ignore(unix.SIGTTIN, unix.SIGTTOU)

	signal.Notify(c.signalq, unix.SIGCHLD, unix.SIGINT, unix.SIGTSTP, unix.SIGQUIT)

	go c.monitor()
}

// Launch resolves and starts an external command in its own process
// group and registers it in the table, all in one request. A
// foreground launch then blocks until the child exits or stops; a
// background launch prints its notice and returns immediately.
func (c *Control) Launch(argv []string, background bool, line string) {
	state := Foreground
	if background {
		state = Background
	}

	var (
		jid        int
		pid        int
		registered bool
	)

	c.run(func() {
		c.reap()

		path, err := c.prim.LookPath(argv[0])
		if err != nil {
			fmt.Fprintf(c.w, "%s: Command not found.\n", argv[0])

			return
		}

		attr := &os.ProcAttr{
			Env: os.Environ(),
			// The shell merges stderr onto stdout.
			Files: []*os.File{os.Stdin, os.Stdout, os.Stdout},
			Sys:   process.SysProcAttr(),
		}

		pid, err = c.prim.Start(path, argv, attr)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOMEM) {
				c.fatal("Fork error", err)
			}

			fmt.Fprintf(c.w, "%s: Command not found.\n", argv[0])

			return
		}

		registered = c.table.Add(pid, state, line)
		jid = c.table.PIDToJID(pid)
	})

	if !registered {
		return
	}

	if background {
		fmt.Fprintf(c.w, "[%d] (%d) %s\n", jid, pid, line)

		return
	}

	c.waitForeground(pid)
}

// Transition implements the bg and fg built-ins. The target is
// %jobid or a bare pid. bg moves the job to the background and
// continues its group; fg moves it to the foreground, continues its
// group, and blocks until the job stops again or exits.
func (c *Control) Transition(argv []string) {
	name := argv[0]

	if len(argv) < 2 {
		fmt.Fprintf(c.w, "%s command requires PID or %%jobid argument\n", name)

		return
	}

	arg := argv[1]

	byJID := strings.HasPrefix(arg, "%")
	if byJID {
		arg = arg[1:]
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(c.w, "%s: argument must be a PID or %%jobid\n", name)

		return
	}

	background := name == "bg"

	var (
		command string
		jid     int
		pid     int
	)

	c.run(func() {
		var j *Job
		if byJID {
			j = c.table.FindByJID(n)
		} else {
			j = c.table.FindByPID(n)
		}

		if j == nil {
			if byJID {
				fmt.Fprintf(c.w, "%%%d: No such job\n", n)
			} else {
				fmt.Fprintf(c.w, "(%d): No such process\n", n)
			}

			return
		}

		if background {
			j.State = Background
		} else {
			j.State = Foreground
		}

		command = j.Command
		jid = j.ID
		pid = j.PID

		if err := c.prim.Kill(pid, unix.SIGCONT); err != nil {
			c.fatal("Kill error", err)
		}
	})

	if pid == 0 {
		return
	}

	if background {
		fmt.Fprintf(c.w, "[%d] (%d) %s\n", jid, pid, command)

		return
	}

	c.waitForeground(pid)
}

// Jobs prints the table listing.
func (c *Control) Jobs() {
	c.run(func() {
		c.table.Write(c.w)
	})
}

// run sends f to the monitor goroutine and waits for it to finish.
func (c *Control) run(f func()) {
	done := make(chan struct{})

	c.requestq <- func() {
		f()

		close(done)
	}

	<-done
}

// waitForeground blocks until no job holds the foreground slot or
// the identified job has stopped. It polls with short requests, so
// the reaper is free to run between checks; the state changes that
// satisfy it are made entirely by the monitor goroutine.
func (c *Control) waitForeground(pid int) {
	for {
		var done bool

		c.run(func() {
			j := c.table.FindByPID(pid)
			done = c.table.ForegroundPID() == 0 || j != nil && j.State == Stopped
		})

		if done {
			break
		}

		time.Sleep(pollInterval)
	}

	if c.verbose {
		fmt.Fprintf(c.w, "waitfg: process (%d) is no longer the foreground process\n", pid)
	}
}

func (c *Control) monitor() {
	for {
		select {
		case f := <-c.requestq:
			f()

		case s := <-c.signalq:
			switch s {
			case unix.SIGCHLD:
				c.reap()

			case unix.SIGINT:
				c.relay(unix.SIGINT)

			case unix.SIGTSTP:
				c.relay(unix.SIGTSTP)

			case unix.SIGQUIT:
				fmt.Fprintf(c.w, "Terminating after receipt of SIGQUIT signal\n")
				c.prim.Exit(1)
			}
		}
	}
}

// reap collects every currently-available child status change
// without blocking on still-running children. Stopped children are
// marked Stopped; exited or killed children leave the table.
func (c *Control) reap() {
	for {
		var status unix.WaitStatus

		pid, err := c.prim.Wait(&status)
		if err != nil {
			if errors.Is(err, unix.ECHILD) || errors.Is(err, unix.EINTR) {
				return
			}

			c.fatal("waitpid error", err)
		}

		if pid < 1 {
			return
		}

		jid := c.table.PIDToJID(pid)

		switch {
		case status.Stopped():
			if j := c.table.FindByPID(pid); j != nil {
				j.State = Stopped
			}

			fmt.Fprintf(c.w, "Job [%d] (%d) stopped by signal %d\n", jid, pid, status.StopSignal())

		case status.Signaled():
			c.table.Remove(pid)

			fmt.Fprintf(c.w, "Job [%d] (%d) terminated by signal %d\n", jid, pid, status.Signal())

		case status.Exited():
			c.table.Remove(pid)

			if c.verbose {
				fmt.Fprintf(c.w, "reap: Job [%d] (%d) deleted\n", jid, pid)
				fmt.Fprintf(c.w, "reap: Job [%d] (%d) terminated OK (status %d)\n", jid, pid, status.ExitStatus())
			}
		}
	}
}

// relay forwards a keyboard-generated signal to the foreground
// job's process group. With no foreground job it does nothing.
func (c *Control) relay(sig unix.Signal) {
	pid := c.table.ForegroundPID()
	if pid == 0 {
		return
	}

	if err := c.prim.Kill(pid, sig); err != nil {
		c.fatal("Kill error", err)
	}

	if c.verbose {
		fmt.Fprintf(c.w, "relay: signal %d sent to job [%d] (%d)\n", sig, c.table.PIDToJID(pid), pid)
	}
}

func (c *Control) fatal(msg string, err error) {
	fmt.Fprintf(c.w, "%s: %s\n", msg, err)
	c.prim.Exit(1)
}

// lookPath resolves a command name against PATH. A name that
// resolves to something that cannot be executed is treated the same
// as one that does not resolve at all.
func lookPath(name string) (string, error) {
	path, executable, err := adapted.LookPath(name, os.Getenv("PATH"))
	if err != nil {
		return "", err
	}

	if !executable {
		return "", errors.New("not an executable")
	}

	return path, nil
}

func start(path string, argv []string, attr *os.ProcAttr) (int, error) {
	p, err := os.StartProcess(path, argv, attr)
	if err != nil {
		return 0, err
	}

	pid := p.Pid

	// The child is wait()ed on by reap, not via the os.Process.
	_ = p.Release()

	return pid, nil
}

func wait(status *unix.WaitStatus) (int, error) {
	var rusage unix.Rusage

	return unix.Wait4(-1, status, unix.WNOHANG|unix.WUNTRACED, &rusage)
}
