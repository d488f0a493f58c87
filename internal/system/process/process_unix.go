// Released under an MIT license. See LICENSE.

//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

// Package process wraps the process-group and signal primitives the
// shell uses to control its children.
package process

import (
	"golang.org/x/sys/unix"
)

//nolint:gochecknoglobals
var (
	Platform = "unix"

	id       = unix.Getpid()
	group, _ = unix.Getpgid(id)
)

// Group returns the process group ID for the current process.
func Group() int {
	return group
}

// ID returns the process ID for the current process.
func ID() int {
	return id
}

// Signal sends sig to the entire process group led by pid. A group
// that has already exited is not an error.
func Signal(pid int, sig unix.Signal) error {
	err := unix.Kill(-pid, sig)
	if err == unix.ESRCH {
		return nil
	}

	return err
}

// Continue sends a SIGCONT to the process group led by pid.
func Continue(pid int) error {
	return Signal(pid, unix.SIGCONT)
}

// Interrupt sends a SIGINT to the process group led by pid.
func Interrupt(pid int) error {
	return Signal(pid, unix.SIGINT)
}

// Stop sends a SIGTSTP to the process group led by pid.
func Stop(pid int) error {
	return Signal(pid, unix.SIGTSTP)
}

// SysProcAttr makes a launched child the leader of its own process
// group so that keyboard-generated signals, which the kernel sends
// to the terminal's foreground group, never reach it directly. The
// shell relays them to the intended group itself.
func SysProcAttr() *unix.SysProcAttr {
	return &unix.SysProcAttr{Setpgid: true}
}
