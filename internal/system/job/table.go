// Released under an MIT license. See LICENSE.

// Package job tracks the shell's child processes and relays the
// terminal-generated signals that drive their lifecycle.
package job

import (
	"fmt"
	"io"
)

// MaxJobs is the number of slots in the table. Lookups are linear
// scans; the bound is small enough that this is never a concern.
const MaxJobs = 16

// State is the lifecycle state of a tracked job. The zero value
// marks an unused slot.
type State int

const (
	Unused State = iota
	Foreground
	Background
	Stopped
)

// Job is one tracked child process. A PID of zero means the slot
// is free.
type Job struct {
	PID     int
	ID      int
	State   State
	Command string
}

// Table is a fixed-capacity registry of active jobs. It is not
// safe for concurrent use; Control serializes all access on its
// monitor goroutine.
type Table struct {
	slots   [MaxJobs]Job
	next    int
	verbose bool
	w       io.Writer
}

func NewTable(w io.Writer, verbose bool) *Table {
	return &Table{next: 1, verbose: verbose, w: w}
}

// Add registers pid in the first free slot and assigns it the next
// job ID. The ID counter wraps to 1 once it passes MaxJobs, which
// can in theory collide with a still-live low-numbered job in a
// saturated table; that quirk is long-standing and callers depend
// on the ID sequence, so it stays.
func (t *Table) Add(pid int, state State, command string) bool {
	if pid < 1 {
		return false
	}

	for i := range t.slots {
		if t.slots[i].PID != 0 {
			continue
		}

		t.slots[i] = Job{PID: pid, ID: t.next, State: state, Command: command}

		t.next++
		if t.next > MaxJobs {
			t.next = 1
		}

		if t.verbose {
			fmt.Fprintf(t.w, "Added job [%d] %d %s\n", t.slots[i].ID, pid, command)
		}

		return true
	}

	fmt.Fprintf(t.w, "Tried to create too many jobs\n")

	return false
}

// Remove clears the slot holding pid and resets the ID counter to
// one past the largest live job ID. It returns false when no job
// has that pid.
func (t *Table) Remove(pid int) bool {
	if pid < 1 {
		return false
	}

	for i := range t.slots {
		if t.slots[i].PID == pid {
			t.slots[i] = Job{}
			t.next = t.maxID() + 1

			return true
		}
	}

	return false
}

// FindByPID returns the job with the given process ID, or nil.
func (t *Table) FindByPID(pid int) *Job {
	if pid < 1 {
		return nil
	}

	for i := range t.slots {
		if t.slots[i].PID == pid {
			return &t.slots[i]
		}
	}

	return nil
}

// FindByJID returns the job with the given job ID, or nil.
func (t *Table) FindByJID(jid int) *Job {
	if jid < 1 {
		return nil
	}

	for i := range t.slots {
		if t.slots[i].PID != 0 && t.slots[i].ID == jid {
			return &t.slots[i]
		}
	}

	return nil
}

// ForegroundPID returns the process ID of the foreground job, or 0.
// At most one job is ever in the Foreground state.
func (t *Table) ForegroundPID() int {
	for i := range t.slots {
		if t.slots[i].State == Foreground {
			return t.slots[i].PID
		}
	}

	return 0
}

// PIDToJID maps a process ID to its job ID, or 0.
func (t *Table) PIDToJID(pid int) int {
	if j := t.FindByPID(pid); j != nil {
		return j.ID
	}

	return 0
}

// Jobs returns snapshots of the occupied slots, in slot order.
func (t *Table) Jobs() []Job {
	js := []Job{}

	for i := range t.slots {
		if t.slots[i].PID != 0 {
			js = append(js, t.slots[i])
		}
	}

	return js
}

// Write prints the table listing. An empty table prints nothing.
func (t *Table) Write(w io.Writer) {
	for i := range t.slots {
		j := &t.slots[i]
		if j.PID == 0 {
			continue
		}

		fmt.Fprintf(w, "[%d] (%d) ", j.ID, j.PID)

		switch j.State {
		case Background:
			fmt.Fprintf(w, "Running ")
		case Foreground:
			fmt.Fprintf(w, "Foreground ")
		case Stopped:
			fmt.Fprintf(w, "Stopped ")
		default:
			fmt.Fprintf(w, "listjobs: Internal error: job[%d].state=%d ", i, j.State)
		}

		fmt.Fprintf(w, "%s\n", j.Command)
	}
}

func (t *Table) maxID() int {
	max := 0

	for i := range t.slots {
		if t.slots[i].PID != 0 && t.slots[i].ID > max {
			max = t.slots[i].ID
		}
	}

	return max
}
