// Released under an MIT license. See LICENSE.

package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tinyshell/tish/internal/system/job"
)

func testShell() (*Shell, *bytes.Buffer, *[]int) {
	w := &bytes.Buffer{}

	c := job.New(w, false)
	c.Monitor()

	exits := &[]int{}
	s := New(c, func(code int) {
		*exits = append(*exits, code)
	})

	return s, w, exits
}

func TestEmptyLineIsNoop(t *testing.T) {
	s, w, exits := testShell()

	s.Eval("")
	s.Eval("   ")

	if w.Len() != 0 || len(*exits) != 0 {
		t.Errorf("output = %q, exits = %v", w.String(), *exits)
	}
}

func TestQuit(t *testing.T) {
	s, _, exits := testShell()

	s.Eval("quit")

	if len(*exits) != 1 || (*exits)[0] != 0 {
		t.Errorf("exits = %v, want [0]", *exits)
	}
}

func TestJobsOnEmptyTable(t *testing.T) {
	s, w, _ := testShell()

	s.Eval("jobs")

	if w.Len() != 0 {
		t.Errorf("output = %q, want none", w.String())
	}
}

func TestBgRequiresArgument(t *testing.T) {
	s, w, _ := testShell()

	s.Eval("bg")

	if !strings.Contains(w.String(), "bg command requires PID or %jobid argument") {
		t.Errorf("output = %q", w.String())
	}
}

func TestUnknownCommandReported(t *testing.T) {
	s, w, _ := testShell()

	s.Eval("definitely-no-such-command-tish")

	if !strings.Contains(w.String(), "definitely-no-such-command-tish: Command not found.") {
		t.Errorf("output = %q", w.String())
	}
}
