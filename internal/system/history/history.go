// Released under an MIT license. See LICENSE.

// Package history persists interactive command history.
package history

import (
	"io"
	"os"
)

// Load passes the history file at path to read. The read function
// matches liner's ReadHistory.
func Load(path string, read func(r io.Reader) (int, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	_, err = read(f)
	if err != nil {
		return err
	}

	return f.Close()
}

// Save passes a freshly-truncated history file at path to write.
// The write function matches liner's WriteHistory.
func Save(path string, write func(w io.Writer) (int, error)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	_, err = write(f)
	if err != nil {
		return err
	}

	return f.Close()
}
