// Released under an MIT license. See LICENSE.

// Package reader splits a command line into its argument vector.
package reader

import (
	"strings"
)

// Parse tokenizes line on whitespace. A single-quoted token keeps
// its interior spaces. A trailing & requests background execution
// and is dropped from the returned argv. An empty or blank line
// returns a nil argv.
func Parse(line string) (argv []string, background bool) {
	rest := strings.TrimLeft(line, " \t")

	for rest != "" {
		var token string

		if rest[0] == '\'' {
			rest = rest[1:]

			i := strings.IndexByte(rest, '\'')
			if i < 0 {
				token, rest = rest, ""
			} else {
				token, rest = rest[:i], rest[i+1:]
			}
		} else {
			i := strings.IndexAny(rest, " \t")
			if i < 0 {
				token, rest = rest, ""
			} else {
				token, rest = rest[:i], rest[i+1:]
			}
		}

		argv = append(argv, token)

		rest = strings.TrimLeft(rest, " \t")
	}

	if n := len(argv); n > 0 && strings.HasPrefix(argv[n-1], "&") {
		background = true
		argv = argv[:n-1]
	}

	if len(argv) == 0 {
		return nil, background
	}

	return argv, background
}
