package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// maxArgFileDepth caps argument-file nesting so a file that references
// itself errors out instead of looping.
const maxArgFileDepth = 10

// ExpandArgs replaces every argument of the form @filename with the
// arguments listed in that file, one argument per line, before cobra ever
// sees the argument list. A line may itself be an @filename reference, which
// is expanded in place. The expansion is a pure substitution: @file plus the
// equivalent inline flags parse identically, including values that contain
// spaces.
func ExpandArgs(args []string) ([]string, error) {
	return expandArgs(args, 0)
}

func expandArgs(args []string, depth int) ([]string, error) {
	if depth > maxArgFileDepth {
		return nil, errors.New("argument files nested too deeply, is a file referencing itself?")
	}

	expanded := make([]string, 0, len(args))

	for _, arg := range args {
		if !strings.HasPrefix(arg, "@") || len(arg) == 1 {
			expanded = append(expanded, arg)
			continue
		}

		content, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("argument file %s: %w", arg[1:], err)
		}

		var lines []string
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimRight(line, "\r")
			if line != "" {
				lines = append(lines, line)
			}
		}

		nested, err := expandArgs(lines, depth+1)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, nested...)
	}

	return expanded, nil
}
