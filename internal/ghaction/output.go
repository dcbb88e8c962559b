// Package ghaction hands pipeline results off to the surrounding GitHub
// Actions workflow through the step-output file.
package ghaction

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Outputs appends name=value pairs to a step-output file.
type Outputs struct {
	path string
}

// New returns an output writer for the given file.
func New(path string) *Outputs {
	return &Outputs{path: path}
}

// FromEnv returns the writer for $GITHUB_OUTPUT, or nil when not
// running under GitHub Actions.
func FromEnv() *Outputs {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}
	return &Outputs{path: path}
}

// Set appends one output. Multiline values use the runner's heredoc
// delimiter syntax; the delimiter is random so values cannot collide
// with it.
func (o *Outputs) Set(name, value string) error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	var entry string
	if strings.Contains(value, "\n") {
		delim := "ghadelimiter_" + uuid.NewString()
		entry = fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delim, value, delim)
	} else {
		entry = fmt.Sprintf("%s=%s\n", name, value)
	}

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("append output: %w", err)
	}
	return nil
}
