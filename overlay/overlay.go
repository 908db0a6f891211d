// Package overlay mirrors the counter label into a text file that streaming
// software can show as an overlay.
package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/1gm/counter"
	"go.uber.org/zap"
)

// DefaultFormat writes the bare number.
const DefaultFormat = "%d"

// New creates name, and its directory, if it does not exist yet. format must
// contain exactly one %d verb, e.g. "Deaths: %d".
func New(log *zap.SugaredLogger, name string, format string) (*File, error) {
	if format == "" {
		format = DefaultFormat
	}
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := createFile(name); err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	return &File{log: log, name: name, format: format}, nil
}

// ValidateFormat reports whether format renders a counter value.
func ValidateFormat(format string) error {
	if strings.Count(strings.ReplaceAll(format, "%%", ""), "%") != 1 || !strings.Contains(format, "%d") {
		return fmt.Errorf("overlay: format %q must contain a single %%d", format)
	}
	return nil
}

// File is a view writing the label to a file, skipping writes when the text is unchanged.
type File struct {
	log    *zap.SugaredLogger
	name   string
	format string
	last   string
}

func (f *File) Render(s counter.State) {
	text := fmt.Sprintf(f.format, s.Value)
	if text == f.last {
		return
	}
	if err := os.WriteFile(f.name, []byte(text), 0644); err != nil {
		f.log.Errorf("failed to write overlay %s: %v", f.name, err)
		return
	}
	f.last = text
}

func createFile(name string) error {
	if dir := filepath.Dir(name); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(name, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	return file.Close()
}
