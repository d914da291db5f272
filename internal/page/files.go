package page

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Open for names outside dir or files that don't exist.
var ErrNotFound = errors.New("page not found")

// Open opens the page file called name inside dir. Names carrying path
// separators or starting with a dot never leave dir.
func Open(dir, name string) (*os.File, error) {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return f, nil
}
