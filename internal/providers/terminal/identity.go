package terminal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Identity is the canonical absolute path of a session's working directory.
// Two logically identical paths produce equal identities.
type Identity string

// NewIdentity canonicalises path: a leading "~" is expanded, the result is
// made absolute and cleaned, and symlinks are resolved when the path exists.
func NewIdentity(path string) (Identity, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidIdentity)
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: expand %q: %w", ErrInvalidIdentity, path, err)
		}
		path = filepath.Join(home, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidIdentity, path, err)
	}
	abs = filepath.Clean(abs)

	resolved, err := filepath.EvalSymlinks(abs)
	switch {
	case err == nil:
		abs = resolved
	case errors.Is(err, fs.ErrNotExist):
	default:
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidIdentity, path, err)
	}

	return Identity(abs), nil
}

// MustIdentity is NewIdentity for paths known to be valid.
func MustIdentity(path string) Identity {
	id, err := NewIdentity(path)
	if err != nil {
		panic(err)
	}
	return id
}

// Path returns the directory path.
func (i Identity) Path() string { return string(i) }

func (i Identity) String() string { return string(i) }
