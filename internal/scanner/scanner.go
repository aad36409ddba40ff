// Package scanner enumerates the regular files under a directory tree.
package scanner

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotDirectory is returned when the search root is missing or is not a
// directory.
var ErrNotDirectory = errors.New("not a directory")

// Options configures enumeration.
type Options struct {
	// ShowHidden includes hidden files/directories (starting with .)
	ShowHidden bool
	// FollowSymlinks descends into symlinked directories (default: false).
	// Symlinks to regular files are always included.
	FollowSymlinks bool
	// ExcludePatterns is a list of file or directory base names to skip
	ExcludePatterns []string
	// Concurrency overrides the default directory semaphore count (0 = auto)
	Concurrency int
}

// DefaultOptions returns the options matching a plain recursive walk.
func DefaultOptions() Options {
	return Options{
		ShowHidden:      true,
		FollowSymlinks:  false,
		ExcludePatterns: []string{},
		Concurrency:     0,
	}
}

// Source is a filesystem the search pipeline can enumerate and read.
type Source interface {
	// Enumerate returns every regular file reachable from root. Entries that
	// cannot be read are dropped. Progress snapshots are sent on progress
	// when it is non-nil.
	Enumerate(ctx context.Context, root string, opts Options, progress chan<- Progress) ([]string, error)
	// Open opens a file returned by Enumerate for reading.
	Open(path string) (io.ReadCloser, error)
	// Stat returns file metadata, following symlinks.
	Stat(path string) (os.FileInfo, error)
}

// IsDir reports whether path exists on src and is a directory.
func IsDir(src Source, path string) bool {
	info, err := src.Stat(path)
	return err == nil && info.IsDir()
}
