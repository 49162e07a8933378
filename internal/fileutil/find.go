package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/varsub/internal/logger"
)

// ErrOperationFailed wraps every file system failure raised while walking a tree.
var ErrOperationFailed = errors.New("file operation failed")

// findItem is a pending work-list entry.
type findItem struct {
	path  string
	level int
}

// Finder enumerates paths on disk.
type Finder struct {
	log logger.Logger
}

// NewFinder creates a Finder that traces its progress to log.
// A nil logger discards all messages.
func NewFinder(log logger.Logger) *Finder {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Finder{log: log}
}

// Find returns root and every path below it in pre-order depth-first order.
// Directories are expanded one level at a time and their children are visited
// in listing order. Symbolic links are never descended into.
//
// A root that does not exist yields an empty slice and no error.
func (f *Finder) Find(root string) ([]string, error) {
	if root == "" {
		f.log.Debugf("no path specified")
		return []string{}, nil
	}

	// normalize so the first result is formatted like the joined children
	root = filepath.Clean(root)
	f.log.Debugf("findPath: '%s'", root)

	if _, err := os.Lstat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.log.Debugf("0 results")
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: find %s: %w", ErrOperationFailed, root, err)
	}

	var result []string
	stack := []findItem{{path: root, level: 1}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, item.path)

		// Lstat reports the link itself, so IsDir is false for a symlink to a directory
		info, err := os.Lstat(item.path)
		if err != nil {
			return nil, fmt.Errorf("%w: find %s: %w", ErrOperationFailed, item.path, err)
		}

		if !info.IsDir() {
			f.log.Tracef("  %s (file, level %d)", item.path, item.level)
			continue
		}
		f.log.Tracef("  %s (directory, level %d)", item.path, item.level)

		entries, err := os.ReadDir(item.path)
		if err != nil {
			return nil, fmt.Errorf("%w: find %s: %w", ErrOperationFailed, item.path, err)
		}

		// push in reverse so the first entry is popped first
		for i := len(entries) - 1; i >= 0; i-- {
			stack = append(stack, findItem{
				path:  filepath.Join(item.path, entries[i].Name()),
				level: item.level + 1,
			})
		}
	}

	f.log.Debugf("%d results", len(result))
	return result, nil
}
