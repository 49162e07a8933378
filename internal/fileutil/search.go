package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/varsub/internal/match"
)

// FindFiles resolves a search pattern to the files it names.
//
// A pattern without '*' or '?' is a literal path; it is returned when it
// exists. Otherwise the pattern is joined to workspace, the deepest directory
// before the first wildcard is listed with Find, and the listing is filtered
// with match.SearchOptions. A pattern that names nothing yields an empty
// slice, not an error.
func (f *Finder) FindFiles(pattern, workspace string) ([]string, error) {
	f.log.Debugf("Finding files matching input: %s", pattern)

	if !strings.ContainsAny(pattern, "*?") {
		literal := pattern
		if workspace != "" && !filepath.IsAbs(literal) {
			literal = filepath.Join(workspace, literal)
		}

		exists, err := exist(literal)
		if err != nil {
			return nil, err
		}
		if !exists {
			f.log.Debugf("No matching files were found with search pattern: %s", pattern)
			return []string{}, nil
		}
		return []string{literal}, nil
	}

	full := filepath.Join(workspace, pattern)
	f.log.Debugf("Matching glob pattern: %s", full)

	root := searchRoot(full)
	f.log.Debugf("find root dir: %s", root)

	candidates, err := f.Find(root)
	if err != nil {
		return nil, err
	}

	matches := match.NewMatcher(f.log).Match(candidates, []string{full}, "", match.SearchOptions())
	if len(matches) == 0 {
		f.log.Debugf("No matching files were found with search pattern: %s", full)
		return []string{}, nil
	}
	return matches, nil
}

// searchRoot returns the deepest directory of pattern that contains no
// wildcard.
func searchRoot(pattern string) string {
	idx := strings.IndexAny(pattern, "*?")
	if idx < 0 {
		return filepath.Dir(pattern)
	}

	sliced := pattern[:idx]
	if strings.HasSuffix(sliced, "/") || strings.HasSuffix(sliced, `\`) {
		return sliced
	}
	return filepath.Dir(sliced)
}

// exist reports whether p names an existing file, following links.
func exist(p string) (bool, error) {
	if p == "" {
		return false, nil
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: stat %s: %w", ErrOperationFailed, p, err)
	}
	return true, nil
}
