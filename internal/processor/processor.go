// Package processor applies environment substitution to the files selected
// by search patterns and writes changed documents back in place.
package processor

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/varsub/internal/envtree"
	"github.com/harrison/varsub/internal/fileutil"
	"github.com/harrison/varsub/internal/filelock"
	"github.com/harrison/varsub/internal/logger"
	"github.com/harrison/varsub/internal/models"
	"github.com/harrison/varsub/internal/substitute"
)

// ErrNoMatch is returned by Run when FailOnNoMatch is set and a pattern
// selects no file.
var ErrNoMatch = errors.New("no file matched pattern")

// Options controls how documents are processed.
type Options struct {
	// Workspace is the directory relative search patterns are resolved in.
	Workspace string
	// Indent is the number of spaces used when writing JSON.
	Indent int
	// DryRun substitutes in memory without writing files.
	DryRun bool
	// FailOnNoMatch turns an unmatched pattern into an error.
	FailOnNoMatch bool
}

// ResultLogger receives per-file results as they are produced.
type ResultLogger interface {
	logger.Logger
	LogFileResult(result models.FileResult)
}

// Processor finds, substitutes and rewrites documents.
type Processor struct {
	log    logger.Logger
	finder *fileutil.Finder
	engine *substitute.Engine
	opts   Options
}

// New creates a Processor. A nil logger discards all messages.
func New(log logger.Logger, opts Options) *Processor {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Processor{
		log:    log,
		finder: fileutil.NewFinder(log),
		engine: substitute.New(log),
		opts:   opts,
	}
}

// Run resolves every pattern, processes each selected file once and returns
// the run summary. The error joins all per-file failures, file system
// failures and, with FailOnNoMatch, unmatched patterns.
func (p *Processor) Run(patterns []string, env *envtree.Node) (models.RunSummary, error) {
	start := time.Now()
	summary := models.RunSummary{
		RunID:    uuid.New().String(),
		Patterns: patterns,
	}

	var errs []error
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		files, err := p.finder.FindFiles(pattern, p.opts.Workspace)
		if err != nil {
			errs = append(errs, fmt.Errorf("pattern %q: %w", pattern, err))
			continue
		}

		if len(files) == 0 {
			p.log.Errorf("No file matched with specific pattern: %s", pattern)
			summary.Unmatched = append(summary.Unmatched, pattern)
			if p.opts.FailOnNoMatch {
				errs = append(errs, fmt.Errorf("%w: %s", ErrNoMatch, pattern))
			}
			continue
		}

		for _, file := range files {
			if seen[file] {
				p.log.Debugf("Skipping %s, already processed", file)
				continue
			}
			seen[file] = true

			result := p.ProcessFile(file, env)
			if rl, ok := p.log.(ResultLogger); ok {
				rl.LogFileResult(result)
			}
			if result.Error != nil {
				errs = append(errs, fmt.Errorf("%s: %w", file, result.Error))
			}
			summary.Files = append(summary.Files, result)
		}
	}

	summary.Duration = time.Since(start)
	return summary, errors.Join(errs...)
}

// ProcessFile substitutes env into a single file and writes it back when a
// value changed. Failures are reported in the result rather than returned.
func (p *Processor) ProcessFile(path string, env *envtree.Node) models.FileResult {
	start := time.Now()
	result := models.FileResult{Path: path}

	fail := func(err error) models.FileResult {
		result.Status = models.StatusFailed
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	format, err := FormatOf(path)
	if err != nil {
		return fail(err)
	}
	result.Format = format

	info, err := os.Stat(path)
	if err != nil {
		return fail(fmt.Errorf("failed to stat file: %w", err))
	}
	if info.IsDir() {
		return fail(fmt.Errorf("%w: %s is a directory", ErrUnsupportedFormat, path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("failed to read file: %w", err))
	}

	src, err := decode(format, data)
	if err != nil {
		return fail(err)
	}

	changed := false
	for _, doc := range src.docs {
		if p.engine.Substitute(doc, env) {
			changed = true
		}
	}

	switch {
	case !changed:
		p.log.Debugf("Skipped updating file: %s", path)
		result.Status = models.StatusUnchanged
	case p.opts.DryRun:
		result.Status = models.StatusDryRun
	default:
		out, err := src.encode(p.opts.Indent)
		if err != nil {
			return fail(err)
		}
		if err := filelock.LockAndWrite(path, out); err != nil {
			return fail(err)
		}
		p.log.Infof("Successfully updated file: %s", path)
		result.Status = models.StatusChanged
	}

	result.Duration = time.Since(start)
	return result
}
