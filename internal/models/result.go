package models

import "time"

// Document formats handled by the processor
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// File outcome status constants
const (
	StatusChanged   = "CHANGED"   // Values were substituted and written back
	StatusUnchanged = "UNCHANGED" // No key resolved against the environment
	StatusDryRun    = "DRY-RUN"   // Values were substituted but not written
	StatusFailed    = "FAILED"    // The file could not be processed
)

// FileResult represents the outcome of substituting a single file
type FileResult struct {
	Path     string        // Absolute or workspace-relative path of the file
	Format   string        // Document format: "json" or "yaml"
	Status   string        // Status: "CHANGED", "UNCHANGED", "DRY-RUN", "FAILED"
	Error    error         // Error if processing failed
	Duration time.Duration // Time taken to load, substitute and write
}

// Changed reports whether substitution modified the document.
func (r FileResult) Changed() bool {
	return r.Status == StatusChanged || r.Status == StatusDryRun
}

// RunSummary represents the aggregate result of one substitution run
type RunSummary struct {
	RunID     string        // Unique identifier of the run
	Patterns  []string      // Search patterns in the order they were applied
	Unmatched []string      // Patterns that matched no file
	Files     []FileResult  // Per-file results in processing order
	Duration  time.Duration // Total run time
}

// ChangedCount returns the number of files whose values were substituted.
func (s RunSummary) ChangedCount() int {
	n := 0
	for _, f := range s.Files {
		if f.Changed() {
			n++
		}
	}
	return n
}

// FailedFiles returns the results whose processing failed.
func (s RunSummary) FailedFiles() []FileResult {
	var failed []FileResult
	for _, f := range s.Files {
		if f.Status == StatusFailed {
			failed = append(failed, f)
		}
	}
	return failed
}
