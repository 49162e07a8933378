package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileResultChanged(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusChanged, true},
		{StatusDryRun, true},
		{StatusUnchanged, false},
		{StatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, FileResult{Status: tt.status}.Changed())
		})
	}
}

func TestRunSummaryCounts(t *testing.T) {
	summary := RunSummary{
		Files: []FileResult{
			{Path: "a.json", Status: StatusChanged},
			{Path: "b.json", Status: StatusUnchanged},
			{Path: "c.yaml", Status: StatusDryRun},
			{Path: "d.json", Status: StatusFailed, Error: errors.New("boom")},
		},
	}

	assert.Equal(t, 2, summary.ChangedCount())

	failed := summary.FailedFiles()
	if assert.Len(t, failed, 1) {
		assert.Equal(t, "d.json", failed[0].Path)
	}
}

func TestRunSummaryEmpty(t *testing.T) {
	var summary RunSummary
	assert.Zero(t, summary.ChangedCount())
	assert.Empty(t, summary.FailedFiles())
}
