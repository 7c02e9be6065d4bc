// Package clustering groups analysed commits into mood phases using k-means
// over their score vectors.
package clustering

import (
	"time"

	"github.com/justestif/go-commit-mood/internal/mood"
)

// AnalyzedCommit pairs a commit with its sentiment result.
type AnalyzedCommit struct {
	Commit   mood.Commit          `json:"commit"`
	Analysis mood.SentimentResult `json:"analysis"`
}

// Time returns the commit timestamp, or the zero time when absent.
func (c AnalyzedCommit) Time() time.Time {
	if c.Commit.Timestamp == nil {
		return time.Time{}
	}
	return *c.Commit.Timestamp
}
