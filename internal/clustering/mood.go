package clustering

import (
	"fmt"
	"slices"
	"time"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/sirupsen/logrus"

	"github.com/justestif/go-commit-mood/internal/mood"
)

// PhaseConfig holds phase clustering parameters.
type PhaseConfig struct {
	NumClusters    int // Number of clusters to create (default: 3)
	MinClusterSize int // Minimum commits per phase (smaller clusters become outliers)
}

// DefaultPhaseConfig returns the recommended default configuration.
func DefaultPhaseConfig() PhaseConfig {
	return PhaseConfig{
		NumClusters:    3,
		MinClusterSize: 2,
	}
}

// Phase is a group of commits with a similar mood profile.
type Phase struct {
	Name     string           `json:"name"`     // "Frustrated & Tired: Jan 15, 2024 - Feb 3, 2024"
	Mood     mood.Mood        `json:"mood"`     // Dominant mood of the centroid
	Centroid mood.Scores      `json:"centroid"` // Average score vector of the cluster
	Commits  []AnalyzedCommit `json:"commits"`  // Oldest first
	Start    time.Time        `json:"start"`
	End      time.Time        `json:"end"`
}

// commitObservation wraps an AnalyzedCommit to implement clusters.Observation.
type commitObservation struct {
	commit *AnalyzedCommit
	coords clusters.Coordinates
}

func (o commitObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o commitObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// DetectPhases groups commits by score-vector similarity using k-means.
// Returns the phases, most recent first, and the commits that fit none.
// Commits with an all-zero score vector carry no mood signal and are
// always outliers.
func DetectPhases(commits []AnalyzedCommit, cfg PhaseConfig) ([]Phase, []AnalyzedCommit) {
	if len(commits) == 0 {
		return nil, nil
	}

	defaults := DefaultPhaseConfig()
	if cfg.NumClusters <= 0 {
		cfg.NumClusters = defaults.NumClusters
	}
	if cfg.MinClusterSize <= 0 {
		cfg.MinClusterSize = defaults.MinClusterSize
	}

	var valid []*AnalyzedCommit
	var silent []AnalyzedCommit
	for i := range commits {
		c := &commits[i]
		if c.Analysis.Scores.IsZero() {
			silent = append(silent, *c)
		} else {
			valid = append(valid, c)
		}
	}

	if len(valid) < cfg.NumClusters {
		return nil, append(deref(valid), silent...)
	}

	var obs clusters.Observations
	for _, c := range valid {
		obs = append(obs, commitObservation{
			commit: c,
			coords: scoreCoordinates(c.Analysis.Scores),
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		logrus.WithError(err).Warn("k-means clustering failed")
		return nil, append(deref(valid), silent...)
	}

	var phases []Phase
	var outliers []AnalyzedCommit

	for _, cluster := range result {
		var members []AnalyzedCommit
		for _, o := range cluster.Observations {
			if co, ok := o.(commitObservation); ok {
				members = append(members, *co.commit)
			}
		}

		if len(members) < cfg.MinClusterSize {
			outliers = append(outliers, members...)
			continue
		}

		slices.SortStableFunc(members, func(a, b AnalyzedCommit) int {
			return a.Time().Compare(b.Time())
		})

		centroid := meanScores(members)
		start := members[0].Time()
		end := members[len(members)-1].Time()

		phases = append(phases, Phase{
			Name:     formatPhaseName(generatePhaseName(centroid), start, end),
			Mood:     centroid.Dominant(),
			Centroid: centroid,
			Commits:  members,
			Start:    start,
			End:      end,
		})
	}

	outliers = append(outliers, silent...)

	slices.SortStableFunc(phases, func(a, b Phase) int {
		return b.End.Compare(a.End) // Descending
	})

	return phases, outliers
}

// scoreCoordinates converts a score vector to k-means coordinates.
func scoreCoordinates(s mood.Scores) clusters.Coordinates {
	coords := make(clusters.Coordinates, len(s))
	for i, v := range s {
		coords[i] = v
	}
	return coords
}

// meanScores averages the score vectors of a cluster's members. The
// partition's own center is not used since it is only recomputed when
// assignments change.
func meanScores(members []AnalyzedCommit) mood.Scores {
	var s mood.Scores
	if len(members) == 0 {
		return s
	}
	for _, m := range members {
		for i, v := range m.Analysis.Scores {
			s[i] += v
		}
	}
	for i := range s {
		s[i] /= float64(len(members))
	}
	return s
}

func deref(commits []*AnalyzedCommit) []AnalyzedCommit {
	out := make([]AnalyzedCommit, 0, len(commits))
	for _, c := range commits {
		out = append(out, *c)
	}
	return out
}

// formatPhaseName combines a mood name with a date range. Phases without
// timestamps are named by mood alone.
func formatPhaseName(moodName string, start, end time.Time) string {
	const nameFormat = "Jan 2, 2006"
	if start.IsZero() || end.IsZero() {
		return moodName
	}

	startStr := start.Format(nameFormat)
	endStr := end.Format(nameFormat)

	if startStr == endStr {
		return fmt.Sprintf("%s: %s", moodName, startStr)
	}
	return fmt.Sprintf("%s: %s - %s", moodName, startStr, endStr)
}
