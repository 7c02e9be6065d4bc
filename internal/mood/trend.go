package mood

import "math"

// Trend classifies how per-commit confidence is moving.
type Trend string

// Trend values.
const (
	Improving Trend = "improving"
	Declining Trend = "declining"
	Stable    Trend = "stable"
)

const (
	// decayBase down-weights each older commit by a further factor.
	decayBase = 0.8

	// trendThreshold is the minimum change in mean confidence that counts
	// as a movement.
	trendThreshold = 0.2

	// minTrendCommits is the window size below which a trend is always stable.
	minTrendCommits = 3

	// recentSize is the number of most-recent commits compared against the
	// next recentSize older ones.
	recentSize = 2
)

// TrendResult is the aggregate mood of a commit window.
type TrendResult struct {
	Mood         Mood              `json:"overall_mood"`
	Confidence   float64           `json:"confidence"`
	Distribution Scores            `json:"distribution"`
	Analyses     []SentimentResult `json:"analyses"`
	Trend        Trend             `json:"trend"`
}

// Aggregator combines per-commit results into a recency-weighted trend.
type Aggregator struct {
	scorer *Scorer
}

// NewAggregator creates an Aggregator. A nil scorer uses NewScorer(nil).
func NewAggregator(scorer *Scorer) *Aggregator {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	return &Aggregator{scorer: scorer}
}

// Scorer returns the scorer used for individual commits.
func (a *Aggregator) Scorer() *Scorer {
	return a.scorer
}

// Aggregate scores commits, which must be ordered most recent first, and
// folds them into a TrendResult. Commit i contributes its scores scaled by
// 0.8^i. Confidence is the top decayed score divided by the number of
// commits, again a heuristic rather than a probability.
func (a *Aggregator) Aggregate(commits []Commit) TrendResult {
	if len(commits) == 0 {
		return TrendResult{
			Mood:     Moods[0],
			Analyses: []SentimentResult{},
			Trend:    Stable,
		}
	}

	analyses := make([]SentimentResult, len(commits))
	var distribution Scores
	for i, c := range commits {
		analyses[i] = a.scorer.ScoreCommit(c)
		weight := math.Pow(decayBase, float64(i))
		for j := range distribution {
			distribution[j] += analyses[i].Scores[j] * weight
		}
	}

	return TrendResult{
		Mood:         distribution.Dominant(),
		Confidence:   distribution.Max() / float64(len(commits)),
		Distribution: distribution,
		Analyses:     analyses,
		Trend:        ClassifyTrend(analyses),
	}
}

// ClassifyTrend compares the mean confidence of the two most recent analyses
// with the next two older ones.
func ClassifyTrend(analyses []SentimentResult) Trend {
	if len(analyses) < minTrendCommits {
		return Stable
	}

	recent := analyses[:recentSize]
	older := analyses[recentSize:min(len(analyses), 2*recentSize)]
	if len(older) == 0 {
		return Stable
	}

	diff := meanConfidence(recent) - meanConfidence(older)
	switch {
	case diff > trendThreshold:
		return Improving
	case diff < -trendThreshold:
		return Declining
	default:
		return Stable
	}
}

func meanConfidence(analyses []SentimentResult) float64 {
	var sum float64
	for _, a := range analyses {
		sum += a.Confidence
	}
	return sum / float64(len(analyses))
}
