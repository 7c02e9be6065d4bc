package mood

import (
	"strings"
	"time"
)

// Contextual adjustments applied on top of lexicon matches.
const (
	lateNightTired      = 0.5
	lateNightFrustrated = 0.3
	weekendBonus        = 0.2

	longMessageWords  = 10
	longMessageBonus  = 0.2
	shortMessageWords = 3
	shortMessageBonus = 0.3

	exclamationExcited  = 0.3
	exclamationEuphoric = 0.2
	questionFrustrated  = 0.2

	// confidenceDivisor scales the top score into a confidence value. It is
	// a fixed heuristic with no upper bound, not a probability.
	confidenceDivisor = 3.0
)

// Commit is a single commit as supplied by a retrieval collaborator.
// SHA and URL are carried for presentation only.
type Commit struct {
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Author    string     `json:"author,omitempty"`
	SHA       string     `json:"sha,omitempty"`
	URL       string     `json:"url,omitempty"`
}

// Factors records the contextual signals observed while scoring.
type Factors struct {
	Hour         *int `json:"hour"` // nil when no timestamp was given
	WordCount    int  `json:"word_count"`
	Exclamations int  `json:"exclamations"`
	Questions    int  `json:"questions"`
}

// SentimentResult is the mood inferred for one commit message.
type SentimentResult struct {
	Mood       Mood    `json:"mood"`
	Confidence float64 `json:"confidence"`
	Scores     Scores  `json:"scores"`
	Factors    Factors `json:"factors"`
}

// Scorer rates commit messages against a Lexicon.
type Scorer struct {
	lexicon  *Lexicon
	location *time.Location
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithLocation sets the time zone used for hour-of-day and weekday checks.
// Defaults to time.Local.
func WithLocation(loc *time.Location) ScorerOption {
	return func(s *Scorer) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewScorer creates a Scorer. A nil lexicon selects DefaultLexicon.
func NewScorer(lex *Lexicon, opts ...ScorerOption) *Scorer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	s := &Scorer{
		lexicon:  lex,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score infers the mood of a single commit message.
//
// Matching is case-insensitive substring presence: each keyword or phrase
// counts at most once. A nil timestamp skips the time-of-day and weekend
// adjustments. The author is accepted for future signals and does not
// affect the result.
func (s *Scorer) Score(message string, timestamp *time.Time, author string) SentimentResult {
	_ = author

	var scores Scores
	normalized := strings.ToLower(message)

	for i, m := range Moods {
		entry := s.lexicon.entries[i]
		for _, kw := range entry.Keywords {
			if strings.Contains(normalized, kw) {
				scores.add(m, entry.Weight)
			}
		}
		for _, phrase := range entry.Phrases {
			if strings.Contains(normalized, phrase) {
				scores.add(m, entry.Weight*phraseMultiplier)
			}
		}
	}

	factors := Factors{
		WordCount:    len(strings.Fields(message)),
		Exclamations: strings.Count(message, "!"),
		Questions:    strings.Count(message, "?"),
	}

	if timestamp != nil {
		local := timestamp.In(s.location)
		hour := local.Hour()
		factors.Hour = &hour

		if isLateNight(hour) {
			scores.add(Tired, lateNightTired)
			scores.add(Frustrated, lateNightFrustrated)
		}
		if isWeekend(local.Weekday()) {
			scores.add(Excited, weekendBonus)
			scores.add(Euphoric, weekendBonus)
		}
	}

	// An empty message has no shape to judge.
	switch {
	case message == "":
	case factors.WordCount > longMessageWords:
		scores.add(Excited, longMessageBonus)
	case factors.WordCount <= shortMessageWords:
		scores.add(Tired, shortMessageBonus)
	}

	scores.add(Excited, float64(factors.Exclamations)*exclamationExcited)
	scores.add(Euphoric, float64(factors.Exclamations)*exclamationEuphoric)
	scores.add(Frustrated, float64(factors.Questions)*questionFrustrated)

	return SentimentResult{
		Mood:       scores.Dominant(),
		Confidence: scores.Max() / confidenceDivisor,
		Scores:     scores,
		Factors:    factors,
	}
}

// ScoreCommit is a convenience wrapper around Score.
func (s *Scorer) ScoreCommit(c Commit) SentimentResult {
	return s.Score(c.Message, c.Timestamp, c.Author)
}

// isLateNight reports whether hour falls in 22:00-06:59.
func isLateNight(hour int) bool {
	return hour >= 22 || hour <= 6
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}
