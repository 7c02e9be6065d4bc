// Package mood infers a developer's mood from commit messages.
//
// A Scorer rates a single commit against a Lexicon and an Aggregator folds
// an ordered window of commits into a recency-weighted trend. Scores are
// additive heuristics and confidence values are scaled maxima, not
// probabilities.
package mood

import (
	"errors"
	"fmt"
	"strings"
)

// Mood is one of the five classification labels.
type Mood string

// Mood labels in priority order.
const (
	Frustrated Mood = "frustrated"
	Excited    Mood = "excited"
	Satisfied  Mood = "satisfied"
	Tired      Mood = "tired"
	Euphoric   Mood = "euphoric"
)

// numMoods is the size of every score vector.
const numMoods = 5

// Moods lists every mood in priority order. Ties between equal scores
// always resolve to the mood that appears first here.
var Moods = [numMoods]Mood{Frustrated, Excited, Satisfied, Tired, Euphoric}

// ErrUnknownMood is returned when a label is not one of the five moods.
var ErrUnknownMood = errors.New("unknown mood")

// ParseMood converts a label (case-insensitive) to a Mood.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if m.Index() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownMood, s)
	}
	return m, nil
}

// Index returns the mood's position in priority order, or -1 if unknown.
func (m Mood) Index() int {
	for i, candidate := range Moods {
		if candidate == m {
			return i
		}
	}
	return -1
}

// Valid reports whether m is one of the five moods.
func (m Mood) Valid() bool {
	return m.Index() >= 0
}

func (m Mood) String() string {
	return string(m)
}

// Title returns the label with an upper-case first letter: "Frustrated".
func (m Mood) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}
