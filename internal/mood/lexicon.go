package mood

import (
	"errors"
	"fmt"
	"strings"
)

// phraseMultiplier scales a mood's weight when a multi-word phrase matches.
const phraseMultiplier = 1.5

// ErrInvalidLexicon is returned by NewLexicon for incomplete or malformed tables.
var ErrInvalidLexicon = errors.New("invalid lexicon")

// Entry is the evidence for one mood: keyword and phrase substrings plus
// the weight each match contributes.
type Entry struct {
	Keywords []string
	Phrases  []string
	Weight   float64
}

// Lexicon maps every mood to its Entry. It is never modified after
// construction and may be shared between goroutines freely.
type Lexicon struct {
	entries [numMoods]Entry
}

// NewLexicon builds a Lexicon from a table holding exactly one entry per mood.
// Terms are lower-cased and the input is copied, so later changes to the
// caller's slices do not leak in.
func NewLexicon(table map[Mood]Entry) (*Lexicon, error) {
	var lex Lexicon
	for m := range table {
		if !m.Valid() {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidLexicon, ErrUnknownMood, m)
		}
	}
	for i, m := range Moods {
		e, ok := table[m]
		if !ok {
			return nil, fmt.Errorf("%w: missing entry for %s", ErrInvalidLexicon, m)
		}
		if e.Weight <= 0 {
			return nil, fmt.Errorf("%w: weight for %s must be positive, got %v", ErrInvalidLexicon, m, e.Weight)
		}
		lex.entries[i] = Entry{
			Keywords: normalizeTerms(e.Keywords),
			Phrases:  normalizeTerms(e.Phrases),
			Weight:   e.Weight,
		}
	}
	return &lex, nil
}

// MustLexicon is like NewLexicon but panics on error. Intended for
// package-level tables known to be valid.
func MustLexicon(table map[Mood]Entry) *Lexicon {
	lex, err := NewLexicon(table)
	if err != nil {
		panic(err)
	}
	return lex
}

// Lookup returns a copy of the entry for m. Unknown moods yield a zero Entry.
func (l *Lexicon) Lookup(m Mood) Entry {
	i := m.Index()
	if i < 0 {
		return Entry{}
	}
	e := l.entries[i]
	return Entry{
		Keywords: append([]string(nil), e.Keywords...),
		Phrases:  append([]string(nil), e.Phrases...),
		Weight:   e.Weight,
	}
}

// normalizeTerms lower-cases terms and drops empty ones; an empty term
// would otherwise match every message.
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(t)
		if strings.TrimSpace(t) == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

var defaultLexicon = MustLexicon(map[Mood]Entry{
	Frustrated: {
		Keywords: []string{"fix", "bug", "error", "critical", "broken", "issue", "fail", "crash", "urgent", "hack", "temp", "wtf", "damn"},
		Phrases:  []string{"this is broken", "not working", "quick fix", "band-aid", "dirty fix"},
		Weight:   1.0,
	},
	Excited: {
		Keywords: []string{"awesome", "new", "feature", "add", "implement", "create", "launch", "release", "amazing", "cool", "neat"},
		Phrases:  []string{"new feature", "just added", "finally working", "looks great", "super cool"},
		Weight:   1.2,
	},
	Satisfied: {
		Keywords: []string{"refactor", "clean", "improve", "better", "optimize", "update", "enhance", "polish"},
		Phrases:  []string{"much better", "cleaner code", "good improvement", "nice refactor"},
		Weight:   1.0,
	},
	Tired: {
		Keywords: []string{"late", "small", "minor", "again", "another", "quick", "tiny", "wip", "todo"},
		Phrases:  []string{"working late", "small change", "minor fix", "quick update", "will fix later"},
		Weight:   0.8,
	},
	Euphoric: {
		Keywords: []string{"breakthrough", "finally", "solved", "success", "complete", "done", "perfect", "nailed"},
		Phrases:  []string{"finally works", "major breakthrough", "problem solved", "it works"},
		Weight:   1.5,
	},
})

// DefaultLexicon returns the built-in lexicon.
func DefaultLexicon() *Lexicon {
	return defaultLexicon
}
