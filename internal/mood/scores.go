package mood

import (
	"encoding/json"
	"fmt"
)

// Scores holds one non-negative value per mood, indexed in priority order.
// Being a fixed-size array, every mood is always present.
type Scores [numMoods]float64

// Get returns the score for m, or 0 for an unknown mood.
func (s Scores) Get(m Mood) float64 {
	i := m.Index()
	if i < 0 {
		return 0
	}
	return s[i]
}

// add increases the score for m.
func (s *Scores) add(m Mood, v float64) {
	s[m.Index()] += v
}

// Max returns the highest score.
func (s Scores) Max() float64 {
	_, v := s.argmax()
	return v
}

// Dominant returns the mood with the highest score. Equal scores resolve to
// the earlier mood in priority order, so an all-zero vector yields Frustrated.
func (s Scores) Dominant() Mood {
	i, _ := s.argmax()
	return Moods[i]
}

func (s Scores) argmax() (int, float64) {
	best := 0
	for i := 1; i < numMoods; i++ {
		if s[i] > s[best] {
			best = i
		}
	}
	return best, s[best]
}

// IsZero reports whether every score is zero.
func (s Scores) IsZero() bool {
	return s == Scores{}
}

// Map returns the scores keyed by mood.
func (s Scores) Map() map[Mood]float64 {
	out := make(map[Mood]float64, numMoods)
	for i, m := range Moods {
		out[m] = s[i]
	}
	return out
}

// MarshalJSON encodes the scores as an object keyed by mood label.
func (s Scores) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON decodes an object keyed by mood label. Missing moods are zero.
func (s *Scores) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Scores
	for k, v := range raw {
		m, err := ParseMood(k)
		if err != nil {
			return fmt.Errorf("decoding scores: %w", err)
		}
		out[m.Index()] = v
	}
	*s = out
	return nil
}
