package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/justestif/go-commit-mood/internal/mood"
)

// lexiconEntry is one mood's block in a lexicon file:
//
//	frustrated:
//	  keywords: [fix, bug]
//	  phrases: [quick fix]
//	  weight: 1.0
type lexiconEntry struct {
	Keywords []string `yaml:"keywords"`
	Phrases  []string `yaml:"phrases"`
	Weight   float64  `yaml:"weight"`
}

// ParseLexicon decodes a YAML lexicon holding one block per mood.
func ParseLexicon(data []byte) (*mood.Lexicon, error) {
	var raw map[string]lexiconEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding lexicon: %w", err)
	}

	table := make(map[mood.Mood]mood.Entry, len(raw))
	for label, e := range raw {
		m, err := mood.ParseMood(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", mood.ErrInvalidLexicon, err)
		}
		if _, dup := table[m]; dup {
			return nil, fmt.Errorf("%w: mood %q defined more than once", mood.ErrInvalidLexicon, m)
		}
		table[m] = mood.Entry{Keywords: e.Keywords, Phrases: e.Phrases, Weight: e.Weight}
	}
	return mood.NewLexicon(table)
}

// LoadLexicon reads a YAML lexicon file. An empty path returns the built-in
// lexicon.
func LoadLexicon(path string) (*mood.Lexicon, error) {
	if path == "" {
		return mood.DefaultLexicon(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	lex, err := ParseLexicon(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lex, nil
}
