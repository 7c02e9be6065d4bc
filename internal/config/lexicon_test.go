package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/go-commit-mood/internal/mood"
)

const testLexicon = `
frustrated:
  keywords: [Borked, fix]
  phrases: ["on fire"]
  weight: 2
excited:
  keywords: [ship]
  weight: 1
satisfied:
  keywords: [tidy]
  weight: 1
tired:
  keywords: [sleepy]
  weight: 0.5
euphoric:
  keywords: [victory]
  weight: 3
`

func TestParseLexicon(t *testing.T) {
	lex, err := ParseLexicon([]byte(testLexicon))
	require.NoError(t, err)

	e := lex.Lookup(mood.Frustrated)
	assert.Equal(t, []string{"borked", "fix"}, e.Keywords)
	assert.Equal(t, []string{"on fire"}, e.Phrases)
	assert.Equal(t, 2.0, e.Weight)

	result := mood.NewScorer(lex).Score("borked the deploy", nil, "")
	assert.Equal(t, mood.Frustrated, result.Mood)
	assert.Equal(t, 2.0, result.Scores.Get(mood.Frustrated))
}

func TestParseLexicon_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "frustrated: [unclosed"},
		{"unknown mood", testLexicon + "grumpy:\n  keywords: [meh]\n  weight: 1\n"},
		{"missing mood", "frustrated:\n  keywords: [fix]\n  weight: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLexicon([]byte(tt.data))
			assert.Error(t, err)
		})
	}

	_, err := ParseLexicon([]byte(testLexicon + "grumpy:\n  weight: 1\n"))
	assert.ErrorIs(t, err, mood.ErrInvalidLexicon)
}

func TestParseLexicon_DuplicateLabels(t *testing.T) {
	data := testLexicon + "Frustrated:\n  keywords: [oops]\n  weight: 1\n"

	_, err := ParseLexicon([]byte(data))
	assert.ErrorIs(t, err, mood.ErrInvalidLexicon)
	assert.ErrorContains(t, err, "more than once")
}

func TestLoadLexicon(t *testing.T) {
	lex, err := LoadLexicon("")
	require.NoError(t, err)
	assert.Same(t, mood.DefaultLexicon(), lex)

	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testLexicon), 0600))
	lex, err = LoadLexicon(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"victory"}, lex.Lookup(mood.Euphoric).Keywords)

	_, err = LoadLexicon(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
