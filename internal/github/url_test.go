package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{name: "plain", url: "https://github.com/octo/demo", wantOwner: "octo", wantRepo: "demo"},
		{name: "trailing slash", url: "https://github.com/octo/demo/", wantOwner: "octo", wantRepo: "demo"},
		{name: "git suffix", url: "https://github.com/octo/demo.git", wantOwner: "octo", wantRepo: "demo"},
		{name: "surrounding space", url: "  https://github.com/octo/demo  ", wantOwner: "octo", wantRepo: "demo"},
		{name: "dotted repo", url: "https://github.com/octo/demo.js", wantOwner: "octo", wantRepo: "demo.js"},
		{name: "http scheme", url: "http://github.com/octo/demo", wantErr: true},
		{name: "other host", url: "https://gitlab.com/octo/demo", wantErr: true},
		{name: "missing repo", url: "https://github.com/octo", wantErr: true},
		{name: "extra path", url: "https://github.com/octo/demo/tree/main", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				assert.False(t, IsValidRepoURL(tt.url))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
			assert.True(t, IsValidRepoURL(tt.url))
		})
	}
}
