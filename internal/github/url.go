package github

import (
	"fmt"
	"regexp"
	"strings"
)

var repoURLPattern = regexp.MustCompile(`^https://github\.com/([^/\s]+)/([^/\s]+?)/?$`)

// ParseRepoURL extracts the owner and repository name from a URL of the form
// https://github.com/owner/repo, with an optional ".git" suffix or trailing slash.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSuffix(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")

	m := repoURLPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return m[1], m[2], nil
}

// IsValidRepoURL reports whether raw is a GitHub repository URL.
func IsValidRepoURL(raw string) bool {
	_, _, err := ParseRepoURL(raw)
	return err == nil
}
