// Package github retrieves commit history from GitHub for mood analysis.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/justestif/go-commit-mood/internal/mood"
)

const (
	// DefaultRateLimit is the default number of API calls per second.
	DefaultRateLimit = 10

	// DefaultFetchLimit is the number of commits fetched when no limit is given.
	DefaultFetchLimit = 10

	// MaxFetchLimit caps the commits fetched by a single FetchCommits call.
	MaxFetchLimit = 500

	maxPerPage = 100
	userAgent  = "commit-mood/1.0"
)

// Sentinel errors for retrieval failures. They are safe to show to users.
var (
	ErrInvalidURL   = errors.New("invalid GitHub URL format, expected https://github.com/owner/repo")
	ErrRepoNotFound = errors.New("repository not found, check the URL or make sure it is public")
	ErrRateLimited  = errors.New("rate limit exceeded or access denied, try adding a GitHub token")
	ErrUnauthorized = errors.New("invalid GitHub token")
	ErrAPI          = errors.New("GitHub API error")
)

// Repository holds repository metadata.
type Repository struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Private     bool   `json:"private"`
	URL         string `json:"url"`
}

// RateStatus reports the caller's core API quota.
type RateStatus struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
	HasToken  bool      `json:"has_token"`
}

// Client wraps the GitHub API client with rate limiting.
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	hasToken    bool
	logger      *logrus.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithRateLimit sets the maximum number of API calls per second.
func WithRateLimit(perSecond int) Option {
	return func(c *Client) error {
		if perSecond > 0 {
			c.rateLimiter = NewLimiter(perSecond)
		}
		return nil
	}
}

// WithLimiter makes the client draw from a shared limiter, so clients built
// for different tokens stay within one budget.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) error {
		if limiter != nil {
			c.rateLimiter = limiter
		}
		return nil
	}
}

// NewLimiter returns a limiter allowing perSecond API calls per second, or
// DefaultRateLimit when perSecond is not positive.
func NewLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		perSecond = DefaultRateLimit
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// WithBaseURL points the client at a different API root, such as a GitHub
// Enterprise server or a test server.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing base URL: %w", err)
		}
		c.client.BaseURL = u
		return nil
	}
}

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// NewClient creates a GitHub client. An empty token uses unauthenticated
// access, which GitHub limits to 60 requests per hour.
func NewClient(token string, opts ...Option) (*Client, error) {
	client := github.NewClient(&http.Client{Timeout: 15 * time.Second})
	if token != "" {
		client = client.WithAuthToken(token)
	}
	client.UserAgent = userAgent

	c := &Client{
		client:      client,
		rateLimiter: NewLimiter(DefaultRateLimit),
		hasToken:    token != "",
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FetchCommits returns up to limit commits from the default branch, most
// recent first. Only the first line of each message is kept. Limits above
// MaxFetchLimit are clamped.
func (c *Client) FetchCommits(ctx context.Context, owner, repo string, limit int) ([]mood.Commit, error) {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	limit = min(limit, MaxFetchLimit)

	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: min(limit, maxPerPage)},
	}

	commits := make([]mood.Commit, 0, min(limit, maxPerPage))
	for len(commits) < limit {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		page, resp, err := c.client.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("fetching commits for %s/%s: %w", owner, repo, classify(err))
		}

		for _, rc := range page {
			if len(commits) == limit {
				break
			}
			commits = append(commits, convertCommit(rc))
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.WithFields(logrus.Fields{
		"repo":    owner + "/" + repo,
		"commits": len(commits),
	}).Debug("fetched commits")

	return commits, nil
}

// FetchRepository returns repository metadata.
func (c *Client) FetchRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	r, _, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetching repository %s/%s: %w", owner, repo, classify(err))
	}

	return &Repository{
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Private:     r.GetPrivate(),
		URL:         r.GetHTMLURL(),
	}, nil
}

// RateLimit reports the remaining core API quota.
func (c *Client) RateLimit(ctx context.Context) (*RateStatus, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking rate limit: %w", classify(err))
	}

	core := limits.GetCore()
	if core == nil {
		return nil, fmt.Errorf("%w: missing core rate limit", ErrAPI)
	}

	return &RateStatus{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     core.Reset.Time,
		HasToken:  c.hasToken,
	}, nil
}

// convertCommit maps an API commit to a mood.Commit.
func convertCommit(rc *github.RepositoryCommit) mood.Commit {
	detail := rc.GetCommit()
	author := detail.GetAuthor()

	c := mood.Commit{
		Message: firstLine(detail.GetMessage()),
		Author:  author.GetName(),
		SHA:     shortSHA(rc.GetSHA()),
		URL:     rc.GetHTMLURL(),
	}

	if date := author.GetDate(); !date.Time.IsZero() {
		ts := date.Time
		c.Timestamp = &ts
	}

	return c
}

// classify maps API failures onto the package's sentinel errors.
func classify(err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return ErrRepoNotFound
		case http.StatusForbidden, http.StatusTooManyRequests:
			return ErrRateLimited
		case http.StatusUnauthorized:
			return ErrUnauthorized
		default:
			return fmt.Errorf("%w: %d %s", ErrAPI, respErr.Response.StatusCode, respErr.Message)
		}
	}

	return err
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimRight(line, "\r")
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
