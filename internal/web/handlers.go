package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/justestif/go-commit-mood/internal/analysis"
	"github.com/justestif/go-commit-mood/internal/auth"
	"github.com/justestif/go-commit-mood/internal/github"
	"github.com/justestif/go-commit-mood/internal/mood"
	"github.com/justestif/go-commit-mood/internal/playlist"
	spotifyclient "github.com/justestif/go-commit-mood/internal/spotify"
)

const stateCookieName = "oauth_state"

// Analyzer runs a repository mood analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Report, error)
}

// PlaylistGenerator creates a playlist for a mood.
type PlaylistGenerator interface {
	Generate(ctx context.Context, req playlist.Request) (*playlist.Result, error)
}

// tokenReporter is implemented by generators whose OAuth client may refresh
// the session token while generating.
type tokenReporter interface {
	Token() (*oauth2.Token, error)
}

// PlaylistRecorder remembers which user created which playlist from which
// stored report.
type PlaylistRecorder interface {
	RecordPlaylist(ctx context.Context, userID, reportID, playlistID string) error
}

// GeneratorFactory builds a PlaylistGenerator acting as the token's user.
type GeneratorFactory func(ctx context.Context, token *oauth2.Token) PlaylistGenerator

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	auth       *spotifyauth.Authenticator // nil when Spotify is not configured
	sessions   SessionManager
	templates  *Templates
	analyzer   Analyzer
	generators GeneratorFactory
	recorder   PlaylistRecorder
	health     Pinger
	logger     *logrus.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps Dependencies, sessions SessionManager, templates *Templates) *Handlers {
	h := &Handlers{
		auth:       deps.Auth,
		sessions:   sessions,
		templates:  templates,
		analyzer:   deps.Analyzer,
		generators: deps.Generators,
		recorder:   deps.Recorder,
		health:     deps.Health,
		logger:     deps.Logger,
	}
	if h.logger == nil {
		h.logger = logrus.StandardLogger()
	}
	if h.generators == nil && h.auth != nil {
		h.generators = spotifyGenerators(h.auth, h.logger)
	}
	return h
}

// spotifyGenerator is a playlist generator that also reports the token its
// Spotify client currently holds.
type spotifyGenerator struct {
	*playlist.Generator
	api *spotify.Client
}

func (g spotifyGenerator) Token() (*oauth2.Token, error) {
	return g.api.Token()
}

// spotifyGenerators builds generators backed by the Spotify Web API.
func spotifyGenerators(a *spotifyauth.Authenticator, logger *logrus.Logger) GeneratorFactory {
	return func(ctx context.Context, token *oauth2.Token) PlaylistGenerator {
		api := spotify.New(a.Client(ctx, token), spotify.WithRetry(true))
		client := spotifyclient.New(api)
		return spotifyGenerator{
			Generator: playlist.NewGenerator(client, client, playlist.WithLogger(logger)),
			api:       api,
		}
	}
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	data := HomePageData{
		PageData: h.pageData(r, "Commit Mood"),
		RepoURL:  r.URL.Query().Get("repo"),
		Moods:    catalogData(),
	}
	h.render(w, http.StatusOK, "home", data)
}

// Analyze runs an analysis from the home form (POST /analyze).
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	req := analysis.Request{
		RepoURL: strings.TrimSpace(r.PostFormValue("repo")),
		Token:   strings.TrimSpace(r.PostFormValue("token")),
		Window:  atoiOr(r.PostFormValue("window"), 0),
	}

	report, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		h.logRequestError(r, err, status)

		data := HomePageData{
			PageData: h.pageData(r, "Commit Mood"),
			RepoURL:  req.RepoURL,
			Moods:    catalogData(),
		}
		data.Flash = &FlashMessage{Type: "error", Message: userMessage(err)}
		h.render(w, status, "home", data)
		return
	}

	data := AnalysisPageData{
		PageData: h.pageData(r, report.Repo.FullName()+" mood"),
		Report:   report,
		Moods:    mood.Moods[:],
	}
	h.render(w, http.StatusOK, "analysis", data)
}

// APIAnalysis returns an analysis report as JSON (GET /api/analysis?repo=...).
func (h *Handlers) APIAnalysis(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := analysis.Request{
		RepoURL: q.Get("repo"),
		Token:   bearerToken(r),
		Window:  atoiOr(q.Get("window"), 0),
	}

	report, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		h.logRequestError(r, err, status)
		writeJSON(w, status, map[string]string{"error": userMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// APIMoods returns the mood catalog as JSON (GET /api/moods).
func (h *Handlers) APIMoods(w http.ResponseWriter, r *http.Request) {
	catalog := make(map[mood.Mood]mood.Descriptor, len(mood.Moods))
	for _, m := range mood.Moods {
		catalog[m] = mood.Describe(m)
	}
	writeJSON(w, http.StatusOK, catalog)
}

// Playlist creates a Spotify playlist for an analysed mood (POST /playlist).
// Requires a signed-in session.
func (h *Handlers) Playlist(w http.ResponseWriter, r *http.Request) {
	if h.generators == nil {
		http.Error(w, "Spotify is not configured", http.StatusServiceUnavailable)
		return
	}

	session := sessionFromRequest(h.sessions, r)
	if session == nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	m, err := mood.ParseMood(r.PostFormValue("mood"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	confidence, _ := strconv.ParseFloat(r.PostFormValue("confidence"), 64)

	req := playlist.Request{
		Mood:        m,
		Confidence:  confidence,
		CommitCount: atoiOr(r.PostFormValue("commits"), 0),
		Repo:        r.PostFormValue("repo"),
	}

	generator := h.generators(r.Context(), session.Token)
	result, err := generator.Generate(r.Context(), req)
	h.storeRefreshedToken(r.Context(), session, generator)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, playlist.ErrNoTracks) {
			status = http.StatusNotFound
		}
		h.logRequestError(r, err, status)

		data := PlaylistPageData{PageData: h.pageData(r, "Playlist"), Mood: m}
		data.Flash = &FlashMessage{Type: "error", Message: "Could not create playlist: " + err.Error()}
		h.render(w, status, "playlist", data)
		return
	}

	if h.recorder != nil {
		reportID := r.PostFormValue("report_id")
		if err := h.recorder.RecordPlaylist(r.Context(), session.UserID, reportID, result.Playlist.ID); err != nil {
			h.logger.WithError(err).WithField("report", reportID).Warn("recording playlist")
		}
	}

	data := PlaylistPageData{
		PageData: h.pageData(r, result.Playlist.Name),
		Mood:     m,
		Result:   result,
	}
	data.Flash = &FlashMessage{Type: "success", Message: fmt.Sprintf("Created playlist with %d tracks", len(result.Tracks))}
	h.render(w, http.StatusOK, "playlist", data)
}

// storeRefreshedToken saves the generator's token back to the session when
// the OAuth client refreshed it.
func (h *Handlers) storeRefreshedToken(ctx context.Context, session *Session, generator PlaylistGenerator) {
	reporter, ok := generator.(tokenReporter)
	if !ok {
		return
	}
	token, err := reporter.Token()
	if err != nil || token == nil {
		return
	}
	if session.Token != nil && token.AccessToken == session.Token.AccessToken {
		return
	}
	h.sessions.UpdateToken(ctx, session.ID, token)
	h.logger.WithField("user", session.UserID).Debug("stored refreshed Spotify token")
}

// Health reports service liveness (GET /health).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			status["database"] = "ok"
		}
	}

	writeJSON(w, code, status)
}

// Login initiates the Spotify OAuth flow (GET /auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		http.Error(w, "Spotify is not configured", http.StatusServiceUnavailable)
		return
	}

	state, err := auth.GenerateState()
	if err != nil {
		http.Error(w, "Failed to generate state", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	http.Redirect(w, r, h.auth.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles the OAuth callback from Spotify (GET /callback).
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		http.Error(w, "Spotify is not configured", http.StatusServiceUnavailable)
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil {
		http.Error(w, "Missing state cookie", http.StatusBadRequest)
		return
	}

	state := r.URL.Query().Get("state")
	if state != stateCookie.Value {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, fmt.Sprintf("Spotify auth error: %s", errMsg), http.StatusBadRequest)
		return
	}

	token, err := h.auth.Token(r.Context(), state, r)
	if err != nil {
		h.logRequestError(r, err, http.StatusInternalServerError)
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		return
	}

	client := spotifyclient.New(spotify.New(h.auth.Client(r.Context(), token)))
	profile, err := client.CurrentUser(r.Context())
	if err != nil {
		h.logRequestError(r, err, http.StatusInternalServerError)
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}

	session, err := h.sessions.Create(r.Context(), token, profile.ID, profile.DisplayName)
	if err != nil {
		h.logRequestError(r, err, http.StatusInternalServerError)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, session)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// Logout clears the session and redirects to home (POST /auth/logout).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if session := sessionFromRequest(h.sessions, r); session != nil {
		h.sessions.Delete(r.Context(), session.ID)
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) pageData(r *http.Request, title string) PageData {
	data := PageData{
		Title:       title,
		CurrentPath: r.URL.Path,
		CanPlaylist: h.generators != nil,
	}
	if session := sessionFromRequest(h.sessions, r); session != nil {
		data.User = &UserData{ID: session.UserID, Name: session.UserName}
	}
	return data
}

func (h *Handlers) render(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, page, data); err != nil {
		h.logger.WithError(err).WithField("page", page).Error("rendering template")
	}
}

func (h *Handlers) logRequestError(r *http.Request, err error, status int) {
	entry := h.logger.WithError(err).WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}
}

// statusFor maps analysis errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, github.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, github.ErrRepoNotFound), errors.Is(err, analysis.ErrNoCommits):
		return http.StatusNotFound
	case errors.Is(err, github.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, github.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, github.ErrAPI):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage describes an analysis error without internal detail.
func userMessage(err error) string {
	switch {
	case errors.Is(err, github.ErrInvalidURL):
		return "Please enter a repository URL like https://github.com/owner/repo"
	case errors.Is(err, github.ErrRepoNotFound):
		return "Repository not found. Private repositories need a token."
	case errors.Is(err, analysis.ErrNoCommits):
		return "That repository has no commits yet."
	case errors.Is(err, github.ErrRateLimited):
		return "GitHub rate limit reached. Try again later or supply a token."
	case errors.Is(err, github.ErrUnauthorized):
		return "GitHub rejected the token."
	case errors.Is(err, github.ErrAPI):
		return "GitHub returned an error. Try again later."
	default:
		return "Analysis failed."
	}
}

// bearerToken extracts a GitHub token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("encoding JSON response")
	}
}
