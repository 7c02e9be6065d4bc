package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/justestif/go-commit-mood/internal/analysis"
	"github.com/justestif/go-commit-mood/internal/mood"
	"github.com/justestif/go-commit-mood/internal/playlist"
)

// Templates manages HTML template rendering.
type Templates struct {
	templates map[string]*template.Template
	partials  map[string]*template.Template
	funcs     template.FuncMap
}

// NewTemplates loads layouts/*.html, partials/*.html and pages/*.html from
// templatesFS. Every page is parsed together with all layouts and partials.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{
		templates: make(map[string]*template.Template),
		partials:  make(map[string]*template.Template),
		funcs:     defaultFuncs(),
	}

	if err := t.load(templatesFS); err != nil {
		return nil, err
	}

	return t, nil
}

// Render renders a page template with the given data.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderPartial renders a partial template (without base layout) with the given data.
func (t *Templates) RenderPartial(w io.Writer, partial string, data any) error {
	tmpl, ok := t.partials[partial]
	if !ok {
		return fmt.Errorf("partial %q not found", partial)
	}
	return tmpl.ExecuteTemplate(w, partial, data)
}

func (t *Templates) load(templatesFS fs.FS) error {
	layouts, err := fs.Glob(templatesFS, "layouts/*.html")
	if err != nil {
		return fmt.Errorf("finding layouts: %w", err)
	}
	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("finding partials: %w", err)
	}
	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("finding pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	common := append(append([]string{}, layouts...), partials...)

	for _, page := range pages {
		name := templateName(page)
		files := append([]string{page}, common...)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		t.templates[name] = tmpl
	}

	for _, partial := range partials {
		name := templateName(partial)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, partials...)
		if err != nil {
			return fmt.Errorf("parsing partial %s: %w", name, err)
		}
		t.partials[name] = tmpl
	}

	return nil
}

// templateName turns "pages/home.html" into "home".
func templateName(file string) string {
	return strings.TrimSuffix(path.Base(file), ".html")
}

// moodHues places each mood on the colour wheel, warm for high energy.
var moodHues = map[mood.Mood]int{
	mood.Frustrated: 0,
	mood.Excited:    35,
	mood.Satisfied:  150,
	mood.Tired:      230,
	mood.Euphoric:   290,
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		// moodColor returns an HSL colour for a mood; lightness grows with confidence.
		"moodColor": func(m mood.Mood, confidence float64) template.CSS {
			hue, ok := moodHues[m]
			if !ok {
				return "hsl(0, 0%, 50%)"
			}
			lightness := 35 + min(confidence, 3.0)*10
			return template.CSS(fmt.Sprintf("hsl(%d, 70%%, %.0f%%)", hue, lightness))
		},

		// percent scales a score against the largest in its distribution.
		"percent": func(value float64, scores mood.Scores) int {
			top := scores.Max()
			if top <= 0 {
				return 0
			}
			return int(value / top * 100)
		},

		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},

		"formatTimestamp": func(t *time.Time) string {
			if t == nil {
				return "unknown time"
			}
			return t.Format("Jan 2, 2006 15:04")
		},

		"formatScore": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},

		"title": func(m mood.Mood) string {
			return m.Title()
		},

		"add": func(a, b int) int {
			return a + b
		},

		// dict builds a map from key/value pairs for passing to partials.
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				m[key] = pairs[i+1]
			}
			return m, nil
		},
	}
}

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	User        *UserData
	Flash       *FlashMessage
	CurrentPath string
	CanPlaylist bool // Spotify is configured
}

// UserData contains authenticated user information.
type UserData struct {
	ID   string
	Name string
}

// FlashMessage represents a temporary notification message.
type FlashMessage struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// HomePageData contains data for the home page template.
type HomePageData struct {
	PageData
	RepoURL string
	Moods   []MoodData
}

// MoodData describes one mood in the catalog listing.
type MoodData struct {
	Mood       mood.Mood
	Descriptor mood.Descriptor
}

// AnalysisPageData contains data for the analysis result page.
type AnalysisPageData struct {
	PageData
	Report *analysis.Report
	Moods  []mood.Mood
}

// PlaylistPageData contains data for the created playlist page.
type PlaylistPageData struct {
	PageData
	Mood   mood.Mood
	Result *playlist.Result
}

// catalogData lists every mood with its music descriptor.
func catalogData() []MoodData {
	out := make([]MoodData, 0, len(mood.Moods))
	for _, m := range mood.Moods {
		out = append(out, MoodData{Mood: m, Descriptor: mood.Describe(m)})
	}
	return out
}
