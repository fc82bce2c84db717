// Package render turns a sports document and the reader's preferences into
// the newspaper page. Rendering is a pure function of its inputs.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"

	"github.com/TobiSchelling/sportspage/internal/prefs"
	"github.com/TobiSchelling/sportspage/internal/sports"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// ErrNoArtifact reports that no sports document is available to render.
var ErrNoArtifact = errors.New("sports data not available")

// Options controls page chrome that is not part of the document.
type Options struct {
	// Interactive adds the preference toggle forms served by the local server.
	Interactive bool
	Title       string
	// Note is Markdown shown under the masthead.
	Note string
}

// Renderer holds the parsed page templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
	}
	tmpl, err := template.New("page.html").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the full page for doc filtered by p. The same inputs
// always produce the same bytes.
func (r *Renderer) Render(doc *sports.Document, p prefs.Preferences, opts Options) ([]byte, error) {
	if doc == nil {
		return r.RenderError(ErrNoArtifact, opts)
	}
	return r.execute("page.html", buildPage(doc, p, opts))
}

// RenderError produces the page shown in place of the document when it is
// missing or unreadable.
func (r *Renderer) RenderError(cause error, opts Options) ([]byte, error) {
	page := basePage(opts)
	if errors.Is(cause, ErrNoArtifact) {
		page.Error = "No sports data is available yet. Run the fetch to create today's page."
	} else {
		page.Error = "Unable to load sports data."
	}
	if cause != nil {
		page.ErrorDetail = cause.Error()
	}
	return r.execute("error.html", page)
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// StaticFS returns the stylesheet and other assets served under /static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Export writes a self-contained static site to dir: index.html, the
// document under data/ and the assets under static/.
func (r *Renderer) Export(dir string, doc *sports.Document, p prefs.Preferences, opts Options) error {
	opts.Interactive = false
	page, err := r.Render(doc, p, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sports document: %w", err)
	}

	files := map[string][]byte{
		"index.html":            page,
		"data/sports_data.json": data,
	}
	err = fs.WalkDir(StaticFS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := fs.ReadFile(StaticFS(), path)
		if err != nil {
			return err
		}
		files[filepath.Join("static", path)] = b
		return nil
	})
	if err != nil {
		return fmt.Errorf("reading static assets: %w", err)
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}
