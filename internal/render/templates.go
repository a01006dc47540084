package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index", "movie", "person", "director"}

// Renderer executes the embedded page and fragment templates.
type Renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	base, err := template.New("base").ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone base templates: %w", err)
		}
		page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = page
	}

	partials, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone base templates: %w", err)
	}

	return &Renderer{pages: pages, partials: partials}, nil
}

// Page writes a full HTML page.
func (r *Renderer) Page(w io.Writer, name string, data any) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return page.ExecuteTemplate(w, "layout", data)
}

// Fragment renders a partial (results or suggestions) to a string.
func (r *Renderer) Fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.partials.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s fragment: %w", name, err)
	}
	return buf.String(), nil
}

// Render implements echo.Renderer for full pages.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.Page(w, name, data)
}
