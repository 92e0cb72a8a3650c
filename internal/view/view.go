// Package view renders the CV page with html/template.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"cv-site/internal/model"
	"cv-site/internal/render"
	"cv-site/templates"
)

// DefaultStylesheet is where the server exposes templates/style.css.
const DefaultStylesheet = "static/style.css"

const (
	// LoadedSelector matches only a page rendered from a loaded CV.
	LoadedSelector = "main.cv[data-loaded]"
	// ErrorMarker appears only on the failed-load page.
	ErrorMarker = `class="error-state"`
)

// Page is the data handed to the template. Error takes precedence over CV.
type Page struct {
	CV         *model.CV
	Sections   []render.SectionConfig
	Error      string
	Stylesheet string
}

// Renderer executes the embedded page template. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("page").Funcs(funcs()).Parse(templates.Page)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page. A nil Sections slice is planned from p.CV.
func (r *Renderer) Render(w io.Writer, p Page) error {
	if p.Stylesheet == "" {
		p.Stylesheet = DefaultStylesheet
	}
	if p.CV != nil && p.Sections == nil {
		p.Sections = render.Sections(p.CV)
	}
	return r.tmpl.Execute(w, p)
}

// RenderCV renders a loaded CV into a complete HTML document.
func (r *Renderer) RenderCV(cv *model.CV) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, Page{CV: cv}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": render.FormatDate,
		"dateRange":  render.DateRange,
		"contact":    render.Contact,
		"urlLabel":   render.URLLabel,
		"skillClass": render.SkillLevelClass,
		"isLink": func(f render.Field) bool {
			switch f.Type {
			case render.FieldEmail, render.FieldPhone, render.FieldURL:
				return true
			}
			return false
		},
		"isURL": func(f render.Field) bool { return f.Type == render.FieldURL },
		"href": func(f render.Field) template.URL {
			if f.Type == render.FieldURL {
				return safeURL(f.Display)
			}
			return template.URL(render.Href(f.FieldConfig, f.Display))
		},
		"linkText": func(f render.Field) string {
			if f.Type == render.FieldURL {
				return render.URLLabel(f.Display)
			}
			return f.Display
		},
		"safeURL": safeURL,
		"courses": func(cs []model.Course) string {
			return render.FormatValue(cs, render.FieldConfig{Type: render.FieldList})
		},
	}
}

// safeURL trusts http(s) links and upgrades scheme-less ones to https.
func safeURL(raw string) template.URL {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return template.URL(s)
	}
	if strings.Contains(s, ":") {
		return template.URL("#")
	}
	return template.URL("https://" + s)
}
