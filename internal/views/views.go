// Package views renders the pages of the form interface.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/aoideee/watchlog/internal/data"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Page names understood by Render.
const (
	PageIndex   = "index"
	PageAddEdit = "add_edit"
)

// Renderer turns page data into markup.
type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// IndexPage is the data for PageIndex.
type IndexPage struct {
	Movies        []*data.Movie
	AverageRating float64
	ShowAverage   bool
}

// AddEditPage is the data for PageAddEdit. Movie is nil for a blank form.
// The form always carries every movie field, so a submitted edit replaces
// the whole record without dropping type or year.
type AddEditPage struct {
	Movie            *data.Movie
	Action           string
	RequireExtension bool // mark type and year as required inputs
}

// TemplateRenderer renders the embedded html/template pages.
type TemplateRenderer struct {
	templates *template.Template
}

// New parses the embedded templates.
func New() (*TemplateRenderer, error) {
	ts, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{templates: ts}, nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response.
func (r *TemplateRenderer) Render(w io.Writer, page string, data any) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, page, data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
