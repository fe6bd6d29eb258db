// Package view holds the embedded HTML templates rendered by the gin handlers.
package view

import (
	"embed"
	"fmt"
	"html/template"

	"person-web-service/internal/usecase/person"
)

// Template names.
const (
	IndexPage     = "index.html"
	ForbiddenPage = "403.html"
	NotFoundPage  = "404.html"
	ErrorPage     = "500.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Load parses every embedded template into one set.
func Load() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// MustLoad is like Load but panics on a parse error.
func MustLoad() *template.Template {
	return template.Must(Load())
}

// Index is the data rendered by IndexPage.
type Index struct {
	Form      person.CreatePersonRequest
	Errors    map[string]string
	People    []person.Person
	CSRFField template.HTML
}
