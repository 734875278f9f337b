package email

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names an embedded email template.
type Template string

const (
	// TemplateWelcome is rendered from templates/welcome.html.
	TemplateWelcome Template = "welcome"
)

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func (t Template) file() string {
	return string(t) + ".html"
}
