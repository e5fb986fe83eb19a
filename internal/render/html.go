package render

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

//go:embed templates/*.html.tmpl
var templateFiles embed.FS

var pageTemplate = template.Must(template.New("page.html.tmpl").Funcs(template.FuncMap{
	"join":        strings.Join,
	"isModern":    func(t resume.Template) bool { return t == resume.TemplateModern },
	"imageSource": imageSource,
}).ParseFS(templateFiles, "templates/page.html.tmpl"))

// HTML renders layout as a standalone A4 page.
func HTML(layout Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, layout); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// imageSource admits inline images and http(s) URLs; anything else renders
// without a photo.
func imageSource(src string) template.URL {
	trimmed := strings.TrimSpace(src)
	switch {
	case strings.HasPrefix(trimmed, "data:image/"),
		strings.HasPrefix(trimmed, "https://"),
		strings.HasPrefix(trimmed, "http://"):
		return template.URL(trimmed)
	default:
		return ""
	}
}
