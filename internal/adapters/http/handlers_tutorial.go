package web

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed tutorial.md
var tutorialMarkdown []byte

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var tutorialPage = template.Must(template.New("tutorial").Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>ArtCor</title></head>
<body><main>{{.}}</main></body>
</html>
`))

var (
	tutorialOnce sync.Once
	tutorialHTML []byte
	tutorialErr  error
)

func renderTutorial() ([]byte, error) {
	tutorialOnce.Do(func() {
		var body bytes.Buffer
		if err := mdRenderer.Convert(tutorialMarkdown, &body); err != nil {
			tutorialErr = err
			return
		}
		var page bytes.Buffer
		tutorialErr = tutorialPage.Execute(&page, template.HTML(body.String()))
		tutorialHTML = page.Bytes()
	})
	return tutorialHTML, tutorialErr
}

// handleTutorial serves the embedded guide when the tutorial is enabled.
func (s *Server) handleTutorial(w http.ResponseWriter, r *http.Request) {
	if !s.tutorial {
		http.NotFound(w, r)
		return
	}
	page, err := renderTutorial()
	if err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
