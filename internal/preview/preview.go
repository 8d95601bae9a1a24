// Package preview renders a deck's slide blocks as a single HTML page, so a
// generated deck can be checked in a browser without an office suite.
package preview

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/gnemet/SlideGen/internal/deck"
	"github.com/gnemet/SlideGen/internal/pptx"
	"github.com/russross/blackfriday/v2"
)

var pageTmpl = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; padding: 24px; background: #eee; font-family: {{.Font}}, sans-serif; }
section { width: 720px; height: 540px; margin: 0 auto 24px; position: relative; background: {{.Background}}; }
section .box { position: absolute; left: {{.X}}px; top: {{.Y}}px; width: {{.W}}px; height: {{.H}}px;
  box-sizing: border-box; padding: 8px 12px; overflow: hidden; background: {{.Fill}}; border: 1px solid {{.Border}};
  color: {{.Color}}; font-size: {{.Size}}pt; }
</style>
</head>
<body>
{{range .Slides}}<section id="slide-{{.Number}}"><div class="box">
{{.HTML}}</div></section>
{{end}}</body>
</html>
`))

type slideView struct {
	Number int
	HTML   template.HTML
}

type pageView struct {
	Title      string
	Font       string
	Background string
	Fill       string
	Border     string
	Color      string
	Size       float64
	X, Y, W, H float64
	Slides     []slideView
}

// Render writes an HTML page with one section per block, styled after the
// given slide style. Block content is treated as markdown.
func Render(w io.Writer, title string, blocks []deck.Block, style pptx.Style) error {
	border := "transparent"
	if style.Border != nil {
		border = style.Border.String()
	}
	view := pageView{
		Title:      title,
		Font:       style.FontFamily,
		Background: style.Background.String(),
		Fill:       style.Fill.String(),
		Border:     border,
		Color:      style.FontColor.String(),
		Size:       style.FontSize,
		X:          style.Box.X,
		Y:          style.Box.Y,
		W:          style.Box.W,
		H:          style.Box.H,
	}
	for i, b := range blocks {
		html := blackfriday.Run([]byte(b.Content()), blackfriday.WithRenderer(renderer()))
		view.Slides = append(view.Slides, slideView{
			Number: i + 1,
			HTML:   template.HTML(html),
		})
	}
	if err := pageTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	return nil
}

// renderer drops raw HTML from the model's text; only markdown is rendered.
func renderer() blackfriday.Renderer {
	return blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML,
	})
}

// WriteFile renders the preview to path, replacing any existing file. The
// page is written next to path first and renamed into place.
func WriteFile(path, title string, blocks []deck.Block, style pptx.Style) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".slidegen-*.html")
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Render(tmp, title, blocks, style); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close preview file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move preview into place: %w", err)
	}
	return nil
}
