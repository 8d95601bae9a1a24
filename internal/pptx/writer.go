package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// Deck is an in-memory presentation built slide by slide and written out as
// an Open XML package.
type Deck struct {
	Title   string
	Created time.Time
	slides  []slideData
}

type slideData struct {
	Text  string
	Style Style
}

type packageData struct {
	Title   string
	Created string
	Width   float64
	Height  float64
	Slides  []slideData
}

func NewDeck(title string) *Deck {
	return &Deck{Title: title, Created: time.Now().UTC()}
}

// AddSlide appends a slide showing text in the given style, with leading and
// trailing spaces and control characters removed.
func (d *Deck) AddSlide(text string, style Style) {
	d.slides = append(d.slides, slideData{Text: trim(text), Style: style})
}

// Len returns the number of slides added so far.
func (d *Deck) Len() int {
	return len(d.slides)
}

// Write serialises the deck to w.
func (d *Deck) Write(w io.Writer) error {
	data := packageData{
		Title:   d.Title,
		Created: d.Created.UTC().Format(time.RFC3339),
		Width:   SlideWidth,
		Height:  SlideHeight,
		Slides:  d.slides,
	}

	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		tmpl *template.Template
		raw  string
	}{
		{name: "[Content_Types].xml", tmpl: contentTypesTmpl},
		{name: "_rels/.rels", raw: rootRels},
		{name: "docProps/core.xml", tmpl: coreTmpl},
		{name: "docProps/app.xml", tmpl: appTmpl},
		{name: "ppt/presentation.xml", tmpl: presentationTmpl},
		{name: "ppt/_rels/presentation.xml.rels", tmpl: presentationRelsTmpl},
		{name: "ppt/slideMasters/slideMaster1.xml", raw: slideMaster},
		{name: "ppt/slideMasters/_rels/slideMaster1.xml.rels", raw: slideMasterRels},
		{name: "ppt/slideLayouts/slideLayout1.xml", raw: slideLayout},
		{name: "ppt/slideLayouts/_rels/slideLayout1.xml.rels", raw: slideLayoutRels},
		{name: "ppt/theme/theme1.xml", raw: theme},
		{name: "ppt/presProps.xml", raw: presProps},
		{name: "ppt/viewProps.xml", raw: viewProps},
		{name: "ppt/tableStyles.xml", raw: tableStyles},
	}

	for _, p := range parts {
		var err error
		if p.tmpl != nil {
			err = d.writeTemplate(zw, p.name, p.tmpl, data)
		} else {
			err = d.writePart(zw, p.name, []byte(p.raw))
		}
		if err != nil {
			return err
		}
	}

	for i, s := range d.slides {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		if err := d.writeTemplate(zw, name, slideTmpl, s); err != nil {
			return err
		}
		rels := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1)
		if err := d.writePart(zw, rels, []byte(slideRels)); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish pptx archive: %w", err)
	}
	return nil
}

// Save writes the deck to path, replacing any existing file. The package is
// written to a temporary file next to path first, so a failure never leaves
// a truncated deck behind.
func (d *Deck) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".slidegen-*.pptx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := d.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move deck into place: %w", err)
	}
	return nil
}

func (d *Deck) writeTemplate(zw *zip.Writer, name string, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return d.writePart(zw, name, buf.Bytes())
}

func (d *Deck) writePart(zw *zip.Writer, name string, content []byte) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: d.Created,
	})
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := fw.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}
