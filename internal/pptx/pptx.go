// Package pptx writes generated decks as Open XML presentations and reads
// them back for inspection.
package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ExtractSlidesToPNG converts a PPTX file to a series of PNG images using LibreOffice and pdftoppm.
func ExtractSlidesToPNG(pptxPath, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %v", err)
	}

	taskDir, err := os.MkdirTemp("", "slidegen_pdf_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp pdf dir: %v", err)
	}
	defer os.RemoveAll(taskDir)

	// Step 1: PPTX to PDF using LibreOffice
	cmd := exec.Command("libreoffice", "--headless", "--convert-to", "pdf", "--outdir", taskDir, pptxPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("libreoffice conversion failed: %v (output: %s)", err, string(output))
	}

	pdfName := filepath.Base(pptxPath)
	pdfName = pdfName[:len(pdfName)-len(filepath.Ext(pdfName))] + ".pdf"
	pdfPath := filepath.Join(taskDir, pdfName)

	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		var foundFiles []string
		if entries, err := os.ReadDir(taskDir); err == nil {
			for _, entry := range entries {
				foundFiles = append(foundFiles, entry.Name())
			}
		}
		return nil, fmt.Errorf("pdf file not found after conversion: %v (expected %s, found: %v)", pdfPath, pdfName, foundFiles)
	}

	// Step 2: PDF to PNG using pdftoppm
	outputBase := filepath.Join(outputDir, "slide")
	cmd = exec.Command("pdftoppm", "-png", "-rx", "150", "-ry", "150", pdfPath, outputBase)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm conversion failed: %v", err)
	}

	// Step 3: Rename slide-N.png to slide-000N.png for better sorting
	files, err := filepath.Glob(filepath.Join(outputDir, "slide-*.png"))
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if newPath, ok := paddedThumbName(f); ok && newPath != f {
			os.Rename(f, newPath)
		}
	}

	finalFiles, _ := filepath.Glob(filepath.Join(outputDir, "slide-*.png"))
	sort.Strings(finalFiles)

	return finalFiles, nil
}

var thumbRe = regexp.MustCompile(`slide-(\d+)\.png$`)

func paddedThumbName(path string) (string, bool) {
	matches := thumbRe.FindStringSubmatch(path)
	if len(matches) < 2 {
		return "", false
	}
	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return "", false
	}
	return filepath.Join(filepath.Dir(path), fmt.Sprintf("slide-%04d.png", num)), true
}

// SlideData holds extracted text and layout information for a slide.
type SlideData struct {
	SlideNumber int     `json:"slide_number"`
	Text        string  `json:"text"`
	Background  string  `json:"background,omitempty"`
	Shapes      []Shape `json:"shapes"`
}

type Shape struct {
	Type        string    `json:"type"` // title | body | textbox | other
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	W           float64   `json:"w"`
	H           float64   `json:"h"`
	Fill        string    `json:"fill,omitempty"`
	Line        string    `json:"line,omitempty"`
	LineSpacing float64   `json:"line_spacing,omitempty"` // percent
	Runs        []TextRun `json:"runs"`
}

// Text concatenates the shape's runs.
func (s Shape) Text() string {
	var sb strings.Builder
	for _, r := range s.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

type TextRun struct {
	Text  string  `json:"text"`
	Bold  bool    `json:"bold,omitempty"`
	Size  float64 `json:"size,omitempty"` // pt
	Font  string  `json:"font,omitempty"`
	Color string  `json:"color,omitempty"`
}

// ExtractSlideContent reads every slide of the PPTX at pptxPath, ordered by
// slide number.
func ExtractSlideContent(pptxPath string) ([]SlideData, error) {
	r, err := zip.OpenReader(pptxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return ReadSlides(&r.Reader)
}

// ReadSlides extracts slides from an already opened package.
func ReadSlides(r *zip.Reader) ([]SlideData, error) {
	var result []SlideData

	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, "ppt/slides/slide") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		// ppt/slides/slide1.xml -> 1
		numStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(f.Name), "slide"), ".xml")
		slideNum, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		slide, err := parseSlideXML(rc, slideNum)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name, err)
		}
		result = append(result, *slide)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].SlideNumber < result[j].SlideNumber })
	return result, nil
}

func parseSlideXML(r io.Reader, index int) (*SlideData, error) {
	dec := xml.NewDecoder(r)

	slide := &SlideData{SlideNumber: index}
	var textBuilder strings.Builder

	var currentShape *Shape
	var currentRun *TextRun
	var inBg, inSpPr, inLn bool

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {

		case xml.StartElement:
			switch el.Name.Local {

			case "bg":
				inBg = true

			case "sp": // shape
				currentShape = &Shape{Type: "other"}

			case "cNvSpPr":
				if currentShape != nil && attr(el, "txBox") == "1" && currentShape.Type == "other" {
					currentShape.Type = "textbox"
				}

			case "ph": // placeholder (title/body)
				if currentShape != nil {
					currentShape.Type = normalizePlaceholder(attr(el, "type"))
				}

			case "spPr":
				inSpPr = true

			case "ln":
				inLn = true

			case "off":
				if currentShape != nil && inSpPr {
					currentShape.X = points(attr(el, "x"))
					currentShape.Y = points(attr(el, "y"))
				}

			case "ext":
				if currentShape != nil && inSpPr {
					currentShape.W = points(attr(el, "cx"))
					currentShape.H = points(attr(el, "cy"))
				}

			case "spcPct":
				if currentShape != nil {
					if v, err := strconv.Atoi(attr(el, "val")); err == nil {
						currentShape.LineSpacing = float64(v) / 1000
					}
				}

			case "r": // text run
				currentRun = &TextRun{}

			case "rPr": // run formatting
				if currentRun != nil {
					currentRun.Bold = attr(el, "b") == "1"
					if sz, err := strconv.Atoi(attr(el, "sz")); err == nil {
						currentRun.Size = float64(sz) / 100 // 1/100 pt
					}
				}

			case "latin": // font family
				if currentRun != nil {
					currentRun.Font = attr(el, "typeface")
				}

			case "srgbClr": // color
				color := "#" + attr(el, "val")
				switch {
				case currentRun != nil:
					currentRun.Color = color
				case inBg:
					slide.Background = color
				case currentShape != nil && inLn:
					currentShape.Line = color
				case currentShape != nil && inSpPr:
					currentShape.Fill = color
				}

			case "t": // actual text
				if currentRun != nil {
					var text string
					if err := dec.DecodeElement(&text, &el); err == nil {
						currentRun.Text = text
					}
				}
			}

		case xml.EndElement:
			switch el.Name.Local {

			case "bg":
				inBg = false

			case "spPr":
				inSpPr = false

			case "ln":
				inLn = false

			case "r":
				if currentShape != nil && currentRun != nil && currentRun.Text != "" {
					currentShape.Runs = append(currentShape.Runs, *currentRun)
					textBuilder.WriteString(currentRun.Text)
					textBuilder.WriteString(" ")
				}
				currentRun = nil

			case "sp":
				if currentShape != nil {
					slide.Shapes = append(slide.Shapes, *currentShape)
				}
				currentShape = nil
			}
		}
	}

	slide.Text = strings.TrimSpace(textBuilder.String())
	return slide, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func points(emuStr string) float64 {
	v, err := strconv.ParseInt(emuStr, 10, 64)
	if err != nil {
		return 0
	}
	return float64(v) / emuPerPoint
}

func normalizePlaceholder(ph string) string {
	switch ph {
	case "title", "ctrTitle":
		return "title"
	case "body", "":
		return "body"
	default:
		return "other"
	}
}
