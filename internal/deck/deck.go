// Package deck cuts generated slide text into slide-sized blocks.
package deck

import (
	"strings"
)

const (
	// Marker opens a logical slide section in the generated text.
	Marker = "## Slide"

	// DefaultMaxLines caps the lines that go on one physical slide.
	DefaultMaxLines = 10
)

// Block is the run of lines destined for a single slide.
type Block struct {
	Lines []string
}

// String returns the lines as accumulated, each followed by a newline.
func (b Block) String() string {
	var sb strings.Builder
	for _, l := range b.Lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Content is the text placed on the slide.
func (b Block) Content() string {
	return Trim(b.String())
}

// Title is the first line without its markdown heading markers.
func (b Block) Title() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimLeft(b.Lines[0], "#"))
}

// Sections splits text immediately before every Marker. The marker stays at
// the head of the following section; text before the first marker is its
// own section.
func Sections(text string) []string {
	var out []string
	start := 0
	for start < len(text) {
		i := strings.Index(text[start+1:], Marker)
		if i < 0 {
			break
		}
		cut := start + 1 + i
		out = append(out, text[start:cut])
		start = cut
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// Split turns generated text into slide blocks. Each section is trimmed and
// dropped if empty; its lines are then packed maxLines at a time, so a long
// section spills over onto several slides. maxLines <= 0 means
// DefaultMaxLines.
func Split(text string, maxLines int) []Block {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	var blocks []Block
	for _, section := range Sections(text) {
		section = Trim(section)
		if section == "" {
			continue
		}

		var current []string
		for _, line := range strings.Split(section, "\n") {
			if len(current) >= maxLines {
				blocks = append(blocks, Block{Lines: current})
				current = nil
			}
			current = append(current, line)
		}
		if len(current) > 0 {
			blocks = append(blocks, Block{Lines: current})
		}
	}
	return blocks
}

// Trim strips leading and trailing runes at or below U+0020 (ASCII space and
// control characters). Other whitespace such as U+00A0 is kept.
func Trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}
