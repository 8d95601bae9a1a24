package preview

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnemet/SlideGen/internal/deck"
	"github.com/gnemet/SlideGen/internal/pptx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOneSectionPerBlock(t *testing.T) {
	blocks := deck.Split("## Slide 1: Intro\n**Go** is fun\n## Slide 2\n- one\n- two", 10)
	require.Len(t, blocks, 2)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "Go <Deck>", blocks, pptx.DefaultStyle()))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "<section "))
	assert.Contains(t, out, `id="slide-1"`)
	assert.Contains(t, out, "<h2>Slide 1: Intro</h2>")
	assert.Contains(t, out, "<strong>Go</strong>")
	assert.Contains(t, out, "<li>two</li>")
	assert.Contains(t, out, "<title>Go &lt;Deck&gt;</title>")
	assert.Contains(t, out, "#225E7C")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.html")
	require.NoError(t, os.WriteFile(path, []byte("stale-content"), 0644))

	blocks := deck.Split("## Slide 1\nhello", 10)
	require.NoError(t, WriteFile(path, "t", blocks, pptx.TitleStyle()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.NotContains(t, string(data), "stale-content")
}

func TestRenderDropsRawHTML(t *testing.T) {
	blocks := deck.Split("## Slide 1\n<script>alert(1)</script>\n\nText <img src=x onerror=alert(2)> and **bold**", 10)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "t", blocks, pptx.DefaultStyle()))
	out := buf.String()

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestWriteFileLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preview.html")
	require.NoError(t, WriteFile(path, "t", deck.Split("x", 10), pptx.DefaultStyle()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
