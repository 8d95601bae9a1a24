package forge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnemet/SlideGen/internal/ai"
	"github.com/gnemet/SlideGen/internal/config"
	"github.com/gnemet/SlideGen/internal/database"
	"github.com/gnemet/SlideGen/internal/errs"
	"github.com/gnemet/SlideGen/internal/logger"
	"github.com/gnemet/SlideGen/internal/pptx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (*ai.Generation, error) {
	g.prompt = prompt
	if g.err != nil {
		return nil, g.err
	}
	return &ai.Generation{
		Text:  g.text,
		Model: "gemini-test",
		Usage: ai.Usage{PromptTokens: 3, CompletionTokens: 4, TotalTokens: 7},
	}, nil
}

type fakeHistory struct {
	runs []*database.Run
	err  error
}

func (h *fakeHistory) RecordRun(_ context.Context, r *database.Run) error {
	h.runs = append(h.runs, r)
	return h.err
}

func testConfig() *config.Config {
	return &config.Config{
		Application: config.ApplicationConfig{
			Output:   config.DefaultOutput,
			MaxLines: 10,
			Layout:   LayoutPlain,
		},
	}
}

const threeSlides = "## Slide 1: Go\nWhy Go\n## Slide 2: Tools\n- go vet\n## Slide 3: End\nThanks"

func TestRunWritesOneSlidePerBlock(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.pptx")
	gen := &fakeGenerator{text: threeSlides}
	hist := &fakeHistory{}

	res, err := New(testConfig(), gen, hist, logger.Discard()).Run(context.Background(), Job{Output: out})
	require.NoError(t, err)

	assert.Equal(t, ai.DefaultPrompt, gen.prompt)
	assert.Equal(t, 3, res.Slides)
	assert.Equal(t, out, res.Output)
	assert.Equal(t, 7, res.Usage.TotalTokens)

	slides, err := pptx.ExtractSlideContent(out)
	require.NoError(t, err)
	require.Len(t, slides, 3)
	assert.Equal(t, "## Slide 2: Tools\n- go vet", slides[1].Shapes[0].Text())
	assert.Equal(t, 110.0, slides[0].Shapes[0].LineSpacing)

	require.Len(t, hist.runs, 1)
	run := hist.runs[0]
	assert.Equal(t, res.RunID, run.ID)
	assert.Equal(t, 3, run.SlideCount)
	require.Len(t, run.Slides, 3)
	assert.Equal(t, "Slide 3: End", run.Slides[2].Title)
	assert.Equal(t, "gemini-test", run.Usage.Model)
}

func TestRunUsesConfiguredPrompt(t *testing.T) {
	cfg := testConfig()
	cfg.Application.Prompt = "Kubernetes basics"
	gen := &fakeGenerator{text: threeSlides}

	_, err := New(cfg, gen, nil, logger.Discard()).Run(context.Background(), Job{Output: filepath.Join(t.TempDir(), "a.pptx")})
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes basics", gen.prompt)

	_, err = New(cfg, gen, nil, logger.Discard()).Run(context.Background(), Job{
		Prompt: "explicit",
		Output: filepath.Join(t.TempDir(), "b.pptx"),
	})
	require.NoError(t, err)
	assert.Equal(t, "explicit", gen.prompt)
}

func TestRunTitledLayout(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.pptx")
	_, err := New(testConfig(), &fakeGenerator{text: threeSlides}, nil, logger.Discard()).
		Run(context.Background(), Job{Output: out, Layout: LayoutTitled})
	require.NoError(t, err)

	slides, err := pptx.ExtractSlideContent(out)
	require.NoError(t, err)
	assert.Equal(t, 400.0, slides[0].Shapes[0].H)
	assert.Equal(t, 500.0, slides[1].Shapes[0].H)
}

func TestRunRejectsUnknownLayout(t *testing.T) {
	gen := &fakeGenerator{text: threeSlides}
	_, err := New(testConfig(), gen, nil, logger.Discard()).Run(context.Background(), Job{Layout: "fancy"})
	assert.True(t, errs.Is(err, errs.Config))
	assert.Empty(t, gen.prompt, "generator must not be called")
}

func TestRunNoSlideContent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.pptx")
	_, err := New(testConfig(), &fakeGenerator{text: " \n\t "}, nil, logger.Discard()).
		Run(context.Background(), Job{Output: out})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Schema))
	assert.Contains(t, err.Error(), "no slide content")
	assert.NoFileExists(t, out)
}

func TestRunGeneratorFailureLeavesExistingFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.pptx")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0644))

	gen := &fakeGenerator{err: errs.E(errs.Network, "call gemini", errors.New("connection refused"))}
	_, err := New(testConfig(), gen, nil, logger.Discard()).Run(context.Background(), Job{Output: out})
	assert.True(t, errs.Is(err, errs.Network))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestRunSaveFailureIsIOError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := New(testConfig(), &fakeGenerator{text: threeSlides}, nil, logger.Discard()).
		Run(context.Background(), Job{Output: filepath.Join(blocker, "deck.pptx")})
	assert.True(t, errs.Is(err, errs.IO))
}

func TestRunHistoryFailureDoesNotFailRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "deck.pptx")
	hist := &fakeHistory{err: errors.New("db down")}
	res, err := New(testConfig(), &fakeGenerator{text: threeSlides}, hist, logger.Discard()).
		Run(context.Background(), Job{Output: out})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Slides)
	assert.FileExists(t, out)
}

func TestRunWritesPreview(t *testing.T) {
	dir := t.TempDir()
	res, err := New(testConfig(), &fakeGenerator{text: threeSlides}, nil, logger.Discard()).
		Run(context.Background(), Job{Output: filepath.Join(dir, "deck.pptx"), Preview: filepath.Join(dir, "deck.html")})
	require.NoError(t, err)

	data, err := os.ReadFile(res.Preview)
	require.NoError(t, err)
	assert.Contains(t, string(data), `id="slide-3"`)
}

func TestRenderSplitsLongSections(t *testing.T) {
	text := "## Slide 1\n"
	for i := 0; i < 22; i++ {
		text += "line\n"
	}
	out := filepath.Join(t.TempDir(), "deck.pptx")
	res, err := New(testConfig(), &fakeGenerator{text: text}, nil, logger.Discard()).
		Run(context.Background(), Job{Output: out})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Slides)
}

func TestRunPreviewFailureKeepsExistingDeck(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "deck.pptx")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0644))

	_, err := New(testConfig(), &fakeGenerator{text: threeSlides}, nil, logger.Discard()).
		Run(context.Background(), Job{Output: out, Preview: filepath.Join(dir, "missing", "deck.html")})
	assert.True(t, errs.Is(err, errs.IO))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}
