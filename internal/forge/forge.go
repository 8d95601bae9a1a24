// Package forge runs the generate, split, render and save pipeline.
package forge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnemet/SlideGen/internal/ai"
	"github.com/gnemet/SlideGen/internal/config"
	"github.com/gnemet/SlideGen/internal/database"
	"github.com/gnemet/SlideGen/internal/deck"
	"github.com/gnemet/SlideGen/internal/errs"
	"github.com/gnemet/SlideGen/internal/pptx"
	"github.com/gnemet/SlideGen/internal/preview"
	"github.com/google/uuid"
)

// SuccessNotice is logged and printed once a deck has been written.
const SuccessNotice = "Presentation created successfully."

const (
	LayoutPlain  = "plain"
	LayoutTitled = "titled"
)

// History records finished runs. *database.Store satisfies it.
type History interface {
	RecordRun(ctx context.Context, r *database.Run) error
}

// Job describes one run. Empty fields fall back to configuration.
type Job struct {
	Prompt     string
	Output     string
	Preview    string
	Thumbnails string
	Layout     string
}

type Result struct {
	RunID      uuid.UUID
	Output     string
	Slides     int
	Model      string
	Usage      ai.Usage
	Preview    string
	Thumbnails []string
}

type Forge struct {
	cfg     *config.Config
	gen     ai.Generator
	history History
	logger  *slog.Logger
}

// New builds a pipeline. history may be nil.
func New(cfg *config.Config, gen ai.Generator, history History, logger *slog.Logger) *Forge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Forge{cfg: cfg, gen: gen, history: history, logger: logger}
}

// Run executes the whole pipeline. Any failure aborts the run before the
// output file is replaced.
func (f *Forge) Run(ctx context.Context, job Job) (*Result, error) {
	job = f.withDefaults(job)
	if job.Layout != LayoutPlain && job.Layout != LayoutTitled {
		return nil, errs.Errorf(errs.Config, "select layout", "unknown layout %q", job.Layout)
	}
	res := &Result{RunID: uuid.New(), Output: job.Output}
	log := f.logger.With("run", res.RunID.String())

	log.Info("Generating slides", "output", job.Output, "layout", job.Layout)
	gen, err := f.gen.Generate(ctx, job.Prompt)
	if err != nil {
		return nil, err
	}
	res.Model = gen.Model
	res.Usage = gen.Usage

	blocks := deck.Split(gen.Text, f.cfg.Application.MaxLines)
	if len(blocks) == 0 {
		return nil, errs.Errorf(errs.Schema, "split slides", "no slide content")
	}
	res.Slides = len(blocks)
	log.Debug("Split generated text", "blocks", len(blocks))

	d := Render(deckTitle(blocks), blocks, job.Layout)

	// The preview goes first so a failure there leaves the existing deck alone.
	if job.Preview != "" {
		if err := preview.WriteFile(job.Preview, d.Title, blocks, pptx.DefaultStyle()); err != nil {
			return nil, errs.E(errs.IO, "write preview "+job.Preview, err)
		}
		res.Preview = job.Preview
	}

	if err := d.Save(job.Output); err != nil {
		return nil, errs.E(errs.IO, "save "+job.Output, err)
	}

	if job.Thumbnails != "" {
		thumbs, err := pptx.ExtractSlidesToPNG(job.Output, job.Thumbnails)
		if err != nil {
			log.Warn("Thumbnail generation failed", "error", err)
		} else {
			res.Thumbnails = thumbs
		}
	}

	f.record(ctx, log, job, res, blocks)

	log.Info(SuccessNotice, "output", res.Output, "slides", res.Slides,
		"model", res.Model, "total_tokens", res.Usage.TotalTokens)
	return res, nil
}

// Render lays out blocks as slides. The titled layout gives the first slide
// the title style.
func Render(title string, blocks []deck.Block, layout string) *pptx.Deck {
	d := pptx.NewDeck(title)
	for i, b := range blocks {
		style := pptx.DefaultStyle()
		if layout == LayoutTitled && i == 0 {
			style = pptx.TitleStyle()
		}
		d.AddSlide(b.Content(), style)
	}
	return d
}

func (f *Forge) record(ctx context.Context, log *slog.Logger, job Job, res *Result, blocks []deck.Block) {
	if f.history == nil {
		return
	}
	run := &database.Run{
		ID:         res.RunID,
		Prompt:     job.Prompt,
		Model:      res.Model,
		OutputPath: res.Output,
		SlideCount: res.Slides,
		Usage: &database.AIUsage{
			Provider:         "gemini",
			Model:            res.Model,
			PromptTokens:     res.Usage.PromptTokens,
			CompletionTokens: res.Usage.CompletionTokens,
			TotalTokens:      res.Usage.TotalTokens,
		},
	}
	for i, b := range blocks {
		run.Slides = append(run.Slides, database.Slide{
			SlideNum: i + 1,
			Title:    b.Title(),
			Content:  b.Content(),
		})
	}
	if err := f.history.RecordRun(ctx, run); err != nil {
		log.Error("Failed to record run history", "error", err)
	}
}

func (f *Forge) withDefaults(job Job) Job {
	app := f.cfg.Application
	if strings.TrimSpace(job.Prompt) == "" {
		job.Prompt = app.Prompt
	}
	if strings.TrimSpace(job.Prompt) == "" {
		job.Prompt = ai.DefaultPrompt
	}
	if job.Output == "" {
		job.Output = app.Output
	}
	if job.Output == "" {
		job.Output = config.DefaultOutput
	}
	if job.Layout == "" {
		job.Layout = app.Layout
	}
	if job.Layout == "" {
		job.Layout = LayoutPlain
	}
	return job
}

func deckTitle(blocks []deck.Block) string {
	if t := blocks[0].Title(); t != "" {
		return t
	}
	return fmt.Sprintf("Generated Presentation (%d slides)", len(blocks))
}
