// Package ai talks to the Gemini generateContent API and turns its answer
// into the plain slide text the rest of the pipeline works on.
package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnemet/SlideGen/internal/config"
	"github.com/gnemet/SlideGen/internal/errs"
)

// Generator produces slide text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Generation, error)
}

// Generation is the text of the first candidate plus accounting data.
type Generation struct {
	Text  string
	Model string
	Usage Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// NewClient picks the transport named by cfg.Driver.
func NewClient(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (Generator, error) {
	switch cfg.Driver {
	case "", "rest":
		return NewRESTClient(cfg, logger), nil
	case "sdk":
		return NewSDKClient(ctx, cfg, logger)
	default:
		return nil, errs.E(errs.Config, "select AI driver", fmt.Errorf("unknown driver %q", cfg.Driver))
	}
}
