package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gnemet/SlideGen/internal/config"
	"github.com/gnemet/SlideGen/internal/errs"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// SDKClient generates slide text through the official Go SDK.
type SDKClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewSDKClient(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (*SDKClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" && cfg.Endpoint != config.DefaultEndpoint {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
		opts = append(opts, option.WithEndpoint(strings.TrimRight(host, "/")))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, errs.E(errs.Config, "create gemini sdk client", err)
	}
	return &SDKClient{client: client, model: cfg.Model, timeout: cfg.Timeout, logger: logger}, nil
}

func (c *SDKClient) Generate(ctx context.Context, prompt string) (*Generation, error) {
	const op = "call gemini sdk"

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return nil, errs.E(errs.Schema, op, err)
		}
		return nil, errs.E(errs.Network, op, err)
	}

	text, err := sdkText(resp)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "gemini response", "model", c.model, "chars", len(text))

	gen := &Generation{Text: text, Model: c.model}
	if u := resp.UsageMetadata; u != nil {
		gen.Usage = Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return gen, nil
}

func (c *SDKClient) Close() error {
	return c.client.Close()
}

// sdkText applies the same first-candidate, first-part rule as Response.Text.
func sdkText(resp *genai.GenerateContentResponse) (string, error) {
	const op = "extract slide text"
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errs.E(errs.Schema, op, ErrNoCandidates)
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", errs.E(errs.Schema, op, ErrNoParts)
	}
	text, ok := content.Parts[0].(genai.Text)
	if !ok {
		return "", errs.E(errs.Schema, op, ErrNoText)
	}
	return string(text), nil
}
