package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gnemet/SlideGen/internal/config"
	"github.com/gnemet/SlideGen/internal/errs"
)

// Client calls generateContent over plain HTTPS with the key in the query
// string.
type Client struct {
	apiKey   string
	endpoint string
	model    string
	http     *http.Client
	logger   *slog.Logger
}

func NewRESTClient(cfg config.GeminiConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

// URL is the generateContent address for the configured model, key included.
func (c *Client) URL() string {
	q := url.Values{"key": {c.apiKey}}
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s", c.endpoint, c.model, q.Encode())
}

// Send posts req and returns the raw response body. Any non-2xx status is a
// network error; the body is still logged so the API's message is visible.
func (c *Client) Send(ctx context.Context, req Request) ([]byte, error) {
	const op = "call gemini"

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errs.E(errs.Network, op, fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(payload))
	if err != nil {
		return nil, errs.E(errs.Network, op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.DebugContext(ctx, "sending gemini request", "model", c.model, "bytes", len(payload))
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errs.E(errs.Network, op, redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.E(errs.Network, op, fmt.Errorf("read body: %w", err))
	}
	c.logger.InfoContext(ctx, "gemini response", "status", resp.StatusCode, "body", string(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.Errorf(errs.Network, op, "unexpected status %d: %s", resp.StatusCode, snippet(body))
	}
	return body, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (*Generation, error) {
	body, err := c.Send(ctx, NewRequest(prompt))
	if err != nil {
		return nil, err
	}
	resp, err := ParseResponse(body)
	if err != nil {
		return nil, err
	}
	text, err := resp.Text()
	if err != nil {
		return nil, err
	}

	model := resp.ModelVersion
	if model == "" {
		model = c.model
	}
	return &Generation{Text: text, Model: model, Usage: resp.Usage()}, nil
}

// redact keeps the credential out of transport errors, which embed the URL.
func redact(err error, key string) error {
	var uerr *url.Error
	if key != "" && errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, url.QueryEscape(key), "REDACTED")
	}
	return err
}

func snippet(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
