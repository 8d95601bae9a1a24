package ai

import (
	"encoding/json"
	"errors"

	"github.com/gnemet/SlideGen/internal/errs"
)

var (
	// ErrNoCandidates is returned when the response carries no candidates.
	ErrNoCandidates = errors.New("no candidates")

	// ErrNoParts is returned when the first candidate carries no parts.
	ErrNoParts = errors.New("no parts")

	// ErrNoText is returned when the first part has no text field.
	ErrNoText = errors.New("no text")
)

// Response mirrors the subset of the generateContent response we read.
type Response struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
}

type Candidate struct {
	Content      *CandidateContent `json:"content"`
	FinishReason string            `json:"finishReason,omitempty"`
}

type CandidateContent struct {
	Parts []ResponsePart `json:"parts"`
}

type ResponsePart struct {
	Text *string `json:"text"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// ParseResponse decodes body. Malformed JSON is a parse error.
func ParseResponse(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errs.E(errs.Parse, "decode gemini response", err)
	}
	return &resp, nil
}

// Text returns candidates[0].content.parts[0].text. Later candidates and
// parts are ignored.
func (r *Response) Text() (string, error) {
	const op = "extract slide text"
	if len(r.Candidates) == 0 {
		return "", errs.E(errs.Schema, op, ErrNoCandidates)
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", errs.E(errs.Schema, op, ErrNoParts)
	}
	text := content.Parts[0].Text
	if text == nil {
		return "", errs.E(errs.Schema, op, ErrNoText)
	}
	return *text, nil
}

// Usage converts usageMetadata; absent metadata yields zeros.
func (r *Response) Usage() Usage {
	if r.UsageMetadata == nil {
		return Usage{}
	}
	return Usage{
		PromptTokens:     r.UsageMetadata.PromptTokenCount,
		CompletionTokens: r.UsageMetadata.CandidatesTokenCount,
		TotalTokens:      r.UsageMetadata.TotalTokenCount,
	}
}

// ExtractText parses body and returns the generated slide text.
func ExtractText(body []byte) (string, error) {
	resp, err := ParseResponse(body)
	if err != nil {
		return "", err
	}
	return resp.Text()
}
