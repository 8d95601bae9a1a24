package ai

import (
	"fmt"
	"strings"
)

// DefaultPrompt is sent when no topic is supplied.
const DefaultPrompt = "Enter your slide topic:. Provide a title slide and 3 content slides."

// TopicPrompt asks for a deck about topic. An empty topic yields DefaultPrompt.
func TopicPrompt(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return DefaultPrompt
	}
	return fmt.Sprintf("Slide topic: %s. Provide a title slide and 3 content slides. "+
		"Start every slide with a line of the form \"## Slide N: <title>\".", topic)
}

// Request is the generateContent request body.
type Request struct {
	Contents []Content `json:"contents"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

// NewRequest wraps prompt as a single content item with a single part.
func NewRequest(prompt string) Request {
	return Request{
		Contents: []Content{
			{Parts: []Part{{Text: prompt}}},
		},
	}
}
