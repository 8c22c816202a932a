// Package relay forwards a user message to a completion API and returns the
// assistant's reply text.
package relay

import (
	"context"
	"fmt"
)

// DefaultSystemPrompt is the persona and policy instruction sent with every request.
const DefaultSystemPrompt = "You are Aliya Buddy, a warm, knowledgeable assistant helping people navigate the journey of making Aliyah to Israel. " +
	"Provide detailed, helpful answers (6–10 sentences) that are conversational but information-rich. " +
	"Whenever possible, include links to reliable sources such as Israeli government Aliyah resources, Nefesh B’Nefesh, Numbeo for cost of living, or Aliya Financial. " +
	"Every single response must end with a friendly, relevant follow-up question. Do not omit this under any circumstances. " +
	"If a user asks about financial, tax, or investment matters, do not answer — instead, direct them to schedule a consultation with Aliya Financial."

type Relay interface {
	// Configured reports whether a credential is available. Complete must not
	// be called otherwise.
	Configured() bool
	// Complete sends message with the system prompt and returns the trimmed
	// reply. A reply without content yields "".
	Complete(ctx context.Context, message string) (string, error)
}

// Options are the sampling parameters shared by every provider.
type Options struct {
	Model        string
	Temperature  float32
	MaxTokens    int
	SystemPrompt string
}

func (o Options) systemPrompt() string {
	if o.SystemPrompt == "" {
		return DefaultSystemPrompt
	}
	return o.SystemPrompt
}

// UpstreamError is a non-success response from the completion API. Body is
// the raw response body, passed on to the caller unchanged.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}
