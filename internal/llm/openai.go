package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Turn is a minimal chat message passed to the completion service.
// Role must be one of: "system", "user", or "assistant".
type Turn struct {
	Role    string
	Content string
}

// ErrUnavailable marks a transport-level failure of the completion service
// (network error, timeout, empty response).  Callers use it to tell service
// failure apart from a well-formed but nonsensical completion.
var ErrUnavailable = errors.New("completion service unavailable")

// Client is the narrow interface the triage core needs from a
// text-completion service.  Complete sends a system instruction plus ordered
// conversation turns and returns the raw completion text.  When wantJSON is
// set the service is asked to reply with a JSON object.
type Client interface {
	Complete(ctx context.Context, system string, turns []Turn, wantJSON bool) (string, error)
}

// OpenAIClient calls the OpenAI chat completion API.  Construction is an
// explicit configuration decision: callers that have no API key build a
// rule-based assessor instead of this client.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient constructs an OpenAI-backed completion client.  The timeout
// bounds every Complete call; zero means 15 seconds.
func NewOpenAIClient(apiKey, model string, timeout time.Duration) *OpenAIClient {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenAIClient{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Complete sends the instruction and turns to the chat completion API and
// returns the assistant's reply.  Transport failures and empty replies are
// wrapped in ErrUnavailable.
func (c *OpenAIClient) Complete(ctx context.Context, system string, turns []Turn, wantJSON bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msgs := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, turn := range turns {
		role := turn.Role
		if role != openai.ChatMessageRoleSystem && role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			// coerce anything unknown to user
			role = openai.ChatMessageRoleUser
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: 0.2,
	}
	if wantJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}
