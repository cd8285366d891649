package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its response. When the
	// request carries a Schema, the provider uses its native structured
	// output mechanism and the returned Content is validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System sets the model's role and grading rules.
	System string

	// Messages is the conversation history. Quizvox only issues
	// single-turn requests, so this is usually one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0. It is always
	// sent, so 0 asks for the most repeatable reply the backend offers.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is shorthand for a single user turn.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema. Kebab-case, e.g. "answer-grade".
	Name string

	// Description is sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output; validated JSON when a Schema was set.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "refused".
	StopReason string
}

// Decode unmarshals the response content into v. Malformed content is
// reported as *ErrInvalidResponse.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Normalized stop reasons.
const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
	stopRefused   = "refused"
)

// finish applies the checks every backend shares to a decoded reply: a
// reply cut at MaxTokens is an error, a refusal is treated as a malformed
// reply, and a schema request must match.
func finish(req Request, resp *Response) (*Response, error) {
	switch resp.StopReason {
	case stopMaxTokens:
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	case stopRefused:
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("model refused to answer")}
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}
