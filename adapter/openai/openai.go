package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/JTan2231/wire"
	"github.com/JTan2231/wire/adapter"
)

const (
	defaultHost = "api.openai.com"
	defaultPort = 443
	defaultPath = "/v1/chat/completions"

	textPath = "choices.0.message.content"
)

// Adapter translates canonical conversations into OpenAI chat-completion
// requests and decodes OpenAI response bodies.
type Adapter struct{}

// New returns an Adapter.
func New() *Adapter {
	return &Adapter{}
}

type chatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type toolDefinition struct {
	Type     string       `json:"type"`
	Function functionSpec `json:"function"`
}

type functionSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type chatRequest struct {
	Model           string           `json:"model"`
	Messages        []chatMessage    `json:"messages"`
	Stream          bool             `json:"stream"`
	ReasoningEffort string           `json:"reasoning_effort,omitempty"`
	Tools           []toolDefinition `json:"tools,omitempty"`
}

// BuildRequest produces a Request Descriptor for the chat completions
// endpoint. The emitted messages array mirrors conversation turn order
// exactly; the system instruction, when present, leads as a system message.
// A tool-output turn expands to one role "tool" message per result so each
// message carries the call ID it answers.
func (a *Adapter) BuildRequest(conv wire.Conversation, tools []wire.ToolDefinition, cfg wire.ProviderConfig) (*adapter.Request, error) {
	if !cfg.HasCredential() {
		return nil, fmt.Errorf("%w: openai api key", wire.ErrMissingCredential)
	}
	if err := adapter.ValidateTurns(conv); err != nil {
		return nil, err
	}

	messages := make([]chatMessage, 0, len(conv.Turns)+1)
	if conv.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: conv.System})
	}
	for i, turn := range conv.Turns {
		switch turn.Role {
		case wire.RoleUser:
			messages = append(messages, chatMessage{Role: "user", Content: turn.Text})
		case wire.RoleAssistant:
			msg := chatMessage{Role: "assistant", Content: turn.Text}
			for _, call := range turn.ToolCalls {
				msg.ToolCalls = append(msg.ToolCalls, toolCall{
					ID:   call.ID,
					Type: "function",
					Function: toolFunction{
						Name:      call.Name,
						Arguments: string(call.Arguments),
					},
				})
			}
			messages = append(messages, msg)
		case wire.RoleToolOutput:
			for _, res := range turn.ToolResults {
				messages = append(messages, chatMessage{
					Role:       "tool",
					Content:    res.Output,
					ToolCallID: res.ToolCallID,
				})
			}
		default:
			return nil, fmt.Errorf("%w: turn %d has unsupported role %q", wire.ErrInvalidTurnSequence, i, turn.Role)
		}
	}

	payload := chatRequest{
		Model:    cfg.Model,
		Messages: messages,
		Stream:   cfg.Stream,
	}
	if cfg.Thinking != "" && strings.HasPrefix(cfg.Model, "gpt-5") {
		payload.ReasoningEffort = string(cfg.Thinking)
	}
	for _, t := range tools {
		payload.Tools = append(payload.Tools, toolDefinition{
			Type: "function",
			Function: functionSpec{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal openai request: %w", err)
	}

	req := &adapter.Request{
		Method: "POST",
		Scheme: "https",
		Host:   defaultHost,
		Port:   defaultPort,
		Path:   defaultPath,
		Headers: []adapter.Header{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "Authorization", Value: "Bearer " + cfg.APIKey},
		},
		Body: body,
	}
	req.Resolve(cfg)
	return req, nil
}

// DecodeResponse extracts the generated text from an OpenAI chat completion
// body. A missing selector node is reported, never defaulted to empty text.
func (a *Adapter) DecodeResponse(body []byte) (*adapter.Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: openai", wire.ErrInvalidEnvelope)
	}
	content := gjson.GetBytes(body, textPath)
	if !content.Exists() || content.Type == gjson.Null {
		return nil, &wire.MissingFieldError{Provider: "openai", Path: textPath}
	}
	text := content.String()
	if text == "" {
		return nil, fmt.Errorf("%w: openai", wire.ErrEmptyResponse)
	}
	return &adapter.Response{Text: text}, nil
}

var _ adapter.ProviderAdapter = (*Adapter)(nil)
