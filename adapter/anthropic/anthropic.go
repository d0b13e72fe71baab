package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/JTan2231/wire"
	"github.com/JTan2231/wire/adapter"
)

const (
	defaultHost = "api.anthropic.com"
	defaultPort = 443
	defaultPath = "/v1/messages"

	// APIVersion is the anthropic-version header value sent on every request.
	APIVersion = "2023-06-01"
)

// Adapter translates canonical conversations into Anthropic Messages API
// requests and decodes Anthropic response bodies.
type Adapter struct{}

// New returns an Adapter.
func New() *Adapter {
	return &Adapter{}
}

// message.Content is either a plain string (text-only turns) or a slice of
// content blocks (tool_use / tool_result turns).
type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type textBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolUseBlock struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

type toolResultBlock struct {
	Type      string `json:"type"`
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
}

type toolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type messagesRequest struct {
	Model     string           `json:"model"`
	Messages  []message        `json:"messages"`
	Stream    bool             `json:"stream"`
	MaxTokens int              `json:"max_tokens"`
	System    string           `json:"system,omitempty"`
	Tools     []toolDefinition `json:"tools,omitempty"`
}

// BuildRequest produces a Request Descriptor for the Messages endpoint.
// Returns wire.ErrMissingCredential before any serialization when the key is
// absent.
func (a *Adapter) BuildRequest(conv wire.Conversation, tools []wire.ToolDefinition, cfg wire.ProviderConfig) (*adapter.Request, error) {
	if !cfg.HasCredential() {
		return nil, fmt.Errorf("%w: anthropic api key", wire.ErrMissingCredential)
	}
	if err := adapter.ValidateTurns(conv); err != nil {
		return nil, err
	}

	messages, err := formatMessages(conv.Turns)
	if err != nil {
		return nil, err
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = wire.DefaultMaxTokens
	}

	payload := messagesRequest{
		Model:     cfg.Model,
		Messages:  messages,
		Stream:    cfg.Stream,
		MaxTokens: maxTokens,
		System:    conv.System,
	}
	for _, t := range tools {
		payload.Tools = append(payload.Tools, toolDefinition{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Parameters,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal anthropic request: %w", err)
	}

	req := &adapter.Request{
		Method: "POST",
		Scheme: "https",
		Host:   defaultHost,
		Port:   defaultPort,
		Path:   defaultPath,
		Headers: []adapter.Header{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "x-api-key", Value: cfg.APIKey},
			{Name: "anthropic-version", Value: APIVersion},
		},
		Body: body,
	}
	req.Resolve(cfg)
	return req, nil
}

// formatMessages walks the turn sequence with a two-state scan: while
// consecutive tool-output turns arrive, their results collect into a pending
// batch; any other turn (or the end of the sequence) flushes the batch as one
// user message of tool_result blocks, preserving result order.
func formatMessages(turns []wire.Turn) ([]message, error) {
	messages := make([]message, 0, len(turns))
	var pending []toolResultBlock

	flush := func() {
		if len(pending) == 0 {
			return
		}
		messages = append(messages, message{Role: "user", Content: pending})
		pending = nil
	}

	for i, turn := range turns {
		switch turn.Role {
		case wire.RoleToolOutput:
			for _, res := range turn.ToolResults {
				pending = append(pending, toolResultBlock{
					Type:      "tool_result",
					ToolUseID: res.ToolCallID,
					Content:   res.Output,
				})
			}
		case wire.RoleUser:
			flush()
			messages = append(messages, message{Role: "user", Content: turn.Text})
		case wire.RoleAssistant:
			flush()
			if len(turn.ToolCalls) == 0 {
				messages = append(messages, message{Role: "assistant", Content: turn.Text})
				continue
			}
			// No empty text block when the turn is tool_use only.
			blocks := make([]any, 0, len(turn.ToolCalls)+1)
			if turn.Text != "" {
				blocks = append(blocks, textBlock{Type: "text", Text: turn.Text})
			}
			for _, call := range turn.ToolCalls {
				input := call.Arguments
				if len(input) == 0 {
					input = json.RawMessage(`null`)
				}
				blocks = append(blocks, toolUseBlock{
					Type:  "tool_use",
					ID:    call.ID,
					Name:  call.Name,
					Input: input,
				})
			}
			messages = append(messages, message{Role: "assistant", Content: blocks})
		default:
			return nil, fmt.Errorf("%w: turn %d has unsupported role %q", wire.ErrInvalidTurnSequence, i, turn.Role)
		}
	}
	flush()

	return messages, nil
}

// DecodeResponse extracts the generated text from an Anthropic Messages
// response body, joining every text block in order so fragments are never
// dropped.
func (a *Adapter) DecodeResponse(body []byte) (*adapter.Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: anthropic", wire.ErrInvalidEnvelope)
	}
	content := gjson.GetBytes(body, "content")
	if !content.Exists() || !content.IsArray() {
		return nil, &wire.MissingFieldError{Provider: "anthropic", Path: "content"}
	}
	var text string
	found := false
	for _, block := range content.Array() {
		if block.Get("type").String() != "text" {
			continue
		}
		t := block.Get("text")
		if !t.Exists() {
			continue
		}
		found = true
		text += t.String()
	}
	if !found {
		return nil, &wire.MissingFieldError{Provider: "anthropic", Path: "content.0.text"}
	}
	if text == "" {
		return nil, fmt.Errorf("%w: anthropic", wire.ErrEmptyResponse)
	}
	return &adapter.Response{Text: text}, nil
}

var _ adapter.ProviderAdapter = (*Adapter)(nil)
