package gemini

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/JTan2231/wire"
	"github.com/JTan2231/wire/adapter"
)

const (
	defaultHost = "generativelanguage.googleapis.com"
	defaultPort = 443
)

// Adapter translates canonical conversations into Gemini generateContent
// requests and decodes Gemini response bodies.
type Adapter struct{}

// New returns an Adapter.
func New() *Adapter {
	return &Adapter{}
}

type part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *functionCall     `json:"functionCall,omitempty"`
	FunctionResponse *functionResponse `json:"functionResponse,omitempty"`
}

type functionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type functionResponse struct {
	Name     string         `json:"name"`
	Response responseResult `json:"response"`
}

type responseResult struct {
	Result string `json:"result"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type systemInstruction struct {
	Parts []part `json:"parts"`
}

type functionDeclaration struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type toolEntry struct {
	FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
}

type generateRequest struct {
	Contents          []content          `json:"contents"`
	SystemInstruction *systemInstruction `json:"system_instruction,omitempty"`
	Tools             []toolEntry        `json:"tools,omitempty"`
}

// path selects the endpoint by streaming flag.
func path(model string, stream bool) string {
	verb := "generateContent"
	if stream {
		verb = "streamGenerateContent"
	}
	return fmt.Sprintf("/v1beta/models/%s:%s", model, verb)
}

// BuildRequest produces a Request Descriptor for the generateContent
// endpoint. The API key is appended as the key query parameter; the system
// instruction occupies the dedicated top-level field and is never inlined as
// a turn.
func (a *Adapter) BuildRequest(conv wire.Conversation, tools []wire.ToolDefinition, cfg wire.ProviderConfig) (*adapter.Request, error) {
	if !cfg.HasCredential() {
		return nil, fmt.Errorf("%w: gemini api key", wire.ErrMissingCredential)
	}
	if err := adapter.ValidateTurns(conv); err != nil {
		return nil, err
	}

	contents := make([]content, 0, len(conv.Turns))
	for i, turn := range conv.Turns {
		switch turn.Role {
		case wire.RoleUser:
			contents = append(contents, content{Role: "user", Parts: []part{{Text: turn.Text}}})
		case wire.RoleAssistant:
			parts := make([]part, 0, len(turn.ToolCalls)+1)
			if turn.Text != "" || len(turn.ToolCalls) == 0 {
				parts = append(parts, part{Text: turn.Text})
			}
			for _, call := range turn.ToolCalls {
				args := call.Arguments
				if len(args) == 0 {
					args = json.RawMessage(`{}`)
				}
				parts = append(parts, part{FunctionCall: &functionCall{Name: call.Name, Args: args}})
			}
			contents = append(contents, content{Role: "model", Parts: parts})
		case wire.RoleToolOutput:
			parts := make([]part, 0, len(turn.ToolResults))
			for _, res := range turn.ToolResults {
				name := res.Name
				if name == "" {
					name = res.ToolCallID
				}
				parts = append(parts, part{FunctionResponse: &functionResponse{
					Name:     name,
					Response: responseResult{Result: res.Output},
				}})
			}
			contents = append(contents, content{Role: "user", Parts: parts})
		default:
			return nil, fmt.Errorf("%w: turn %d has unsupported role %q", wire.ErrInvalidTurnSequence, i, turn.Role)
		}
	}

	payload := generateRequest{Contents: contents}
	if conv.System != "" {
		payload.SystemInstruction = &systemInstruction{Parts: []part{{Text: conv.System}}}
	}
	if len(tools) > 0 {
		entry := toolEntry{FunctionDeclarations: make([]functionDeclaration, 0, len(tools))}
		for _, t := range tools {
			entry.FunctionDeclarations = append(entry.FunctionDeclarations, functionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			})
		}
		payload.Tools = []toolEntry{entry}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal gemini request: %w", err)
	}

	req := &adapter.Request{
		Method: "POST",
		Scheme: "https",
		Host:   defaultHost,
		Port:   defaultPort,
		Path:   path(cfg.Model, cfg.Stream),
		Query:  []adapter.QueryParam{{Key: "key", Value: url.QueryEscape(cfg.APIKey)}},
		Headers: []adapter.Header{
			{Name: "Content-Type", Value: "application/json"},
		},
		Body: body,
	}
	req.Resolve(cfg)
	return req, nil
}

// DecodeResponse extracts the generated text from a generateContent response
// body, joining the text of every part in the first candidate so fragments
// are never dropped.
func (a *Adapter) DecodeResponse(body []byte) (*adapter.Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: gemini", wire.ErrInvalidEnvelope)
	}
	parts := gjson.GetBytes(body, "candidates.0.content.parts")
	if !parts.Exists() || !parts.IsArray() {
		return nil, &wire.MissingFieldError{Provider: "gemini", Path: "candidates.0.content.parts"}
	}
	var text string
	found := false
	for _, p := range parts.Array() {
		t := p.Get("text")
		if !t.Exists() {
			continue
		}
		found = true
		text += t.String()
	}
	if !found {
		return nil, &wire.MissingFieldError{Provider: "gemini", Path: "candidates.0.content.parts.0.text"}
	}
	if text == "" {
		return nil, fmt.Errorf("%w: gemini", wire.ErrEmptyResponse)
	}
	return &adapter.Response{Text: text}, nil
}

var _ adapter.ProviderAdapter = (*Adapter)(nil)
