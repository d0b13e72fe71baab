package adapter

import (
	"fmt"
	"strings"

	"github.com/JTan2231/wire"
)

// Provider tags the supported backends. Adapters and decoders are selected by
// this tag at the call boundary.
type Provider string

// Supported providers.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// ProviderAdapter is the capability pair every provider implements: build an
// authenticated Request Descriptor from a canonical conversation, and decode
// the provider's raw JSON response body into normalized text.
//
// Both operations are pure: no I/O, no shared state, freshly allocated
// outputs. Invocations are safe from any number of goroutines.
type ProviderAdapter interface {
	BuildRequest(conv wire.Conversation, tools []wire.ToolDefinition, cfg wire.ProviderConfig) (*Request, error)
	DecodeResponse(body []byte) (*Response, error)
}

// Header is one ordered request header entry.
type Header struct {
	Name  string
	Value string
}

// QueryParam is one ordered query-string entry.
type QueryParam struct {
	Key   string
	Value string
}

// Request is the provider-agnostic Request Descriptor: everything a transport
// needs to issue the HTTP call, prior to byte-level rendering. It is built
// once, never mutated, and consumed exactly once.
//
// Headers carry exactly one authentication entry for header-authenticated
// providers; Gemini authenticates through Query instead and carries none.
type Request struct {
	Method  string
	Scheme  string
	Host    string
	Port    int
	Path    string
	Query   []QueryParam
	Headers []Header
	Body    []byte
}

// URL composes the full request URL, eliding default ports.
func (r *Request) URL() string {
	var b strings.Builder
	b.WriteString(r.Scheme)
	b.WriteString("://")
	b.WriteString(r.HostHeader())
	b.WriteString(r.RequestTarget())
	return b.String()
}

// HostHeader returns the Host header value, appending the port only when it
// differs from the scheme default.
func (r *Request) HostHeader() string {
	if (r.Scheme == "https" && r.Port == 443) || (r.Scheme == "http" && r.Port == 80) {
		return r.Host
	}
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RequestTarget returns the path plus encoded query string, the form used in
// the HTTP/1.1 request line.
func (r *Request) RequestTarget() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	var b strings.Builder
	b.WriteString(r.Path)
	for i, q := range r.Query {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(q.Key)
		b.WriteByte('=')
		b.WriteString(q.Value)
	}
	return b.String()
}

// Header returns the first header with the given name, case-insensitively.
func (r *Request) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Response is the normalized Decoded Response: the text a provider generated.
// Decoders return it only on full success; failures surface as errors with no
// partial Response alongside.
type Response struct {
	Text string
}

// Resolve applies the endpoint override from cfg to a request built against
// the provider's default destination.
func (r *Request) Resolve(cfg wire.ProviderConfig) {
	if cfg.Endpoint == nil {
		return
	}
	r.Scheme = cfg.Endpoint.Scheme
	r.Host = cfg.Endpoint.Host
	r.Port = cfg.Endpoint.Port
}

// ValidateTurns checks the structural preconditions shared by all providers:
// tool results must reference a tool call issued by an earlier turn,
// tool-output turns must carry at least one result, and only tool-output
// turns may carry results. Violations surface as wire.ErrInvalidTurnSequence;
// nothing is silently patched.
func ValidateTurns(conv wire.Conversation) error {
	issued := make(map[string]bool)
	for i, turn := range conv.Turns {
		for _, call := range turn.ToolCalls {
			issued[call.ID] = true
		}
		if turn.Role == wire.RoleToolOutput {
			if len(turn.ToolResults) == 0 {
				return fmt.Errorf("%w: turn %d is tool-output but carries no results", wire.ErrInvalidTurnSequence, i)
			}
		} else if len(turn.ToolResults) > 0 {
			return fmt.Errorf("%w: turn %d carries tool results but has role %q", wire.ErrInvalidTurnSequence, i, turn.Role)
		}
		for _, res := range turn.ToolResults {
			if res.ToolCallID == "" {
				return fmt.Errorf("%w: turn %d has a tool result without a call id", wire.ErrInvalidTurnSequence, i)
			}
			if !issued[res.ToolCallID] {
				return fmt.Errorf("%w: turn %d reports result for unknown call %q", wire.ErrInvalidTurnSequence, i, res.ToolCallID)
			}
		}
	}
	return nil
}
