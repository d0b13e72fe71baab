package wire

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultMaxTokens is applied by adapters whose provider requires an explicit
// completion budget (Anthropic) when ProviderConfig.MaxTokens is zero.
const DefaultMaxTokens = 4096

// ThinkingLevel selects the reasoning effort requested from models that
// support it (currently OpenAI's gpt-5 family).
type ThinkingLevel string

// Supported thinking levels. The zero value leaves the request untouched.
const (
	ThinkingMinimal ThinkingLevel = "minimal"
	ThinkingLow     ThinkingLevel = "low"
	ThinkingMedium  ThinkingLevel = "medium"
	ThinkingHigh    ThinkingLevel = "high"
)

// ParseThinkingLevel validates a user supplied thinking level string.
func ParseThinkingLevel(s string) (ThinkingLevel, error) {
	switch ThinkingLevel(s) {
	case ThinkingMinimal, ThinkingLow, ThinkingMedium, ThinkingHigh:
		return ThinkingLevel(s), nil
	}
	return "", fmt.Errorf("wire: unknown thinking level %q", s)
}

// Endpoint overrides the provider's default destination, e.g. to target a
// local mock server. Port must be explicit; Scheme is "http" or "https".
type Endpoint struct {
	Scheme string
	Host   string
	Port   int
}

// ParseEndpoint builds an Endpoint from an absolute base URL. The port is
// inferred from the scheme when the URL does not name one.
func ParseEndpoint(baseURL string) (Endpoint, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Endpoint{}, fmt.Errorf("wire: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoint{}, fmt.Errorf("wire: unsupported url scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("wire: base url %q missing host", baseURL)
	}
	port := 443
	if u.Scheme == "http" {
		port = 80
	}
	if p := u.Port(); p != "" {
		if _, err := fmt.Sscanf(p, "%d", &port); err != nil {
			return Endpoint{}, fmt.Errorf("wire: invalid port in base url %q", baseURL)
		}
	}
	return Endpoint{Scheme: u.Scheme, Host: u.Hostname(), Port: port}, nil
}

// ProviderConfig carries the per-request provider settings. The API key is an
// already-resolved secret value; adapters read it once while building the
// request and never persist it.
type ProviderConfig struct {
	APIKey    string
	Model     string
	Stream    bool
	MaxTokens int
	Thinking  ThinkingLevel
	Endpoint  *Endpoint
}

// HasCredential reports whether the config carries a usable API key.
func (c ProviderConfig) HasCredential() bool {
	return strings.TrimSpace(c.APIKey) != ""
}
