// Package wire normalizes chat exchanges with LLM providers (OpenAI,
// Anthropic, Gemini) behind one canonical conversation model while still
// emitting each provider's exact wire format. The root package holds the
// provider-agnostic Conversation/Turn types, provider configuration, and the
// error taxonomy shared by the adapter, envelope, and decoder packages.
// Provider-specific translation lives in adapter subpackages.
package wire
