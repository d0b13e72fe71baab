// Package openai implements adapter.ProviderAdapter for the OpenAI Chat
// Completions API. BuildRequest targets api.openai.com:443 with bearer-token
// authentication; DecodeResponse extracts choices.0.message.content.
package openai
