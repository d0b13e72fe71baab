// Package anthropic implements adapter.ProviderAdapter for the Anthropic
// Messages API. Every request carries both the x-api-key and
// anthropic-version headers. Consecutive tool-output turns are compressed
// into a single user message of tool_result blocks, as the Messages schema
// requires; all other turn ordering is preserved verbatim.
package anthropic
