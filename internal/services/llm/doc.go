// Package llm provides the chat-completions client behind the AI-assisted
// pipeline stages (classify, tagging, name recommendation, formatting).
//
// The client sends system/user prompts to a configured OpenRouter-compatible
// endpoint with a JSON-only response format and decodes the payload while
// tolerating common model quirks (code fences, prose around the object).
//
// # Retry Behaviour
//
// Requests retry on HTTP 408/429/5xx and network timeouts with exponential
// backoff (base 1s, max 10s, up to 5 attempts by default). Context
// cancellation aborts retries immediately.
package llm
