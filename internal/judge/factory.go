package judge

import (
	"fmt"
	"time"
)

// NewFromSettings builds a judge client for the configured provider. An
// empty API key yields an unavailable client, not an error, so the engine
// keeps working without credentials.
func NewFromSettings(provider, apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return NewClient(nil, timeout), nil
	}

	switch provider {
	case "", "anthropic":
		return NewClient(NewAnthropicCompleter(apiKey, model), timeout), nil
	case "openai":
		return NewClient(NewOpenAICompleter(apiKey, baseURL, model), timeout), nil
	case "gemini":
		completer, err := NewGeminiCompleter(apiKey, model)
		if err != nil {
			return nil, err
		}
		return NewClient(completer, timeout), nil
	default:
		return nil, fmt.Errorf("unknown judge provider %q", provider)
	}
}
