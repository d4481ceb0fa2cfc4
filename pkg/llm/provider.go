package llm

import (
	"fmt"

	"github.com/umputun/newsbrief/pkg/config"
)

// NewCompleter makes a Completer for the configured provider
func NewCompleter(cfg config.LLMConfig) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropic(cfg), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
