package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
	"github.com/ternarybob/merx/internal/interfaces"
)

// NewLLMService creates the LLM service implementation selected by
// llm.provider. A nil service with nil error means enhancement is
// disabled; callers must handle that case.
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	switch cfg.LLM.Provider {
	case "claude":
		if cfg.Claude.APIKey == "" {
			logger.Warn().Str("provider", "claude").Msg("No API key configured - LLM enhancement disabled")
			return nil, nil
		}
		logger.Info().Str("provider", "claude").Str("model", cfg.Claude.Model).Msg("Initializing LLM service")
		return NewClaudeService(&cfg.Claude, logger)

	case "gemini":
		if cfg.Gemini.APIKey == "" {
			logger.Warn().Str("provider", "gemini").Msg("No API key configured - LLM enhancement disabled")
			return nil, nil
		}
		logger.Info().Str("provider", "gemini").Str("model", cfg.Gemini.Model).Msg("Initializing LLM service")
		return NewGeminiService(&cfg.Gemini, logger)

	case "disabled", "":
		logger.Info().Msg("LLM enhancement disabled by configuration")
		return nil, nil

	default:
		return nil, fmt.Errorf("invalid LLM provider '%s': must be 'claude', 'gemini', or 'disabled'", cfg.LLM.Provider)
	}
}
