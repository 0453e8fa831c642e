package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
)

func TestNewLLMService_Disabled(t *testing.T) {
	for _, provider := range []string{"disabled", ""} {
		cfg := common.NewDefaultConfig()
		cfg.LLM.Provider = provider

		service, err := NewLLMService(cfg, arbor.NewLogger())
		require.NoError(t, err)
		assert.Nil(t, service, provider)
	}
}

func TestNewLLMService_MissingKeyDisablesEnhancement(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.LLM.Provider = "claude"
	cfg.Claude.APIKey = ""

	service, err := NewLLMService(cfg, arbor.NewLogger())
	require.NoError(t, err)
	assert.Nil(t, service)
}

func TestNewLLMService_Claude(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.LLM.Provider = "claude"
	cfg.Claude.APIKey = "sk-test"

	service, err := NewLLMService(cfg, arbor.NewLogger())
	require.NoError(t, err)
	require.NotNil(t, service)
	assert.IsType(t, &ClaudeService{}, service)
	require.NoError(t, service.Close())
}

func TestNewLLMService_InvalidProvider(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.LLM.Provider = "openai"

	_, err := NewLLMService(cfg, arbor.NewLogger())
	require.Error(t, err)
}
