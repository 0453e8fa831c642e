package interfaces

import (
	"context"

	"github.com/ternarybob/merx/internal/models"
)

// Message represents a single message in an LLM conversation
type Message struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// LLMService provides chat completions from a configured provider
type LLMService interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

// Enhancer maps a raw product record to its AI-derived attributes.
// Failure is recoverable by contract: callers keep the raw record and
// leave its enhancement pending.
type Enhancer interface {
	Enhance(ctx context.Context, product *models.Product) (*models.Enhancement, error)
}
