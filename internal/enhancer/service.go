package enhancer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/models"
)

// Service derives AI attributes for scraped products: a short summary,
// normalized brand and category, SEO tags and a WooCommerce product type.
// Any LLM failure makes the whole enhancement fail; the caller keeps the
// raw product and leaves its enhancement pending.
type Service struct {
	llm       interfaces.LLMService
	config    common.EnhancerConfig
	converter *md.Converter
	logger    arbor.ILogger
}

// NewService creates a product enhancer backed by the given LLM service
func NewService(llmService interfaces.LLMService, config common.EnhancerConfig, logger arbor.ILogger) interfaces.Enhancer {
	return &Service{
		llm:       llmService,
		config:    config,
		converter: md.NewConverter("", true, nil),
		logger:    logger,
	}
}

// Enhance maps a raw product to its AI-derived attributes
func (s *Service) Enhance(ctx context.Context, product *models.Product) (*models.Enhancement, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("no LLM service configured")
	}
	if product.Title == "" {
		return nil, fmt.Errorf("product has no title to enhance")
	}

	description := s.prepareDescription(product.Description)

	summary, err := s.complete(ctx, summaryPrompt(product.Title, description, product.Category))
	if err != nil {
		return nil, fmt.Errorf("summary generation failed: %w", err)
	}
	if len(summary) > 200 {
		summary = summary[:197] + "..."
	}

	brand, err := s.complete(ctx, brandPrompt(product.Brand, product.Title))
	if err != nil {
		return nil, fmt.Errorf("brand normalization failed: %w", err)
	}

	category, err := s.complete(ctx, categoryPrompt(product.Category, product.Title))
	if err != nil {
		return nil, fmt.Errorf("category normalization failed: %w", err)
	}

	tags, err := s.generateTags(ctx, product.Title, description)
	if err != nil {
		return nil, fmt.Errorf("tag generation failed: %w", err)
	}

	enhancement := &models.Enhancement{
		State:              models.EnhancementEnriched,
		Summary:            summary,
		NormalizedBrand:    brand,
		NormalizedCategory: category,
		SEOTags:            tags,
		WooType:            classifyWooType(product.Title, description),
	}

	s.logger.Debug().
		Str("product_id", product.ID).
		Str("brand", brand).
		Str("category", category).
		Int("tags", len(tags)).
		Str("woo_type", string(enhancement.WooType)).
		Msg("Product enhancement complete")

	return enhancement, nil
}

// prepareDescription converts HTML descriptions to markdown and truncates
// them so prompts stay within a predictable size.
func (s *Service) prepareDescription(description string) string {
	if description == "" {
		return ""
	}

	if strings.Contains(description, "<") && strings.Contains(description, ">") {
		if converted, err := s.converter.ConvertString(description); err == nil {
			description = converted
		}
	}

	description = strings.TrimSpace(description)
	if s.config.MaxDescriptionLen > 0 && len(description) > s.config.MaxDescriptionLen {
		description = description[:s.config.MaxDescriptionLen]
	}
	return description
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	response, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

func (s *Service) generateTags(ctx context.Context, title, description string) ([]string, error) {
	maxTags := s.config.MaxTags
	if maxTags <= 0 {
		maxTags = 8
	}

	response, err := s.complete(ctx, tagsPrompt(title, description, maxTags))
	if err != nil {
		return nil, err
	}

	tags, err := parseTags(response)
	if err != nil {
		return nil, err
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags, nil
}

// parseTags decodes the model's tag response, tolerating markdown code
// fences around the JSON array.
func parseTags(response string) ([]string, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var tags []string
	if err := json.Unmarshal([]byte(cleaned), &tags); err != nil {
		return nil, fmt.Errorf("tag response is not a JSON array: %w", err)
	}

	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			result = append(result, tag)
		}
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("tag response contained no usable tags")
	}
	return result, nil
}
