package enhancer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/merx/internal/common"
	"github.com/ternarybob/merx/internal/interfaces"
	"github.com/ternarybob/merx/internal/models"
)

// scriptedLLM answers prompts by keyword so each enhancement step gets a
// deterministic response.
type scriptedLLM struct {
	failOn string
	calls  int
}

func (s *scriptedLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	s.calls++
	prompt := messages[len(messages)-1].Content

	if s.failOn != "" && strings.Contains(prompt, s.failOn) {
		return "", fmt.Errorf("scripted failure")
	}

	switch {
	case strings.Contains(prompt, "product summary"):
		return "A sturdy oak chair with a hand-rubbed finish.", nil
	case strings.Contains(prompt, "brand"):
		return "Oakline", nil
	case strings.Contains(prompt, "category"):
		return "Furniture", nil
	case strings.Contains(prompt, "SEO keyword tags"):
		return `["oak chair", "wooden furniture", "dining chair", "handmade", "solid wood"]`, nil
	}
	return "", fmt.Errorf("unexpected prompt: %s", prompt)
}

func (s *scriptedLLM) HealthCheck(ctx context.Context) error { return nil }
func (s *scriptedLLM) Close() error                          { return nil }

func testConfig() common.EnhancerConfig {
	return common.EnhancerConfig{MaxTags: 8, MaxDescriptionLen: 1000}
}

func TestEnhance(t *testing.T) {
	svc := NewService(&scriptedLLM{}, testConfig(), arbor.NewLogger())

	product := &models.Product{
		ID:          "prod_1",
		Title:       "Oak Chair",
		Description: "<p>Solid oak dining chair</p>",
		Brand:       "oakline",
	}

	enhancement, err := svc.Enhance(context.Background(), product)
	require.NoError(t, err)

	assert.Equal(t, models.EnhancementEnriched, enhancement.State)
	assert.Equal(t, "A sturdy oak chair with a hand-rubbed finish.", enhancement.Summary)
	assert.Equal(t, "Oakline", enhancement.NormalizedBrand)
	assert.Equal(t, "Furniture", enhancement.NormalizedCategory)
	assert.Len(t, enhancement.SEOTags, 5)
	assert.Equal(t, models.WooTypeSimple, enhancement.WooType)
}

func TestEnhance_LLMFailureFailsWholeEnhancement(t *testing.T) {
	svc := NewService(&scriptedLLM{failOn: "SEO keyword tags"}, testConfig(), arbor.NewLogger())

	_, err := svc.Enhance(context.Background(), &models.Product{ID: "prod_1", Title: "Oak Chair"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tag generation failed")
}

func TestEnhance_NoTitle(t *testing.T) {
	svc := NewService(&scriptedLLM{}, testConfig(), arbor.NewLogger())
	_, err := svc.Enhance(context.Background(), &models.Product{ID: "prod_1"})
	require.Error(t, err)
}

func TestEnhance_NilLLM(t *testing.T) {
	svc := NewService(nil, testConfig(), arbor.NewLogger())
	_, err := svc.Enhance(context.Background(), &models.Product{ID: "prod_1", Title: "Oak Chair"})
	require.Error(t, err)
}

func TestParseTags(t *testing.T) {
	tags, err := parseTags("```json\n[\"One\", \" two \", \"\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, tags)

	_, err = parseTags("not json at all")
	require.Error(t, err)

	_, err = parseTags("[]")
	require.Error(t, err)
}

func TestClassifyWooType(t *testing.T) {
	tests := []struct {
		title string
		desc  string
		want  models.WooProductType
	}{
		{"Kitchen Knife Set", "", models.WooTypeGrouped},
		{"Gift Bundle", "three candles", models.WooTypeGrouped},
		{"Cotton T-Shirt", "available in size S-XL and five colors", models.WooTypeVariable},
		{"Desk Lamp", "warm white LED", models.WooTypeSimple},
		{"Sock Set", "choose your size", models.WooTypeGrouped},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyWooType(tt.title, tt.desc), "title %q", tt.title)
	}
}
