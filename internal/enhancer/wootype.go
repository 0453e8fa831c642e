package enhancer

import (
	"strings"

	"github.com/ternarybob/merx/internal/models"
)

// groupedKeywords mark listings that bundle several products together
var groupedKeywords = []string{"bundle", "set", "pack", "collection", "kit"}

// variableKeywords mark listings sold in multiple variations
var variableKeywords = []string{"size", "color", "colour", "variant", "option", "select"}

// classifyWooType picks the WooCommerce product type from title and
// description keywords. Grouped wins over variable when both match, since
// bundles frequently also mention sizes.
func classifyWooType(title, description string) models.WooProductType {
	text := strings.ToLower(title + " " + description)

	for _, kw := range groupedKeywords {
		if strings.Contains(text, kw) {
			return models.WooTypeGrouped
		}
	}
	for _, kw := range variableKeywords {
		if strings.Contains(text, kw) {
			return models.WooTypeVariable
		}
	}
	return models.WooTypeSimple
}
