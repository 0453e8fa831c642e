package enhancer

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a product data specialist preparing storefront listings for an e-commerce catalog. Answer with only the requested value, no preamble and no markdown."

func summaryPrompt(title, description, category string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a compelling product summary of at most 200 characters for the following product.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", title)
	if description != "" {
		fmt.Fprintf(&b, "Description: %s\n", description)
	}
	if category != "" {
		fmt.Fprintf(&b, "Category: %s\n", category)
	}
	return b.String()
}

func brandPrompt(brand, title string) string {
	if brand != "" {
		return fmt.Sprintf("Normalize this brand name to its canonical form (proper casing, no extra words): %q. If it is already canonical, repeat it unchanged.", brand)
	}
	return fmt.Sprintf("Infer the most likely brand name from this product title: %q. If no brand is identifiable, answer exactly: Generic", title)
}

func categoryPrompt(category, title string) string {
	if category != "" {
		return fmt.Sprintf("Map this raw product category to a single standard e-commerce category name (e.g. Electronics, Home & Kitchen, Clothing, Sports & Outdoors): %q. Answer with the category name only.", category)
	}
	return fmt.Sprintf("Assign a single standard e-commerce category name to this product: %q. Answer with the category name only.", title)
}

func tagsPrompt(title, description string, maxTags int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate between 5 and %d SEO keyword tags for the following product. Answer with a JSON array of lowercase strings and nothing else.\n\n", maxTags)
	fmt.Fprintf(&b, "Title: %s\n", title)
	if description != "" {
		fmt.Fprintf(&b, "Description: %s\n", description)
	}
	return b.String()
}
