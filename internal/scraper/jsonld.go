package scraper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/merx/internal/interfaces"
)

// extractJSONLD pulls product records out of schema.org JSON-LD blocks.
// Storefronts that emit structured data are the most reliable source, so
// this strategy runs first. Handles bare Product objects, arrays, @graph
// wrappers and ItemList entries.
func extractJSONLD(doc *goquery.Document, baseURL string) []interfaces.RawProduct {
	var products []interfaces.RawProduct

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var payload interface{}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return
		}

		for _, node := range flattenJSONLD(payload) {
			if p, ok := productFromJSONLD(node, baseURL); ok {
				products = append(products, p)
			}
		}
	})

	return products
}

// flattenJSONLD walks a decoded JSON-LD payload and returns every object
// node that could describe a product, unwrapping arrays, @graph containers
// and ItemList elements.
func flattenJSONLD(payload interface{}) []map[string]interface{} {
	var nodes []map[string]interface{}

	switch v := payload.(type) {
	case []interface{}:
		for _, item := range v {
			nodes = append(nodes, flattenJSONLD(item)...)
		}
	case map[string]interface{}:
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, item := range graph {
				nodes = append(nodes, flattenJSONLD(item)...)
			}
			return nodes
		}
		if jsonLDType(v) == "ItemList" {
			if elements, ok := v["itemListElement"].([]interface{}); ok {
				for _, el := range elements {
					entry, ok := el.(map[string]interface{})
					if !ok {
						continue
					}
					if item, ok := entry["item"].(map[string]interface{}); ok {
						nodes = append(nodes, flattenJSONLD(item)...)
					} else {
						nodes = append(nodes, flattenJSONLD(entry)...)
					}
				}
			}
			return nodes
		}
		nodes = append(nodes, v)
	}

	return nodes
}

func jsonLDType(node map[string]interface{}) string {
	switch t := node["@type"].(type) {
	case string:
		return t
	case []interface{}:
		for _, entry := range t {
			if s, ok := entry.(string); ok {
				return s
			}
		}
	}
	return ""
}

func productFromJSONLD(node map[string]interface{}, baseURL string) (interfaces.RawProduct, bool) {
	if jsonLDType(node) != "Product" {
		return interfaces.RawProduct{}, false
	}

	p := interfaces.RawProduct{
		Title:       jsonLDString(node, "name"),
		Description: jsonLDString(node, "description"),
		SKU:         jsonLDString(node, "sku"),
	}
	if p.Title == "" {
		return interfaces.RawProduct{}, false
	}

	switch brand := node["brand"].(type) {
	case string:
		p.Brand = brand
	case map[string]interface{}:
		p.Brand = jsonLDString(brand, "name")
	}

	switch category := node["category"].(type) {
	case string:
		p.Category = category
	case map[string]interface{}:
		p.Category = jsonLDString(category, "name")
	}

	switch image := node["image"].(type) {
	case string:
		p.MainImageURL = resolveURL(baseURL, image)
	case []interface{}:
		for _, entry := range image {
			if s, ok := entry.(string); ok {
				resolved := resolveURL(baseURL, s)
				if p.MainImageURL == "" {
					p.MainImageURL = resolved
				}
				p.ImageURLs = append(p.ImageURLs, resolved)
			}
		}
	case map[string]interface{}:
		p.MainImageURL = resolveURL(baseURL, jsonLDString(image, "url"))
	}

	if offers := firstOffer(node["offers"]); offers != nil {
		p.Price = cleanPrice(jsonLDString(offers, "price"))
		p.Currency = jsonLDString(offers, "priceCurrency")
		if availability := jsonLDString(offers, "availability"); availability != "" {
			p.Availability = normalizeAvailability(availability)
		}
	}

	if rating, ok := node["aggregateRating"].(map[string]interface{}); ok {
		p.Rating = jsonLDFloat(rating, "ratingValue")
		p.ReviewCount = int(jsonLDFloat(rating, "reviewCount"))
		if p.ReviewCount == 0 {
			p.ReviewCount = int(jsonLDFloat(rating, "ratingCount"))
		}
	}

	return p, true
}

func firstOffer(offers interface{}) map[string]interface{} {
	switch v := offers.(type) {
	case map[string]interface{}:
		return v
	case []interface{}:
		for _, entry := range v {
			if m, ok := entry.(map[string]interface{}); ok {
				return m
			}
		}
	}
	return nil
}

func jsonLDString(node map[string]interface{}, key string) string {
	switch v := node[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%.2f", v), ".00")
	}
	return ""
}

func jsonLDFloat(node map[string]interface{}, key string) float64 {
	switch v := node[key].(type) {
	case float64:
		return v
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%f", &f); err == nil {
			return f
		}
	}
	return 0
}

// normalizeAvailability maps schema.org availability URLs to plain labels
func normalizeAvailability(value string) string {
	v := strings.ToLower(value)
	switch {
	case strings.Contains(v, "instock"):
		return "in_stock"
	case strings.Contains(v, "outofstock"):
		return "out_of_stock"
	case strings.Contains(v, "preorder"):
		return "preorder"
	}
	return value
}
