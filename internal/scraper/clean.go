package scraper

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	priceTokenRe = regexp.MustCompile(`\d[\d.,]*`)
	currencyRe   = regexp.MustCompile(`[$€£¥]|USD|EUR|GBP|AUD|CAD|NZD`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// cleanPrice extracts the numeric portion of a price string, normalizing
// European decimal commas ("1.234,56" becomes "1234.56").
func cleanPrice(raw string) string {
	token := priceTokenRe.FindString(raw)
	if token == "" {
		return ""
	}

	lastComma := strings.LastIndex(token, ",")
	lastDot := strings.LastIndex(token, ".")
	if lastComma > lastDot {
		// Comma is the decimal separator
		token = strings.ReplaceAll(token, ".", "")
		token = strings.Replace(token, ",", ".", 1)
	} else {
		token = strings.ReplaceAll(token, ",", "")
	}

	return strings.TrimSuffix(token, ".")
}

// detectCurrency finds a currency symbol or code in a raw price string
func detectCurrency(raw string) string {
	switch currencyRe.FindString(raw) {
	case "$":
		return "USD"
	case "€":
		return "EUR"
	case "£":
		return "GBP"
	case "¥":
		return "JPY"
	case "":
		return ""
	default:
		return currencyRe.FindString(raw)
	}
}

// cleanText collapses runs of whitespace into single spaces
func cleanText(raw string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
}

// resolveURL makes a possibly relative href absolute against the page URL
func resolveURL(baseURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return base.ResolveReference(ref).String()
}
