package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nextLinkSelectors match explicit "next page" affordances across common
// storefront themes.
var nextLinkSelectors = []string{
	`a[rel="next"]`,
	"a.next",
	".next a",
	".pagination .next",
	".woocommerce-pagination a.next",
	"a.page-numbers.next",
	`a[aria-label="Next"]`,
}

// buildPageURL derives the URL for a given 1-based page number from the
// base URL. Page one is always the base URL itself. Later pages reuse a
// pagination parameter already present in the URL, otherwise fall back to
// the WordPress-style /page/N/ path segment.
func buildPageURL(baseURL string, page int) string {
	if page <= 1 {
		return baseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	query := parsed.Query()
	for _, param := range []string{"page", "paged", "p", "pg"} {
		if query.Has(param) {
			query.Set(param, strconv.Itoa(page))
			parsed.RawQuery = query.Encode()
			return parsed.String()
		}
	}

	path := strings.TrimSuffix(parsed.Path, "/")
	if idx := strings.LastIndex(path, "/page/"); idx >= 0 {
		path = path[:idx]
	}
	parsed.Path = fmt.Sprintf("%s/page/%d/", path, page)
	return parsed.String()
}

// hasNextPage reports whether the page markup advertises a page after the
// current one, either through an explicit next link or through a numbered
// pagination link greater than the current page.
func hasNextPage(doc *goquery.Document, currentPage int) bool {
	for _, sel := range nextLinkSelectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}

	found := false
	doc.Find(".pagination a, .page-numbers, .woocommerce-pagination a").Each(func(i int, s *goquery.Selection) {
		if found {
			return
		}
		n, err := strconv.Atoi(cleanText(s.Text()))
		if err == nil && n > currentPage {
			found = true
		}
	})
	return found
}
