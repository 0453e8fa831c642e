package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/merx/internal/interfaces"
)

// containerSelectors are tried in order; the first selector that matches
// at least one element with a usable title wins. Covers WooCommerce,
// Shopify and common hand-rolled listing markup.
var containerSelectors = []string{
	"li.product",
	".product-item",
	".product-card",
	".product-tile",
	".grid-product",
	"[data-product-id]",
	"article.product",
	".product",
}

var titleSelectors = []string{
	".woocommerce-loop-product__title",
	".product-title",
	".product-name",
	".product-item-link",
	"h2 a",
	"h3 a",
	"h2",
	"h3",
	"a[title]",
}

var priceSelectors = []string{
	".price ins .amount",
	".price .amount",
	".price",
	".product-price",
	".money",
	"[data-price]",
}

var originalPriceSelectors = []string{
	".price del .amount",
	".price del",
	".compare-at-price",
	".was-price",
	".original-price",
}

// extractContainers applies the listing-container strategy: find repeated
// product cards and read the common sub-elements from each.
func extractContainers(doc *goquery.Document, baseURL string, maxProducts int) []interfaces.RawProduct {
	for _, selector := range containerSelectors {
		containers := doc.Find(selector)
		if containers.Length() == 0 {
			continue
		}

		var products []interfaces.RawProduct
		containers.Each(func(i int, s *goquery.Selection) {
			if maxProducts > 0 && len(products) >= maxProducts {
				return
			}
			if p, ok := productFromContainer(s, baseURL); ok {
				products = append(products, p)
			}
		})

		if len(products) > 0 {
			return products
		}
	}

	return nil
}

func productFromContainer(s *goquery.Selection, baseURL string) (interfaces.RawProduct, bool) {
	p := interfaces.RawProduct{}

	for _, sel := range titleSelectors {
		el := s.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		title := cleanText(el.Text())
		if title == "" {
			title = cleanText(el.AttrOr("title", ""))
		}
		if title != "" {
			p.Title = title
			break
		}
	}
	if p.Title == "" {
		return interfaces.RawProduct{}, false
	}

	for _, sel := range priceSelectors {
		el := s.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		rawPrice := el.AttrOr("data-price", el.Text())
		if price := cleanPrice(rawPrice); price != "" {
			p.Price = price
			p.Currency = detectCurrency(rawPrice)
			break
		}
	}

	for _, sel := range originalPriceSelectors {
		el := s.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if price := cleanPrice(el.Text()); price != "" && price != p.Price {
			p.OriginalPrice = price
			break
		}
	}

	if img := s.Find("img").First(); img.Length() > 0 {
		src := img.AttrOr("data-src", img.AttrOr("src", ""))
		p.MainImageURL = resolveURL(baseURL, src)
	}

	if desc := s.Find(".product-description, .description, .summary, p").First(); desc.Length() > 0 {
		p.Description = cleanText(desc.Text())
	}

	if sku := s.AttrOr("data-sku", s.Find("[data-sku]").AttrOr("data-sku", "")); sku != "" {
		p.SKU = sku
	}

	p.Rating, p.ReviewCount = extractRating(s)

	if s.Find(".out-of-stock, .sold-out, .outofstock").Length() > 0 {
		p.Availability = "out_of_stock"
	}

	return p, true
}

// extractRating reads star ratings in their common encodings: an explicit
// aria-label/title ("Rated 4.5 out of 5"), or a star-rating class width.
func extractRating(s *goquery.Selection) (float64, int) {
	rating := 0.0
	reviews := 0

	star := s.Find(".star-rating, .rating, [itemprop=ratingValue]").First()
	if star.Length() > 0 {
		for _, attr := range []string{"aria-label", "title", "content"} {
			if v, ok := star.Attr(attr); ok {
				if r := parseLeadingFloat(v); r > 0 {
					rating = r
					break
				}
			}
		}
		if rating == 0 {
			rating = parseLeadingFloat(star.Text())
		}
	}

	if count := s.Find(".review-count, [itemprop=reviewCount]").First(); count.Length() > 0 {
		text := count.AttrOr("content", count.Text())
		if n := parseLeadingFloat(text); n > 0 {
			reviews = int(n)
		}
	}

	return rating, reviews
}

func parseLeadingFloat(text string) float64 {
	token := priceTokenRe.FindString(text)
	if token == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}
