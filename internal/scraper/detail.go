package scraper

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/merx/internal/interfaces"
)

// extractDetailPage handles the case where the submitted URL points at a
// single product page rather than a listing. Only attempted on page one,
// after the listing strategies came up empty.
func extractDetailPage(doc *goquery.Document, baseURL string, maxImages int) []interfaces.RawProduct {
	p := interfaces.RawProduct{}

	for _, sel := range []string{"h1.product_title", "h1.product-title", "h1[itemprop=name]", ".product-detail h1", "h1"} {
		if el := doc.Find(sel).First(); el.Length() > 0 {
			p.Title = cleanText(el.Text())
			if p.Title != "" {
				break
			}
		}
	}
	if p.Title == "" {
		return nil
	}

	for _, sel := range priceSelectors {
		el := doc.Find(sel).First()
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

	for _, sel := range []string{
		".woocommerce-product-details__short-description",
		"[itemprop=description]",
		".product-description",
		"#description",
		".summary p",
	} {
		if el := doc.Find(sel).First(); el.Length() > 0 {
			p.Description = cleanText(el.Text())
			if p.Description != "" {
				break
			}
		}
	}

	if el := doc.Find(".sku, [itemprop=sku]").First(); el.Length() > 0 {
		p.SKU = cleanText(el.Text())
	}
	if el := doc.Find(".brand, [itemprop=brand]").First(); el.Length() > 0 {
		p.Brand = cleanText(el.Text())
	}
	if el := doc.Find(".posted_in a, .product-category a, [itemprop=category]").First(); el.Length() > 0 {
		p.Category = cleanText(el.Text())
	}

	doc.Find(".product-gallery img, .woocommerce-product-gallery img, .product-images img, [itemprop=image]").Each(func(i int, s *goquery.Selection) {
		if maxImages > 0 && len(p.ImageURLs) >= maxImages {
			return
		}
		src := s.AttrOr("data-src", s.AttrOr("src", ""))
		if src == "" {
			return
		}
		resolved := resolveURL(baseURL, src)
		if p.MainImageURL == "" {
			p.MainImageURL = resolved
		}
		p.ImageURLs = append(p.ImageURLs, resolved)
	})

	p.Rating, p.ReviewCount = extractRating(doc.Selection)

	if doc.Find(".out-of-stock, .outofstock, .sold-out").Length() > 0 {
		p.Availability = "out_of_stock"
	} else if doc.Find(".in-stock, .instock").Length() > 0 {
		p.Availability = "in_stock"
	}

	return []interfaces.RawProduct{p}
}
