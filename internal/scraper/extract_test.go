package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractJSONLD_SingleProduct(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "Product",
		"name": "Walnut Desk",
		"description": "Solid walnut standing desk",
		"sku": "WD-100",
		"brand": {"@type": "Brand", "name": "Oakline"},
		"image": "https://cdn.example.com/desk.jpg",
		"offers": {"@type": "Offer", "price": "549.00", "priceCurrency": "USD", "availability": "https://schema.org/InStock"},
		"aggregateRating": {"ratingValue": 4.6, "reviewCount": 128}
	}
	</script></head><body></body></html>`

	products := extractJSONLD(parseHTML(t, html), "https://shop.example.com/desks")
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Walnut Desk", p.Title)
	assert.Equal(t, "549.00", p.Price)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "Oakline", p.Brand)
	assert.Equal(t, "WD-100", p.SKU)
	assert.Equal(t, "in_stock", p.Availability)
	assert.Equal(t, "https://cdn.example.com/desk.jpg", p.MainImageURL)
	assert.InDelta(t, 4.6, p.Rating, 0.01)
	assert.Equal(t, 128, p.ReviewCount)
}

func TestExtractJSONLD_ItemListInGraph(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{
		"@graph": [
			{"@type": "WebSite", "name": "Shop"},
			{"@type": "ItemList", "itemListElement": [
				{"@type": "ListItem", "item": {"@type": "Product", "name": "Mug", "offers": {"price": "12.50"}}},
				{"@type": "ListItem", "item": {"@type": "Product", "name": "Plate", "offers": {"price": "18.00"}}}
			]}
		]
	}
	</script></head><body></body></html>`

	products := extractJSONLD(parseHTML(t, html), "https://shop.example.com")
	require.Len(t, products, 2)
	assert.Equal(t, "Mug", products[0].Title)
	assert.Equal(t, "12.50", products[0].Price)
	assert.Equal(t, "Plate", products[1].Title)
}

func TestExtractJSONLD_IgnoresMalformedBlocks(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">{not valid json</script>
	<script type="application/ld+json">{"@type": "Product", "name": "Lamp"}</script>
	</head><body></body></html>`

	products := extractJSONLD(parseHTML(t, html), "https://shop.example.com")
	require.Len(t, products, 1)
	assert.Equal(t, "Lamp", products[0].Title)
}

func TestExtractContainers_WooCommerceListing(t *testing.T) {
	html := `<html><body><ul class="products">
	<li class="product">
		<img src="/img/chair.jpg">
		<h2 class="woocommerce-loop-product__title">Oak Chair</h2>
		<span class="price"><del><span class="amount">$129.00</span></del><ins><span class="amount">$99.00</span></ins></span>
	</li>
	<li class="product">
		<img data-src="/img/table.jpg" src="/img/placeholder.gif">
		<h2 class="woocommerce-loop-product__title">Oak Table</h2>
		<span class="price"><span class="amount">$349.00</span></span>
		<span class="out-of-stock">Out of stock</span>
	</li>
	</ul></body></html>`

	products := extractContainers(parseHTML(t, html), "https://shop.example.com/furniture", 0)
	require.Len(t, products, 2)

	assert.Equal(t, "Oak Chair", products[0].Title)
	assert.Equal(t, "99.00", products[0].Price)
	assert.Equal(t, "129.00", products[0].OriginalPrice)
	assert.Equal(t, "USD", products[0].Currency)
	assert.Equal(t, "https://shop.example.com/img/chair.jpg", products[0].MainImageURL)

	assert.Equal(t, "Oak Table", products[1].Title)
	assert.Equal(t, "https://shop.example.com/img/table.jpg", products[1].MainImageURL)
	assert.Equal(t, "out_of_stock", products[1].Availability)
}

func TestExtractContainers_SkipsTitlelessCards(t *testing.T) {
	html := `<html><body>
	<div class="product-card"><span class="price">$10</span></div>
	<div class="product-card"><h3>Candle</h3><span class="price">$14</span></div>
	</body></html>`

	products := extractContainers(parseHTML(t, html), "https://shop.example.com", 0)
	require.Len(t, products, 1)
	assert.Equal(t, "Candle", products[0].Title)
}

func TestExtractContainers_RespectsMaxProducts(t *testing.T) {
	html := `<html><body>
	<div class="product-item"><h3>A</h3></div>
	<div class="product-item"><h3>B</h3></div>
	<div class="product-item"><h3>C</h3></div>
	</body></html>`

	products := extractContainers(parseHTML(t, html), "https://shop.example.com", 2)
	assert.Len(t, products, 2)
}

func TestExtractDetailPage(t *testing.T) {
	html := `<html><body>
	<h1 class="product_title">Espresso Machine</h1>
	<p class="price">€1.299,00</p>
	<div class="woocommerce-product-details__short-description">Dual boiler, PID control.</div>
	<span class="sku">EM-9</span>
	<div class="woocommerce-product-gallery">
		<img src="/img/em-front.jpg">
		<img src="/img/em-side.jpg">
	</div>
	<span class="in-stock">In stock</span>
	</body></html>`

	products := extractDetailPage(parseHTML(t, html), "https://shop.example.com/espresso", 10)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Espresso Machine", p.Title)
	assert.Equal(t, "1299.00", p.Price)
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, "Dual boiler, PID control.", p.Description)
	assert.Equal(t, "EM-9", p.SKU)
	assert.Equal(t, "in_stock", p.Availability)
	assert.Len(t, p.ImageURLs, 2)
	assert.Equal(t, "https://shop.example.com/img/em-front.jpg", p.MainImageURL)
}

func TestExtractDetailPage_NoTitleMeansNoProduct(t *testing.T) {
	html := `<html><body><p>Nothing to see here</p></body></html>`
	products := extractDetailPage(parseHTML(t, html), "https://shop.example.com", 10)
	assert.Empty(t, products)
}

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$19.99", "19.99"},
		{"€1.234,56", "1234.56"},
		{"1,299.00", "1299.00"},
		{"From $25", "25"},
		{"Sale! 12,50", "12.50"},
		{"free", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanPrice(tt.in), "input %q", tt.in)
	}
}

func TestBuildPageURL(t *testing.T) {
	tests := []struct {
		base string
		page int
		want string
	}{
		{"https://shop.example.com/products", 1, "https://shop.example.com/products"},
		{"https://shop.example.com/products", 3, "https://shop.example.com/products/page/3/"},
		{"https://shop.example.com/products/page/2/", 3, "https://shop.example.com/products/page/3/"},
		{"https://shop.example.com/shop?page=1", 2, "https://shop.example.com/shop?page=2"},
		{"https://shop.example.com/shop?paged=4&sort=asc", 5, "https://shop.example.com/shop?paged=5&sort=asc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, buildPageURL(tt.base, tt.page), "base %q page %d", tt.base, tt.page)
	}
}

func TestHasNextPage(t *testing.T) {
	withRelNext := `<html><body><a rel="next" href="/page/2/">Next</a></body></html>`
	assert.True(t, hasNextPage(parseHTML(t, withRelNext), 1))

	withNumbers := `<html><body><div class="pagination"><a href="/page/1/">1</a><a href="/page/2/">2</a></div></body></html>`
	assert.True(t, hasNextPage(parseHTML(t, withNumbers), 1))
	assert.False(t, hasNextPage(parseHTML(t, withNumbers), 2))

	noPagination := `<html><body><p>single page</p></body></html>`
	assert.False(t, hasNextPage(parseHTML(t, noPagination), 1))
}
