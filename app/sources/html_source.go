package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lysyi3m/catalog-sync/app/catalog"
)

// HTMLSource scrapes a product listing page using the category's CSS
// selectors. Markup is treated as untrusted: missing nodes simply yield
// empty fields, which the normalizer then rejects or defaults.
type HTMLSource struct {
	client    *http.Client
	userAgent string
}

var _ Source = (*HTMLSource)(nil)

func NewHTMLSource(client *http.Client, userAgent string) *HTMLSource {
	return &HTMLSource{
		client:    client,
		userAgent: userAgent,
	}
}

func (s *HTMLSource) Name() string {
	return "html"
}

func (s *HTMLSource) Fetch(ctx context.Context, category *CategoryConfig) ([]catalog.RawRecord, error) {
	data, err := fetchURL(ctx, s.client, category.URL, s.userAgent, category.Settings.Timeout)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	selectors := category.Selectors

	var records []catalog.RawRecord
	doc.Find(selectors.Item).Each(func(i int, item *goquery.Selection) {
		record := catalog.RawRecord{
			ID:          itemID(item, selectors),
			Name:        selectText(item, selectors.Name),
			Price:       selectText(item, selectors.Price),
			Image:       selectAttr(item, selectors.Image, "src"),
			Description: selectText(item, selectors.Description),
			DetailURL:   selectAttr(item, selectors.DetailLink, "href"),
		}
		records = append(records, record)
	})

	return records, nil
}

// itemID resolves the product identifier: the configured selector's text
// when set, otherwise the item container's data-product-id attribute.
func itemID(item *goquery.Selection, selectors HTMLSelectors) string {
	if selectors.ID != "" {
		return selectText(item, selectors.ID)
	}
	id, _ := item.Attr("data-product-id")
	return strings.TrimSpace(id)
}

func selectText(item *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(item.Find(selector).First().Text())
}

func selectAttr(item *goquery.Selection, selector, attr string) string {
	if selector == "" {
		return ""
	}
	value, _ := item.Find(selector).First().Attr(attr)
	return strings.TrimSpace(value)
}
