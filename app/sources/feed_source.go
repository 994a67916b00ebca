package sources

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/catalog-sync/app/catalog"
)

// FeedSource ingests product listings published as RSS/Atom feeds: one
// item per product, GUID (or link) as the identifier. Price travels in the
// feed's custom <price> element when the publisher provides one.
type FeedSource struct {
	parser    *gofeed.Parser
	client    *http.Client
	userAgent string
}

var _ Source = (*FeedSource)(nil)

func NewFeedSource(client *http.Client, userAgent string) *FeedSource {
	return &FeedSource{
		parser:    gofeed.NewParser(),
		client:    client,
		userAgent: userAgent,
	}
}

func (s *FeedSource) Name() string {
	return "feed"
}

func (s *FeedSource) Fetch(ctx context.Context, category *CategoryConfig) ([]catalog.RawRecord, error) {
	data, err := fetchURL(ctx, s.client, category.URL, s.userAgent, category.Settings.Timeout)
	if err != nil {
		return nil, err
	}

	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	records := make([]catalog.RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		records = append(records, s.normalizeItem(item))
	}

	return records, nil
}

func (s *FeedSource) normalizeItem(item *gofeed.Item) catalog.RawRecord {
	record := catalog.RawRecord{
		ID:          cmp.Or(item.GUID, item.Link),
		Name:        item.Title,
		Description: cmp.Or(item.Content, item.Description),
		DetailURL:   item.Link,
	}

	if item.Custom != nil {
		record.Price = item.Custom["price"]
	}

	if item.Image != nil {
		record.Image = item.Image.URL
	} else if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		record.Image = item.Enclosures[0].URL
	}

	return record
}
