package sources

import (
	"context"

	"github.com/lysyi3m/catalog-sync/app/catalog"
)

// Source is implemented by each external product data source. A source is
// responsible for fetching its own format and mapping it into raw records;
// it must never trust the remote shape beyond what it can coerce.
type Source interface {
	Name() string
	Fetch(ctx context.Context, category *CategoryConfig) ([]catalog.RawRecord, error)
}

// Category configuration types

type CategoryConfig struct {
	Name      string           // Derived from filename (without .yml extension)
	URL       string           `yaml:"url"`
	Source    string           `yaml:"source"` // json | html | feed
	Settings  CategorySettings `yaml:"settings"`
	Selectors HTMLSelectors    `yaml:"selectors"`
}

type CategorySettings struct {
	Enabled             bool `yaml:"enabled"`
	Timeout             int  `yaml:"timeout"`   // seconds
	MaxItems            int  `yaml:"max_items"`
	ExtractDescriptions bool `yaml:"extract_descriptions"`
}

// HTMLSelectors configures scraping of an HTML product listing. Item is
// the per-product container; the rest are resolved relative to it. When ID
// is empty the item container's data-product-id attribute is used.
type HTMLSelectors struct {
	Item        string `yaml:"item"`
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
	DetailLink  string `yaml:"detail_link"`
}
