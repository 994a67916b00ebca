package catalog

// Catalog entry types

type Status string

const (
	StatusActive       Status = "active"
	StatusDiscontinued Status = "discontinued"
)

// Product is the canonical catalog entry, as persisted in the catalog file.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Benefits    string `json:"benefits"`
	Ingredients string `json:"ingredients"`
	ContactLink string `json:"contactActionLink"`
	Status      Status `json:"status"`
}

// RawRecord is the semi-structured shape produced by an ingestion source,
// before normalization. Any field may be empty; a record without a usable
// ID cannot be normalized.
type RawRecord struct {
	ID          string
	Name        string
	Price       string
	Image       string
	Description string
	Benefits    string
	Ingredients string
	DetailURL   string
}

// Update classification types

type UpdateKind string

const (
	UpdateNew     UpdateKind = "new"
	UpdateUpdated UpdateKind = "updated"
	UpdateRemoved UpdateKind = "removed"
)

type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// UpdateRecord captures one classified change within a run. For Updated
// records, Product is the freshly ingested entry and FieldChanges lists
// every tracked field that differs. For Removed records, Product is the
// previously stored entry.
type UpdateRecord struct {
	Kind         UpdateKind
	Product      Product
	FieldChanges []FieldChange
}
