package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// catalogDocument is the on-disk shape of the catalog file.
type catalogDocument struct {
	Products []Product `json:"products"`
}

// Store reads the persisted catalog. A failed load is fatal to the run:
// without the last-known-good catalog there is nothing to reconcile against.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the catalog file and builds an index keyed by product ID.
// The source file is never mutated during load.
func (s *Store) Load() (map[string]Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", s.path, err)
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", s.path, err)
	}

	index := make(map[string]Product, len(doc.Products))
	for _, product := range doc.Products {
		if product.ID == "" {
			return nil, fmt.Errorf("catalog file %s contains an entry without an id", s.path)
		}
		if _, exists := index[product.ID]; exists {
			return nil, fmt.Errorf("catalog file %s contains duplicate id '%s'", s.path, product.ID)
		}
		index[product.ID] = product
	}

	slog.Debug("Catalog loaded", "path", s.path, "products", len(index))

	return index, nil
}
