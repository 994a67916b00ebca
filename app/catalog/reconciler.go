package catalog

import (
	"sort"
)

// Reconciler folds a run's accumulated update log into a catalog snapshot.
// It is pure over its inputs: the loaded index is copied, never mutated,
// so applying the same log to the same index always yields the same result.
type Reconciler struct{}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Run applies the update log to a copy of the catalog index and returns
// the resulting catalog sorted by category, then ID.
//
// New and Updated records replace the entry wholesale with the ingested
// one. Removed records flip the stored entry's status to discontinued in
// place; the entry and all its other fields are retained.
func (r *Reconciler) Run(index map[string]Product, log []UpdateRecord) []Product {
	working := make(map[string]Product, len(index))
	for id, product := range index {
		working[id] = product
	}

	for _, record := range log {
		switch record.Kind {
		case UpdateNew, UpdateUpdated:
			working[record.Product.ID] = record.Product
		case UpdateRemoved:
			if existing, ok := working[record.Product.ID]; ok {
				existing.Status = StatusDiscontinued
				working[record.Product.ID] = existing
			}
		}
	}

	products := make([]Product, 0, len(working))
	for _, product := range working {
		products = append(products, product)
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].Category != products[j].Category {
			return products[i].Category < products[j].Category
		}
		return products[i].ID < products[j].ID
	})

	return products
}
