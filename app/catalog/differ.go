package catalog

import (
	"sort"
)

// trackedFields are the only fields compared when classifying an ingested
// entry against its stored counterpart. Slug, currency, contact link and
// status are all derived and never diffed.
var trackedFields = []string{
	"name",
	"price",
	"description",
	"image",
	"category",
	"benefits",
	"ingredients",
}

// Differ classifies normalized entries against the in-memory catalog index.
// It never mutates the index; removal detection relies on the per-category
// seen-ID set maintained across Classify calls.
type Differ struct{}

func NewDiffer() *Differ {
	return &Differ{}
}

// Classify marks the entry as seen for the current category pass and
// returns at most one update record: New when the ID is not in the catalog,
// Updated when any tracked field differs. Unchanged entries produce nothing.
func (d *Differ) Classify(entry Product, index map[string]Product, seen map[string]bool) *UpdateRecord {
	seen[entry.ID] = true

	existing, ok := index[entry.ID]
	if !ok {
		return &UpdateRecord{Kind: UpdateNew, Product: entry}
	}

	changes := d.compare(existing, entry)
	if len(changes) == 0 {
		return nil
	}

	return &UpdateRecord{Kind: UpdateUpdated, Product: entry, FieldChanges: changes}
}

// SweepRemoved runs once per category after all its entries have been
// classified. Every stored entry of that category whose ID was not seen in
// the pass is reported as removed. Entries of categories not ingested in
// this run are never swept, and entries already discontinued are not
// re-reported.
func (d *Differ) SweepRemoved(category string, index map[string]Product, seen map[string]bool) []UpdateRecord {
	ids := make([]string, 0, len(index))
	for id, product := range index {
		if product.Category != category {
			continue
		}
		if product.Status == StatusDiscontinued {
			continue
		}
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	records := make([]UpdateRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, UpdateRecord{Kind: UpdateRemoved, Product: index[id]})
	}

	return records
}

// compare collects the tracked fields that differ between the stored and
// the ingested entry, using strict string inequality.
func (d *Differ) compare(old, new Product) []FieldChange {
	var changes []FieldChange

	for _, field := range trackedFields {
		oldValue := fieldValue(old, field)
		newValue := fieldValue(new, field)
		if oldValue != newValue {
			changes = append(changes, FieldChange{
				Field:    field,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
	}

	return changes
}

func fieldValue(product Product, field string) string {
	switch field {
	case "name":
		return product.Name
	case "price":
		return product.Price
	case "description":
		return product.Description
	case "image":
		return product.Image
	case "category":
		return product.Category
	case "benefits":
		return product.Benefits
	case "ingredients":
		return product.Ingredients
	default:
		return ""
	}
}
