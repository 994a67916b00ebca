package catalog

import (
	"fmt"
	"strings"
	"time"
)

// ReportGenerator renders the run's update log as a plain-text summary.
// Pure formatting: no side effects, no I/O.
type ReportGenerator struct{}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// Run renders the report with its three fixed sections. Within a section,
// records appear in the order they were classified.
func (g *ReportGenerator) Run(log []UpdateRecord, generatedAt time.Time) string {
	var added, updated, removed []UpdateRecord
	for _, record := range log {
		switch record.Kind {
		case UpdateNew:
			added = append(added, record)
		case UpdateUpdated:
			updated = append(updated, record)
		case UpdateRemoved:
			removed = append(removed, record)
		}
	}

	var b strings.Builder

	b.WriteString("Catalog Sync Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "New Products (%d):\n", len(added))
	for _, record := range added {
		fmt.Fprintf(&b, "  - %s (%s), category: %s\n",
			record.Product.Name, record.Product.ID, record.Product.Category)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Updated Products (%d):\n", len(updated))
	for _, record := range updated {
		fmt.Fprintf(&b, "  - %s (%s):\n", record.Product.Name, record.Product.ID)
		for _, change := range record.FieldChanges {
			fmt.Fprintf(&b, "      %s: \"%s\" → \"%s\"\n",
				change.Field, change.OldValue, change.NewValue)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Potentially Removed Products (%d):\n", len(removed))
	for _, record := range removed {
		fmt.Fprintf(&b, "  - %s (%s), category: %s\n",
			record.Product.Name, record.Product.ID, record.Product.Category)
	}

	return b.String()
}
