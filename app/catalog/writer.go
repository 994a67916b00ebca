package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer persists the reconciled catalog and the run report. The two
// writes are independent: a failure of one does not roll back the other.
// Each individual write goes through a temp file and rename so a failure
// never truncates the previous artifact.
type Writer struct {
	catalogPath string
	reportPath  string
}

func NewWriter(catalogPath, reportPath string) *Writer {
	return &Writer{
		catalogPath: catalogPath,
		reportPath:  reportPath,
	}
}

// WriteCatalog serializes the catalog as an indented JSON document of the
// shape {"products": [...]} and writes it wholesale.
func (w *Writer) WriteCatalog(products []Product) error {
	doc := catalogDocument{Products: products}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize catalog: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(w.catalogPath, data); err != nil {
		return fmt.Errorf("failed to write catalog file %s: %w", w.catalogPath, err)
	}

	slog.Debug("Catalog written", "path", w.catalogPath, "products", len(products))

	return nil
}

// WriteReport overwrites the report file with the run's report text.
func (w *Writer) WriteReport(text string) error {
	if err := writeFileAtomic(w.reportPath, []byte(text)); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", w.reportPath, err)
	}

	slog.Debug("Report written", "path", w.reportPath, "bytes", len(text))

	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}
