package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const listingHTML = `<!DOCTYPE html>
<html><body>
  <div class="product-card" data-product-id="soap-1">
    <h3 class="title">Lavender Soap</h3>
    <span class="price">100</span>
    <img class="photo" src="https://example.com/soap.jpg">
    <p class="desc">Handmade soap</p>
    <a class="more" href="https://example.com/products/soap-1">More</a>
  </div>
  <div class="product-card" data-product-id="soap-2">
    <h3 class="title">Rose Soap</h3>
    <span class="price">120</span>
  </div>
</body></html>`

func htmlCategory(url string) *CategoryConfig {
	return &CategoryConfig{
		Name:     "cosmetics",
		URL:      url,
		Source:   "html",
		Settings: CategorySettings{Enabled: true, Timeout: 5, MaxItems: 200},
		Selectors: HTMLSelectors{
			Item:        ".product-card",
			Name:        ".title",
			Price:       ".price",
			Image:       ".photo",
			Description: ".desc",
			DetailLink:  ".more",
		},
	}
}

func TestHTMLSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	source := NewHTMLSource(server.Client(), "Test Agent")
	records, err := source.Fetch(context.Background(), htmlCategory(server.URL))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "soap-1" {
		t.Errorf("Expected id from data-product-id 'soap-1', got '%s'", first.ID)
	}
	if first.Name != "Lavender Soap" {
		t.Errorf("Expected name 'Lavender Soap', got '%s'", first.Name)
	}
	if first.Price != "100" {
		t.Errorf("Expected price '100', got '%s'", first.Price)
	}
	if first.Image != "https://example.com/soap.jpg" {
		t.Errorf("Expected image URL, got '%s'", first.Image)
	}
	if first.DetailURL != "https://example.com/products/soap-1" {
		t.Errorf("Expected detail link, got '%s'", first.DetailURL)
	}

	// Missing nodes yield empty fields rather than errors.
	second := records[1]
	if second.Description != "" {
		t.Errorf("Expected empty description, got '%s'", second.Description)
	}
	if second.Image != "" {
		t.Errorf("Expected empty image, got '%s'", second.Image)
	}
}

func TestHTMLSource_Fetch_IDSelector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div class="product-card"><span class="sku"> oil-9 </span></div>`))
	}))
	defer server.Close()

	category := htmlCategory(server.URL)
	category.Selectors.ID = ".sku"

	source := NewHTMLSource(server.Client(), "Test Agent")
	records, err := source.Fetch(context.Background(), category)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].ID != "oil-9" {
		t.Errorf("Expected trimmed id 'oil-9', got '%s'", records[0].ID)
	}
}

func TestHTMLSource_Fetch_NoMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Nothing here</p></body></html>`))
	}))
	defer server.Close()

	source := NewHTMLSource(server.Client(), "Test Agent")
	records, err := source.Fetch(context.Background(), htmlCategory(server.URL))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}
