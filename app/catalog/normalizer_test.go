package catalog

import (
	"strings"
	"testing"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer("$", "998900000000", "Hello! I am interested in %s")
}

func TestNormalizer_Run(t *testing.T) {
	normalizer := newTestNormalizer()

	raw := RawRecord{
		ID:          "Lavender Soap 250",
		Name:        "Lavender Soap",
		Price:       "100",
		Image:       "https://example.com/soap.jpg",
		Description: "Handmade soap",
		Benefits:    "Calming",
		Ingredients: "Lavender oil",
	}

	product, err := normalizer.Run(raw, "cosmetics")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if product.ID != "Lavender Soap 250" {
		t.Errorf("Expected id 'Lavender Soap 250', got '%s'", product.ID)
	}
	if product.Slug != "lavender-soap-250" {
		t.Errorf("Expected slug 'lavender-soap-250', got '%s'", product.Slug)
	}
	if product.Category != "cosmetics" {
		t.Errorf("Expected category 'cosmetics', got '%s'", product.Category)
	}
	if product.Currency != "$" {
		t.Errorf("Expected currency '$', got '%s'", product.Currency)
	}
	if product.Status != StatusActive {
		t.Errorf("Expected status 'active', got '%s'", product.Status)
	}
}

func TestNormalizer_Run_ContactLink(t *testing.T) {
	normalizer := newTestNormalizer()

	product, err := normalizer.Run(RawRecord{ID: "soap-1", Name: "Lavender Soap"}, "cosmetics")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.HasPrefix(product.ContactLink, "https://wa.me/998900000000?text=") {
		t.Errorf("Unexpected contact link prefix: %s", product.ContactLink)
	}
	if !strings.Contains(product.ContactLink, "Lavender+Soap") {
		t.Errorf("Expected URL-encoded product name in contact link, got: %s", product.ContactLink)
	}
}

func TestNormalizer_Run_ContactLinkGreetingWithoutPlaceholder(t *testing.T) {
	normalizer := NewNormalizer("$", "998900000000", "Hello, I want to order")

	product, err := normalizer.Run(RawRecord{ID: "soap-1", Name: "Lavender Soap"}, "cosmetics")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if strings.Contains(product.ContactLink, "%!") {
		t.Errorf("Greeting without placeholder must not produce a formatting artifact: %s", product.ContactLink)
	}
	if !strings.Contains(product.ContactLink, "Lavender+Soap") {
		t.Errorf("Expected product name appended to the greeting, got: %s", product.ContactLink)
	}
}

func TestNormalizer_Run_Defaults(t *testing.T) {
	normalizer := newTestNormalizer()

	product, err := normalizer.Run(RawRecord{ID: "soap-1", Name: "Lavender Soap"}, "cosmetics")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if product.Benefits != "" {
		t.Errorf("Expected empty benefits by default, got '%s'", product.Benefits)
	}
	if product.Ingredients != "" {
		t.Errorf("Expected empty ingredients by default, got '%s'", product.Ingredients)
	}
}

func TestNormalizer_Run_CurrencyOverridesSource(t *testing.T) {
	normalizer := NewNormalizer("€", "998900000000", "Hi, %s")

	product, err := normalizer.Run(RawRecord{ID: "soap-1", Price: "100"}, "cosmetics")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The configured symbol always wins regardless of any currency signal
	// in the raw record.
	if product.Currency != "€" {
		t.Errorf("Expected currency '€', got '%s'", product.Currency)
	}
}

func TestNormalizer_Run_MissingID(t *testing.T) {
	normalizer := newTestNormalizer()

	if _, err := normalizer.Run(RawRecord{Name: "No ID"}, "cosmetics"); err == nil {
		t.Error("Expected error for record without identifier, got nil")
	}
	if _, err := normalizer.Run(RawRecord{ID: "   "}, "cosmetics"); err == nil {
		t.Error("Expected error for blank identifier, got nil")
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"Lavender Soap", "lavender-soap"},
		{"Lavender   Soap", "lavender-soap"},
		{"soap-1", "soap-1"},
		{"  Trimmed  ", "trimmed"},
		{"Crème Brûlée", "creme-brulee"},
		{"UPPER", "upper"},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.expected {
			t.Errorf("Slugify(%q): expected %q, got %q", c.in, c.expected, got)
		}
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	first := Slugify("Lavender Soap 250")
	second := Slugify("Lavender Soap 250")
	if first != second {
		t.Errorf("Slugify is not deterministic: %q vs %q", first, second)
	}
}
