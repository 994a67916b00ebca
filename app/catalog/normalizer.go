package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps raw ingested records into canonical catalog entries.
type Normalizer struct {
	currencySymbol string
	contactPhone   string
	greeting       string
}

func NewNormalizer(currencySymbol, contactPhone, greeting string) *Normalizer {
	return &Normalizer{
		currencySymbol: currencySymbol,
		contactPhone:   contactPhone,
		greeting:       greeting,
	}
}

// Run normalizes a single raw record for the given category. A record
// without a usable identifier cannot be normalized; the caller is expected
// to skip it and keep processing the rest of the category.
func (n *Normalizer) Run(raw RawRecord, category string) (Product, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return Product{}, fmt.Errorf("record has no usable identifier (name: '%s')", raw.Name)
	}

	product := Product{
		ID:          id,
		Name:        strings.TrimSpace(raw.Name),
		Slug:        Slugify(id),
		Category:    category,
		Image:       strings.TrimSpace(raw.Image),
		Price:       strings.TrimSpace(raw.Price),
		Currency:    n.currencySymbol,
		Description: strings.TrimSpace(raw.Description),
		Benefits:    strings.TrimSpace(raw.Benefits),
		Ingredients: strings.TrimSpace(raw.Ingredients),
		Status:      StatusActive,
	}

	product.ContactLink = n.contactLink(product.Name)

	return product, nil
}

// contactLink builds the messaging deep-link with the greeting and product
// name URL-encoded into the text parameter. A greeting configured without
// a %s placeholder gets the name appended instead.
func (n *Normalizer) contactLink(name string) string {
	var message string
	if strings.Contains(n.greeting, "%s") {
		message = strings.ReplaceAll(n.greeting, "%s", name)
	} else {
		message = n.greeting + " " + name
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", n.contactPhone, url.QueryEscape(message))
}

var slugFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives an URL-safe slug from a product identifier: diacritics
// folded, lowercased, runs of whitespace collapsed to a single hyphen.
// The slug is a pure function of the identifier.
func Slugify(id string) string {
	folded, _, err := transform.String(slugFolder, id)
	if err != nil {
		folded = id
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), "-")
}
