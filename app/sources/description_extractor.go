package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	readability "codeberg.org/readeck/go-readability"
)

// DescriptionExtractor pulls readable text from a product detail page.
// Used when a listing carries no description but does carry a detail URL;
// failure is entry-scoped and leaves the description empty.
type DescriptionExtractor struct {
	client    *http.Client
	userAgent string
}

func NewDescriptionExtractor(client *http.Client, userAgent string) *DescriptionExtractor {
	return &DescriptionExtractor{
		client:    client,
		userAgent: userAgent,
	}
}

func (e *DescriptionExtractor) Run(ctx context.Context, url string, timeoutSeconds int) (string, error) {
	data, err := fetchURL(ctx, e.client, url, e.userAgent, timeoutSeconds)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract description: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no description extracted from %s", url)
	}

	slog.Debug("Description extracted", "url", url, "length", len(text))

	return text, nil
}
