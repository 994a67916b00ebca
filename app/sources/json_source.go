package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/lysyi3m/catalog-sync/app/catalog"
)

// JSONSource ingests a JSON product listing over HTTP. The remote document
// may be a bare array of records or wrapped as {"products": [...]}; field
// names and types are coerced defensively.
type JSONSource struct {
	client    *http.Client
	userAgent string
}

var _ Source = (*JSONSource)(nil)

func NewJSONSource(client *http.Client, userAgent string) *JSONSource {
	return &JSONSource{
		client:    client,
		userAgent: userAgent,
	}
}

func (s *JSONSource) Name() string {
	return "json"
}

func (s *JSONSource) Fetch(ctx context.Context, category *CategoryConfig) ([]catalog.RawRecord, error) {
	data, err := fetchURL(ctx, s.client, category.URL, s.userAgent, category.Settings.Timeout)
	if err != nil {
		return nil, err
	}

	rawItems, err := decodeRecordList(data)
	if err != nil {
		return nil, err
	}

	records := make([]catalog.RawRecord, 0, len(rawItems))
	for _, item := range rawItems {
		records = append(records, coerceRecord(item))
	}

	return records, nil
}

// decodeRecordList accepts either a bare JSON array or a wrapped
// {"products": [...]} document.
func decodeRecordList(data []byte) ([]map[string]interface{}, error) {
	var wrapped struct {
		Products []map[string]interface{} `json:"products"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Products != nil {
		return wrapped.Products, nil
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode product list: %w", err)
	}

	return list, nil
}

// coerceRecord maps a loosely-typed remote object to a raw record. The
// first matching key wins; numbers are rendered back to strings.
func coerceRecord(item map[string]interface{}) catalog.RawRecord {
	return catalog.RawRecord{
		ID:          stringField(item, "id", "productId", "product_id"),
		Name:        stringField(item, "name", "title"),
		Price:       stringField(item, "price", "cost"),
		Image:       stringField(item, "image", "imageUrl", "image_url", "img"),
		Description: stringField(item, "description", "desc"),
		Benefits:    stringField(item, "benefits"),
		Ingredients: stringField(item, "ingredients"),
		DetailURL:   stringField(item, "url", "link", "detailUrl"),
	}
}

func stringField(item map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		value, ok := item[key]
		if !ok || value == nil {
			continue
		}
		if s := stringify(value); s != "" {
			return s
		}
	}
	return ""
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; render integers without a
		// trailing fraction.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// fetchURL performs a GET with the category timeout applied on top of the
// caller's context. Shared by the HTTP-backed sources.
func fetchURL(ctx context.Context, client *http.Client, url, userAgent string, timeoutSeconds int) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return data, nil
}
