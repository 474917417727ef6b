package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

// Client is the read-only catalog lookup. The engine treats the catalog as
// an opaque price/option source; payloads are normalized into the canonical
// Item before anything else sees them.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a catalog client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetItem fetches and normalizes one catalog item. Unknown ids map to
// domain.ErrNotFound; malformed documents to domain.ErrMalformedItem.
func (c *Client) GetItem(ctx context.Context, id string) (domain.Item, error) {
	reqURL := fmt.Sprintf("%s/items/%s", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Item{}, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Item{}, fmt.Errorf("call catalog service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var raw map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return domain.Item{}, fmt.Errorf("decode catalog response: %w", err)
		}
		return domain.NormalizeItem(raw)
	case http.StatusNotFound:
		return domain.Item{}, fmt.Errorf("catalog item %s: %w", id, domain.ErrNotFound)
	default:
		return domain.Item{}, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}
}
