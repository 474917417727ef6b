package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

// Client calls the shipping-quote service. Only the delivery path ever
// invokes it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type quoteRequest struct {
	Address  string          `json:"address"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type quoteResponse struct {
	Cost   decimal.Decimal `json:"cost"`
	IsFree bool            `json:"isFree"`
}

// NewClient returns a shipping client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Quote asks for the delivery cost to an address. The caller owns the quote
// lifecycle; the returned value carries cost and free flag only.
func (c *Client) Quote(ctx context.Context, address string, subtotal decimal.Decimal) (domain.ShippingQuote, error) {
	body, err := json.Marshal(quoteRequest{Address: address, Subtotal: subtotal})
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("marshal quote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/quotes", bytes.NewReader(body))
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("call shipping service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ShippingQuote{}, fmt.Errorf("shipping service returned status %d", resp.StatusCode)
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("decode quote response: %w", err)
	}
	return domain.ShippingQuote{Cost: qr.Cost, IsFree: qr.IsFree}, nil
}
