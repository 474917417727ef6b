package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/checkout"
)

// Client talks to the external payment processor. A decline is a normal
// result, not an error; only transport and protocol problems error out.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type confirmResponse struct {
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// NewClient returns a payment client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Confirm asks the processor to confirm the intent. 200 means confirmed
// with a reference, 402 means declined with the processor's message.
func (c *Client) Confirm(ctx context.Context, intent checkout.PaymentIntent) (checkout.Confirmation, error) {
	body, err := json.Marshal(intent)
	if err != nil {
		return checkout.Confirmation{}, fmt.Errorf("marshal payment intent: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/confirmations", bytes.NewReader(body))
	if err != nil {
		return checkout.Confirmation{}, fmt.Errorf("build confirmation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return checkout.Confirmation{}, fmt.Errorf("call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return checkout.Confirmation{}, fmt.Errorf("read gateway response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var cr confirmResponse
		if err := json.Unmarshal(raw, &cr); err != nil {
			return checkout.Confirmation{}, fmt.Errorf("decode gateway response: %w", err)
		}
		if cr.Reference == "" {
			return checkout.Confirmation{}, fmt.Errorf("gateway confirmed without a payment reference")
		}
		return checkout.Confirmation{Confirmed: true, Reference: cr.Reference}, nil
	case http.StatusPaymentRequired:
		var cr confirmResponse
		if err := json.Unmarshal(raw, &cr); err != nil {
			return checkout.Confirmation{}, fmt.Errorf("decode gateway response: %w", err)
		}
		return checkout.Confirmation{Confirmed: false, Message: cr.Message}, nil
	default:
		return checkout.Confirmation{}, fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, raw)
	}
}
