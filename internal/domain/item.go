package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is the canonical shape every catalog payload is folded into before it
// reaches the ticket or pricing code. Products and combos arrive with
// inconsistent field names; NormalizeItem is the single place that deals
// with that.
type Item struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Options []Option        `json:"options,omitempty"`
}

// Option is one selectable customization on an item.
type Option struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additionalPrice"`
}

// NormalizeItem builds a canonical Item from a raw catalog document.
// Accepted aliases: id/_id/productId, name/title, price/cost (number or
// numeric string), options/extras. Anything unusable is an error; a
// malformed document never produces a half-formed Item.
func NormalizeItem(raw map[string]interface{}) (Item, error) {
	id := firstString(raw, "id", "_id", "productId")
	if id == "" {
		return Item{}, fmt.Errorf("catalog item: %w: missing id", ErrMalformedItem)
	}
	name := firstString(raw, "name", "title")
	if name == "" {
		return Item{}, fmt.Errorf("catalog item %s: %w: missing name", id, ErrMalformedItem)
	}
	price, ok := firstDecimal(raw, "price", "cost")
	if !ok || price.IsNegative() {
		return Item{}, fmt.Errorf("catalog item %s: %w: bad price", id, ErrMalformedItem)
	}

	item := Item{ID: id, Name: name, Price: price}

	rawOpts, ok := raw["options"]
	if !ok {
		rawOpts = raw["extras"]
	}
	if list, ok := rawOpts.([]interface{}); ok {
		for _, entry := range list {
			doc, ok := entry.(map[string]interface{})
			if !ok {
				return Item{}, fmt.Errorf("catalog item %s: %w: bad option entry", id, ErrMalformedItem)
			}
			opt, err := normalizeOption(doc)
			if err != nil {
				return Item{}, fmt.Errorf("catalog item %s: %w", id, err)
			}
			item.Options = append(item.Options, opt)
		}
	}
	return item, nil
}

func normalizeOption(raw map[string]interface{}) (Option, error) {
	id := firstString(raw, "id", "_id", "optionId")
	if id == "" {
		return Option{}, fmt.Errorf("%w: option missing id", ErrMalformedItem)
	}
	name := firstString(raw, "name", "title")
	price, ok := firstDecimal(raw, "additionalPrice", "price", "cost")
	if !ok {
		price = decimal.Zero
	}
	if price.IsNegative() {
		return Option{}, fmt.Errorf("%w: option %s has negative price", ErrMalformedItem, id)
	}
	return Option{ID: id, Name: name, AdditionalPrice: price}, nil
}

func firstString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return decimal.NewFromFloat(v).String()
		}
	}
	return ""
}

func firstDecimal(raw map[string]interface{}, keys ...string) (decimal.Decimal, bool) {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return decimal.NewFromFloat(v), true
		case string:
			d, err := decimal.NewFromString(strings.TrimSpace(v))
			if err == nil {
				return d, true
			}
		}
	}
	return decimal.Zero, false
}
