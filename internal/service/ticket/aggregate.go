package ticket

import (
	"strings"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

// Aggregate owns the ticket for one session. All mutations are synchronous;
// the caller recomputes pricing after each one. Identity uniqueness holds
// among non-reward lines: a line marked as reward keeps its fingerprint but
// no longer stacks.
type Aggregate struct {
	ticket domain.Ticket
}

// New returns an empty aggregate.
func New() *Aggregate {
	return &Aggregate{}
}

// Ticket exposes the underlying ticket. The reward policy and the checkout
// flow read and mark lines through it.
func (a *Aggregate) Ticket() *domain.Ticket {
	return &a.ticket
}

// AddItem merges the item into an existing non-reward line with the same
// fingerprint, refreshing its unit price, or appends a new line with
// quantity 1. The unit price folds the selected options' surcharges into the
// base price. Returns the line id.
func (a *Aggregate) AddItem(item domain.Item, selected []domain.Option) string {
	lineID := ResolveIdentity(item.ID, selected)

	unitPrice := item.Price
	for _, opt := range selected {
		unitPrice = unitPrice.Add(opt.AdditionalPrice)
	}

	for i := range a.ticket.Lines {
		line := &a.ticket.Lines[i]
		if line.LineID == lineID && !line.IsReward {
			line.Quantity++
			line.UnitPrice = unitPrice
			return lineID
		}
	}

	a.ticket.Lines = append(a.ticket.Lines, domain.CartLine{
		LineID:    lineID,
		ProductID: item.ID,
		Name:      lineName(item.Name, selected),
		UnitPrice: unitPrice,
		Quantity:  1,
		Options:   selected,
	})
	return lineID
}

// Increment raises the line's quantity by one. Reward lines are not
// quantity-adjustable, so the call is a no-op on them.
func (a *Aggregate) Increment(lineID string) error {
	line := a.ticket.FindLine(lineID)
	if line == nil {
		return domain.ErrNotFound
	}
	if line.IsReward {
		return nil
	}
	line.Quantity++
	return nil
}

// Decrement lowers the line's quantity by one and removes the line entirely
// at quantity 1; a quantity-0 line is never retained. No-op on reward lines.
func (a *Aggregate) Decrement(lineID string) error {
	line := a.ticket.FindLine(lineID)
	if line == nil {
		return domain.ErrNotFound
	}
	if line.IsReward {
		return nil
	}
	if line.Quantity > 1 {
		line.Quantity--
		return nil
	}
	return a.Remove(lineID)
}

// Remove deletes the line. When the id matches both a reward line and a
// stacked non-reward line, the non-reward line goes first; the reward line
// is only removed once it is the sole match, and removing it clears the
// applied reward so it can be redeemed against a different line.
func (a *Aggregate) Remove(lineID string) error {
	idx := -1
	for i := range a.ticket.Lines {
		if a.ticket.Lines[i].LineID != lineID {
			continue
		}
		if !a.ticket.Lines[i].IsReward {
			idx = i
			break
		}
		if idx == -1 {
			idx = i
		}
	}
	if idx == -1 {
		return domain.ErrNotFound
	}
	if a.ticket.Lines[idx].IsReward {
		a.ticket.AppliedRewardID = ""
	}
	a.ticket.Lines = append(a.ticket.Lines[:idx], a.ticket.Lines[idx+1:]...)
	return nil
}

// Clear empties the ticket and its reward state. Used both for "empty the
// ticket" and after a successful order.
func (a *Aggregate) Clear() {
	a.ticket = domain.Ticket{}
}

func lineName(base string, selected []domain.Option) string {
	if len(selected) == 0 {
		return base
	}
	names := make([]string, 0, len(selected))
	for _, opt := range selected {
		if opt.Name != "" {
			names = append(names, opt.Name)
		}
	}
	if len(names) == 0 {
		return base
	}
	return base + " (" + strings.Join(names, ", ") + ")"
}
