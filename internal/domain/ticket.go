package domain

import "github.com/shopspring/decimal"

// CartLine is one row of the ticket: a product plus its chosen options and
// quantity. LineID is the identity fingerprint that decides stacking.
type CartLine struct {
	LineID    string          `json:"lineId"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Options   []Option        `json:"options,omitempty"`
	IsReward  bool            `json:"isReward"`
}

// EffectiveUnitPrice is the price the line contributes per unit; a reward
// line contributes nothing while keeping UnitPrice for display and audit.
func (l CartLine) EffectiveUnitPrice() decimal.Decimal {
	if l.IsReward {
		return decimal.Zero
	}
	return l.UnitPrice
}

// LineTotal is quantity times the effective unit price.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Ticket is the in-progress order for one client session. Insertion order of
// Lines is display order only. Invariants: every line has Quantity >= 1, at
// most one line is a reward, and AppliedRewardID is set iff such a line
// exists.
type Ticket struct {
	Lines           []CartLine `json:"lines"`
	AppliedRewardID string     `json:"appliedRewardId,omitempty"`
}

// IsEmpty reports whether the ticket has no lines.
func (t *Ticket) IsEmpty() bool {
	return len(t.Lines) == 0
}

// FindLine returns a pointer to the line with the given id, or nil. The id
// can match both a reward line and a freshly stacked non-reward line; the
// non-reward line is the one the user addresses, so it wins, and the reward
// line is returned only when it is the sole match.
func (t *Ticket) FindLine(lineID string) *CartLine {
	var rewardMatch *CartLine
	for i := range t.Lines {
		if t.Lines[i].LineID != lineID {
			continue
		}
		if !t.Lines[i].IsReward {
			return &t.Lines[i]
		}
		rewardMatch = &t.Lines[i]
	}
	return rewardMatch
}
