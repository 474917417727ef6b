package reward

import (
	"strings"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

// RewardMarker is appended to the display name of the discounted line.
const RewardMarker = " (Reward)"

// Reward is a redemption the customer wants applied to the ticket.
type Reward struct {
	ID   string `json:"rewardId"`
	Name string `json:"name"`
}

// Policy decides which line a redeemed reward discounts. Keywords name
// product families: a reward whose name contains a keyword only discounts
// lines whose name contains the same keyword.
type Policy struct {
	keywords []string
}

// NewPolicy returns a policy restricted by the given family keywords.
func NewPolicy(keywords []string) *Policy {
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	return &Policy{keywords: cleaned}
}

// Apply marks the single most expensive eligible line as the reward line,
// zeroing its priced contribution, and records the redemption on the
// ticket. Exactly one reward per ticket; a second application fails with
// ErrRewardAlreadyApplied and leaves the ticket unchanged. Ties on price go
// to the first-encountered line. Returns the discounted line's id.
func (p *Policy) Apply(rw Reward, t *domain.Ticket) (string, error) {
	if t.AppliedRewardID != "" {
		return "", domain.ErrRewardAlreadyApplied
	}

	family := p.matchFamily(rw.Name)

	var chosen *domain.CartLine
	for i := range t.Lines {
		line := &t.Lines[i]
		if line.IsReward {
			continue
		}
		if family != "" && !strings.Contains(strings.ToLower(line.Name), family) {
			continue
		}
		if chosen == nil || line.UnitPrice.GreaterThan(chosen.UnitPrice) {
			chosen = line
		}
	}
	if chosen == nil {
		return "", domain.ErrNoEligibleLine
	}

	chosen.IsReward = true
	chosen.Name += RewardMarker
	t.AppliedRewardID = rw.ID
	return chosen.LineID, nil
}

func (p *Policy) matchFamily(rewardName string) string {
	name := strings.ToLower(rewardName)
	for _, kw := range p.keywords {
		if strings.Contains(name, kw) {
			return kw
		}
	}
	return ""
}
