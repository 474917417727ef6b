package ticket

import (
	"sort"
	"strings"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

// ResolveIdentity computes the fingerprint that decides whether two
// additions merge into one line. A plain product is keyed by its id alone so
// every plain instance stacks; with options the key appends the sorted
// option ids, making it independent of selection order. Two additions are
// the same line iff product and option set match exactly.
func ResolveIdentity(productID string, options []domain.Option) string {
	if len(options) == 0 {
		return productID
	}
	ids := make([]string, 0, len(options))
	for _, opt := range options {
		ids = append(ids, opt.ID)
	}
	sort.Strings(ids)
	return productID + "-OPC-" + strings.Join(ids, "-")
}
