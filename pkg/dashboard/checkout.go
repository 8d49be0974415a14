package dashboard

import (
	"math"

	"github.com/matst80/slask-dashboard/pkg/facet"
	"github.com/matst80/slask-dashboard/pkg/types"
)

type CheckoutSummary struct {
	Items       []*types.Product `json:"items"`
	Total       float64          `json:"total"`
	Recommended []*types.Product `json:"recommended"`
}

// Summarize totals the checkout items in the order they were added, each
// price rounded up to a whole unit. Recommendations share a category with an
// item but are not in the checkout themselves, in catalog order.
func Summarize(idx *facet.KeyIndex, checkout []types.ProductId) CheckoutSummary {
	items := idx.Resolve(checkout)
	summary := CheckoutSummary{
		Items:       items,
		Recommended: make([]*types.Product, 0),
	}
	categories := make([]string, 0, len(items))
	for _, p := range items {
		summary.Total += math.Ceil(p.Price)
		categories = append(categories, p.Category)
	}
	if len(categories) == 0 {
		return summary
	}
	related := idx.Categories.Match(categories...)
	related.AndNot(types.NewIdSet(checkout...).Bitmap())
	summary.Recommended = idx.Products(related)
	return summary
}

func (d *Dashboard) Checkout() CheckoutSummary {
	ids := d.selections.Checkout.Ids()
	d.mu.Lock()
	idx := d.index
	d.mu.Unlock()
	return Summarize(idx, ids)
}
