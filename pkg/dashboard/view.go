package dashboard

import (
	"github.com/matst80/slask-dashboard/pkg/debounce"
	"github.com/matst80/slask-dashboard/pkg/facet"
	"github.com/matst80/slask-dashboard/pkg/notify"
	"github.com/matst80/slask-dashboard/pkg/types"
)

type View struct {
	Items       []*types.Product         `json:"items"`
	Total       int                      `json:"total"`
	Matched     int                      `json:"matched"`
	Page        int                      `json:"page"`
	PageCount   int                      `json:"pageCount"`
	Filters     types.Filters            `json:"filters"`
	Query       string                   `json:"query"`
	Chips       []types.ActiveFilterChip `json:"chips"`
	Counts      facet.Counts             `json:"counts"`
	Categories  []string                 `json:"categories"`
	Brands      []string                 `json:"brands"`
	MaxPrice    float64                  `json:"maxPrice"`
	SearchDraft string                   `json:"searchDraft"`
	Searching   bool                     `json:"searching"`
	PriceDraft  debounce.Range           `json:"priceDraft"`
	PriceBounds debounce.Range           `json:"priceBounds"`
	DateDraft   debounce.DateRange       `json:"dateDraft"`
	Loading     bool                     `json:"loading"`
	Err         string                   `json:"error,omitempty"`
	CompareIds  []types.ProductId        `json:"compareIds"`
	FavoriteIds []types.ProductId        `json:"favoriteIds"`
	CheckoutIds []types.ProductId        `json:"checkoutIds"`
	Toasts      []notify.Toast           `json:"toasts"`
}

func (d *Dashboard) View() View {
	filters := d.criteria.Snapshot()
	v := View{
		Filters:     filters,
		Query:       d.criteria.Query().Encode(),
		Chips:       d.criteria.Chips(),
		SearchDraft: d.search.Draft(),
		Searching:   d.search.Pending(),
		PriceDraft:  d.price.Value(),
		PriceBounds: d.price.Bounds(),
		DateDraft:   d.dates.Value(),
		CompareIds:  d.selections.Compare.Ids(),
		FavoriteIds: d.selections.Favorites.Ids(),
		CheckoutIds: d.selections.Checkout.Ids(),
		Toasts:      d.toasts.List(),
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v.Items = d.result.Items
	v.Total = d.result.Total
	v.Matched = d.result.Matched
	v.Page = d.result.Page
	v.PageCount = d.result.PageCount
	v.Counts = d.index.Counts()
	v.Categories = d.index.Categories.Values()
	v.Brands = d.index.Brands.Values()
	v.MaxPrice = d.maxPrice
	v.Loading = d.loading
	if d.err != nil {
		v.Err = d.err.Error()
	}
	return v
}
