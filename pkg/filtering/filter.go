package filtering

import (
	"slices"
	"strings"

	"github.com/matst80/slask-dashboard/pkg/types"
)

// Predicate reports whether a single product passes one criterion.
type Predicate func(p *types.Product) bool

// Matcher is the compiled form of a Filters value. Every predicate must
// match (AND), multi selects match any of their values (OR).
type Matcher struct {
	predicates []Predicate
}

func NewMatcher(filters *types.Filters, favorites types.IdSet) *Matcher {
	m := &Matcher{}
	if search := strings.ToLower(strings.TrimSpace(filters.Search)); search != "" {
		m.add(func(p *types.Product) bool {
			haystack := strings.ToLower(p.Title + " " + p.Description)
			return strings.Contains(haystack, search)
		})
	}
	if categories := filters.Categories; len(categories) > 0 {
		m.add(func(p *types.Product) bool {
			return slices.Contains(categories, p.Category)
		})
	}
	if brands := filters.Brands; len(brands) > 0 {
		m.add(func(p *types.Product) bool {
			return slices.Contains(brands, p.Brand)
		})
	}
	if rating := filters.Rating; rating > 0 {
		m.add(func(p *types.Product) bool {
			return p.Rating >= rating
		})
	}
	if stock := filters.Stock; len(stock) > 0 {
		m.add(func(p *types.Product) bool {
			return slices.Contains(stock, types.StockStatusOf(p.Stock))
		})
	}
	if priceMin := filters.PriceMin; priceMin > 0 {
		m.add(func(p *types.Product) bool {
			return p.Price >= priceMin
		})
	}
	if priceMax := filters.PriceMax; priceMax > 0 {
		m.add(func(p *types.Product) bool {
			return p.Price <= priceMax
		})
	}
	if bounds, ok := ParseDateBounds(filters.StartDate, filters.EndDate); ok {
		m.add(func(p *types.Product) bool {
			return slices.ContainsFunc(p.Reviews, func(r types.Review) bool {
				return bounds.Contains(r.Date)
			})
		})
	}
	if filters.FavoritesOnly {
		m.add(func(p *types.Product) bool {
			return favorites.Contains(p.Id)
		})
	}
	return m
}

func (m *Matcher) add(fn Predicate) {
	m.predicates = append(m.predicates, fn)
}

// IsEmpty is true when no predicate is active.
func (m *Matcher) IsEmpty() bool {
	return len(m.predicates) == 0
}

func (m *Matcher) Match(p *types.Product) bool {
	for _, fn := range m.predicates {
		if !fn(p) {
			return false
		}
	}
	return true
}

// Filter returns the products matching every active criterion, keeping the
// input order. The input slice is never modified.
func Filter(products []*types.Product, filters *types.Filters, favorites types.IdSet) []*types.Product {
	m := NewMatcher(filters, favorites)
	if m.IsEmpty() {
		return slices.Clone(products)
	}
	result := make([]*types.Product, 0, len(products))
	for _, p := range products {
		if m.Match(p) {
			result = append(result, p)
		}
	}
	return result
}
