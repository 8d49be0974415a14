package sorting

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matst80/slask-dashboard/pkg/types"
)

// Compare orders two products, negative when a sorts first.
type Compare func(a, b *types.Product) int

// Sorter maps sort keys to comparators.
type Sorter struct {
	lang     language.Tag
	compares map[types.SortKey]func(c *collate.Collator) Compare
}

type Option func(*Sorter)

// WithLanguage sets the collation used for title sorting.
func WithLanguage(tag language.Tag) Option {
	return func(s *Sorter) {
		s.lang = tag
	}
}

func NewSorter(opts ...Option) *Sorter {
	s := &Sorter{
		lang: language.English,
		compares: map[types.SortKey]func(c *collate.Collator) Compare{
			types.SortPriceAsc:   fieldCompare(byPrice, false),
			types.SortPriceDesc:  fieldCompare(byPrice, true),
			types.SortRatingAsc:  fieldCompare(byRating, false),
			types.SortRatingDesc: fieldCompare(byRating, true),
			types.SortNameAsc:    titleCompare(false),
			types.SortNameDesc:   titleCompare(true),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func byPrice(p *types.Product) float64  { return p.Price }
func byRating(p *types.Product) float64 { return p.Rating }

func fieldCompare(fn func(*types.Product) float64, reversed bool) func(*collate.Collator) Compare {
	return func(*collate.Collator) Compare {
		if reversed {
			return func(a, b *types.Product) int { return cmp.Compare(fn(b), fn(a)) }
		}
		return func(a, b *types.Product) int { return cmp.Compare(fn(a), fn(b)) }
	}
}

func titleCompare(reversed bool) func(*collate.Collator) Compare {
	return func(c *collate.Collator) Compare {
		if reversed {
			return func(a, b *types.Product) int { return c.CompareString(b.Title, a.Title) }
		}
		return func(a, b *types.Product) int { return c.CompareString(a.Title, b.Title) }
	}
}

// IsKnown reports whether key selects an ordering.
func (s *Sorter) IsKnown(key types.SortKey) bool {
	_, ok := s.compares[key]
	return ok
}

// Sort returns a sorted copy of products. Equal keys keep their input order.
// An empty or unknown key returns products itself.
func (s *Sorter) Sort(products []*types.Product, key types.SortKey) []*types.Product {
	mk, ok := s.compares[key]
	if !ok {
		return products
	}
	// collators keep internal buffers and are not safe to share
	compare := mk(collate.New(s.lang))
	sorted := slices.Clone(products)
	slices.SortStableFunc(sorted, compare)
	return sorted
}

var defaultSorter = NewSorter()

func Sort(products []*types.Product, key types.SortKey) []*types.Product {
	return defaultSorter.Sort(products, key)
}
