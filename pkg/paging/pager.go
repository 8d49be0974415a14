package paging

import (
	"slices"
	"sync"

	"github.com/matst80/slask-dashboard/pkg/types"
)

const DefaultPageSize = 24

type Pager struct {
	PageSize int
}

func NewPager(pageSize int) Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Pager{PageSize: pageSize}
}

// PageCount is never below one, an empty result still has a first page.
func (p Pager) PageCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + p.PageSize - 1) / p.PageSize
}

func (p Pager) Clamp(page, total int) int {
	return min(max(page, 1), p.PageCount(total))
}

// Slice returns the items of the 1-based page after clamping it.
func Slice[T any](p Pager, items []T, page int) ([]T, int) {
	page = p.Clamp(page, len(items))
	start := (page - 1) * p.PageSize
	if start >= len(items) {
		return []T{}, page
	}
	end := min(start+p.PageSize, len(items))
	return items[start:end], page
}

// fingerprint holds the criteria that reset the page. Sort and view are
// deliberately left out.
type fingerprint struct {
	search        string
	categories    []string
	brands        []string
	stock         []string
	rating        float64
	priceMin      float64
	priceMax      float64
	startDate     string
	endDate       string
	favoritesOnly bool
}

func fingerprintOf(f *types.Filters) fingerprint {
	return fingerprint{
		search:        f.Search,
		categories:    slices.Clone(f.Categories),
		brands:        slices.Clone(f.Brands),
		stock:         slices.Clone(f.Stock),
		rating:        f.Rating,
		priceMin:      f.PriceMin,
		priceMax:      f.PriceMax,
		startDate:     f.StartDate,
		endDate:       f.EndDate,
		favoritesOnly: f.FavoritesOnly,
	}
}

func (a fingerprint) equal(b fingerprint) bool {
	return a.search == b.search &&
		slices.Equal(a.categories, b.categories) &&
		slices.Equal(a.brands, b.brands) &&
		slices.Equal(a.stock, b.stock) &&
		a.rating == b.rating &&
		a.priceMin == b.priceMin &&
		a.priceMax == b.priceMax &&
		a.startDate == b.startDate &&
		a.endDate == b.endDate &&
		a.favoritesOnly == b.favoritesOnly
}

// Tracker holds the current page and resets it to one whenever a filter
// criterion changes.
type Tracker struct {
	mu   sync.Mutex
	page int
	last fingerprint
}

func NewTracker(initial *types.Filters) *Tracker {
	return &Tracker{page: 1, last: fingerprintOf(initial)}
}

// Observe records the latest criteria and reports whether the page was reset.
func (t *Tracker) Observe(f *types.Filters) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := fingerprintOf(f)
	if next.equal(t.last) {
		return false
	}
	t.last = next
	t.page = 1
	return true
}

func (t *Tracker) Page() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

func (t *Tracker) SetPage(page int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page = max(page, 1)
}
