package dashboard

import (
	"github.com/matst80/slask-dashboard/pkg/filtering"
	"github.com/matst80/slask-dashboard/pkg/paging"
	"github.com/matst80/slask-dashboard/pkg/sorting"
	"github.com/matst80/slask-dashboard/pkg/types"
)

type Input struct {
	Catalog   []*types.Product
	Filters   *types.Filters
	Favorites types.IdSet
	Page      int
	PageSize  int
	Sorter    *sorting.Sorter
}

type Result struct {
	Items     []*types.Product `json:"items"`
	Matched   int              `json:"matched"`
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	PageCount int              `json:"pageCount"`
}

// Run is the whole list derivation: filter, then sort, then cut out one
// page. The catalog is never modified.
func Run(in Input) Result {
	filtered := filtering.Filter(in.Catalog, in.Filters, in.Favorites)
	var sorted []*types.Product
	if in.Sorter != nil {
		sorted = in.Sorter.Sort(filtered, in.Filters.Sort)
	} else {
		sorted = sorting.Sort(filtered, in.Filters.Sort)
	}
	pager := paging.NewPager(in.PageSize)
	items, page := paging.Slice(pager, sorted, in.Page)
	return Result{
		Items:     items,
		Matched:   len(sorted),
		Total:     len(in.Catalog),
		Page:      page,
		PageCount: pager.PageCount(len(sorted)),
	}
}
