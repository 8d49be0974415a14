package types

import "slices"

type SortKey = string

const (
	SortNone       SortKey = ""
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingAsc  SortKey = "rating-asc"
	SortRatingDesc SortKey = "rating-desc"
	SortNameAsc    SortKey = "name-asc"
	SortNameDesc   SortKey = "name-desc"
)

var SortKeys = []SortKey{SortNone, SortPriceAsc, SortPriceDesc, SortRatingAsc, SortRatingDesc, SortNameAsc, SortNameDesc}

type ViewMode = string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

type FilterKey = string

const (
	FilterSearch        FilterKey = "search"
	FilterCategories    FilterKey = "categories"
	FilterBrands        FilterKey = "brands"
	FilterStock         FilterKey = "stock"
	FilterRating        FilterKey = "rating"
	FilterPriceMin      FilterKey = "priceMin"
	FilterPriceMax      FilterKey = "priceMax"
	FilterStartDate     FilterKey = "startDate"
	FilterEndDate       FilterKey = "endDate"
	FilterFavoritesOnly FilterKey = "favoritesOnly"
	FilterSort          FilterKey = "sort"
	FilterView          FilterKey = "view"
)

// MultiKey names the multi-select fields that ToggleMulti can change.
type MultiKey = FilterKey

func IsMultiKey(key FilterKey) bool {
	return key == FilterCategories || key == FilterBrands || key == FilterStock
}

// Filters is the complete set of user selected criteria. Values are treated
// as immutable, mutations go through With* helpers or Clone.
type Filters struct {
	Search        string   `json:"search"`
	Categories    []string `json:"categories"`
	Brands        []string `json:"brands"`
	Stock         []string `json:"stock"`
	Rating        float64  `json:"rating"`
	PriceMin      float64  `json:"priceMin"`
	PriceMax      float64  `json:"priceMax"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	FavoritesOnly bool     `json:"favoritesOnly"`
	Sort          SortKey  `json:"sort"`
	View          ViewMode `json:"view"`
}

func DefaultFilters() Filters {
	return Filters{
		Categories: []string{},
		Brands:     []string{},
		Stock:      []string{},
		View:       ViewGrid,
	}
}

func (f Filters) Clone() Filters {
	f.Categories = cloneStrings(f.Categories)
	f.Brands = cloneStrings(f.Brands)
	f.Stock = cloneStrings(f.Stock)
	return f
}

func cloneStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}

func (f *Filters) Multi(key MultiKey) []string {
	switch key {
	case FilterCategories:
		return f.Categories
	case FilterBrands:
		return f.Brands
	case FilterStock:
		return f.Stock
	}
	return nil
}

func (f *Filters) SetMulti(key MultiKey, values []string) {
	switch key {
	case FilterCategories:
		f.Categories = values
	case FilterBrands:
		f.Brands = values
	case FilterStock:
		f.Stock = values
	}
}

// HasDateRange is true when both bounds of the review date range are set.
func (f *Filters) HasDateRange() bool {
	return f.StartDate != "" && f.EndDate != ""
}

// Equal compares every field, slices by content and order.
func (f *Filters) Equal(other *Filters) bool {
	return f.Search == other.Search &&
		slices.Equal(f.Categories, other.Categories) &&
		slices.Equal(f.Brands, other.Brands) &&
		slices.Equal(f.Stock, other.Stock) &&
		f.Rating == other.Rating &&
		f.PriceMin == other.PriceMin &&
		f.PriceMax == other.PriceMax &&
		f.StartDate == other.StartDate &&
		f.EndDate == other.EndDate &&
		f.FavoritesOnly == other.FavoritesOnly &&
		f.Sort == other.Sort &&
		f.View == other.View
}
