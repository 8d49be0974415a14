package facet

import (
	"fmt"
	"strconv"

	"github.com/matst80/slask-dashboard/pkg/types"
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Chips lists one removable token per non default criterion. catalogMax is
// the highest price in the catalog, zero while unknown.
func Chips(f *types.Filters, catalogMax float64) []types.ActiveFilterChip {
	chips := make([]types.ActiveFilterChip, 0)
	if f.Search != "" {
		chips = append(chips, types.ActiveFilterChip{Key: types.ChipSearch, Label: "Search: " + f.Search})
	}
	for _, key := range []types.MultiKey{types.FilterCategories, types.FilterBrands, types.FilterStock} {
		for _, value := range f.Multi(key) {
			chips = append(chips, types.ActiveFilterChip{Key: key, Value: value, Label: value})
		}
	}
	if f.Rating > 0 {
		chips = append(chips, types.ActiveFilterChip{Key: types.ChipRating, Label: formatNumber(f.Rating) + "+ stars"})
	}
	if f.FavoritesOnly {
		chips = append(chips, types.ActiveFilterChip{Key: types.ChipFavorites, Label: "Favorites"})
	}
	if f.PriceMin > 0 || (f.PriceMax > 0 && f.PriceMax < catalogMax) {
		chips = append(chips, types.ActiveFilterChip{
			Key:   types.ChipPrice,
			Label: fmt.Sprintf("$%s - $%s", formatNumber(f.PriceMin), formatNumber(f.PriceMax)),
		})
	}
	if f.HasDateRange() {
		chips = append(chips, types.ActiveFilterChip{Key: types.ChipDates, Label: f.StartDate + " - " + f.EndDate})
	}
	return chips
}
