package criteria

import (
	"log"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-dashboard/pkg/types"
)

// queryParams mirrors the address bar. Every value is kept as a string so a
// malformed number only resets its own field.
type queryParams struct {
	Search     string `schema:"q,omitempty"`
	Sort       string `schema:"sort,omitempty"`
	View       string `schema:"view,omitempty"`
	Categories string `schema:"categories,omitempty"`
	Brands     string `schema:"brands,omitempty"`
	Stock      string `schema:"stock,omitempty"`
	Rating     string `schema:"rating,omitempty"`
	Min        string `schema:"min,omitempty"`
	Max        string `schema:"max,omitempty"`
	Favorites  string `schema:"fav,omitempty"`
	From       string `schema:"from,omitempty"`
	To         string `schema:"to,omitempty"`
}

var (
	decoder = schema.NewDecoder()
	encoder = schema.NewEncoder()
)

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseNumber(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func splitList(s string) []string {
	ret := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" && !slices.Contains(ret, part) {
			ret = append(ret, part)
		}
	}
	return ret
}

func joinList(values []string) string {
	return strings.Join(values, ",")
}

// Decode reads criteria from query parameters. Nothing in the query can
// make it fail, unusable fields fall back to their defaults.
func Decode(query url.Values) types.Filters {
	f := types.DefaultFilters()
	var p queryParams
	if err := decoder.Decode(&p, query); err != nil {
		log.Printf("Ignoring malformed query: %v", err)
		return f
	}
	f.Search = p.Search
	if slices.Contains(types.SortKeys, p.Sort) {
		f.Sort = p.Sort
	}
	if p.View == types.ViewList {
		f.View = types.ViewList
	}
	f.Categories = splitList(p.Categories)
	f.Brands = splitList(p.Brands)
	f.Stock = splitList(p.Stock)
	f.Rating = parseNumber(p.Rating)
	f.PriceMin = parseNumber(p.Min)
	f.PriceMax = parseNumber(p.Max)
	f.FavoritesOnly = p.Favorites == "1" || p.Favorites == "true"
	f.StartDate = p.From
	f.EndDate = p.To
	return f
}

// Encode writes the non default subset of f. max is left out when it equals
// catalogMax since that is what a missing max resolves to.
func Encode(f *types.Filters, catalogMax float64) url.Values {
	p := queryParams{
		Search:     f.Search,
		Sort:       f.Sort,
		Categories: joinList(f.Categories),
		Brands:     joinList(f.Brands),
		Stock:      joinList(f.Stock),
		From:       f.StartDate,
		To:         f.EndDate,
	}
	if f.View == types.ViewList {
		p.View = types.ViewList
	}
	if f.Rating > 0 {
		p.Rating = formatNumber(f.Rating)
	}
	if f.PriceMin > 0 {
		p.Min = formatNumber(f.PriceMin)
	}
	if f.PriceMax > 0 && f.PriceMax != catalogMax {
		p.Max = formatNumber(f.PriceMax)
	}
	if f.FavoritesOnly {
		p.Favorites = "1"
	}
	values := url.Values{}
	if err := encoder.Encode(p, values); err != nil {
		log.Printf("Failed to encode query: %v", err)
	}
	return values
}
