package analytics

import (
	"fmt"
	"math"

	"github.com/matst80/slask-dashboard/pkg/types"
)

const (
	PriceStep = 100
	PriceMax  = 1000
)

var Palette = []string{"#0f766e", "#f59e0b", "#d97706", "#7c3aed", "#2563eb", "#db2777"}

type Bin struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Segment struct {
	Label   string  `json:"label"`
	Value   int     `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

type RatingDistribution struct {
	Buckets []Bin   `json:"buckets"`
	Average float64 `json:"average"`
}

type StockSummary struct {
	InStock    int     `json:"inStock"`
	LowStock   int     `json:"lowStock"`
	OutOfStock int     `json:"outOfStock"`
	InRatio    float64 `json:"inRatio"`
	LowRatio   float64 `json:"lowRatio"`
	OutRatio   float64 `json:"outRatio"`
}

type Summary struct {
	Total          int                `json:"total"`
	PriceBins      []Bin              `json:"priceBins"`
	Categories     []Segment          `json:"categories"`
	Ratings        RatingDistribution `json:"ratings"`
	Stock          StockSummary       `json:"stock"`
	AveragePrice   float64            `json:"averagePrice"`
	InventoryValue float64            `json:"inventoryValue"`
}

// PriceHistogram counts products in fixed width price bins from 0 to limit.
// Prices at or above limit land in the last bin.
func PriceHistogram(products []*types.Product, step, limit int) []Bin {
	if step <= 0 || limit < step {
		return []Bin{}
	}
	bins := make([]Bin, limit/step)
	for i := range bins {
		bins[i].Label = fmt.Sprintf("$%d-%d", i*step, (i+1)*step)
	}
	for _, p := range products {
		idx := int(math.Floor(p.Price / float64(step)))
		idx = min(max(idx, 0), len(bins)-1)
		bins[idx].Count++
	}
	return bins
}

// CategoryShare lists categories in order of first appearance.
func CategoryShare(products []*types.Product) []Segment {
	segments := make([]Segment, 0)
	index := make(map[string]int)
	for _, p := range products {
		idx, ok := index[p.Category]
		if !ok {
			idx = len(segments)
			index[p.Category] = idx
			segments = append(segments, Segment{
				Label: p.Category,
				Color: Palette[idx%len(Palette)],
			})
		}
		segments[idx].Value++
	}
	for i := range segments {
		segments[i].Percent = ratio(segments[i].Value, len(products)) * 100
	}
	return segments
}

func ratio(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// Ratings rounds each rating half up into the 5 to 1 star buckets, a
// rating that rounds to 0 is only part of the average.
func Ratings(products []*types.Product) RatingDistribution {
	buckets := make([]Bin, 5)
	for i := range buckets {
		buckets[i].Label = fmt.Sprintf("%d★", 5-i)
	}
	sum := 0.0
	for _, p := range products {
		sum += p.Rating
		rounded := int(math.Floor(p.Rating + 0.5))
		if rounded >= 1 && rounded <= 5 {
			buckets[5-rounded].Count++
		}
	}
	avg := 0.0
	if len(products) > 0 {
		avg = sum / float64(len(products))
	}
	return RatingDistribution{Buckets: buckets, Average: avg}
}

func Stock(products []*types.Product) StockSummary {
	s := StockSummary{}
	for _, p := range products {
		switch p.StockStatus() {
		case types.InStock:
			s.InStock++
		case types.LowStock:
			s.LowStock++
		default:
			s.OutOfStock++
		}
	}
	total := len(products)
	s.InRatio = ratio(s.InStock, total)
	s.LowRatio = ratio(s.LowStock, total)
	s.OutRatio = ratio(s.OutOfStock, total)
	return s
}

func Summarize(products []*types.Product) Summary {
	sum, value := 0.0, 0.0
	for _, p := range products {
		sum += p.Price
		value += p.Price * float64(p.Stock)
	}
	avg := 0.0
	if len(products) > 0 {
		avg = sum / float64(len(products))
	}
	return Summary{
		Total:          len(products),
		PriceBins:      PriceHistogram(products, PriceStep, PriceMax),
		Categories:     CategoryShare(products),
		Ratings:        Ratings(products),
		Stock:          Stock(products),
		AveragePrice:   avg,
		InventoryValue: value,
	}
}
