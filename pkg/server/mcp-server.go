package server

import (
	"fmt"
	"strings"

	"github.com/matst80/slask-dashboard/pkg/common/jsoncompat"
	"github.com/matst80/slask-dashboard/pkg/criteria"
	"github.com/matst80/slask-dashboard/pkg/dashboard"
	"github.com/matst80/slask-dashboard/pkg/types"
	mcp "github.com/metoro-io/mcp-golang"
	mcphttp "github.com/metoro-io/mcp-golang/transport/http"
)

type SearchProductsArguments struct {
	Query      string   `json:"query" jsonschema:"description=Free text matched against title and description"`
	Categories []string `json:"categories" jsonschema:"description=Only products in one of these categories"`
	Brands     []string `json:"brands" jsonschema:"description=Only products from one of these brands"`
	MinRating  float64  `json:"minRating" jsonschema:"description=Lowest accepted rating from 0 to 5"`
	MaxPrice   float64  `json:"maxPrice" jsonschema:"description=Highest accepted price, 0 for no limit"`
	Sort       string   `json:"sort" jsonschema:"description=One of price-asc price-desc rating-asc rating-desc name-asc name-desc"`
	Limit      int      `json:"limit" jsonschema:"description=Number of products to return, defaults to 10"`
}

type productSummary struct {
	Id       types.ProductId `json:"id"`
	Title    string          `json:"title"`
	Brand    string          `json:"brand"`
	Category string          `json:"category"`
	Price    float64         `json:"price"`
	Rating   float64         `json:"rating"`
	Stock    string          `json:"stock"`
}

// SearchProducts runs the dashboard pipeline for a tool call.
func (a *App) SearchProducts(args SearchProductsArguments) (string, error) {
	products, err := a.products()
	if err != nil {
		return "", err
	}
	filters := types.DefaultFilters()
	filters.Search = strings.TrimSpace(args.Query)
	if args.Categories != nil {
		filters.Categories = args.Categories
	}
	if args.Brands != nil {
		filters.Brands = args.Brands
	}
	filters.Rating = args.MinRating
	filters.PriceMax = args.MaxPrice
	if a.sorter.IsKnown(args.Sort) {
		filters.Sort = args.Sort
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 10
	}
	res := dashboard.Run(dashboard.Input{
		Catalog:  products,
		Filters:  &filters,
		Page:     1,
		PageSize: limit,
		Sorter:   a.sorter,
	})
	items := make([]productSummary, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, productSummary{
			Id:       p.Id,
			Title:    p.Title,
			Brand:    p.Brand,
			Category: p.Category,
			Price:    p.Price,
			Rating:   p.Rating,
			Stock:    p.StockStatus(),
		})
	}
	data, err := jsoncompat.Marshal(map[string]any{
		"matched":  res.Matched,
		"products": items,
		"query":    criteria.Encode(&filters, 0).Encode(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// StartMcpServer blocks serving the product search tool on addr.
func (a *App) StartMcpServer(addr string) error {
	transport := mcphttp.NewHTTPTransport("/mcp")
	transport.WithAddr(addr)

	server := mcp.NewServer(transport)
	err := server.RegisterTool("search_products", "Search the product catalog with the dashboard filters", func(args SearchProductsArguments) (*mcp.ToolResponse, error) {
		text, err := a.SearchProducts(args)
		if err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}
		return mcp.NewToolResponse(mcp.NewTextContent(text)), nil
	})
	if err != nil {
		return err
	}
	return server.Serve()
}
