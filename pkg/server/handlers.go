package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matst80/slask-dashboard/pkg/analytics"
	"github.com/matst80/slask-dashboard/pkg/common"
	"github.com/matst80/slask-dashboard/pkg/common/jsoncompat"
	"github.com/matst80/slask-dashboard/pkg/criteria"
	"github.com/matst80/slask-dashboard/pkg/dashboard"
	"github.com/matst80/slask-dashboard/pkg/facet"
	"github.com/matst80/slask-dashboard/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	productQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_product_queries_total",
		Help: "The total number of stateless product queries",
	})
	selectionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_selection_requests_total",
		Help: "The total number of selection requests",
	}, []string{"set", "method"})
)

type ProductsResponse struct {
	dashboard.Result
	Filters types.Filters            `json:"filters"`
	Chips   []types.ActiveFilterChip `json:"chips"`
}

type FacetsResponse struct {
	facet.Counts
	Stock      map[string]int `json:"stock"`
	Categories []string       `json:"categoryKeys"`
	Brands     []string       `json:"brandKeys"`
	MaxPrice   float64        `json:"maxPrice"`
}

type IdsResponse struct {
	Ids []types.ProductId `json:"ids"`
}

type CompareResponse struct {
	Ids      []types.ProductId `json:"ids"`
	Products []*types.Product  `json:"products"`
}

// products returns the loaded catalog, or the load error while none is
// available.
func (a *App) products() ([]*types.Product, error) {
	state := a.loader.State()
	if len(state.Products) == 0 && state.Err != nil {
		return nil, withStatus(state.Err)
	}
	if len(state.Products) == 0 && !state.Loading {
		return nil, withStatus(ErrCatalogUnavailable)
	}
	return state.Products, nil
}

func pathId(r *http.Request) (types.ProductId, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, badRequest(fmt.Errorf("invalid id %q", r.PathValue("id")))
	}
	return id, nil
}

func (a *App) Products(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	productQueries.Inc()
	products, err := a.products()
	if err != nil {
		return err
	}
	query := r.URL.Query()
	paging, err := criteria.DecodePage(query)
	if err != nil {
		return badRequest(fmt.Errorf("invalid paging: %w", err))
	}
	filters := criteria.Decode(query)
	d := a.sessions.Get(sessionId, nil)
	res := dashboard.Run(dashboard.Input{
		Catalog:   products,
		Filters:   &filters,
		Favorites: d.Selections().Favorites.IdSet(),
		Page:      paging.Page,
		PageSize:  paging.Size,
		Sorter:    a.sorter,
	})
	if a.tracking != nil {
		go a.tracking.TrackFilters(sessionId, &filters, res.Matched, res.Page)
	}
	return enc.Encode(ProductsResponse{
		Result:  res,
		Filters: filters,
		Chips:   facet.Chips(&filters, types.MaxPrice(products)),
	})
}

func (a *App) Product(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	id, err := pathId(r)
	if err != nil {
		return err
	}
	products, err := a.products()
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.Id == id {
			return enc.Encode(p)
		}
	}
	return common.NewHttpError(http.StatusNotFound, fmt.Errorf("product %d not found", id))
}

func (a *App) Facets(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	products, err := a.products()
	if err != nil {
		return err
	}
	idx := facet.NewKeyIndex(products)
	w.Header().Set("Cache-Control", "public, max-age=60")
	return enc.Encode(FacetsResponse{
		Counts:     idx.Counts(),
		Stock:      idx.Stock.Counts(),
		Categories: idx.Categories.Values(),
		Brands:     idx.Brands.Values(),
		MaxPrice:   types.MaxPrice(products),
	})
}

// Analytics summarizes the products matching the query, the whole catalog
// when no criteria are given.
func (a *App) Analytics(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	products, err := a.products()
	if err != nil {
		return err
	}
	filters := criteria.Decode(r.URL.Query())
	d := a.sessions.Get(sessionId, nil)
	res := dashboard.Run(dashboard.Input{
		Catalog:   products,
		Filters:   &filters,
		Favorites: d.Selections().Favorites.IdSet(),
		Page:      1,
		PageSize:  max(len(products), 1),
	})
	return enc.Encode(analytics.Summarize(res.Items))
}

func (a *App) Favorites(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	selectionRequests.WithLabelValues("favorites", r.Method).Inc()
	d := a.sessions.Get(sessionId, nil)
	return enc.Encode(IdsResponse{Ids: d.Selections().Favorites.Ids()})
}

func (a *App) setFavorite(r *http.Request, sessionId string, want bool) ([]types.ProductId, error) {
	selectionRequests.WithLabelValues("favorites", r.Method).Inc()
	id, err := pathId(r)
	if err != nil {
		return nil, err
	}
	d := a.sessions.Get(sessionId, nil)
	if d.Selections().IsFavorite(id) != want {
		if d.ToggleFavorite(id) != want {
			return nil, withStatus(ErrSaveFailed)
		}
	}
	return d.Selections().Favorites.Ids(), nil
}

func (a *App) AddFavorite(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	ids, err := a.setFavorite(r, sessionId, true)
	if err != nil {
		return err
	}
	return enc.Encode(IdsResponse{Ids: ids})
}

func (a *App) RemoveFavorite(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	ids, err := a.setFavorite(r, sessionId, false)
	if err != nil {
		return err
	}
	return enc.Encode(IdsResponse{Ids: ids})
}

func compareResponse(d *dashboard.Dashboard) CompareResponse {
	return CompareResponse{Ids: d.Selections().Compare.Ids(), Products: d.Compared()}
}

func (a *App) Compare(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	selectionRequests.WithLabelValues("compare", r.Method).Inc()
	return enc.Encode(compareResponse(a.sessions.Get(sessionId, nil)))
}

func (a *App) AddCompare(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	selectionRequests.WithLabelValues("compare", r.Method).Inc()
	id, err := pathId(r)
	if err != nil {
		return err
	}
	d := a.sessions.Get(sessionId, nil)
	if err := d.AddToCompare(id); err != nil {
		return withStatus(err)
	}
	return enc.Encode(compareResponse(d))
}

func (a *App) RemoveCompare(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	selectionRequests.WithLabelValues("compare", r.Method).Inc()
	id, err := pathId(r)
	if err != nil {
		return err
	}
	d := a.sessions.Get(sessionId, nil)
	d.RemoveFromCompare(id)
	return enc.Encode(compareResponse(d))
}

func (a *App) CheckoutIds(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	selectionRequests.WithLabelValues("checkout", r.Method).Inc()
	d := a.sessions.Get(sessionId, nil)
	return enc.Encode(IdsResponse{Ids: d.Selections().Checkout.Ids()})
}

func (a *App) CheckoutSummary(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	return enc.Encode(a.sessions.Get(sessionId, nil).Checkout())
}

func (a *App) AddCheckout(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	selectionRequests.WithLabelValues("checkout", r.Method).Inc()
	id, err := pathId(r)
	if err != nil {
		return err
	}
	d := a.sessions.Get(sessionId, nil)
	d.AddToCheckout(id)
	return enc.Encode(IdsResponse{Ids: d.Selections().Checkout.Ids()})
}

func (a *App) RemoveCheckout(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	selectionRequests.WithLabelValues("checkout", r.Method).Inc()
	id, err := pathId(r)
	if err != nil {
		return err
	}
	d := a.sessions.Get(sessionId, nil)
	d.RemoveFromCheckout(id)
	return enc.Encode(IdsResponse{Ids: d.Selections().Checkout.Ids()})
}

func (a *App) ClearCheckout(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	selectionRequests.WithLabelValues("checkout", r.Method).Inc()
	d := a.sessions.Get(sessionId, nil)
	d.Selections().ClearCheckout()
	return enc.Encode(IdsResponse{Ids: d.Selections().Checkout.Ids()})
}

func decodeBody(r *http.Request, out any) error {
	if err := jsoncompat.NewDecoder(r.Body).Decode(out); err != nil {
		return badRequest(errors.Join(errors.New("invalid request body"), err))
	}
	return nil
}
