package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/matst80/slask-dashboard/pkg/catalog"
	"github.com/matst80/slask-dashboard/pkg/common"
	"github.com/matst80/slask-dashboard/pkg/dashboard"
	"github.com/matst80/slask-dashboard/pkg/debounce"
	"github.com/matst80/slask-dashboard/pkg/sorting"
	"github.com/matst80/slask-dashboard/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultSessionTTL = 30 * time.Minute

type Options struct {
	Loader     *catalog.Loader
	Client     *catalog.Client
	Storage    types.KeyValueStorage
	Tracking   types.Tracking
	Scheduler  debounce.Scheduler
	SessionTTL time.Duration
}

// App serves the catalog statelessly and keeps a dashboard per session for
// the stateful endpoints.
type App struct {
	loader   *catalog.Loader
	client   *catalog.Client
	storage  types.KeyValueStorage
	tracking types.Tracking
	sorter   *sorting.Sorter
	sessions *Sessions
}

func NewApp(opts Options) *App {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	a := &App{
		loader:   opts.Loader,
		client:   opts.Client,
		storage:  opts.Storage,
		tracking: opts.Tracking,
		sorter:   sorting.NewSorter(),
	}
	a.sessions = NewSessions(ttl, func(sessionId string, query url.Values) *dashboard.Dashboard {
		return dashboard.New(a.loader, dashboard.Options{
			SessionId:     sessionId,
			Query:         query,
			Storage:       a.storage,
			StoragePrefix: sessionId + ":",
			Scheduler:     opts.Scheduler,
			Tracking:      a.tracking,
			Sorter:        a.sorter,
		})
	})
	return a
}

func (a *App) Sessions() *Sessions {
	return a.sessions
}

// CatalogChanged drops cached responses and loads the catalog again.
func (a *App) CatalogChanged(ctx context.Context) error {
	if a.client != nil {
		a.client.ClearCache()
	}
	return a.loader.Load(ctx)
}

func (a *App) Close() {
	a.sessions.Close()
	a.loader.Close()
}

func (a *App) Handler() http.Handler {
	trk := a.tracking
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if a.loader.State().Err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("catalog unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/products", common.JsonHandler(trk, a.Products))
	mux.HandleFunc("GET /api/products/{id}", common.JsonHandler(trk, a.Product))
	mux.HandleFunc("GET /api/facets", common.JsonHandler(trk, a.Facets))
	mux.HandleFunc("GET /api/analytics", common.JsonHandler(trk, a.Analytics))

	mux.HandleFunc("GET /api/favorites", common.JsonHandler(trk, a.Favorites))
	mux.HandleFunc("POST /api/favorites/{id}", common.JsonHandler(trk, a.AddFavorite))
	mux.HandleFunc("DELETE /api/favorites/{id}", common.JsonHandler(trk, a.RemoveFavorite))

	mux.HandleFunc("GET /api/compare", common.JsonHandler(trk, a.Compare))
	mux.HandleFunc("POST /api/compare/{id}", common.JsonHandler(trk, a.AddCompare))
	mux.HandleFunc("DELETE /api/compare/{id}", common.JsonHandler(trk, a.RemoveCompare))

	mux.HandleFunc("GET /api/checkout", common.JsonHandler(trk, a.CheckoutIds))
	mux.HandleFunc("GET /api/checkout/summary", common.JsonHandler(trk, a.CheckoutSummary))
	mux.HandleFunc("POST /api/checkout/{id}", common.JsonHandler(trk, a.AddCheckout))
	mux.HandleFunc("DELETE /api/checkout/{id}", common.JsonHandler(trk, a.RemoveCheckout))
	mux.HandleFunc("DELETE /api/checkout", common.JsonHandler(trk, a.ClearCheckout))

	mux.HandleFunc("GET /api/session", common.JsonHandler(trk, a.SessionView))
	mux.HandleFunc("POST /api/session/search", common.JsonHandler(trk, a.SessionSearch))
	mux.HandleFunc("POST /api/session/price", common.JsonHandler(trk, a.SessionPrice))
	mux.HandleFunc("POST /api/session/dates", common.JsonHandler(trk, a.SessionDates))
	mux.HandleFunc("PATCH /api/session/filters", common.JsonHandler(trk, a.SessionFilters))
	mux.HandleFunc("DELETE /api/session/filters", common.JsonHandler(trk, a.SessionClear))
	mux.HandleFunc("POST /api/session/toggle", common.JsonHandler(trk, a.SessionToggle))
	mux.HandleFunc("POST /api/session/chips/remove", common.JsonHandler(trk, a.SessionRemoveChip))
	mux.HandleFunc("POST /api/session/page/{page}", common.JsonHandler(trk, a.SessionPage))
	mux.HandleFunc("POST /api/session/retry", common.JsonHandler(trk, a.SessionRetry))
	mux.HandleFunc("DELETE /api/session/toasts/{id}", common.JsonHandler(trk, a.SessionDismissToast))
	return mux
}
