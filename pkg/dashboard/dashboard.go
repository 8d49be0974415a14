package dashboard

import (
	"context"
	"errors"
	"log"
	"net/url"
	"sync"

	"github.com/matst80/slask-dashboard/pkg/catalog"
	"github.com/matst80/slask-dashboard/pkg/criteria"
	"github.com/matst80/slask-dashboard/pkg/debounce"
	"github.com/matst80/slask-dashboard/pkg/facet"
	"github.com/matst80/slask-dashboard/pkg/notify"
	"github.com/matst80/slask-dashboard/pkg/paging"
	"github.com/matst80/slask-dashboard/pkg/selection"
	"github.com/matst80/slask-dashboard/pkg/sorting"
	"github.com/matst80/slask-dashboard/pkg/storage"
	"github.com/matst80/slask-dashboard/pkg/types"
)

type Options struct {
	SessionId string
	Query     url.Values
	URLWriter criteria.URLWriter
	Storage   types.KeyValueStorage
	// StoragePrefix is put in front of the selection namespaces.
	StoragePrefix string
	Scheduler     debounce.Scheduler
	Tracking      types.Tracking
	Sorter        *sorting.Sorter
	PageSize      int
}

// Dashboard ties the catalog, the criteria and the selections of one user
// together and recomputes the visible list after every change.
type Dashboard struct {
	mu         sync.Mutex
	sessionId  string
	loader     *catalog.Loader
	criteria   *criteria.Store
	selections *selection.Selections
	toasts     *notify.Center
	tracker    *paging.Tracker
	tracking   types.Tracking
	sorter     *sorting.Sorter
	pageSize   int

	search *debounce.TextInput
	price  *debounce.RangeInput
	dates  *debounce.DateRangeInput

	products []*types.Product
	index    *facet.KeyIndex
	maxPrice float64
	result   Result
	loading  bool
	err      error

	unsubscribe []func()
}

func New(loader *catalog.Loader, opts Options) *Dashboard {
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = debounce.RealScheduler{}
	}
	store := opts.Storage
	if store == nil {
		store = storage.NewMemoryStorage()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = paging.DefaultPageSize
	}
	sorter := opts.Sorter
	if sorter == nil {
		sorter = sorting.NewSorter()
	}

	d := &Dashboard{
		sessionId:  opts.SessionId,
		loader:     loader,
		criteria:   criteria.NewStore(opts.Query, opts.URLWriter),
		selections: selection.NewSelections(store, opts.StoragePrefix),
		toasts:     notify.NewCenter(scheduler),
		tracking:   opts.Tracking,
		sorter:     sorter,
		pageSize:   pageSize,
		index:      facet.NewKeyIndex(nil),
	}
	initial := d.criteria.Snapshot()
	d.tracker = paging.NewTracker(&initial)

	d.search = debounce.NewTextInput(scheduler, debounce.SearchDelay, initial.Search, func(value string) {
		d.criteria.SetSearch(value)
	})
	d.price = debounce.NewRangeInput(scheduler, debounce.PriceDelay, 0, 0,
		debounce.Range{Min: initial.PriceMin, Max: initial.PriceMax},
		func(r debounce.Range) {
			if err := d.criteria.SetPrice(r.Min, r.Max); err != nil {
				log.Printf("Dropping price range %v-%v: %v", r.Min, r.Max, err)
			}
		})
	d.dates = debounce.NewDateRangeInput(scheduler, debounce.DateDelay,
		debounce.DateRange{Start: initial.StartDate, End: initial.EndDate},
		func(r debounce.DateRange) {
			d.criteria.SetDateRange(r.Start, r.End)
		})

	d.unsubscribe = append(d.unsubscribe,
		d.criteria.Subscribe(d.onCriteria),
		loader.Subscribe(d.onCatalog),
	)
	d.selections.Favorites.Subscribe(func([]types.ProductId) {
		d.recompute()
	})
	d.onCatalog(loader.State())
	return d
}

func (d *Dashboard) onCatalog(state catalog.State) {
	d.mu.Lock()
	d.loading = state.Loading
	d.err = state.Err
	failed := state.Err != nil && !state.Loading
	changed := !state.Loading && state.Err == nil && !sameProducts(d.products, state.Products)
	if changed {
		d.products = state.Products
		d.index = facet.NewKeyIndex(state.Products)
		d.maxPrice = types.MaxPrice(state.Products)
	}
	maxPrice := d.maxPrice
	d.mu.Unlock()

	if failed {
		d.toasts.Add("Failed to load products.", "Retry?", notify.Error)
	}
	if changed {
		d.price.SetBounds(0, maxPrice)
		d.criteria.SetCatalogMax(maxPrice)
		f := d.criteria.Snapshot()
		d.price.Sync(debounce.Range{Min: f.PriceMin, Max: f.PriceMax})
	}
	d.recompute()
}

func sameProducts(a, b []*types.Product) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// onCriteria mirrors a committed value into its input only when that value
// changed, so a draft survives unrelated filter changes.
func (d *Dashboard) onCriteria(prev, next types.Filters) {
	d.tracker.Observe(&next)
	if prev.Search != next.Search {
		d.search.Sync(next.Search)
	}
	if prev.PriceMin != next.PriceMin || prev.PriceMax != next.PriceMax {
		d.price.Sync(debounce.Range{Min: next.PriceMin, Max: next.PriceMax})
	}
	if prev.StartDate != next.StartDate || prev.EndDate != next.EndDate {
		d.dates.Sync(debounce.DateRange{Start: next.StartDate, End: next.EndDate})
	}
	res := d.recompute()
	if d.tracking != nil {
		d.tracking.TrackFilters(d.sessionId, &next, res.Matched, res.Page)
	}
}

func (d *Dashboard) recompute() Result {
	f := d.criteria.Snapshot()
	favorites := d.selections.Favorites.IdSet()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.result = Run(Input{
		Catalog:   d.products,
		Filters:   &f,
		Favorites: favorites,
		Page:      d.tracker.Page(),
		PageSize:  d.pageSize,
		Sorter:    d.sorter,
	})
	return d.result
}

// Start loads the catalog. A failure leaves the dashboard in its error
// state until Retry succeeds.
func (d *Dashboard) Start(ctx context.Context) error {
	err := d.loader.Load(ctx)
	if errors.Is(err, catalog.ErrStaleLoad) {
		return nil
	}
	return err
}

func (d *Dashboard) Retry(ctx context.Context) error {
	return d.Start(ctx)
}

func (d *Dashboard) Criteria() *criteria.Store {
	return d.criteria
}

func (d *Dashboard) Selections() *selection.Selections {
	return d.selections
}

func (d *Dashboard) Toasts() *notify.Center {
	return d.toasts
}

func (d *Dashboard) TypeSearch(value string) {
	d.search.Type(value)
}

func (d *Dashboard) ClearSearch() {
	d.search.Reset()
	d.criteria.SetSearch("")
}

func (d *Dashboard) DragPriceMin(value float64) debounce.Range {
	return d.price.DragMin(value)
}

func (d *Dashboard) DragPriceMax(value float64) debounce.Range {
	return d.price.DragMax(value)
}

func (d *Dashboard) EnterPriceMin(value float64) debounce.Range {
	return d.price.EnterMin(value)
}

func (d *Dashboard) EnterPriceMax(value float64) debounce.Range {
	return d.price.EnterMax(value)
}

func (d *Dashboard) SetStartDate(value string) debounce.DateRange {
	return d.dates.SetStart(value)
}

func (d *Dashboard) SetEndDate(value string) debounce.DateRange {
	return d.dates.SetEnd(value)
}

func (d *Dashboard) SetSort(key types.SortKey) error {
	return d.criteria.SetSort(key)
}

func (d *Dashboard) SetView(view types.ViewMode) error {
	return d.criteria.SetView(view)
}

func (d *Dashboard) SetRating(rating float64) error {
	return d.criteria.SetRating(rating)
}

func (d *Dashboard) SetFilter(key types.FilterKey, value any) error {
	return d.criteria.SetFilter(key, value)
}

// SetFilters changes several fields in one commit, or none when a value is
// invalid.
func (d *Dashboard) SetFilters(values map[types.FilterKey]any) error {
	return d.criteria.SetFilters(values)
}

func (d *Dashboard) ToggleMulti(key types.MultiKey, value string) error {
	return d.criteria.ToggleMulti(key, value)
}

func (d *Dashboard) SetFavoritesOnly(on bool) {
	d.criteria.SetFavoritesOnly(on)
}

func (d *Dashboard) RemoveChip(chip types.ActiveFilterChip) error {
	return d.criteria.RemoveChip(chip)
}

// ClearFilters resets the criteria and drops every input draft, also the
// ones whose committed value already was the default.
func (d *Dashboard) ClearFilters() {
	d.search.Reset()
	d.price.Reset()
	d.dates.Reset()
	d.criteria.Clear()
}

// SetPage moves to page, clamped to the current page count.
func (d *Dashboard) SetPage(page int) int {
	d.mu.Lock()
	page = paging.NewPager(d.pageSize).Clamp(page, d.result.Matched)
	d.mu.Unlock()
	d.tracker.SetPage(page)
	d.recompute()
	return page
}

func (d *Dashboard) track(action, reason string, id types.ProductId) {
	if d.tracking == nil {
		return
	}
	d.tracking.TrackAction(d.sessionId, types.TrackingAction{Action: action, Reason: reason, Item: id})
}

func (d *Dashboard) compareFull() {
	d.toasts.Add("Comparison limit", "You can compare up to 3 products.", notify.Error)
}

// ToggleCompare adds or removes id from the compare list.
func (d *Dashboard) ToggleCompare(id types.ProductId) (bool, error) {
	isMember, err := d.selections.ToggleCompare(id)
	if errors.Is(err, selection.ErrCompareFull) {
		d.compareFull()
		return false, err
	}
	if isMember {
		d.toasts.Add("Added", "Product added to comparison.", notify.Success)
		d.track("compare", "add", id)
	} else {
		d.toasts.Add("Removed", "Product removed from comparison.", notify.Info)
		d.track("compare", "remove", id)
	}
	return isMember, nil
}

// AddToCompare never removes, an id already compared is left alone.
func (d *Dashboard) AddToCompare(id types.ProductId) error {
	if d.selections.IsInCompare(id) {
		return nil
	}
	if err := d.selections.AddToCompare(id); err != nil {
		if errors.Is(err, selection.ErrCompareFull) {
			d.compareFull()
		}
		return err
	}
	d.toasts.Add("Added", "Product added to comparison.", notify.Success)
	d.track("compare", "add", id)
	return nil
}

// RemoveFromCompare is a no-op for an id that is not compared.
func (d *Dashboard) RemoveFromCompare(id types.ProductId) bool {
	if !d.selections.RemoveFromCompare(id) {
		return false
	}
	d.toasts.Add("Removed", "Product removed from comparison.", notify.Info)
	d.track("compare", "remove", id)
	return true
}

func (d *Dashboard) ToggleFavorite(id types.ProductId) bool {
	wasFavorite := d.selections.IsFavorite(id)
	failed := false
	isFavorite := d.selections.ToggleFavorite(id, func(err error) {
		failed = true
		d.toasts.Add("Save failed", "Could not save favorite. Try again.", notify.Error)
	})
	if failed {
		return isFavorite
	}
	if wasFavorite {
		d.toasts.Add("Removed", "Removed from favorites.", notify.Success)
		d.track("favorite", "remove", id)
	} else {
		d.toasts.Add("Saved", "Added to favorites.", notify.Success)
		d.track("favorite", "add", id)
	}
	return isFavorite
}

func (d *Dashboard) ToggleCheckout(id types.ProductId) bool {
	inCheckout := d.selections.ToggleCheckout(id)
	if inCheckout {
		d.track("checkout", "add", id)
	} else {
		d.track("checkout", "remove", id)
	}
	return inCheckout
}

func (d *Dashboard) AddToCheckout(id types.ProductId) bool {
	if !d.selections.AddToCheckout(id) {
		return false
	}
	d.track("checkout", "add", id)
	return true
}

func (d *Dashboard) RemoveFromCheckout(id types.ProductId) bool {
	if !d.selections.RemoveFromCheckout(id) {
		return false
	}
	d.track("checkout", "remove", id)
	return true
}

func (d *Dashboard) Product(id types.ProductId) (*types.Product, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index.Get(id)
}

// Compared returns the compared products in the order they were added.
func (d *Dashboard) Compared() []*types.Product {
	ids := d.selections.Compare.Ids()
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index.Resolve(ids)
}

// Close stops all pending input commits and toast timers and detaches from
// the shared catalog.
func (d *Dashboard) Close() {
	d.search.Close()
	d.price.Close()
	d.dates.Close()
	d.toasts.Close()
	for _, fn := range d.unsubscribe {
		fn()
	}
}
