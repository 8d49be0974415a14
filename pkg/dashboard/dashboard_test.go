package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/matst80/slask-dashboard/pkg/catalog"
	"github.com/matst80/slask-dashboard/pkg/debounce"
	"github.com/matst80/slask-dashboard/pkg/notify"
	"github.com/matst80/slask-dashboard/pkg/storage"
	"github.com/matst80/slask-dashboard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher struct {
	products []*types.Product
	err      error
}

func (f *staticFetcher) FetchCatalog(ctx context.Context, limit int) (*catalog.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.Response{Products: f.products}, nil
}

func makeCatalog(n int) []*types.Product {
	ret := make([]*types.Product, 0, n)
	for i := 1; i <= n; i++ {
		category := "beauty"
		if i%2 == 0 {
			category = "groceries"
		}
		ret = append(ret, &types.Product{
			Id:       i,
			Title:    fmt.Sprintf("Product %02d", i),
			Price:    float64(i * 10),
			Rating:   float64(i%5) + 0.5,
			Stock:    i,
			Category: category,
			Brand:    "Brand",
		})
	}
	return ret
}

type fixture struct {
	sched   *debounce.FakeScheduler
	fetcher *staticFetcher
	mem     *storage.MemoryStorage
	urls    []url.Values
	d       *Dashboard
}

func newFixture(t *testing.T, query string) *fixture {
	q, err := url.ParseQuery(query)
	require.NoError(t, err)
	fx := &fixture{
		sched:   debounce.NewFakeScheduler(),
		fetcher: &staticFetcher{products: makeCatalog(50)},
		mem:     storage.NewMemoryStorage(),
	}
	fx.d = New(catalog.NewLoader(fx.fetcher, 100), Options{
		Query:     q,
		Storage:   fx.mem,
		Scheduler: fx.sched,
		URLWriter: criteriaWriter(func(v url.Values) {
			fx.urls = append(fx.urls, v)
		}),
	})
	t.Cleanup(fx.d.Close)
	return fx
}

type criteriaWriter func(url.Values)

func (w criteriaWriter) ReplaceQuery(v url.Values) { w(v) }

func TestRunScenario(t *testing.T) {
	item0 := &types.Product{Id: 0, Price: 10, Category: "A", Rating: 4.5, Stock: 0}
	item1 := &types.Product{Id: 1, Price: 200, Category: "B", Rating: 2, Stock: 5}
	products := []*types.Product{item0, item1}

	f := types.DefaultFilters()
	f.Categories = []string{"A"}
	res := Run(Input{Catalog: products, Filters: &f, Page: 1})
	assert.Equal(t, []*types.Product{item0}, res.Items)

	f = types.DefaultFilters()
	f.Sort = types.SortPriceDesc
	res = Run(Input{Catalog: products, Filters: &f, Page: 1})
	assert.Equal(t, []*types.Product{item1, item0}, res.Items)
	assert.Equal(t, 2, res.Total)
}

func TestRunPaging(t *testing.T) {
	f := types.DefaultFilters()
	products := makeCatalog(50)
	res := Run(Input{Catalog: products, Filters: &f, Page: 3})
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 3, res.PageCount)
	res = Run(Input{Catalog: products, Filters: &f, Page: 9})
	assert.Equal(t, 3, res.Page)
}

func TestStartBackfillsPrice(t *testing.T) {
	fx := newFixture(t, "")
	require.NoError(t, fx.d.Start(context.Background()))
	v := fx.d.View()
	assert.Equal(t, 50, v.Total)
	assert.Equal(t, 50, v.Matched)
	assert.Len(t, v.Items, 24)
	assert.Equal(t, 500.0, v.MaxPrice)
	assert.Equal(t, 500.0, v.Filters.PriceMax)
	assert.Equal(t, debounce.Range{Min: 0, Max: 500}, v.PriceBounds)
	assert.Equal(t, []string{"beauty", "groceries"}, v.Categories)
	assert.Equal(t, 25, v.Counts.Categories["beauty"])
	assert.Empty(t, v.Query)
	assert.Empty(t, v.Chips)
}

func TestSearchIsDebounced(t *testing.T) {
	fx := newFixture(t, "")
	require.NoError(t, fx.d.Start(context.Background()))
	fx.d.SetPage(2)

	fx.d.TypeSearch("Product 0")
	fx.sched.Advance(200 * time.Millisecond)
	fx.d.TypeSearch("Product 1")
	fx.sched.Advance(299 * time.Millisecond)

	v := fx.d.View()
	assert.True(t, v.Searching)
	assert.Equal(t, "Product 1", v.SearchDraft)
	assert.Equal(t, "", v.Filters.Search)
	assert.Equal(t, 2, v.Page)

	fx.sched.Advance(time.Millisecond)
	v = fx.d.View()
	assert.False(t, v.Searching)
	assert.Equal(t, "Product 1", v.Filters.Search)
	assert.Equal(t, 10, v.Matched)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, "q=Product+1", v.Query)
}

func TestClearFiltersResetsPendingDrafts(t *testing.T) {
	fx := newFixture(t, "q=Product&rating=3")
	require.NoError(t, fx.d.Start(context.Background()))
	fx.d.TypeSearch("Product 2")
	fx.d.DragPriceMax(100)
	fx.d.ClearFilters()

	v := fx.d.View()
	assert.Equal(t, "", v.SearchDraft)
	assert.Equal(t, debounce.Range{Min: 0, Max: 500}, v.PriceDraft)

	fx.sched.Advance(time.Second)
	v = fx.d.View()
	assert.Equal(t, "", v.Filters.Search)
	assert.Equal(t, 500.0, v.Filters.PriceMax)
	assert.Equal(t, 50, v.Matched)
}

func TestDraftsSurviveUnrelatedChanges(t *testing.T) {
	fx := newFixture(t, "")
	require.NoError(t, fx.d.Start(context.Background()))

	fx.d.TypeSearch("Product 0")
	fx.sched.Advance(100 * time.Millisecond)
	require.NoError(t, fx.d.ToggleMulti(types.FilterCategories, "beauty"))
	assert.Equal(t, "Product 0", fx.d.View().SearchDraft)
	fx.sched.Advance(time.Second)
	v := fx.d.View()
	assert.Equal(t, "Product 0", v.Filters.Search)
	assert.Equal(t, 5, v.Matched)

	fx.d.DragPriceMin(100)
	require.NoError(t, fx.d.ToggleMulti(types.FilterCategories, "beauty"))
	assert.Equal(t, debounce.Range{Min: 100, Max: 500}, fx.d.View().PriceDraft)
	fx.sched.Advance(time.Second)
	assert.Equal(t, 100.0, fx.d.View().Filters.PriceMin)

	fx.d.SetStartDate("2024-01-01")
	require.NoError(t, fx.d.SetRating(2))
	assert.Equal(t, debounce.DateRange{Start: "2024-01-01"}, fx.d.View().DateDraft)
	fx.sched.Advance(time.Second)
	v = fx.d.View()
	assert.Equal(t, "2024-01-01", v.Filters.StartDate)
	assert.Equal(t, debounce.DateRange{Start: "2024-01-01"}, v.DateDraft)
}

func TestDragAfterUnboundedPriceMax(t *testing.T) {
	fx := newFixture(t, "")
	require.NoError(t, fx.d.Start(context.Background()))
	require.NoError(t, fx.d.SetFilter(types.FilterPriceMax, 0.0))
	assert.Equal(t, debounce.Range{Min: 0, Max: 500}, fx.d.View().PriceDraft)

	assert.Equal(t, debounce.Range{Min: 50, Max: 500}, fx.d.DragPriceMin(50))
	fx.sched.Advance(time.Second)
	v := fx.d.View()
	assert.Equal(t, 50.0, v.Filters.PriceMin)
	assert.Equal(t, 500.0, v.Filters.PriceMax)
}

func TestPriceDragCommits(t *testing.T) {
	fx := newFixture(t, "")
	require.NoError(t, fx.d.Start(context.Background()))
	fx.d.DragPriceMin(100)
	r := fx.d.DragPriceMax(50)
	assert.Equal(t, debounce.Range{Min: 100, Max: 101}, r)
	fx.d.DragPriceMax(200)
	fx.sched.Advance(debounce.PriceDelay)

	v := fx.d.View()
	assert.Equal(t, 100.0, v.Filters.PriceMin)
	assert.Equal(t, 200.0, v.Filters.PriceMax)
	assert.Equal(t, 11, v.Matched)
	require.Len(t, v.Chips, 1)
	assert.Equal(t, "$100 - $200", v.Chips[0].Label)
}

func TestPageResetRules(t *testing.T) {
	fx := newFixture(t, "")
	require.NoError(t, fx.d.Start(context.Background()))
	assert.Equal(t, 3, fx.d.SetPage(7))

	require.NoError(t, fx.d.SetSort(types.SortPriceDesc))
	require.NoError(t, fx.d.SetView(types.ViewList))
	assert.Equal(t, 3, fx.d.View().Page)

	require.NoError(t, fx.d.ToggleMulti(types.FilterCategories, "beauty"))
	v := fx.d.View()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 25, v.Matched)
	assert.Equal(t, 500.0-10, v.Items[0].Price)
}

func TestFavoritesOnly(t *testing.T) {
	fx := newFixture(t, "")
	require.NoError(t, fx.d.Start(context.Background()))
	fx.d.SetFavoritesOnly(true)
	assert.Equal(t, 0, fx.d.View().Matched)

	assert.True(t, fx.d.ToggleFavorite(7))
	v := fx.d.View()
	assert.Equal(t, 1, v.Matched)
	assert.Equal(t, []types.ProductId{7}, v.FavoriteIds)
	require.Len(t, v.Toasts, 1)
	assert.Equal(t, "Saved", v.Toasts[0].Title)
}

func TestFavoriteWriteFailure(t *testing.T) {
	fx := newFixture(t, "")
	fx.mem.FailWrites(errors.New("quota"))
	assert.False(t, fx.d.ToggleFavorite(3))
	v := fx.d.View()
	assert.Empty(t, v.FavoriteIds)
	require.Len(t, v.Toasts, 1)
	assert.Equal(t, notify.Error, v.Toasts[0].Type)
	assert.Equal(t, "Save failed", v.Toasts[0].Title)

	fx.sched.Advance(notify.DismissAfter)
	assert.Empty(t, fx.d.View().Toasts)
}

func TestCompareLimit(t *testing.T) {
	fx := newFixture(t, "")
	require.NoError(t, fx.d.Start(context.Background()))
	for _, id := range []types.ProductId{1, 2, 3} {
		_, err := fx.d.ToggleCompare(id)
		require.NoError(t, err)
	}
	_, err := fx.d.ToggleCompare(4)
	assert.Error(t, err)
	assert.NoError(t, fx.d.AddToCompare(2))

	toasts := fx.d.View().Toasts
	require.Len(t, toasts, 4)
	assert.Equal(t, "Comparison limit", toasts[3].Title)

	compared := fx.d.Compared()
	require.Len(t, compared, 3)
	assert.Equal(t, 1, compared[0].Id)

	isMember, err := fx.d.ToggleCompare(1)
	require.NoError(t, err)
	assert.False(t, isMember)
	assert.NoError(t, fx.d.AddToCompare(4))
	assert.Equal(t, []types.ProductId{2, 3, 4}, fx.d.View().CompareIds)
}

func TestFetchFailureAndRetry(t *testing.T) {
	fx := newFixture(t, "")
	fx.fetcher.err = &catalog.RequestError{StatusCode: 503}
	assert.Error(t, fx.d.Start(context.Background()))

	v := fx.d.View()
	assert.Equal(t, "request failed: 503", v.Err)
	assert.False(t, v.Loading)
	require.Len(t, v.Toasts, 1)
	assert.Equal(t, "Failed to load products.", v.Toasts[0].Title)

	fx.fetcher.err = nil
	require.NoError(t, fx.d.Retry(context.Background()))
	v = fx.d.View()
	assert.Empty(t, v.Err)
	assert.Equal(t, 50, v.Total)
}

func TestCheckoutSummary(t *testing.T) {
	fx := newFixture(t, "")
	require.NoError(t, fx.d.Start(context.Background()))
	products := makeCatalog(50)
	products[0].Price = 10.2
	fx.fetcher.products = products
	require.NoError(t, fx.d.Retry(context.Background()))

	assert.True(t, fx.d.ToggleCheckout(1))
	assert.True(t, fx.d.ToggleCheckout(3))
	summary := fx.d.Checkout()
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, 11.0+30.0, summary.Total)
	assert.Len(t, summary.Recommended, 23)
	for _, p := range summary.Recommended {
		assert.Equal(t, "beauty", p.Category)
	}
}

func TestExplicitSelectionRemoval(t *testing.T) {
	fx := newFixture(t, "")
	require.NoError(t, fx.d.Start(context.Background()))
	require.NoError(t, fx.d.AddToCompare(1))
	require.NoError(t, fx.d.AddToCompare(2))
	toasts := len(fx.d.View().Toasts)

	assert.True(t, fx.d.RemoveFromCompare(2))
	assert.False(t, fx.d.RemoveFromCompare(2))
	v := fx.d.View()
	assert.Equal(t, []types.ProductId{1}, v.CompareIds)
	require.Len(t, v.Toasts, toasts+1)
	assert.Equal(t, "Removed", v.Toasts[toasts].Title)

	assert.True(t, fx.d.AddToCheckout(3))
	assert.False(t, fx.d.AddToCheckout(3))
	assert.True(t, fx.d.AddToCheckout(1))
	assert.True(t, fx.d.RemoveFromCheckout(3))
	assert.False(t, fx.d.RemoveFromCheckout(3))
	assert.Equal(t, []types.ProductId{1}, fx.d.Selections().Checkout.Ids())
}

func TestCloseDropsPendingCommits(t *testing.T) {
	fx := newFixture(t, "")
	fx.d.TypeSearch("late")
	fx.d.Close()
	fx.sched.Advance(time.Second)
	assert.Equal(t, "", fx.d.Criteria().Snapshot().Search)
	assert.Equal(t, 0, fx.sched.Pending())
}
