package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/matst80/slask-dashboard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJson = `{"products":[{"id":1,"title":"Phone","price":549,"rating":4.5,"stock":94,"category":"smartphones","brand":"Apple","reviews":[]}],"total":1,"skip":0,"limit":100}`

func newServer(t *testing.T, status int, hits *int32) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(catalogJson))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memCache) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func TestFetchCatalogCaches(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusOK, &hits)
	client := NewClient(srv.URL + "/products")

	res, err := client.FetchCatalog(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Phone", res.Products[0].Title)
	assert.Equal(t, types.InStock, res.Products[0].StockStatus())

	_, err = client.FetchCatalog(context.Background(), 100)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	client.ClearCache()
	_, err = client.FetchCatalog(context.Background(), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestFetchCatalogSecondLevelCache(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusOK, &hits)
	cache := &memCache{data: map[string][]byte{}}

	_, err := NewClient(srv.URL, WithCache(cache)).FetchCatalog(context.Background(), 100)
	require.NoError(t, err)
	res, err := NewClient(srv.URL, WithCache(cache)).FetchCatalog(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, res.Products, 1)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestFetchCatalogRequestError(t *testing.T) {
	var hits int32
	srv := newServer(t, http.StatusServiceUnavailable, &hits)
	client := NewClient(srv.URL)

	_, err := client.FetchCatalog(context.Background(), 100)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 503, reqErr.StatusCode)
	assert.Equal(t, "request failed: 503", err.Error())

	_, err = client.FetchCatalog(context.Background(), 100)
	assert.Error(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

type blockingFetcher struct {
	started chan struct{}
	calls   int32
}

func (b *blockingFetcher) FetchCatalog(ctx context.Context, limit int) (*Response, error) {
	if atomic.AddInt32(&b.calls, 1) == 1 {
		close(b.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &Response{Products: []*types.Product{{Id: 2, Title: "Second"}}}, nil
}

func TestLoaderLastRequesterWins(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{})}
	loader := NewLoader(fetcher, 100)

	first := make(chan error, 1)
	go func() {
		first <- loader.Load(context.Background())
	}()
	<-fetcher.started

	require.NoError(t, loader.Load(context.Background()))
	assert.ErrorIs(t, <-first, ErrStaleLoad)

	state := loader.State()
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)
	require.Len(t, state.Products, 1)
	assert.Equal(t, 2, state.Products[0].Id)
}

type failingFetcher struct {
	err error
}

func (f *failingFetcher) FetchCatalog(ctx context.Context, limit int) (*Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Response{Products: []*types.Product{{Id: 1}}}, nil
}

func TestLoaderErrorAndRetry(t *testing.T) {
	fetcher := &failingFetcher{err: &RequestError{StatusCode: 503}}
	loader := NewLoader(fetcher, 100)

	var states []State
	loader.Subscribe(func(s State) {
		states = append(states, s)
	})

	err := loader.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "request failed: 503", loader.State().Err.Error())
	assert.Empty(t, loader.State().Products)

	fetcher.err = nil
	require.NoError(t, loader.Retry(context.Background()))
	assert.Len(t, loader.State().Products, 1)
	assert.Nil(t, loader.State().Err)

	require.Len(t, states, 4)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
	assert.True(t, errors.As(states[1].Err, new(*RequestError)))
}
