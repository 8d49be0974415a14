package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/matst80/slask-dashboard/pkg/common/jsoncompat"
	"github.com/matst80/slask-dashboard/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DefaultURL   = "https://dummyjson.com/products"
	DefaultLimit = 100
)

var (
	catalogFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_catalog_fetches_total",
		Help: "The total number of catalog requests sent upstream",
	})
	catalogCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_catalog_cache_hits_total",
		Help: "The total number of catalog requests served from cache",
	})
	catalogFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_catalog_failures_total",
		Help: "The total number of failed catalog requests",
	})
)

type RequestError struct {
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %d", e.StatusCode)
}

type Response struct {
	Products []*types.Product `json:"products"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	cache      Cache
	mu         sync.Mutex
	responses  map[string]*Response
}

type Option func(*Client)

func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = client
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		responses:  make(map[string]*Response),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) requestURL(limit int) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchCatalog returns the products for limit. Successful responses are
// remembered per URL until ClearCache.
func (c *Client) FetchCatalog(ctx context.Context, limit int) (*Response, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	key, err := c.requestURL(limit)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	cached, ok := c.responses[key]
	c.mu.Unlock()
	if ok {
		catalogCacheHits.Inc()
		return cached, nil
	}

	if c.cache != nil {
		if data, found, err := c.cache.Get(key); err != nil {
			log.Printf("Catalog cache read failed: %v", err)
		} else if found {
			var res Response
			if err := jsoncompat.Unmarshal(data, &res); err == nil {
				catalogCacheHits.Inc()
				c.remember(key, &res)
				return &res, nil
			}
		}
	}

	data, err := c.fetch(ctx, key)
	if err != nil {
		catalogFailures.Inc()
		return nil, err
	}
	var res Response
	if err := jsoncompat.Unmarshal(data, &res); err != nil {
		catalogFailures.Inc()
		return nil, err
	}
	if res.Products == nil {
		res.Products = []*types.Product{}
	}
	c.remember(key, &res)
	if c.cache != nil {
		if err := c.cache.Set(key, data); err != nil {
			log.Printf("Catalog cache write failed: %v", err)
		}
	}
	return &res, nil
}

func (c *Client) fetch(ctx context.Context, key string) ([]byte, error) {
	catalogFetches.Inc()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &RequestError{StatusCode: res.StatusCode}
	}
	return io.ReadAll(res.Body)
}

func (c *Client) remember(key string, res *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[key] = res
}

func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.responses)
}
