package catalog

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/matst80/slask-dashboard/pkg/types"
)

var ErrStaleLoad = errors.New("catalog load superseded")

type Fetcher interface {
	FetchCatalog(ctx context.Context, limit int) (*Response, error)
}

type State struct {
	Products []*types.Product
	Loading  bool
	Err      error
}

// Loader keeps the current catalog. Only the most recent Load may apply its
// result, earlier ones are cancelled and report ErrStaleLoad.
type Loader struct {
	mu          sync.Mutex
	fetcher     Fetcher
	limit       int
	token       uint64
	cancel      context.CancelFunc
	state       State
	subscribers map[int]func(State)
	nextId      int
}

func NewLoader(fetcher Fetcher, limit int) *Loader {
	return &Loader{
		fetcher:     fetcher,
		limit:       limit,
		state:       State{Products: []*types.Product{}},
		subscribers: make(map[int]func(State)),
	}
}

// Subscribe registers fn for every state change and returns a function
// that removes it.
func (l *Loader) Subscribe(fn func(State)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextId
	l.nextId++
	l.subscribers[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subscribers, id)
	}
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loader) publish() {
	state := l.state
	subscribers := make([]func(State), 0, len(l.subscribers))
	for _, fn := range l.subscribers {
		subscribers = append(subscribers, fn)
	}
	l.mu.Unlock()
	for _, fn := range subscribers {
		fn(state)
	}
}

func (l *Loader) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.token++
	token := l.token
	l.cancel = cancel
	l.state.Loading = true
	l.state.Err = nil
	l.publish()

	res, err := l.fetcher.FetchCatalog(ctx, l.limit)
	cancel()

	l.mu.Lock()
	if token != l.token {
		l.mu.Unlock()
		return ErrStaleLoad
	}
	l.cancel = nil
	l.state.Loading = false
	if err != nil {
		log.Printf("Catalog load failed: %v", err)
		l.state.Err = err
	} else {
		log.Printf("Catalog loaded %d products", len(res.Products))
		l.state.Products = res.Products
	}
	l.publish()
	return err
}

func (l *Loader) Retry(ctx context.Context) error {
	return l.Load(ctx)
}

// Close cancels an in-flight load, its result is then discarded.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.token++
}
