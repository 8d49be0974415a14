package selection

import (
	"log"
	"sync"

	"github.com/matst80/slask-dashboard/pkg/common/jsoncompat"
	"github.com/matst80/slask-dashboard/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	FavoritesKey = "mitigata_favorites"
	CompareKey   = "mitigata_compare"
	CheckoutKey  = "mitigata_checkout"

	CompareCapacity = 3
)

var (
	selectionChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_selection_changes_total",
		Help: "The total number of selection set mutations",
	}, []string{"set"})
	selectionWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_selection_write_errors_total",
		Help: "The total number of failed selection writes",
	}, []string{"set"})
)

// Store is a Set persisted under one storage key. The stored value is a
// JSON array of ids and is rewritten after every mutation.
type Store struct {
	mu       sync.Mutex
	name     string
	key      string
	storage  types.KeyValueStorage
	set      *Set
	onChange []func(ids []types.ProductId)
}

func NewStore(storage types.KeyValueStorage, name, key string, capacity int) *Store {
	return &Store{
		name:    name,
		key:     key,
		storage: storage,
		set:     NewSet(capacity, load(storage, key)...),
	}
}

// load treats a missing key, a read error or anything that is not an array
// of ids as an empty set.
func load(storage types.KeyValueStorage, key string) []types.ProductId {
	raw, ok, err := storage.Get(key)
	if err != nil {
		log.Printf("Failed to read %s: %v", key, err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var ids []types.ProductId
	if err := jsoncompat.Unmarshal([]byte(raw), &ids); err != nil {
		log.Printf("Ignoring malformed %s: %v", key, err)
		return nil
	}
	return ids
}

func (s *Store) Subscribe(fn func(ids []types.ProductId)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

func (s *Store) persist() error {
	data, err := jsoncompat.Marshal(s.set.Ids())
	if err != nil {
		return err
	}
	if err := s.storage.Set(s.key, string(data)); err != nil {
		selectionWriteErrors.WithLabelValues(s.name).Inc()
		return err
	}
	return nil
}

// mutate applies fn and persists the result. With rollback set a failed
// write restores the previous members, otherwise it is only logged.
func (s *Store) mutate(fn func(set *Set) (bool, error), rollback bool) (bool, error) {
	s.mu.Lock()
	before := s.set.Ids()
	changed, err := fn(s.set)
	if err != nil || !changed {
		s.mu.Unlock()
		return false, err
	}
	if err = s.persist(); err != nil {
		if rollback {
			s.set = NewSet(s.set.Capacity(), before...)
			s.mu.Unlock()
			return false, err
		}
		log.Printf("Failed to persist %s: %v", s.key, err)
		err = nil
	}
	selectionChanges.WithLabelValues(s.name).Inc()
	ids := s.set.Ids()
	listeners := s.onChange
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(ids)
	}
	return true, err
}

func (s *Store) Contains(id types.ProductId) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Contains(id)
}

func (s *Store) Ids() []types.ProductId {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Ids()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Len()
}

func (s *Store) IdSet() types.IdSet {
	return types.NewIdSet(s.Ids()...)
}
