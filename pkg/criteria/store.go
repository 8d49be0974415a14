package criteria

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"sync"

	"github.com/matst80/slask-dashboard/pkg/facet"
	"github.com/matst80/slask-dashboard/pkg/types"
)

var (
	ErrUnknownKey   = errors.New("unknown filter key")
	ErrInvalidValue = errors.New("invalid filter value")
)

// URLWriter replaces the current query without adding a history entry.
type URLWriter interface {
	ReplaceQuery(values url.Values)
}

type URLWriterFunc func(values url.Values)

func (fn URLWriterFunc) ReplaceQuery(values url.Values) {
	fn(values)
}

type Listener func(prev, next types.Filters)

// Store owns the current criteria. All changes go through its setters,
// each one mirrors the result to the URLWriter and then notifies listeners.
type Store struct {
	mu         sync.Mutex
	filters    types.Filters
	catalogMax float64
	backfilled bool
	writer     URLWriter
	listeners  map[int]Listener
	nextId     int
}

func NewStore(query url.Values, writer URLWriter) *Store {
	return &Store{
		filters:   Decode(query),
		writer:    writer,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers fn for every change and returns a function that
// removes it again.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextId
	s.nextId++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) Snapshot() types.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

func (s *Store) CatalogMax() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogMax
}

func (s *Store) Query() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Encode(&s.filters, s.catalogMax)
}

func (s *Store) Chips() []types.ActiveFilterChip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return facet.Chips(&s.filters, s.catalogMax)
}

// update applies fn to a copy of the criteria. Nothing is written or
// published when the copy ends up equal to the current value.
func (s *Store) update(fn func(f *types.Filters) error) error {
	s.mu.Lock()
	prev := s.filters
	next := prev.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	if next.Equal(&prev) {
		s.mu.Unlock()
		return nil
	}
	s.filters = next
	query := Encode(&next, s.catalogMax)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, id := range sortedIds(s.listeners) {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	if s.writer != nil {
		s.writer.ReplaceQuery(query)
	}
	for _, fn := range listeners {
		fn(prev.Clone(), next.Clone())
	}
	return nil
}

func sortedIds(m map[int]Listener) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) SetSearch(search string) {
	s.update(func(f *types.Filters) error {
		f.Search = search
		return nil
	})
}

func (s *Store) SetSort(sort types.SortKey) error {
	return s.SetFilter(types.FilterSort, sort)
}

func (s *Store) SetView(view types.ViewMode) error {
	return s.SetFilter(types.FilterView, view)
}

func (s *Store) SetRating(rating float64) error {
	return s.SetFilter(types.FilterRating, rating)
}

func (s *Store) SetFavoritesOnly(on bool) {
	s.update(func(f *types.Filters) error {
		f.FavoritesOnly = on
		return nil
	})
}

func (s *Store) SetDateRange(start, end string) {
	s.update(func(f *types.Filters) error {
		f.StartDate = start
		f.EndDate = end
		return nil
	})
}

// SetPrice stores both bounds, swapping them when min is above a set max.
func (s *Store) SetPrice(min, max float64) error {
	if min < 0 || max < 0 {
		return ErrInvalidValue
	}
	return s.update(func(f *types.Filters) error {
		setPrice(f, min, max)
		return nil
	})
}

func setPrice(f *types.Filters, min, max float64) {
	if max > 0 && min > max {
		min, max = max, min
	}
	f.PriceMin = min
	f.PriceMax = max
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func asStrings(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		ret := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			ret = append(ret, s)
		}
		return ret, true
	}
	return nil, false
}

func invalid(key types.FilterKey, value any) error {
	return fmt.Errorf("%w: %s=%v", ErrInvalidValue, key, value)
}

// SetFilter replaces a single field. Values must have the field's type,
// numbers may be any numeric kind.
func (s *Store) SetFilter(key types.FilterKey, value any) error {
	return s.update(func(f *types.Filters) error {
		return applyFilter(f, key, value)
	})
}

// SetFilters applies every key in one commit. The first invalid key, in key
// order, fails the whole call and leaves the criteria untouched.
func (s *Store) SetFilters(values map[types.FilterKey]any) error {
	keys := slices.Sorted(maps.Keys(values))
	return s.update(func(f *types.Filters) error {
		for _, key := range keys {
			if err := applyFilter(f, key, values[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyFilter(f *types.Filters, key types.FilterKey, value any) error {
	switch key {
	case types.FilterSearch, types.FilterStartDate, types.FilterEndDate:
		v, ok := value.(string)
		if !ok {
			return invalid(key, value)
		}
		switch key {
		case types.FilterSearch:
			f.Search = v
		case types.FilterStartDate:
			f.StartDate = v
		default:
			f.EndDate = v
		}
	case types.FilterCategories, types.FilterBrands, types.FilterStock:
		v, ok := asStrings(value)
		if !ok {
			return invalid(key, value)
		}
		f.SetMulti(key, slices.Clone(v))
	case types.FilterRating:
		v, ok := asNumber(value)
		if !ok || v < 0 || v > 5 {
			return invalid(key, value)
		}
		f.Rating = v
	case types.FilterPriceMin, types.FilterPriceMax:
		v, ok := asNumber(value)
		if !ok || v < 0 {
			return invalid(key, value)
		}
		if key == types.FilterPriceMin {
			setPrice(f, v, f.PriceMax)
		} else {
			setPrice(f, f.PriceMin, v)
		}
	case types.FilterFavoritesOnly:
		v, ok := value.(bool)
		if !ok {
			return invalid(key, value)
		}
		f.FavoritesOnly = v
	case types.FilterSort:
		v, ok := value.(string)
		if !ok || !slices.Contains(types.SortKeys, v) {
			return invalid(key, value)
		}
		f.Sort = v
	case types.FilterView:
		v, ok := value.(string)
		if !ok || (v != types.ViewGrid && v != types.ViewList) {
			return invalid(key, value)
		}
		f.View = v
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// ToggleMulti adds value to the named set or removes it when present.
func (s *Store) ToggleMulti(key types.MultiKey, value string) error {
	if !types.IsMultiKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return s.update(func(f *types.Filters) error {
		f.SetMulti(key, toggle(f.Multi(key), value))
		return nil
	})
}

func toggle(values []string, value string) []string {
	if idx := slices.Index(values, value); idx >= 0 {
		return slices.Delete(values, idx, idx+1)
	}
	return append(values, value)
}

// Clear restores the defaults. The price ceiling becomes the catalog
// maximum so a cleared view still shows every product.
func (s *Store) Clear() {
	s.update(func(f *types.Filters) error {
		priceMax := f.PriceMax
		*f = types.DefaultFilters()
		if s.catalogMax > 0 {
			f.PriceMax = s.catalogMax
		} else {
			f.PriceMax = priceMax
		}
		return nil
	})
}

// SetCatalogMax records the highest catalog price. The first time one is
// known it also fills an unset price ceiling, later calls never do.
func (s *Store) SetCatalogMax(max float64) {
	s.mu.Lock()
	s.catalogMax = max
	fill := !s.backfilled && max > 0
	if fill {
		s.backfilled = true
	}
	s.mu.Unlock()
	if !fill {
		return
	}
	s.update(func(f *types.Filters) error {
		if f.PriceMax == 0 {
			f.PriceMax = max
		}
		return nil
	})
}

// RemoveChip undoes the criterion a chip stands for.
func (s *Store) RemoveChip(chip types.ActiveFilterChip) error {
	return s.update(func(f *types.Filters) error {
		switch chip.Key {
		case types.ChipSearch:
			f.Search = ""
		case types.FilterCategories, types.FilterBrands, types.FilterStock:
			values := f.Multi(chip.Key)
			if idx := slices.Index(values, chip.Value); idx >= 0 {
				f.SetMulti(chip.Key, slices.Delete(values, idx, idx+1))
			}
		case types.ChipRating:
			f.Rating = 0
		case types.ChipPrice:
			f.PriceMin = 0
			f.PriceMax = s.catalogMax
		case types.ChipFavorites:
			f.FavoritesOnly = false
		case types.ChipDates:
			f.StartDate = ""
			f.EndDate = ""
		default:
			return fmt.Errorf("%w: %s", ErrUnknownKey, chip.Key)
		}
		return nil
	})
}
