package selection

import (
	"github.com/matst80/slask-dashboard/pkg/types"
)

// Selections groups the favorites, compare and checkout sets of one user.
// Keys are prefixed, which lets several sessions share a storage.
type Selections struct {
	Favorites *Store
	Compare   *Store
	Checkout  *Store
}

func NewSelections(storage types.KeyValueStorage, prefix string) *Selections {
	return &Selections{
		Favorites: NewStore(storage, "favorites", prefix+FavoritesKey, 0),
		Compare:   NewStore(storage, "compare", prefix+CompareKey, CompareCapacity),
		Checkout:  NewStore(storage, "checkout", prefix+CheckoutKey, 0),
	}
}

// ToggleFavorite flips membership of id. When the write fails the change
// is undone and onFail receives the error.
func (s *Selections) ToggleFavorite(id types.ProductId, onFail func(error)) bool {
	isMember := false
	_, err := s.Favorites.mutate(func(set *Set) (bool, error) {
		var err error
		isMember, err = set.Toggle(id)
		return err == nil, err
	}, true)
	if err != nil {
		if onFail != nil {
			onFail(err)
		}
		return s.Favorites.Contains(id)
	}
	return isMember
}

func (s *Selections) IsFavorite(id types.ProductId) bool {
	return s.Favorites.Contains(id)
}

func (s *Selections) ToggleCompare(id types.ProductId) (bool, error) {
	isMember := false
	_, err := s.Compare.mutate(func(set *Set) (bool, error) {
		var err error
		isMember, err = set.Toggle(id)
		return err == nil, err
	}, false)
	return isMember, err
}

func (s *Selections) AddToCompare(id types.ProductId) error {
	_, err := s.Compare.mutate(func(set *Set) (bool, error) {
		return set.Add(id)
	}, false)
	return err
}

func (s *Selections) RemoveFromCompare(id types.ProductId) bool {
	changed, _ := s.Compare.mutate(func(set *Set) (bool, error) {
		return set.Remove(id), nil
	}, false)
	return changed
}

func (s *Selections) IsInCompare(id types.ProductId) bool {
	return s.Compare.Contains(id)
}

func (s *Selections) ToggleCheckout(id types.ProductId) bool {
	isMember := false
	s.Checkout.mutate(func(set *Set) (bool, error) {
		isMember, _ = set.Toggle(id)
		return true, nil
	}, false)
	return isMember
}

func (s *Selections) AddToCheckout(id types.ProductId) bool {
	changed, _ := s.Checkout.mutate(func(set *Set) (bool, error) {
		return set.Add(id)
	}, false)
	return changed
}

func (s *Selections) RemoveFromCheckout(id types.ProductId) bool {
	changed, _ := s.Checkout.mutate(func(set *Set) (bool, error) {
		return set.Remove(id), nil
	}, false)
	return changed
}

func (s *Selections) ClearCheckout() {
	s.Checkout.mutate(func(set *Set) (bool, error) {
		changed := set.Len() > 0
		set.Clear()
		return changed, nil
	}, false)
}

func (s *Selections) IsInCheckout(id types.ProductId) bool {
	return s.Checkout.Contains(id)
}
