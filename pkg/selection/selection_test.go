package selection

import (
	"errors"
	"testing"

	"github.com/matst80/slask-dashboard/pkg/storage"
	"github.com/matst80/slask-dashboard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stored(t *testing.T, s *storage.MemoryStorage, key string) string {
	v, ok, err := s.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	return v
}

func TestSetCapacity(t *testing.T) {
	s := NewSet(2, 1, 1, 2, 3)
	assert.Equal(t, []types.ProductId{1, 2}, s.Ids())
	_, err := s.Add(4)
	assert.ErrorIs(t, err, ErrCompareFull)
	isMember, err := s.Toggle(1)
	assert.NoError(t, err)
	assert.False(t, isMember)
	isMember, err = s.Toggle(4)
	assert.NoError(t, err)
	assert.True(t, isMember)
	assert.Equal(t, []types.ProductId{2, 4}, s.Ids())
}

func TestLoadTolerant(t *testing.T) {
	cases := map[string]string{
		"object":  `{"a":1}`,
		"number":  `5`,
		"garbage": `not json`,
		"strings": `["a","b"]`,
		"empty":   ``,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			mem := storage.NewMemoryStorage()
			require.NoError(t, mem.Set(FavoritesKey, raw))
			sel := NewSelections(mem, "")
			assert.Equal(t, 0, sel.Favorites.Len())
		})
	}
}

func TestLoadExisting(t *testing.T) {
	mem := storage.NewMemoryStorage()
	require.NoError(t, mem.Set(CompareKey, `[7,8,9,10]`))
	sel := NewSelections(mem, "")
	assert.Equal(t, []types.ProductId{7, 8, 9}, sel.Compare.Ids())
}

func TestToggleFavoriteTwiceRestoresStorage(t *testing.T) {
	mem := storage.NewMemoryStorage()
	require.NoError(t, mem.Set(FavoritesKey, `[3]`))
	sel := NewSelections(mem, "")

	assert.True(t, sel.ToggleFavorite(5, nil))
	assert.Equal(t, "[3,5]", stored(t, mem, FavoritesKey))
	assert.False(t, sel.ToggleFavorite(5, nil))
	assert.Equal(t, "[3]", stored(t, mem, FavoritesKey))
}

func TestToggleFavoriteEmptyIsArray(t *testing.T) {
	mem := storage.NewMemoryStorage()
	sel := NewSelections(mem, "abc:")
	sel.ToggleFavorite(1, nil)
	sel.ToggleFavorite(1, nil)
	assert.Equal(t, "[]", stored(t, mem, "abc:"+FavoritesKey))
}

func TestToggleFavoriteRollback(t *testing.T) {
	mem := storage.NewMemoryStorage()
	sel := NewSelections(mem, "")
	sel.ToggleFavorite(1, nil)

	quota := errors.New("quota")
	mem.FailWrites(quota)
	var got error
	assert.True(t, sel.ToggleFavorite(1, func(err error) { got = err }))
	assert.ErrorIs(t, got, quota)
	assert.True(t, sel.IsFavorite(1))
	assert.False(t, sel.ToggleFavorite(2, func(err error) { got = err }))
	assert.False(t, sel.IsFavorite(2))
}

func TestCompareCapacity(t *testing.T) {
	mem := storage.NewMemoryStorage()
	sel := NewSelections(mem, "")
	for _, id := range []types.ProductId{1, 2, 3} {
		isMember, err := sel.ToggleCompare(id)
		require.NoError(t, err)
		assert.True(t, isMember)
	}
	_, err := sel.ToggleCompare(4)
	assert.ErrorIs(t, err, ErrCompareFull)
	assert.ErrorIs(t, sel.AddToCompare(4), ErrCompareFull)
	assert.NoError(t, sel.AddToCompare(2))
	assert.Equal(t, "[1,2,3]", stored(t, mem, CompareKey))

	isMember, err := sel.ToggleCompare(2)
	assert.NoError(t, err)
	assert.False(t, isMember)
	assert.NoError(t, sel.AddToCompare(4))
	assert.Equal(t, []types.ProductId{1, 3, 4}, sel.Compare.Ids())
}

func TestCompareWriteFailureKeepsChange(t *testing.T) {
	mem := storage.NewMemoryStorage()
	sel := NewSelections(mem, "")
	mem.FailWrites(errors.New("quota"))
	isMember, err := sel.ToggleCompare(1)
	assert.NoError(t, err)
	assert.True(t, isMember)
	assert.True(t, sel.IsInCompare(1))
}

func TestCheckout(t *testing.T) {
	mem := storage.NewMemoryStorage()
	sel := NewSelections(mem, "")
	assert.True(t, sel.AddToCheckout(1))
	assert.False(t, sel.AddToCheckout(1))
	assert.True(t, sel.ToggleCheckout(2))
	assert.Equal(t, "[1,2]", stored(t, mem, CheckoutKey))
	assert.True(t, sel.RemoveFromCheckout(1))
	assert.False(t, sel.RemoveFromCheckout(1))
	sel.ClearCheckout()
	assert.Equal(t, "[]", stored(t, mem, CheckoutKey))
	assert.False(t, sel.IsInCheckout(2))
}

func TestSubscribe(t *testing.T) {
	sel := NewSelections(storage.NewMemoryStorage(), "")
	var seen [][]types.ProductId
	sel.Favorites.Subscribe(func(ids []types.ProductId) {
		seen = append(seen, ids)
	})
	sel.ToggleFavorite(4, nil)
	sel.ToggleFavorite(4, nil)
	assert.Equal(t, [][]types.ProductId{{4}, {}}, seen)
}
