package facet

import (
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/matst80/slask-dashboard/pkg/types"
)

// KeyField maps each distinct value of one product field to the ids
// carrying it.
type KeyField struct {
	Name string
	Keys map[string]*roaring.Bitmap
}

func NewKeyField(name string) *KeyField {
	return &KeyField{Name: name, Keys: make(map[string]*roaring.Bitmap)}
}

func (f *KeyField) AddValueLink(value string, id types.ProductId) {
	bm, ok := f.Keys[value]
	if !ok {
		bm = roaring.New()
		f.Keys[value] = bm
	}
	bm.Add(uint32(id))
}

// Values returns the distinct values in ascending order.
func (f *KeyField) Values() []string {
	return slices.Sorted(maps.Keys(f.Keys))
}

func (f *KeyField) Counts() map[string]int {
	ret := make(map[string]int, len(f.Keys))
	for value, bm := range f.Keys {
		ret[value] = int(bm.GetCardinality())
	}
	return ret
}

// Match returns the union of ids for the given values.
func (f *KeyField) Match(values ...string) *roaring.Bitmap {
	ret := roaring.New()
	for _, v := range values {
		if bm, ok := f.Keys[v]; ok {
			ret.Or(bm)
		}
	}
	return ret
}
