package facet

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/matst80/slask-dashboard/pkg/types"
)

// KeyIndex is built once per catalog load. It always reflects the whole
// catalog, never the filtered subset.
type KeyIndex struct {
	Categories *KeyField
	Brands     *KeyField
	Stock      *KeyField
	all        *roaring.Bitmap
	byId       map[types.ProductId]*types.Product
	order      []*types.Product
}

func NewKeyIndex(products []*types.Product) *KeyIndex {
	idx := &KeyIndex{
		Categories: NewKeyField("categories"),
		Brands:     NewKeyField("brands"),
		Stock:      NewKeyField("stock"),
		all:        roaring.New(),
		byId:       make(map[types.ProductId]*types.Product, len(products)),
		order:      products,
	}
	for _, p := range products {
		if p.Id < 0 {
			continue
		}
		idx.all.Add(uint32(p.Id))
		idx.byId[p.Id] = p
		idx.Categories.AddValueLink(p.Category, p.Id)
		idx.Brands.AddValueLink(p.Brand, p.Id)
		idx.Stock.AddValueLink(types.StockStatusOf(p.Stock), p.Id)
	}
	return idx
}

func (idx *KeyIndex) Get(id types.ProductId) (*types.Product, bool) {
	p, ok := idx.byId[id]
	return p, ok
}

// Products resolves ids to products in catalog order, skipping unknown ids.
func (idx *KeyIndex) Products(ids *roaring.Bitmap) []*types.Product {
	ret := make([]*types.Product, 0, ids.GetCardinality())
	for _, p := range idx.order {
		if p.Id >= 0 && ids.Contains(uint32(p.Id)) {
			ret = append(ret, p)
		}
	}
	return ret
}

// Resolve returns the products for ids in the order given.
func (idx *KeyIndex) Resolve(ids []types.ProductId) []*types.Product {
	ret := make([]*types.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := idx.byId[id]; ok {
			ret = append(ret, p)
		}
	}
	return ret
}

type Counts struct {
	Categories map[string]int `json:"categories"`
	Brands     map[string]int `json:"brands"`
}

func (idx *KeyIndex) Counts() Counts {
	return Counts{
		Categories: idx.Categories.Counts(),
		Brands:     idx.Brands.Counts(),
	}
}
