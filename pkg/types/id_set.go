package types

import "github.com/RoaringBitmap/roaring/v2"

// IdSet is a read only membership set of product ids.
type IdSet struct {
	bm *roaring.Bitmap
}

func NewIdSet(ids ...ProductId) IdSet {
	bm := roaring.New()
	for _, id := range ids {
		if id >= 0 {
			bm.Add(uint32(id))
		}
	}
	return IdSet{bm: bm}
}

func (s IdSet) Contains(id ProductId) bool {
	if s.bm == nil || id < 0 {
		return false
	}
	return s.bm.Contains(uint32(id))
}

func (s IdSet) Len() int {
	if s.bm == nil {
		return 0
	}
	return int(s.bm.GetCardinality())
}

func (s IdSet) Bitmap() *roaring.Bitmap {
	if s.bm == nil {
		return roaring.New()
	}
	return s.bm
}
