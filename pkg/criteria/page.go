package criteria

import (
	"net/url"
)

const MaxPageSize = 1000

// PageRequest is the paging part of a stateless product query.
type PageRequest struct {
	Page int `schema:"page"`
	Size int `schema:"size"`
}

// Sanitize clamps both values. A size of 0 keeps the default page size.
func (p *PageRequest) Sanitize() {
	p.Page = max(p.Page, 1)
	p.Size = min(max(p.Size, 0), MaxPageSize)
}

// DecodePage reads page and size from query. Unlike Decode it fails on a
// malformed number.
func DecodePage(query url.Values) (PageRequest, error) {
	var p PageRequest
	if err := decoder.Decode(&p, query); err != nil {
		return p, err
	}
	p.Sanitize()
	return p, nil
}
