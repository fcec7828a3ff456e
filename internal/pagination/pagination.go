// Package pagination implements limit/offset paging for list endpoints.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a normalized limit/offset window.
type Params struct {
	Limit  int
	Offset int
}

// FromQuery reads limit and offset from q. Missing or malformed values fall
// back to the defaults; limit is clamped to [1, MaxLimit] and offset to >= 0.
func FromQuery(q url.Values) Params {
	p := Params{Limit: DefaultLimit}

	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		p.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		p.Offset = v
	}

	return p.Normalize()
}

// Normalize clamps p into the accepted range.
func (p Params) Normalize() Params {
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Page is one window of a listing.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// NewPage wraps items fetched with p out of total rows.
func NewPage[T any](items []T, total int, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.Offset+len(items) < total,
	}
}
