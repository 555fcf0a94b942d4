// Package pagination implements page-number pagination with count/next/previous links.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

// Parse reads page and limit query values, falling back to defaults on bad input.
func Parse(page, limit string) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if v, err := strconv.Atoi(page); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(limit); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the list envelope returned by paginated endpoints.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// New builds a page; self is the absolute URL of the current request.
func New[T any](results []T, count int64, p Params, self *url.URL) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: count, Results: results}

	if int64(p.Page*p.Limit) < count {
		next := withPage(self, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := withPage(self, p.Page-1)
		page.Previous = &prev
	}
	return page
}

func withPage(self *url.URL, page int) string {
	u := *self
	q := u.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
