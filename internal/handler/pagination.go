package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultLimit  = 5
	maxLimit      = 50
	defaultOffset = 0
	limitParam    = "limit"
	offsetParam   = "offset"
)

type pageParams struct {
	Limit  int
	Offset int
}

type pageResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// parsePage reads limit and offset. Unparseable values fall back to the
// defaults instead of failing the request; limit must be positive and is
// capped at maxLimit, offset must not be negative.
func parsePage(q url.Values) pageParams {
	p := pageParams{Limit: defaultLimit, Offset: defaultOffset}
	if n, ok := positiveInt(q.Get(limitParam), true); ok {
		p.Limit = min(n, maxLimit)
	}
	if n, ok := positiveInt(q.Get(offsetParam), false); ok {
		p.Offset = n
	}
	return p
}

func positiveInt(raw string, strict bool) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 || (strict && n == 0) {
		return 0, false
	}
	return n, true
}

func newPage(r *http.Request, p pageParams, count int, results any) pageResponse {
	resp := pageResponse{Count: count, Results: results}

	if p.Offset < count && count-p.Offset > p.Limit {
		next := pageURL(r, func(q url.Values) {
			q.Set(limitParam, strconv.Itoa(p.Limit))
			q.Set(offsetParam, strconv.Itoa(p.Offset+p.Limit))
		})
		resp.Next = &next
	}

	if p.Offset > 0 {
		prev := pageURL(r, func(q url.Values) {
			q.Set(limitParam, strconv.Itoa(p.Limit))
			if p.Offset-p.Limit <= 0 {
				q.Del(offsetParam)
			} else {
				q.Set(offsetParam, strconv.Itoa(p.Offset-p.Limit))
			}
		})
		resp.Previous = &prev
	}
	return resp
}

func pageURL(r *http.Request, edit func(url.Values)) string {
	u := *r.URL
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	u.Host = r.Host
	q := u.Query()
	edit(q)
	u.RawQuery = q.Encode()
	return u.String()
}
