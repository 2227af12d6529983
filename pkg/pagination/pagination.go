package pagination

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	// DefaultPage is used when the page query parameter is absent.
	DefaultPage = 1
	// pageParam is the query parameter carrying the requested page number.
	pageParam = "page"
)

// Page is the envelope returned by every paginated list endpoint.
type Page struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// ParsePage extracts the requested page number, defaulting to the first page.
// A non-numeric or non-positive value reports ok=false.
func ParsePage(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(pageParam))
	if raw == "" {
		return DefaultPage, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}

// Window converts a page number into the offset/limit pair for the store.
func Window(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = DefaultPage
	}
	return (page - 1) * pageSize, pageSize
}

// NewPage assembles the envelope, deriving absolute next/previous links from
// the incoming request.
func NewPage(r *http.Request, page, pageSize int, count int64, results any) Page {
	p := Page{
		Count:   count,
		Results: results,
	}
	if int64(page*pageSize) < count {
		link := pageLink(r, page+1)
		p.Next = &link
	}
	if page > 1 {
		link := pageLink(r, page-1)
		p.Previous = &link
	}
	return p
}

func pageLink(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	if page <= DefaultPage {
		q.Del(pageParam)
	} else {
		q.Set(pageParam, strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	u.Scheme = scheme
	u.Host = r.Host
	return u.String()
}
