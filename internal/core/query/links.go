package query

import (
	"strconv"
	"strings"
)

// Links are the navigation URLs for a paged listing. Empty links are omitted.
type Links struct {
	First string `json:"first,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last,omitempty"`
}

// Links computes navigation relative to baseURL (the resource's canonical
// listing URL) from the total match count only; the size of the current page
// plays no part. Filter, sort and projection terms are carried over.
func (q *Query) Links(baseURL string, total int64) Links {
	var l Links
	if q.Limit <= 0 {
		return l
	}
	limit := int64(q.Limit)
	offset := int64(q.Offset)

	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		l.First = q.pageURL(baseURL, 0)
		l.Prev = q.pageURL(baseURL, prev)
	}

	if offset+limit < total {
		next := offset + limit
		last := (int64(q.TotalPages(total)) - 1) * limit
		if last < next {
			last = next
		}
		l.Next = q.pageURL(baseURL, next)
		l.Last = q.pageURL(baseURL, last)
	}

	return l
}

func (q *Query) pageURL(baseURL string, offset int64) string {
	terms := make([]string, 0, len(q.passthrough)+2)
	terms = append(terms, q.passthrough...)
	terms = append(terms,
		"offset="+strconv.FormatInt(offset, 10),
		"limit="+strconv.Itoa(q.Limit),
	)
	return baseURL + "?" + strings.Join(terms, "&")
}
