package book

import (
	"cmp"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// Orderable fields accepted by the ordering parameter.
const (
	OrderPrice      = "price"
	OrderAuthorName = "author_name"
)

var orderableFields = map[string]bool{
	OrderPrice:      true,
	OrderAuthorName: true,
}

// OrderKey is one sort key of a list query.
type OrderKey struct {
	Field string
	Desc  bool
}

// Query defines filters and ordering for listing books. The zero Query lists
// every book ordered by id.
type Query struct {
	// Price, when set, keeps books whose price equals it.
	Price *Price
	// Search terms; each one must occur, case-insensitively, in the name or
	// the author name of a book.
	Search []string
	// Ordering keys, applied in order. Ties fall back to id ascending.
	Ordering []OrderKey
}

var termSeparator = regexp.MustCompile(`[\s,]+`)

// ParseQuery reads the price, search and ordering parameters of a list
// request. Unknown ordering fields are ignored.
func ParseQuery(values url.Values) (Query, error) {
	var q Query

	if raw := strings.TrimSpace(values.Get("price")); raw != "" {
		p, err := ParsePrice(raw)
		if err != nil {
			return Query{}, err
		}
		q.Price = &p
	}

	q.Search = SearchTerms(values.Get("search"))
	q.Ordering = ParseOrdering(values.Get("ordering"))
	return q, nil
}

// SearchTerms splits a search string on whitespace and commas.
func SearchTerms(s string) []string {
	s = strings.ReplaceAll(s, "\x00", "")
	var terms []string
	for _, term := range termSeparator.Split(s, -1) {
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// ParseOrdering parses a comma separated list such as "-price,author_name".
func ParseOrdering(s string) []OrderKey {
	var keys []OrderKey
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimPrefix(part, "-")
		if !orderableFields[field] {
			continue
		}
		keys = append(keys, OrderKey{Field: field, Desc: desc})
	}
	return keys
}

// Matches reports whether b passes the price filter and every search term.
func (q Query) Matches(b Book) bool {
	if q.Price != nil && !q.Price.Equal(b.Price) {
		return false
	}
	if len(q.Search) == 0 {
		return true
	}
	name := strings.ToLower(b.Name)
	author := strings.ToLower(b.AuthorName)
	for _, term := range q.Search {
		term = strings.ToLower(term)
		if !strings.Contains(name, term) && !strings.Contains(author, term) {
			return false
		}
	}
	return true
}

// Compare orders a before b following the query ordering, then by id.
func (q Query) Compare(a, b Book) int {
	for _, key := range q.Ordering {
		var c int
		switch key.Field {
		case OrderPrice:
			c = a.Price.Cmp(b.Price.Decimal)
		case OrderAuthorName:
			c = strings.Compare(a.AuthorName, b.AuthorName)
		}
		if key.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}

// Apply filters and sorts books in memory.
func (q Query) Apply(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if q.Matches(b) {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, q.Compare)
	return out
}
