// Package listing filters and paginates entity lists the way the admin
// tables do: substring search, exact type/status match, inclusive day range
// and a plain page slice over whatever order storage returned.
package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DefaultPageSize applies when page is given without pageSize.
const DefaultPageSize = 10

// StartOfDay returns 00:00:00.000 of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of t's day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// DateRange is an inclusive range; a nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// NewDateRange widens from and to to whole local days.
func NewDateRange(from, to *time.Time, loc *time.Location) DateRange {
	var r DateRange
	if from != nil {
		f := StartOfDay(*from, loc)
		r.From = &f
	}
	if to != nil {
		e := EndOfDay(*to, loc)
		r.To = &e
	}
	return r
}

func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// ContainsDate is Contains for date-only values: t's calendar date, as
// stored, is compared with the local dates of the bounds. Postgres DATE
// columns come back as midnight UTC, which must not shift by loc's offset.
func (r DateRange) ContainsDate(t time.Time) bool {
	day := dayNumber(t)
	if r.From != nil && day < dayNumber(*r.From) {
		return false
	}
	if r.To != nil && day > dayNumber(*r.To) {
		return false
	}
	return true
}

func dayNumber(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

func (r DateRange) IsZero() bool { return r.From == nil && r.To == nil }

// ContainsFold reports whether sub is within s, ignoring case.
func ContainsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// MatchAny reports whether term is found in any field. An empty term matches.
func MatchAny(term string, fields ...string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	for _, f := range fields {
		if ContainsFold(f, term) {
			return true
		}
	}
	return false
}

// MatchExact compares want to got; an empty want matches anything.
func MatchExact(want, got string) bool {
	return want == "" || want == got
}

// Filter keeps the items for which keep returns true, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Paginate returns items[(page-1)*size : page*size], clamped to the slice.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return items
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Query is a parsed list request.
type Query struct {
	Search   string
	Type     string
	Status   string
	Nature   string
	Range    DateRange
	Page     int
	PageSize int
}

// Paged reports whether the caller asked for a page.
func (q Query) Paged() bool { return q.Page > 0 }

// ParseQuery reads search, type, status, suppliesNature, from, to, page and
// pageSize. Dates are YYYY-MM-DD or RFC 3339 and are widened to whole days
// in loc.
func ParseQuery(v url.Values, loc *time.Location) (Query, error) {
	q := Query{
		Search: strings.TrimSpace(v.Get("search")),
		Type:   v.Get("type"),
		Status: v.Get("status"),
		Nature: v.Get("suppliesNature"),
	}

	from, err := parseDate(v.Get("from"), loc)
	if err != nil {
		return Query{}, fmt.Errorf("from: %w", err)
	}
	to, err := parseDate(v.Get("to"), loc)
	if err != nil {
		return Query{}, fmt.Errorf("to: %w", err)
	}
	q.Range = NewDateRange(from, to, loc)

	if q.Page, err = parsePositive(v.Get("page")); err != nil {
		return Query{}, fmt.Errorf("page: %w", err)
	}
	if q.PageSize, err = parsePositive(v.Get("pageSize")); err != nil {
		return Query{}, fmt.Errorf("pageSize: %w", err)
	}
	if q.PageSize > 0 && q.Page == 0 {
		q.Page = 1
	}
	if q.Page > 0 && q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	return q, nil
}

func parseDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	return &t, nil
}

func parsePositive(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return n, nil
}
