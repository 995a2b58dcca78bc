package listing_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ngoadmin/internal/listing"
)

func TestDateRangeInclusiveDayBounds(t *testing.T) {
	loc := time.FixedZone("Africa/Algiers", 3600)
	from := time.Date(2026, 3, 1, 15, 0, 0, 0, loc)
	to := time.Date(2026, 3, 10, 8, 0, 0, 0, loc)
	r := listing.NewDateRange(&from, &to, loc)

	require.True(t, r.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, loc)))
	require.True(t, r.Contains(time.Date(2026, 3, 10, 23, 59, 59, int(999*time.Millisecond), loc)))
	require.False(t, r.Contains(time.Date(2026, 2, 28, 23, 59, 59, 0, loc)))
	require.False(t, r.Contains(time.Date(2026, 3, 11, 0, 0, 0, 0, loc)))
}

func TestDateRangeOpenBounds(t *testing.T) {
	loc := time.UTC
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)
	r := listing.NewDateRange(&from, nil, loc)

	require.True(t, r.Contains(time.Date(2099, 1, 1, 0, 0, 0, 0, loc)))
	require.False(t, r.Contains(time.Date(2026, 2, 1, 0, 0, 0, 0, loc)))
	require.True(t, listing.DateRange{}.Contains(time.Time{}))
}

func TestDateRangeContainsDateWestOfUTC(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	q, err := listing.ParseQuery(url.Values{"from": {"2026-03-10"}, "to": {"2026-03-10"}}, loc)
	require.NoError(t, err)

	// DATE columns arrive as midnight UTC.
	require.True(t, q.Range.ContainsDate(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
	require.False(t, q.Range.ContainsDate(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
	require.False(t, q.Range.ContainsDate(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))

	// Contains works on instants, which is wrong for these values.
	require.False(t, q.Range.Contains(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func TestDateRangeContainsDateEastOfUTC(t *testing.T) {
	loc := time.FixedZone("AEST", 10*3600)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)
	to := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	r := listing.NewDateRange(&from, &to, loc)

	require.True(t, r.ContainsDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, r.ContainsDate(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
	require.False(t, r.ContainsDate(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	require.False(t, r.ContainsDate(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
	require.True(t, listing.DateRange{}.ContainsDate(time.Time{}))
}

func TestMatchAny(t *testing.T) {
	require.True(t, listing.MatchAny("", "anything"))
	require.True(t, listing.MatchAny("aid-2026", "x", "AID-20260301-101010"))
	require.False(t, listing.MatchAny("zzz", "AID-1", "croissant rouge"))
	require.True(t, listing.MatchExact("", "عيني"))
	require.False(t, listing.MatchExact("نقدي", "عيني"))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	require.Equal(t, []int{1, 2, 3}, listing.Paginate(items, 1, 3))
	require.Equal(t, []int{7}, listing.Paginate(items, 3, 3))
	require.Empty(t, listing.Paginate(items, 4, 3))
	require.Equal(t, items, listing.Paginate(items, 0, 0))
}

func TestFilterPreservesOrder(t *testing.T) {
	out := listing.Filter([]int{5, 2, 8, 1}, func(n int) bool { return n > 1 })
	require.Equal(t, []int{5, 2, 8}, out)
}

func TestParseQuery(t *testing.T) {
	loc := time.UTC
	v := url.Values{
		"search": {" aid "},
		"type":   {"عيني"},
		"from":   {"2026-03-01"},
		"to":     {"2026-03-10"},
		"page":   {"2"},
	}
	q, err := listing.ParseQuery(v, loc)
	require.NoError(t, err)
	require.Equal(t, "aid", q.Search)
	require.Equal(t, "عيني", q.Type)
	require.True(t, q.Paged())
	require.Equal(t, listing.DefaultPageSize, q.PageSize)
	require.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, int(999*time.Millisecond), loc), *q.Range.To)

	q, err = listing.ParseQuery(url.Values{}, loc)
	require.NoError(t, err)
	require.False(t, q.Paged())
	require.True(t, q.Range.IsZero())

	_, err = listing.ParseQuery(url.Values{"page": {"-1"}}, loc)
	require.Error(t, err)
	_, err = listing.ParseQuery(url.Values{"from": {"yesterday"}}, loc)
	require.Error(t, err)
}
