package domain

import (
	"net/url"
	"strconv"
)

// Sort fields accepted by /restaurants/search.
const (
	SortByRating = "rating"
	SortByName   = "name"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SearchParams holds the transient query state for a search session.
// The zero value means "no active filters", i.e. catalog mode.
type SearchParams struct {
	Query     string  `json:"query"`
	MinRating float64 `json:"min_rating"`
	SortBy    string  `json:"sort_by"`
	Order     string  `json:"order"`
}

// DefaultSearchParams returns the filter defaults used when a search session
// is cleared.
func DefaultSearchParams() SearchParams {
	return SearchParams{SortBy: SortByRating, Order: OrderDesc}
}

// IsZero reports whether no user-supplied filter is active. Sort settings
// alone do not constitute a search.
func (p SearchParams) IsZero() bool {
	return p.Query == "" && p.MinRating == 0
}

// Values encodes the params as URL query parameters for the search endpoint.
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("query", p.Query)
	}
	if p.MinRating > 0 {
		v.Set("min_rating", strconv.FormatFloat(p.MinRating, 'f', -1, 64))
	}
	if p.SortBy != "" {
		v.Set("sort_by", p.SortBy)
	}
	if p.Order != "" {
		v.Set("order", p.Order)
	}
	return v
}

// SearchResult is the projection returned by /restaurants/search and
// /restaurants/recommendations.
type SearchResult struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Address       *string  `json:"address"`
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
}
