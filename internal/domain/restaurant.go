package domain

import (
	"time"
)

// Restaurant represents a restaurant listing. AverageRating and TotalReviews
// are nil when the server omits them; use WithAggregates to fill them from
// the embedded review set.
type Restaurant struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Location      string     `json:"location,omitempty"`
	Description   string     `json:"description,omitempty"`
	Cuisine       string     `json:"cuisine,omitempty"`
	Address       string     `json:"address,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Website       string     `json:"website,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	PriceRange    int        `json:"price_range,omitempty"`
	AverageRating *float64   `json:"average_rating,omitempty"`
	TotalReviews  *int       `json:"total_reviews,omitempty"`
	Reviews       []Review   `json:"reviews,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// WithAggregates returns a copy whose AverageRating and TotalReviews are
// filled: server-supplied values are accepted as-is, missing ones are
// computed from the embedded review set.
func (r Restaurant) WithAggregates() Restaurant {
	if r.AverageRating == nil {
		avg := AverageRating(r.Reviews)
		r.AverageRating = &avg
	}
	if r.TotalReviews == nil {
		total := len(r.Reviews)
		r.TotalReviews = &total
	}
	return r
}

// Rating returns the effective average rating, 0 when unknown.
func (r Restaurant) Rating() float64 {
	if r.AverageRating != nil {
		return *r.AverageRating
	}
	return AverageRating(r.Reviews)
}

// ReviewCount returns the effective review count.
func (r Restaurant) ReviewCount() int {
	if r.TotalReviews != nil {
		return *r.TotalReviews
	}
	return len(r.Reviews)
}

// AverageRating computes the arithmetic mean of the review ratings.
// An empty review set yields 0.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// RestaurantDetail is the payload of GET /restaurants/{id}: the restaurant
// with its reviews and the server-computed aggregate.
type RestaurantDetail struct {
	Restaurant    Restaurant `json:"restaurant"`
	AverageRating *float64   `json:"average_rating"`
	Reviews       []Review   `json:"reviews"`
}

// Normalize folds the detail payload into a single Restaurant value with
// reviews attached and aggregates resolved.
func (d RestaurantDetail) Normalize() Restaurant {
	r := d.Restaurant
	r.Reviews = d.Reviews
	if d.AverageRating != nil {
		r.AverageRating = d.AverageRating
	}
	r.TotalReviews = nil
	return r.WithAggregates()
}

// CreateRestaurantRequest holds the fields for POST /restaurants/.
type CreateRestaurantRequest struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
	Address  string `json:"address,omitempty"`
}
