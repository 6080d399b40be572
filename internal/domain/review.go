package domain

import (
	"sort"
	"time"
)

// Review represents a restaurant review submitted by a user.
type Review struct {
	ID           string     `json:"id"`
	RestaurantID string     `json:"restaurant_id"`
	UserID       string     `json:"user_id"`
	Username     string     `json:"username,omitempty"`
	Rating       int        `json:"rating"`
	Content      string     `json:"content"`
	PhotoURL     *string    `json:"photo_url,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// SortReviewsNewestFirst orders reviews by creation time, newest first.
// Reviews without a timestamp sink to the end.
func SortReviewsNewestFirst(reviews []Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		ti, tj := reviews[i].CreatedAt, reviews[j].CreatedAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})
}

// CreateReviewRequest holds the fields for POST /reviews/ and PUT /reviews/{id}.
type CreateReviewRequest struct {
	RestaurantID string  `json:"restaurant_id" validate:"required"`
	Rating       int     `json:"rating" validate:"required,gte=1,lte=5"`
	Content      string  `json:"content" validate:"required,min=20"`
	PhotoURL     *string `json:"photo_url,omitempty" validate:"omitempty,url"`
}
