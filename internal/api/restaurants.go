package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

// listEnvelope tolerates the two shapes /restaurants/ has been observed to
// return: a bare array or an object wrapping it in a "value" field.
type listEnvelope struct {
	Value []domain.Restaurant `json:"value"`
}

// ListRestaurants fetches the full catalog.
func (c *Client) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/restaurants/", "Failed to load restaurants", &raw); err != nil {
		return nil, err
	}

	var restaurants []domain.Restaurant
	if err := json.Unmarshal(raw, &restaurants); err == nil {
		return restaurants, nil
	}

	var envelope listEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Value != nil {
		return envelope.Value, nil
	}

	// Anything else is treated as an empty catalog, matching the original
	// client's lenient handling.
	return []domain.Restaurant{}, nil
}

// SearchRestaurants runs a filtered/sorted query.
func (c *Client) SearchRestaurants(ctx context.Context, params domain.SearchParams) ([]domain.SearchResult, error) {
	var out []domain.SearchResult
	path := "/restaurants/search"
	if encoded := params.Values().Encode(); encoded != "" {
		path += "?" + encoded
	}
	if err := c.get(ctx, path, "Search failed", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recommendations fetches personalized picks. Requires auth; the server
// fails when the user has no review history, which callers treat as an
// empty, explained state rather than an error.
func (c *Client) Recommendations(ctx context.Context) ([]domain.SearchResult, error) {
	var out []domain.SearchResult
	if err := c.get(ctx, "/restaurants/recommendations", "Failed to load recommendations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRestaurant fetches one restaurant with its reviews and aggregate.
// The endpoint's envelope shape (restaurant + reviews + average) and the
// older flat shape are both accepted.
func (c *Client) GetRestaurant(ctx context.Context, id string) (domain.RestaurantDetail, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/restaurants/"+url.PathEscape(id), "Failed to load restaurant details", &raw); err != nil {
		return domain.RestaurantDetail{}, err
	}

	var detail domain.RestaurantDetail
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Restaurant.ID != "" {
		return detail, nil
	}

	var flat domain.Restaurant
	if err := json.Unmarshal(raw, &flat); err != nil {
		return domain.RestaurantDetail{}, err
	}
	return domain.RestaurantDetail{
		Restaurant:    flat,
		AverageRating: flat.AverageRating,
		Reviews:       flat.Reviews,
	}, nil
}

// CreateRestaurant adds a listing.
func (c *Client) CreateRestaurant(ctx context.Context, req domain.CreateRestaurantRequest) (domain.Restaurant, error) {
	var out domain.Restaurant
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/restaurants/", req)
	if err != nil {
		return out, err
	}
	if err := c.do(ctx, httpReq, "Failed to create restaurant", &out); err != nil {
		return domain.Restaurant{}, err
	}
	return out, nil
}
