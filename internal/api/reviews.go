package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

// CreateReview posts a new review.
func (c *Client) CreateReview(ctx context.Context, req domain.CreateReviewRequest) (domain.Review, error) {
	var out domain.Review
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/reviews/", req)
	if err != nil {
		return out, err
	}
	if err := c.do(ctx, httpReq, "Failed to create review", &out); err != nil {
		return domain.Review{}, err
	}
	return out, nil
}

// UpdateReview replaces an existing review owned by the current user.
func (c *Client) UpdateReview(ctx context.Context, id string, req domain.CreateReviewRequest) (domain.Review, error) {
	var out domain.Review
	httpReq, err := c.newRequest(ctx, http.MethodPut, "/reviews/"+url.PathEscape(id), req)
	if err != nil {
		return out, err
	}
	if err := c.do(ctx, httpReq, "Failed to update review", &out); err != nil {
		return domain.Review{}, err
	}
	return out, nil
}

// DeleteReview removes a review owned by the current user.
func (c *Client) DeleteReview(ctx context.Context, id string) error {
	httpReq, err := c.newRequest(ctx, http.MethodDelete, "/reviews/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(ctx, httpReq, "Failed to delete review", nil)
}
