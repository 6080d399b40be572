package catalog

import (
	"context"
	"log/slog"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
	"github.com/yuvi-2309/Foodie-Finder/pkg/validator"
)

// CreateReview validates and posts a review, applies it to the local review
// projection, then refetches the owning restaurant so its aggregate reflects
// the server's computation rather than a local guess.
func (c *Catalog) CreateReview(ctx context.Context, req domain.CreateReviewRequest) (domain.Review, error) {
	if err := validator.Validate(req); err != nil {
		return domain.Review{}, err
	}

	created, err := c.api.CreateReview(ctx, req)
	if err != nil {
		return domain.Review{}, err
	}

	c.mu.Lock()
	c.reviews = append([]domain.Review{created}, c.reviews...)
	c.mu.Unlock()

	c.refreshOwner(ctx, req.RestaurantID)

	c.logger.InfoContext(ctx, "review created",
		slog.String("review_id", created.ID),
		slog.String("restaurant_id", req.RestaurantID),
	)
	return created, nil
}

// UpdateReview validates and sends an edit, replaces the review in the local
// projection by id, then refetches the owning restaurant.
func (c *Catalog) UpdateReview(ctx context.Context, reviewID string, req domain.CreateReviewRequest) (domain.Review, error) {
	if err := validator.Validate(req); err != nil {
		return domain.Review{}, err
	}

	updated, err := c.api.UpdateReview(ctx, reviewID, req)
	if err != nil {
		return domain.Review{}, err
	}

	c.mu.Lock()
	for i := range c.reviews {
		if c.reviews[i].ID == reviewID {
			c.reviews[i] = updated
			break
		}
	}
	c.mu.Unlock()

	c.refreshOwner(ctx, req.RestaurantID)

	c.logger.InfoContext(ctx, "review updated", slog.String("review_id", reviewID))
	return updated, nil
}

// DeleteReview removes a review remotely and locally, then refetches the
// owning restaurant.
func (c *Catalog) DeleteReview(ctx context.Context, reviewID, restaurantID string) error {
	if err := c.api.DeleteReview(ctx, reviewID); err != nil {
		return err
	}

	c.mu.Lock()
	kept := c.reviews[:0]
	for _, r := range c.reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	c.reviews = kept
	c.mu.Unlock()

	c.refreshOwner(ctx, restaurantID)

	c.logger.InfoContext(ctx, "review deleted", slog.String("review_id", reviewID))
	return nil
}

// refreshOwner re-fetches a restaurant after a review mutation. The mutation
// already succeeded, so a failed refresh only leaves the cached aggregate
// stale until the next load; it is logged and swallowed.
func (c *Catalog) refreshOwner(ctx context.Context, restaurantID string) {
	if restaurantID == "" {
		return
	}
	if _, err := c.Get(ctx, restaurantID); err != nil {
		c.logger.WarnContext(ctx, "restaurant refresh after review mutation failed",
			slog.String("restaurant_id", restaurantID),
			slog.String("error", err.Error()),
		)
	}
}
