// Package catalog holds the restaurant collection and the search-result
// projection, reconciling remote fetches into in-memory state. The catalog
// is the sole writer of both containers; every mutation is a full-value
// replacement under the lock.
package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
	"github.com/yuvi-2309/Foodie-Finder/pkg/validator"
)

// catalogAPI is the slice of the remote client the catalog needs.
type catalogAPI interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	SearchRestaurants(ctx context.Context, params domain.SearchParams) ([]domain.SearchResult, error)
	Recommendations(ctx context.Context) ([]domain.SearchResult, error)
	GetRestaurant(ctx context.Context, id string) (domain.RestaurantDetail, error)
	CreateRestaurant(ctx context.Context, req domain.CreateRestaurantRequest) (domain.Restaurant, error)
	CreateReview(ctx context.Context, req domain.CreateReviewRequest) (domain.Review, error)
	UpdateReview(ctx context.Context, id string, req domain.CreateReviewRequest) (domain.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// Catalog is the restaurant collection state holder.
type Catalog struct {
	api    catalogAPI
	logger *slog.Logger

	mu          sync.RWMutex
	restaurants []domain.Restaurant
	results     []domain.SearchResult
	reviews     []domain.Review

	// detailEpoch tags detail fetches so a superseded response is never
	// reconciled over a newer one. Guarded by mu.
	detailEpoch uint64
}

// New creates an empty catalog.
func New(apiClient catalogAPI, log *slog.Logger) *Catalog {
	return &Catalog{
		api:    apiClient,
		logger: log,
	}
}

// List fetches all restaurants and replaces the in-memory collection.
// Aggregates missing from the payload are computed from each restaurant's
// embedded review set.
func (c *Catalog) List(ctx context.Context) ([]domain.Restaurant, error) {
	fetched, err := c.api.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}

	processed := make([]domain.Restaurant, len(fetched))
	for i, r := range fetched {
		processed[i] = r.WithAggregates()
	}

	c.mu.Lock()
	c.restaurants = processed
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "catalog loaded", slog.Int("count", len(processed)))
	return c.Restaurants(), nil
}

// Restaurants returns a copy of the current collection.
func (c *Catalog) Restaurants() []domain.Restaurant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	return out
}

// Get fetches one restaurant with its reviews and aggregate. On success the
// entity replaces its existing slot in the collection (position preserved);
// a detail fetch never grows the list. Responses superseded by a newer Get
// are returned to their caller but not reconciled into shared state.
func (c *Catalog) Get(ctx context.Context, id string) (domain.Restaurant, error) {
	c.mu.Lock()
	c.detailEpoch++
	epoch := c.detailEpoch
	c.mu.Unlock()

	detail, err := c.api.GetRestaurant(ctx, id)
	if err != nil {
		return domain.Restaurant{}, err
	}

	restaurant := detail.Normalize()
	reviews := make([]domain.Review, len(restaurant.Reviews))
	copy(reviews, restaurant.Reviews)
	domain.SortReviewsNewestFirst(reviews)

	c.mu.Lock()
	if epoch == c.detailEpoch {
		for i := range c.restaurants {
			if c.restaurants[i].ID == restaurant.ID {
				c.restaurants[i] = restaurant
				break
			}
		}
		c.reviews = reviews
	} else {
		c.logger.InfoContext(ctx, "stale detail response discarded",
			slog.String("restaurant_id", id),
		)
	}
	c.mu.Unlock()

	return restaurant, nil
}

// Reviews returns a copy of the current detail view's review projection,
// newest first.
func (c *Catalog) Reviews() []domain.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Review, len(c.reviews))
	copy(out, c.reviews)
	return out
}

// Search runs a filtered/sorted query and replaces the search-result
// projection. The main collection is never touched, so dropping out of
// search mode costs nothing.
func (c *Catalog) Search(ctx context.Context, params domain.SearchParams) ([]domain.SearchResult, error) {
	results, err := c.api.SearchRestaurants(ctx, params)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	c.mu.Lock()
	c.results = results
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "search executed",
		slog.String("query", params.Query),
		slog.Int("results", len(results)),
	)
	return c.Results(), nil
}

// Results returns a copy of the search-result projection.
func (c *Catalog) Results() []domain.SearchResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.SearchResult, len(c.results))
	copy(out, c.results)
	return out
}

// ClearSearch empties the search projection.
func (c *Catalog) ClearSearch() {
	c.mu.Lock()
	c.results = nil
	c.mu.Unlock()
}

// Recommendations fetches personalized picks. The backend errors when the
// user has no review history; that (and any other server failure) degrades
// to an empty result carrying ErrNoHistory so views can explain instead of
// breaking. Auth failures propagate untouched.
func (c *Catalog) Recommendations(ctx context.Context) ([]domain.SearchResult, error) {
	results, err := c.api.Recommendations(ctx)
	if err != nil {
		if apperrors.HTTPStatus(err) >= 500 {
			c.logger.InfoContext(ctx, "no recommendations available",
				slog.String("error", err.Error()),
			)
			return []domain.SearchResult{}, apperrors.Wrap(apperrors.ErrNoHistory,
				"Start reviewing restaurants to get personalized recommendations")
		}
		return nil, err
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, nil
}

// Create validates and posts a new restaurant, appending it to the collection.
func (c *Catalog) Create(ctx context.Context, req domain.CreateRestaurantRequest) (domain.Restaurant, error) {
	if err := validator.Validate(req); err != nil {
		return domain.Restaurant{}, err
	}

	created, err := c.api.CreateRestaurant(ctx, req)
	if err != nil {
		return domain.Restaurant{}, err
	}
	created = created.WithAggregates()

	c.mu.Lock()
	c.restaurants = append(c.restaurants, created)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "restaurant created",
		slog.String("restaurant_id", created.ID),
		slog.String("name", created.Name),
	)
	return created, nil
}
