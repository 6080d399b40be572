// Package search drives the restaurant search experience: query edits are
// debounced before hitting the server, while filter and sort changes apply
// immediately to an active search.
package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

type searcher interface {
	Search(ctx context.Context, params domain.SearchParams) ([]domain.SearchResult, error)
	ClearSearch()
}

// Controller owns the current search parameters and decides when a remote
// search runs. An empty settled query drops out of search mode unless a
// minimum-rating filter is still active.
type Controller struct {
	catalog searcher
	logger  *slog.Logger
	ctx     context.Context

	mu       sync.Mutex
	params   domain.SearchParams
	inSearch bool

	debouncer *Debouncer
}

// NewController creates a controller debouncing query edits by delay.
// ctx bounds the searches the controller fires on its own.
func NewController(ctx context.Context, catalog searcher, log *slog.Logger, delay time.Duration) *Controller {
	c := &Controller{
		catalog: catalog,
		logger:  log,
		ctx:     ctx,
		params:  domain.DefaultSearchParams(),
	}
	c.debouncer = NewDebouncer(delay, c.onSettledQuery)
	return c
}

// SetQuery feeds a query edit into the debounce window. Nothing reaches the
// server until the user pauses typing.
func (c *Controller) SetQuery(query string) {
	c.debouncer.Push(query)
}

// SetMinRating updates the rating floor. An active search re-executes
// immediately with the new filter.
func (c *Controller) SetMinRating(min float64) {
	c.mu.Lock()
	c.params.MinRating = min
	active := c.inSearch
	params := c.params
	c.mu.Unlock()

	if active {
		c.execute(params)
	}
}

// SetSort updates the sort field and order. An active search re-executes
// immediately.
func (c *Controller) SetSort(sortBy, order string) {
	c.mu.Lock()
	c.params.SortBy = sortBy
	c.params.Order = order
	active := c.inSearch
	params := c.params
	c.mu.Unlock()

	if active {
		c.execute(params)
	}
}

// Clear leaves search mode: pending query edits are dropped, parameters
// return to their defaults and the result projection is emptied.
func (c *Controller) Clear() {
	c.debouncer.Reset()

	c.mu.Lock()
	c.params = domain.DefaultSearchParams()
	c.inSearch = false
	c.mu.Unlock()

	c.catalog.ClearSearch()
}

// InSearchMode reports whether search results currently back the list view.
func (c *Controller) InSearchMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inSearch
}

// Params returns a copy of the current parameters.
func (c *Controller) Params() domain.SearchParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Close releases the debounce timer.
func (c *Controller) Close() {
	c.debouncer.Close()
}

func (c *Controller) onSettledQuery(query string) {
	c.mu.Lock()
	c.params.Query = query
	// An empty query alone leaves search mode, but an active rating floor
	// keeps the search alive with the remaining filters.
	if query == "" && c.params.MinRating <= 0 {
		c.inSearch = false
		c.mu.Unlock()
		c.catalog.ClearSearch()
		return
	}
	c.inSearch = true
	params := c.params
	c.mu.Unlock()

	c.execute(params)
}

func (c *Controller) execute(params domain.SearchParams) {
	if _, err := c.catalog.Search(c.ctx, params); err != nil {
		c.logger.WarnContext(c.ctx, "search failed",
			slog.String("query", params.Query),
			slog.String("error", err.Error()),
		)
	}
}
