package stub

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
	"github.com/yuvi-2309/Foodie-Finder/pkg/httputil"
	"github.com/yuvi-2309/Foodie-Finder/pkg/validator"
)

func withUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// --- auth ---

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, s.logger)
		return
	}

	email := strings.ToLower(req.Email)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Internal(err), s.logger)
		return
	}

	now := time.Now().UTC()
	rec := &userRecord{
		user: domain.User{
			ID:        uuid.New().String(),
			Email:     email,
			Username:  strings.SplitN(email, "@", 2)[0],
			CreatedAt: &now,
		},
		passwordHash: hash,
	}

	s.mu.Lock()
	if _, exists := s.usersByEmail[email]; exists {
		s.mu.Unlock()
		httputil.WriteDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	s.usersByEmail[email] = rec
	s.usersByID[rec.user.ID] = rec
	s.mu.Unlock()

	s.writeToken(w, r, rec.user.ID)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, s.logger)
		return
	}

	s.mu.Lock()
	rec, ok := s.usersByEmail[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(req.Password)) != nil {
		httputil.WriteDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	s.writeToken(w, r, rec.user.ID)
}

func (s *Server) writeToken(w http.ResponseWriter, r *http.Request, userID string) {
	token, err := s.issueToken(userID)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Internal(err), s.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, domain.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rec := s.usersByID[userIDFrom(r.Context())]
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, rec.user)
}

// --- restaurants ---

// snapshotLocked returns a copy of the restaurant with its reviews attached
// and aggregates computed. Callers hold s.mu.
func (s *Server) snapshotLocked(id string) (domain.Restaurant, bool) {
	rp, ok := s.restaurants[id]
	if !ok {
		return domain.Restaurant{}, false
	}
	out := *rp
	out.Reviews = s.reviewsForLocked(id)
	out.AverageRating = nil
	out.TotalReviews = nil
	return out.WithAggregates(), true
}

func (s *Server) reviewsForLocked(restaurantID string) []domain.Review {
	var out []domain.Review
	for _, rv := range s.reviews {
		if rv.RestaurantID == restaurantID {
			out = append(out, *rv)
		}
	}
	domain.SortReviewsNewestFirst(out)
	return out
}

func (s *Server) handleListRestaurants(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]domain.Restaurant, 0, len(s.order))
	for _, id := range s.order {
		if snap, ok := s.snapshotLocked(id); ok {
			out = append(out, snap)
		}
	}
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRestaurant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	snap, ok := s.snapshotLocked(id)
	s.mu.Unlock()
	if !ok {
		httputil.WriteDetail(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, domain.RestaurantDetail{
		Restaurant:    snap,
		AverageRating: snap.AverageRating,
		Reviews:       snap.Reviews,
	})
}

func (s *Server) handleCreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRestaurantRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, s.logger)
		return
	}

	now := time.Now().UTC()
	restaurant := domain.Restaurant{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Location:  req.Location,
		Address:   req.Address,
		CreatedAt: &now,
	}

	s.mu.Lock()
	s.restaurants[restaurant.ID] = &restaurant
	s.order = append(s.order, restaurant.ID)
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, restaurant.WithAggregates())
}

func toResult(r domain.Restaurant) domain.SearchResult {
	res := domain.SearchResult{
		ID:            r.ID,
		Name:          r.Name,
		Location:      r.Location,
		AverageRating: r.AverageRating,
		ReviewCount:   r.ReviewCount(),
	}
	if r.Address != "" {
		addr := r.Address
		res.Address = &addr
	}
	return res
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("query"))
	minRating, _ := strconv.ParseFloat(r.URL.Query().Get("min_rating"), 64)
	sortBy := r.URL.Query().Get("sort_by")
	order := r.URL.Query().Get("order")

	s.mu.Lock()
	results := make([]domain.SearchResult, 0, len(s.order))
	for _, id := range s.order {
		snap, ok := s.snapshotLocked(id)
		if !ok {
			continue
		}
		haystack := strings.ToLower(snap.Name + " " + snap.Location + " " + snap.Cuisine)
		if q != "" && !strings.Contains(haystack, q) {
			continue
		}
		if snap.Rating() < minRating {
			continue
		}
		results = append(results, toResult(snap))
	}
	s.mu.Unlock()

	sortResults(results, sortBy, order)
	httputil.WriteJSON(w, http.StatusOK, results)
}

func sortResults(results []domain.SearchResult, sortBy, order string) {
	asc := order == domain.OrderAsc
	sort.SliceStable(results, func(i, j int) bool {
		if sortBy == domain.SortByName {
			if asc {
				return results[i].Name < results[j].Name
			}
			return results[i].Name > results[j].Name
		}
		var ri, rj float64
		if results[i].AverageRating != nil {
			ri = *results[i].AverageRating
		}
		if results[j].AverageRating != nil {
			rj = *results[j].AverageRating
		}
		if asc {
			return ri < rj
		}
		return ri > rj
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	s.mu.Lock()
	reviewed := make(map[string]struct{})
	for _, rv := range s.reviews {
		if rv.UserID == userID {
			reviewed[rv.RestaurantID] = struct{}{}
		}
	}

	if len(reviewed) == 0 {
		s.mu.Unlock()
		// The production model cannot rank without history and fails the
		// request outright.
		httputil.WriteDetail(w, http.StatusInternalServerError, "No review history for user")
		return
	}

	results := make([]domain.SearchResult, 0, len(s.order))
	for _, id := range s.order {
		if _, already := reviewed[id]; already {
			continue
		}
		if snap, ok := s.snapshotLocked(id); ok {
			results = append(results, toResult(snap))
		}
	}
	s.mu.Unlock()

	sortResults(results, domain.SortByRating, domain.OrderDesc)
	httputil.WriteJSON(w, http.StatusOK, results)
}

// --- reviews ---

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, s.logger)
		return
	}

	userID := userIDFrom(r.Context())
	now := time.Now().UTC()

	s.mu.Lock()
	restaurant, ok := s.restaurants[req.RestaurantID]
	if !ok {
		s.mu.Unlock()
		httputil.WriteDetail(w, http.StatusNotFound, "Restaurant not found")
		return
	}

	review := domain.Review{
		ID:           uuid.New().String(),
		RestaurantID: req.RestaurantID,
		UserID:       userID,
		Username:     s.usersByID[userID].user.Username,
		Rating:       req.Rating,
		Content:      req.Content,
		PhotoURL:     req.PhotoURL,
		CreatedAt:    &now,
	}
	s.reviews[review.ID] = &review

	// Everyone else who reviewed this restaurant hears about the new take.
	notified := make(map[string]struct{})
	for _, rv := range s.reviews {
		if rv.RestaurantID != req.RestaurantID || rv.UserID == userID {
			continue
		}
		if _, done := notified[rv.UserID]; done {
			continue
		}
		notified[rv.UserID] = struct{}{}
		s.notifications[rv.UserID] = append(s.notifications[rv.UserID], domain.Notification{
			ID:           uuid.New().String(),
			UserID:       rv.UserID,
			Message:      review.Username + " also reviewed " + restaurant.Name,
			Type:         "new_review",
			RestaurantID: req.RestaurantID,
			CreatedAt:    &now,
		})
	}
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, review)
}

// ownedReviewLocked fetches a review and checks the caller wrote it.
func (s *Server) ownedReviewLocked(id, userID string) (*domain.Review, error) {
	rv, ok := s.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	if rv.UserID != userID {
		return nil, apperrors.Forbidden("Not authorized to modify this review")
	}
	return rv, nil
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, s.logger)
		return
	}

	now := time.Now().UTC()

	s.mu.Lock()
	rv, err := s.ownedReviewLocked(chi.URLParam(r, "id"), userIDFrom(r.Context()))
	if err != nil {
		s.mu.Unlock()
		httputil.WriteError(w, r, err, s.logger)
		return
	}
	rv.Rating = req.Rating
	rv.Content = req.Content
	rv.PhotoURL = req.PhotoURL
	rv.UpdatedAt = &now
	updated := *rv
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rv, err := s.ownedReviewLocked(chi.URLParam(r, "id"), userIDFrom(r.Context()))
	if err != nil {
		s.mu.Unlock()
		httputil.WriteError(w, r, err, s.logger)
		return
	}
	delete(s.reviews, rv.ID)
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- notifications ---

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := s.notifications[userIDFrom(r.Context())]
	out := make([]domain.Notification, len(list))
	copy(out, list)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].CreatedAt, out[j].CreatedAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := userIDFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.notifications[userID]
	for i := range list {
		if list[i].ID == id {
			list[i].Read = true
			httputil.WriteJSON(w, http.StatusOK, list[i])
			return
		}
	}
	httputil.WriteDetail(w, http.StatusNotFound, "Notification not found")
}
