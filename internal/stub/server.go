// Package stub is an in-memory fake of the remote restaurant API, wire
// compatible enough for local development and the SDK's integration tests.
// State lives in maps guarded by one mutex and resets with the process.
package stub

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
	"github.com/yuvi-2309/Foodie-Finder/pkg/httputil"
)

// bcryptCost stays low here: this server only ever holds throwaway
// development accounts.
const bcryptCost = bcrypt.MinCost

const tokenTTL = 24 * time.Hour

type userRecord struct {
	user         domain.User
	passwordHash []byte
}

// Server holds the fake backend's state.
type Server struct {
	logger *slog.Logger
	secret []byte

	mu            sync.Mutex
	usersByEmail  map[string]*userRecord
	usersByID     map[string]*userRecord
	restaurants   map[string]*domain.Restaurant
	order         []string
	reviews       map[string]*domain.Review
	notifications map[string][]domain.Notification
}

// New creates an empty stub server signing tokens with secret.
func New(secret string, log *slog.Logger) *Server {
	return &Server{
		logger:        log,
		secret:        []byte(secret),
		usersByEmail:  make(map[string]*userRecord),
		usersByID:     make(map[string]*userRecord),
		restaurants:   make(map[string]*domain.Restaurant),
		reviews:       make(map[string]*domain.Review),
		notifications: make(map[string][]domain.Notification),
	}
}

// Router builds the chi handler with every endpoint registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.requireAuth).Get("/me", s.handleMe)
	})

	r.Route("/restaurants", func(r chi.Router) {
		r.Get("/", s.handleListRestaurants)
		r.Get("/search", s.handleSearch)
		r.With(s.requireAuth).Get("/recommendations", s.handleRecommendations)
		r.Get("/{id}", s.handleGetRestaurant)
		r.With(s.requireAuth).Post("/", s.handleCreateRestaurant)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/", s.handleCreateReview)
		r.Put("/{id}", s.handleUpdateReview)
		r.Delete("/{id}", s.handleDeleteReview)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleListNotifications)
		r.Patch("/{id}/read", s.handleMarkNotificationRead)
	})

	return r
}

// issueToken signs an HS256 bearer token for the user.
func (s *Server) issueToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

type contextKey string

const userIDKey contextKey = "stub.userID"

// requireAuth validates the bearer token and stashes the subject in the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			httputil.WriteError(w, r, apperrors.Unauthorized("Not authenticated"), s.logger)
			return
		}

		token, err := jwt.Parse(header[len(prefix):], func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			httputil.WriteError(w, r, apperrors.Unauthorized("Could not validate credentials"), s.logger)
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			httputil.WriteError(w, r, apperrors.Unauthorized("Could not validate credentials"), s.logger)
			return
		}

		s.mu.Lock()
		_, known := s.usersByID[sub]
		s.mu.Unlock()
		if !known {
			httputil.WriteError(w, r, apperrors.Unauthorized("Could not validate credentials"), s.logger)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), sub)))
	})
}

// Seed installs a ready-made account plus restaurants for development runs.
// Returns the seeded user's id.
func (s *Server) Seed() string {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hungry-hippo-42"), bcryptCost)
	now := time.Now().UTC()
	rec := &userRecord{
		user: domain.User{
			ID:        uuid.New().String(),
			Email:     "demo@foodiefinder.dev",
			Username:  "demo",
			CreatedAt: &now,
		},
		passwordHash: hash,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByEmail[rec.user.Email] = rec
	s.usersByID[rec.user.ID] = rec

	for _, r := range []domain.Restaurant{
		{Name: "Curry Leaf", Location: "Chennai", Cuisine: "South Indian"},
		{Name: "Pasta Bar", Location: "Bangalore", Cuisine: "Italian"},
		{Name: "Taco Truck", Location: "Hyderabad", Cuisine: "Mexican"},
	} {
		r.ID = uuid.New().String()
		r.CreatedAt = &now
		rr := r
		s.restaurants[rr.ID] = &rr
		s.order = append(s.order, rr.ID)
	}
	return rec.user.ID
}
