// Package store persists the client's durable local state: the bearer token,
// the current-user snapshot, and the set of seen notification ids. The three
// key spaces are disjoint (the session manager owns token and user, the
// notification tracker owns the seen set) so writers never contend over the
// same value.
package store

import (
	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

// Store defines the durable local state operations.
type Store interface {
	// Token returns the persisted bearer token, if any.
	Token() (string, bool)

	// SetToken persists the bearer token.
	SetToken(token string) error

	// User returns the persisted current-user snapshot, if any.
	User() (*domain.User, bool)

	// SetUser persists the current-user snapshot.
	SetUser(user *domain.User) error

	// ClearSession removes the token and user snapshot. The seen set is
	// intentionally left alone: it is scoped to the profile, not the login.
	ClearSession() error

	// SeenNotifications returns a copy of the seen notification id set.
	SeenNotifications() map[string]struct{}

	// SetSeenNotifications replaces the seen notification id set.
	SetSeenNotifications(ids map[string]struct{}) error
}
