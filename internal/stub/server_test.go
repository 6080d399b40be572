package stub

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuvi-2309/Foodie-Finder/internal/api"
	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
	"github.com/yuvi-2309/Foodie-Finder/pkg/httpclient"
	"github.com/yuvi-2309/Foodie-Finder/pkg/logger"
)

type staticToken struct {
	token string
}

func (s *staticToken) Token() (string, bool) {
	return s.token, s.token != ""
}

// newClient wires the real SDK client against an in-process stub, so these
// tests double as wire-compatibility checks.
func newClient(t *testing.T) (*api.Client, *staticToken, *Server) {
	t.Helper()
	srv := New("stub-test-secret", logger.Discard())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	// No retries: the recommendations flow deliberately serves a 500 and
	// the default backoff would stall the suite.
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0

	tokens := &staticToken{}
	client := api.New(ts.URL, httpclient.New(cfg), tokens, logger.Discard())
	return client, tokens, srv
}

func register(t *testing.T, client *api.Client, tokens *staticToken, email string) *domain.User {
	t.Helper()
	ctx := context.Background()
	auth, err := client.Register(ctx, domain.RegisterRequest{
		Email:    email,
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, "bearer", auth.TokenType)

	tokens.token = auth.AccessToken
	user, err := client.Me(ctx)
	require.NoError(t, err)
	return user
}

const content = "Fantastic food, generous portions, would absolutely come back."

func TestAuthFlow(t *testing.T) {
	client, tokens, _ := newClient(t)
	ctx := context.Background()

	user := register(t, client, tokens, "alice@example.com")
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.Username)

	// Duplicate registration is rejected with the backend's message.
	_, err := client.Register(ctx, domain.RegisterRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.Error(t, err)
	assert.Equal(t, "Email already registered", apperrors.UserMessage(err, ""))

	// Wrong password.
	_, err = client.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))

	// Correct login issues a fresh working token.
	auth, err := client.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	tokens.token = auth.AccessToken
	again, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	// Garbage token is rejected.
	tokens.token = "not-a-jwt"
	_, err = client.Me(ctx)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
}

func TestRestaurantAndReviewFlow(t *testing.T) {
	client, tokens, _ := newClient(t)
	ctx := context.Background()

	register(t, client, tokens, "alice@example.com")

	created, err := client.CreateRestaurant(ctx, domain.CreateRestaurantRequest{
		Name:     "Curry Leaf",
		Location: "Chennai",
		Address:  "12 Temple Street",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	list, err := client.ListRestaurants(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Zero(t, list[0].Rating())

	review, err := client.CreateReview(ctx, domain.CreateReviewRequest{
		RestaurantID: created.ID,
		Rating:       4,
		Content:      content,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", review.Username)

	detail, err := client.GetRestaurant(ctx, created.ID)
	require.NoError(t, err)
	norm := detail.Normalize()
	assert.InDelta(t, 4.0, norm.Rating(), 0.001)
	require.Len(t, norm.Reviews, 1)

	updated, err := client.UpdateReview(ctx, review.ID, domain.CreateReviewRequest{
		RestaurantID: created.ID,
		Rating:       5,
		Content:      content,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	require.NotNil(t, updated.UpdatedAt)

	require.NoError(t, client.DeleteReview(ctx, review.ID))
	detail, err = client.GetRestaurant(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Reviews)

	_, err = client.GetRestaurant(ctx, "no-such-id")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.HTTPStatus(err))
}

func TestReviewOwnership(t *testing.T) {
	client, tokens, _ := newClient(t)
	ctx := context.Background()

	register(t, client, tokens, "alice@example.com")
	aliceToken := tokens.token

	restaurant, err := client.CreateRestaurant(ctx, domain.CreateRestaurantRequest{
		Name: "Pasta Bar", Location: "Bangalore",
	})
	require.NoError(t, err)

	review, err := client.CreateReview(ctx, domain.CreateReviewRequest{
		RestaurantID: restaurant.ID,
		Rating:       3,
		Content:      content,
	})
	require.NoError(t, err)

	register(t, client, tokens, "bob@example.com")

	_, err = client.UpdateReview(ctx, review.ID, domain.CreateReviewRequest{
		RestaurantID: restaurant.ID,
		Rating:       1,
		Content:      content,
	})
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.HTTPStatus(err))

	err = client.DeleteReview(ctx, review.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.HTTPStatus(err))

	tokens.token = aliceToken
	require.NoError(t, client.DeleteReview(ctx, review.ID))
}

func TestSearchFiltersAndSorts(t *testing.T) {
	client, tokens, _ := newClient(t)
	ctx := context.Background()

	register(t, client, tokens, "alice@example.com")

	var ids []string
	for _, seed := range []struct {
		name, location string
	}{
		{"Curry Leaf", "Chennai"},
		{"Pasta Bar", "Bangalore"},
		{"Curry Corner", "Mumbai"},
	} {
		r, err := client.CreateRestaurant(ctx, domain.CreateRestaurantRequest{
			Name: seed.name, Location: seed.location,
		})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	for i, rating := range []int{5, 4, 2} {
		_, err := client.CreateReview(ctx, domain.CreateReviewRequest{
			RestaurantID: ids[i],
			Rating:       rating,
			Content:      content,
		})
		require.NoError(t, err)
	}

	results, err := client.SearchRestaurants(ctx, domain.SearchParams{
		Query: "curry", SortBy: domain.SortByRating, Order: domain.OrderDesc,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Curry Leaf", results[0].Name)
	assert.Equal(t, "Curry Corner", results[1].Name)

	results, err = client.SearchRestaurants(ctx, domain.SearchParams{
		Query: "curry", MinRating: 3,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Curry Leaf", results[0].Name)

	results, err = client.SearchRestaurants(ctx, domain.SearchParams{
		SortBy: domain.SortByName, Order: domain.OrderAsc,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Curry Corner", results[0].Name)
}

func TestRecommendationsRequireHistory(t *testing.T) {
	client, tokens, _ := newClient(t)
	ctx := context.Background()

	register(t, client, tokens, "alice@example.com")

	var ids []string
	for _, name := range []string{"Curry Leaf", "Pasta Bar"} {
		r, err := client.CreateRestaurant(ctx, domain.CreateRestaurantRequest{
			Name: name, Location: "Chennai",
		})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	_, err := client.Recommendations(ctx)
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))

	_, err = client.CreateReview(ctx, domain.CreateReviewRequest{
		RestaurantID: ids[0],
		Rating:       5,
		Content:      content,
	})
	require.NoError(t, err)

	recs, err := client.Recommendations(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Pasta Bar", recs[0].Name)
}

func TestNotificationsFanOutToPriorReviewers(t *testing.T) {
	client, tokens, _ := newClient(t)
	ctx := context.Background()

	alice := register(t, client, tokens, "alice@example.com")
	aliceToken := tokens.token

	restaurant, err := client.CreateRestaurant(ctx, domain.CreateRestaurantRequest{
		Name: "Taco Truck", Location: "Hyderabad",
	})
	require.NoError(t, err)

	_, err = client.CreateReview(ctx, domain.CreateReviewRequest{
		RestaurantID: restaurant.ID,
		Rating:       4,
		Content:      content,
	})
	require.NoError(t, err)

	register(t, client, tokens, "bob@example.com")
	_, err = client.CreateReview(ctx, domain.CreateReviewRequest{
		RestaurantID: restaurant.ID,
		Rating:       5,
		Content:      content,
	})
	require.NoError(t, err)

	tokens.token = aliceToken
	notifications, err := client.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, alice.ID, notifications[0].UserID)
	assert.Contains(t, notifications[0].Message, "Taco Truck")
	assert.False(t, notifications[0].Read)

	require.NoError(t, client.MarkNotificationRead(ctx, notifications[0].ID))
	notifications, err = client.ListNotifications(ctx)
	require.NoError(t, err)
	assert.True(t, notifications[0].Read)
}

func TestSeedProvidesWorkingAccount(t *testing.T) {
	client, tokens, srv := newClient(t)
	ctx := context.Background()

	userID := srv.Seed()
	require.NotEmpty(t, userID)

	auth, err := client.Login(ctx, domain.LoginRequest{
		Email:    "demo@foodiefinder.dev",
		Password: "hungry-hippo-42",
	})
	require.NoError(t, err)
	tokens.token = auth.AccessToken

	list, err := client.ListRestaurants(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
