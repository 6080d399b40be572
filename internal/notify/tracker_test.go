package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
	"github.com/yuvi-2309/Foodie-Finder/internal/store"
	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
	"github.com/yuvi-2309/Foodie-Finder/pkg/logger"
)

// fakeNotifyAPI is a hand-rolled fake so tests can swap responses between
// poll cycles and count requests without mock bookkeeping.
type fakeNotifyAPI struct {
	mu         sync.Mutex
	list       []domain.Notification
	listErr    error
	listCalls  int
	readCalls  []string
	readErr    error
	listSignal chan struct{}
}

func (f *fakeNotifyAPI) ListNotifications(context.Context) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listSignal != nil {
		select {
		case f.listSignal <- struct{}{}:
		default:
		}
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Notification, len(f.list))
	copy(out, f.list)
	return out, nil
}

func (f *fakeNotifyAPI) MarkNotificationRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return f.readErr
	}
	f.readCalls = append(f.readCalls, id)
	for i := range f.list {
		if f.list[i].ID == id {
			f.list[i].Read = true
		}
	}
	return nil
}

func (f *fakeNotifyAPI) set(list []domain.Notification, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = list
	f.listErr = err
}

func (f *fakeNotifyAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func newTestTracker(api *fakeNotifyAPI, interval time.Duration) (*Tracker, *store.MemoryStore) {
	st := store.NewMemory()
	return New(api, st, logger.Discard(), interval), st
}

func TestRefresh_AppliesSeenSetFromStore(t *testing.T) {
	api := &fakeNotifyAPI{list: []domain.Notification{
		{ID: "n1", Message: "New review on Curry Leaf"},
		{ID: "n2", Message: "New restaurant near you"},
	}}
	st := store.NewMemory()
	require.NoError(t, st.SetSeenNotifications(map[string]struct{}{"n1": {}}))

	tr := New(api, st, logger.Discard(), time.Minute)
	require.NoError(t, tr.Refresh(context.Background()))

	list := tr.Notifications()
	require.Len(t, list, 2)
	assert.True(t, list[0].Display())
	assert.False(t, list[1].Display())
	assert.Equal(t, 1, tr.UnreadCount())
	assert.True(t, tr.HasNew())
}

func TestRefresh_FailureKeepsPreviousList(t *testing.T) {
	api := &fakeNotifyAPI{list: []domain.Notification{{ID: "n1"}}}
	tr, _ := newTestTracker(api, time.Minute)

	require.NoError(t, tr.Refresh(context.Background()))
	require.Len(t, tr.Notifications(), 1)

	api.set(nil, apperrors.Remote(503, "SERVICE_UNAVAILABLE", "backend down"))
	require.Error(t, tr.Refresh(context.Background()))
	assert.Len(t, tr.Notifications(), 1)
}

func TestStart_PollsImmediatelyThenOnTicks(t *testing.T) {
	api := &fakeNotifyAPI{listSignal: make(chan struct{}, 8)}
	tr, _ := newTestTracker(api, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)
	defer tr.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-api.listSignal:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected poll %d, got %d calls", i+1, api.calls())
		}
	}
	assert.GreaterOrEqual(t, api.calls(), 3)
}

func TestStart_RestartReplacesLoop(t *testing.T) {
	api := &fakeNotifyAPI{listSignal: make(chan struct{}, 8)}
	tr, _ := newTestTracker(api, 10*time.Millisecond)

	ctx := context.Background()
	tr.Start(ctx)
	tr.Start(ctx)
	defer tr.Stop()

	<-api.listSignal
	before := api.calls()
	time.Sleep(55 * time.Millisecond)
	after := api.calls()

	// One loop ticking at 10ms yields at most ~7 polls in 55ms; two
	// concurrent loops would roughly double that.
	assert.LessOrEqual(t, after-before, 8)
}

func TestStop_IsIdempotent(t *testing.T) {
	api := &fakeNotifyAPI{}
	tr, _ := newTestTracker(api, time.Minute)

	tr.Stop()
	tr.Start(context.Background())
	tr.Stop()
	tr.Stop()

	calls := api.calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, api.calls())
}

func TestMarkAsRead_UpdatesLocalCopy(t *testing.T) {
	api := &fakeNotifyAPI{list: []domain.Notification{{ID: "n1"}, {ID: "n2"}}}
	tr, st := newTestTracker(api, time.Minute)
	require.NoError(t, tr.Refresh(context.Background()))

	require.NoError(t, tr.MarkAsRead(context.Background(), "n1"))
	assert.Equal(t, []string{"n1"}, api.readCalls)
	assert.Equal(t, 1, tr.UnreadCount())
	assert.Contains(t, st.SeenNotifications(), "n1")
}

func TestMarkAllAsRead_SkipsAlreadyRead(t *testing.T) {
	api := &fakeNotifyAPI{list: []domain.Notification{
		{ID: "n1", Read: true},
		{ID: "n2"},
		{ID: "n3"},
	}}
	tr, _ := newTestTracker(api, time.Minute)
	ctx := context.Background()
	require.NoError(t, tr.Refresh(ctx))

	tr.MarkAllAsRead(ctx)
	assert.ElementsMatch(t, []string{"n2", "n3"}, api.readCalls)
	assert.Zero(t, tr.UnreadCount())

	// A second pass has nothing left to send.
	tr.MarkAllAsRead(ctx)
	assert.Len(t, api.readCalls, 2)
}

func TestMarkAllAsRead_AbsorbsServerFailures(t *testing.T) {
	api := &fakeNotifyAPI{list: []domain.Notification{{ID: "n1"}, {ID: "n2"}}}
	tr, st := newTestTracker(api, time.Minute)
	ctx := context.Background()
	require.NoError(t, tr.Refresh(ctx))

	api.readErr = apperrors.Remote(503, "SERVICE_UNAVAILABLE", "backend down")
	tr.MarkAllAsRead(ctx)

	// The badge clears from the seen set alone, with no error surfaced.
	assert.Zero(t, tr.UnreadCount())
	assert.False(t, tr.HasNew())
	seen := st.SeenNotifications()
	assert.Contains(t, seen, "n1")
	assert.Contains(t, seen, "n2")
}

func TestMarkAllAsSeen_IsLocalOnlyAndPersisted(t *testing.T) {
	api := &fakeNotifyAPI{list: []domain.Notification{{ID: "n1"}, {ID: "n2"}}}
	tr, st := newTestTracker(api, time.Minute)
	require.NoError(t, tr.Refresh(context.Background()))

	require.NoError(t, tr.MarkAllAsSeen())
	assert.Empty(t, api.readCalls)
	assert.Zero(t, tr.UnreadCount())
	assert.False(t, tr.HasNew())

	seen := st.SeenNotifications()
	assert.Contains(t, seen, "n1")
	assert.Contains(t, seen, "n2")

	// Seen survives the next poll even though the server still reports
	// the notifications as unread.
	require.NoError(t, tr.Refresh(context.Background()))
	assert.Zero(t, tr.UnreadCount())
}
