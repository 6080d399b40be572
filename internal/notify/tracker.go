// Package notify polls the server for in-app notifications and layers the
// client-local seen set on top of the server's read flags. Polling degrades
// silently: a failed cycle keeps the previous state and the next tick tries
// again.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

// DefaultPollInterval is the production polling cadence.
const DefaultPollInterval = 30 * time.Second

var (
	pollTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "foodiefinder_notification_polls_total",
			Help: "Total number of notification poll cycles.",
		},
	)
	pollFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "foodiefinder_notification_poll_failures_total",
			Help: "Notification poll cycles that failed and kept stale state.",
		},
	)
)

func init() {
	prometheus.MustRegister(pollTotal)
	prometheus.MustRegister(pollFailures)
}

type notifyAPI interface {
	ListNotifications(ctx context.Context) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

type seenStore interface {
	SeenNotifications() map[string]struct{}
	SetSeenNotifications(ids map[string]struct{}) error
}

// Tracker maintains the notification list and the seen set.
type Tracker struct {
	api      notifyAPI
	store    seenStore
	logger   *slog.Logger
	interval time.Duration

	mu            sync.RWMutex
	notifications []domain.Notification
	seen          map[string]struct{}

	loopMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a tracker with the persisted seen set preloaded.
func New(apiClient notifyAPI, st seenStore, log *slog.Logger, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Tracker{
		api:      apiClient,
		store:    st,
		logger:   log,
		interval: interval,
		seen:     st.SeenNotifications(),
	}
}

// Start begins polling: one immediate fetch, then one fetch per interval.
// A second Start replaces the running loop, so at most one timer exists.
// The loop stops when ctx is cancelled or Stop is called.
func (t *Tracker) Start(ctx context.Context) {
	t.loopMu.Lock()
	defer t.loopMu.Unlock()
	t.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	go func() {
		defer close(done)
		t.poll(loopCtx)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				t.poll(loopCtx)
			}
		}
	}()
}

// Stop halts polling. Safe to call repeatedly or before Start.
func (t *Tracker) Stop() {
	t.loopMu.Lock()
	defer t.loopMu.Unlock()
	t.stopLocked()
}

func (t *Tracker) stopLocked() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.done = nil
}

func (t *Tracker) poll(ctx context.Context) {
	if err := t.Refresh(ctx); err != nil && ctx.Err() == nil {
		t.logger.WarnContext(ctx, "notification poll failed",
			slog.String("error", err.Error()),
		)
	}
}

// Refresh fetches the notification list once and reconciles it with the seen
// set. On failure the previous list stays in place.
func (t *Tracker) Refresh(ctx context.Context) error {
	pollTotal.Inc()

	fetched, err := t.api.ListNotifications(ctx)
	if err != nil {
		pollFailures.Inc()
		return err
	}

	t.mu.Lock()
	for i := range fetched {
		if _, ok := t.seen[fetched[i].ID]; ok {
			fetched[i].Seen = true
		}
	}
	t.notifications = fetched
	t.mu.Unlock()
	return nil
}

// Notifications returns a copy of the current list.
func (t *Tracker) Notifications() []domain.Notification {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Notification, len(t.notifications))
	copy(out, t.notifications)
	return out
}

// UnreadCount counts notifications that display as unread.
func (t *Tracker) UnreadCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int
	for _, nt := range t.notifications {
		if !nt.Display() {
			n++
		}
	}
	return n
}

// HasNew reports whether any notification has neither been read on the
// server nor seen locally. It drives the badge highlight.
func (t *Tracker) HasNew() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, nt := range t.notifications {
		if !nt.Display() {
			return true
		}
	}
	return false
}

// MarkAsRead persists the read flag on the server and mirrors it locally.
// The id also joins the seen set so the badge stays quiet even if the next
// refresh races the server-side write.
func (t *Tracker) MarkAsRead(ctx context.Context, id string) error {
	if err := t.api.MarkNotificationRead(ctx, id); err != nil {
		return err
	}

	t.mu.Lock()
	for i := range t.notifications {
		if t.notifications[i].ID == id {
			t.notifications[i].Read = true
			t.notifications[i].Seen = true
			break
		}
	}
	t.seen[id] = struct{}{}
	snapshot := t.seenSnapshotLocked()
	t.mu.Unlock()

	if err := t.store.SetSeenNotifications(snapshot); err != nil {
		t.logger.Warn("persisting seen set failed", slog.String("error", err.Error()))
	}
	return nil
}

// MarkAllAsRead marks every loaded notification as seen up front, then sends
// one read request per still-unread notification. Notifications the server
// already marked read are skipped, so repeated calls issue no duplicate
// requests. Server failures are logged and absorbed: the seen set already
// cleared the badge, so the caller never sees an error.
func (t *Tracker) MarkAllAsRead(ctx context.Context) {
	if err := t.MarkAllAsSeen(); err != nil {
		t.logger.Warn("seen set update before read batch failed",
			slog.String("error", err.Error()),
		)
	}

	t.mu.RLock()
	var pending []string
	for _, nt := range t.notifications {
		if !nt.Read {
			pending = append(pending, nt.ID)
		}
	}
	t.mu.RUnlock()

	for _, id := range pending {
		if err := t.MarkAsRead(ctx, id); err != nil {
			t.logger.WarnContext(ctx, "mark notification read failed",
				slog.String("notification_id", id),
				slog.String("error", err.Error()),
			)
		}
	}
}

// MarkAllAsSeen records every current notification in the local seen set and
// persists it. No server traffic is involved.
func (t *Tracker) MarkAllAsSeen() error {
	t.mu.Lock()
	for i := range t.notifications {
		t.seen[t.notifications[i].ID] = struct{}{}
		t.notifications[i].Seen = true
	}
	snapshot := t.seenSnapshotLocked()
	t.mu.Unlock()

	if err := t.store.SetSeenNotifications(snapshot); err != nil {
		t.logger.Warn("persisting seen set failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (t *Tracker) seenSnapshotLocked() map[string]struct{} {
	snapshot := make(map[string]struct{}, len(t.seen))
	for id := range t.seen {
		snapshot[id] = struct{}{}
	}
	return snapshot
}
