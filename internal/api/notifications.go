package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

// ListNotifications fetches the current user's notifications.
func (c *Client) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := c.get(ctx, "/notifications/", "Failed to load notifications", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead persists the read flag for one notification.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	httpReq, err := c.newRequest(ctx, http.MethodPatch, "/notifications/"+url.PathEscape(id)+"/read", struct{}{})
	if err != nil {
		return err
	}
	return c.do(ctx, httpReq, "Failed to mark notification as read", nil)
}
