package api

import (
	"context"
	"net/http"

	"github.com/gaboelnuevo/cofi-app/client/internal/types"
)

var (
	epGetNotifications    = define("getNotifications", http.MethodGet, "/users/me/notifications")
	epGetNotificationByID = define("getNotificationById", http.MethodGet, "/users/me/notifications/{id}")
)

// GetNotifications lists the current user's notifications.
func GetNotifications(ctx context.Context, d Doer) (*types.Response, error) {
	return do(ctx, d, epGetNotifications, nil, nil, nil)
}

// GetNotificationByID fetches one notification of the current user.
func GetNotificationByID(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epGetNotificationByID, params{"id": id}, nil, nil)
}
