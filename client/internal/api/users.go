package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gaboelnuevo/cofi-app/client/internal/types"
)

// RegisterDeviceTimeout is the timeout used for device registration, which
// the backend answers only after the push provider has confirmed.
const RegisterDeviceTimeout = 50 * time.Second

var (
	epUserLogin      = define("userLogin", http.MethodPost, "/users/login")
	epRegisterDevice = defineWithTimeout("registerDevice", http.MethodPost, "/users/register-device", RegisterDeviceTimeout)
	epUserLogout     = define("userLogout", http.MethodPost, "/users/logout")
	epUserRegister   = define("userRegister", http.MethodPost, "/users")
	epUpdateProfile  = define("updateProfile", http.MethodPatch, "/users/me")
	epResetPassword  = define("resetPassword", http.MethodPost, "/users/reset")
	epGetUserProfile = define("getUserProfile", http.MethodGet, "/users/{id}/profile")
	epSearchUsers    = define("searchUsers", http.MethodGet, "/users/search")
	epGetUserAvatar  = define("getUserAvatar", http.MethodGet, "/users/{id}/avatar")
)

// UserLogin exchanges credentials for an access token; the user record is
// included in the response.
func UserLogin(ctx context.Context, d Doer, credentials any) (*types.Response, error) {
	return do(ctx, d, epUserLogin, nil, url.Values{"include": {"user"}}, credentials)
}

// RegisterDevice registers the device for push delivery.
func RegisterDevice(ctx context.Context, d Doer, data any) (*types.Response, error) {
	return do(ctx, d, epRegisterDevice, nil, nil, data)
}

// UserLogout invalidates the current access token server side.
func UserLogout(ctx context.Context, d Doer) (*types.Response, error) {
	return do(ctx, d, epUserLogout, nil, nil, nil)
}

// UserRegister creates a new account.
func UserRegister(ctx context.Context, d Doer, data any) (*types.Response, error) {
	return do(ctx, d, epUserRegister, nil, nil, data)
}

// UpdateProfile patches the current user's profile.
func UpdateProfile(ctx context.Context, d Doer, data any) (*types.Response, error) {
	return do(ctx, d, epUpdateProfile, nil, nil, data)
}

// ResetPassword requests a password reset.
func ResetPassword(ctx context.Context, d Doer, data any) (*types.Response, error) {
	return do(ctx, d, epResetPassword, nil, nil, data)
}

// GetUserProfile fetches a profile; an empty id means the current user.
func GetUserProfile(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epGetUserProfile, params{"id": orMe(id)}, nil, nil)
}

// SearchUsers runs a free-text user search.
func SearchUsers(ctx context.Context, d Doer, query string) (*types.Response, error) {
	return do(ctx, d, epSearchUsers, nil, url.Values{"query": {query}}, nil)
}

// GetUserAvatar fetches a user's avatar; an empty id means the current
// user. size defaults to "small".
func GetUserAvatar(ctx context.Context, d Doer, id string, redirect bool, size string) (*types.Response, error) {
	if size == "" {
		size = "small"
	}
	q := url.Values{"s": {size}, "redirect": {strconv.FormatBool(redirect)}}
	return do(ctx, d, epGetUserAvatar, params{"id": orMe(id)}, q, nil)
}
