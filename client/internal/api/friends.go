package api

import (
	"context"
	"net/http"

	"github.com/gaboelnuevo/cofi-app/client/internal/types"
)

var (
	epGetFriendsRequests = define("getFriendsRequests", http.MethodGet, "/users/friends-requests")
	epGetUserFriends     = define("getUserFriends", http.MethodGet, "/users/{id}/list-friends")
	epAddFriendByID      = define("addFriendById", http.MethodPost, "/users/{id}/add-friend")
	epRemoveFriendByID   = define("removeFriendById", http.MethodPost, "/users/{id}/unfriend")
	epBlockUserByID      = define("blockUserById", http.MethodPost, "/users/{id}/block")
	epUnblockUserByID    = define("unblockUserById", http.MethodPost, "/users/{id}/unblock")
	epCheckFriendship    = define("checkFriendship", http.MethodGet, "/users/{id}/check-friendship")
)

// GetFriendsRequests lists pending friend requests sent to the current user.
func GetFriendsRequests(ctx context.Context, d Doer) (*types.Response, error) {
	return do(ctx, d, epGetFriendsRequests, nil, nil, nil)
}

// GetUserFriends lists a user's friends; an empty id means the current user.
func GetUserFriends(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epGetUserFriends, params{"id": orMe(id)}, nil, nil)
}

// AddFriendByID sends a friend request, or accepts a pending one.
func AddFriendByID(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epAddFriendByID, params{"id": id}, nil, nil)
}

// RemoveFriendByID ends a friendship.
func RemoveFriendByID(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epRemoveFriendByID, params{"id": id}, nil, nil)
}

// BlockUserByID blocks a user.
func BlockUserByID(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epBlockUserByID, params{"id": id}, nil, nil)
}

// UnblockUserByID lifts a block.
func UnblockUserByID(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epUnblockUserByID, params{"id": id}, nil, nil)
}

// CheckFriendship reports the relationship between the current user and id.
func CheckFriendship(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epCheckFriendship, params{"id": id}, nil, nil)
}
