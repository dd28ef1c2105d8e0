package api

import (
	"context"
	"net/http"

	"github.com/gaboelnuevo/cofi-app/client/internal/types"
)

var (
	epSetAlarm           = define("setAlarm", http.MethodPost, "/alarms")
	epGetFriendsAlarms   = define("getFriendsAlarms", http.MethodGet, "/alarms/friends-alarms")
	epGetAlarmByID       = define("getAlarmById", http.MethodGet, "/alarms/{id}")
	epUpdateAlarmByID    = define("updateAlarmById", http.MethodPatch, "/alarms/{id}")
	epRemoveAlarmByID    = define("removeAlarmById", http.MethodDelete, "/alarms/{id}")
	epTurnOffAlarmByID   = define("turnOffAlarmById", http.MethodPost, "/alarms/{id}/turn-off")
	epCalcAlarmSignature = define("calcAlarmSignature", http.MethodGet, "/alarms/{id}/calc-signature")
	epGetCurrentAlarm    = define("getCurrentAlarm", http.MethodGet, "/users/{userId}/currentAlarm")
)

// SetAlarm creates an alarm for the current user.
func SetAlarm(ctx context.Context, d Doer, data any) (*types.Response, error) {
	return do(ctx, d, epSetAlarm, nil, nil, data)
}

// GetFriendsAlarms lists the alarms of the current user's friends.
func GetFriendsAlarms(ctx context.Context, d Doer) (*types.Response, error) {
	return do(ctx, d, epGetFriendsAlarms, nil, nil, nil)
}

// GetAlarmByID fetches one alarm.
func GetAlarmByID(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epGetAlarmByID, params{"id": id}, nil, nil)
}

// UpdateAlarmByID patches an alarm with data.
func UpdateAlarmByID(ctx context.Context, d Doer, id string, data any) (*types.Response, error) {
	return do(ctx, d, epUpdateAlarmByID, params{"id": id}, nil, data)
}

// RemoveAlarmByID deletes an alarm.
func RemoveAlarmByID(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epRemoveAlarmByID, params{"id": id}, nil, nil)
}

// TurnOffAlarmByID switches a ringing alarm off.
func TurnOffAlarmByID(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epTurnOffAlarmByID, params{"id": id}, nil, nil)
}

// CalcAlarmSignature asks the backend for the alarm's current signature.
func CalcAlarmSignature(ctx context.Context, d Doer, id string) (*types.Response, error) {
	return do(ctx, d, epCalcAlarmSignature, params{"id": id}, nil, nil)
}

// GetCurrentAlarm fetches the alarm a user has armed; an empty userID means
// the current user.
func GetCurrentAlarm(ctx context.Context, d Doer, userID string) (*types.Response, error) {
	return do(ctx, d, epGetCurrentAlarm, params{"userId": orMe(userID)}, nil, nil)
}
