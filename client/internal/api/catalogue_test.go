package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gaboelnuevo/cofi-app/client/internal/types"
)

func TestCatalogue_EveryEndpoint(t *testing.T) {
	t.Parallel()
	body := map[string]any{"k": "v"}

	cases := []struct {
		name   string
		call   func(context.Context, Doer) (*types.Response, error)
		method string
		path   string
		params map[string]string
		query  url.Values
		body   any
	}{
		{"userLogin", func(ctx context.Context, d Doer) (*types.Response, error) { return UserLogin(ctx, d, body) },
			http.MethodPost, "/users/login", nil, url.Values{"include": {"user"}}, body},
		{"registerDevice", func(ctx context.Context, d Doer) (*types.Response, error) { return RegisterDevice(ctx, d, body) },
			http.MethodPost, "/users/register-device", nil, nil, body},
		{"userLogout", func(ctx context.Context, d Doer) (*types.Response, error) { return UserLogout(ctx, d) },
			http.MethodPost, "/users/logout", nil, nil, nil},
		{"userRegister", func(ctx context.Context, d Doer) (*types.Response, error) { return UserRegister(ctx, d, body) },
			http.MethodPost, "/users", nil, nil, body},
		{"updateProfile", func(ctx context.Context, d Doer) (*types.Response, error) { return UpdateProfile(ctx, d, body) },
			http.MethodPatch, "/users/me", nil, nil, body},
		{"resetPassword", func(ctx context.Context, d Doer) (*types.Response, error) { return ResetPassword(ctx, d, body) },
			http.MethodPost, "/users/reset", nil, nil, body},
		{"getNotifications", func(ctx context.Context, d Doer) (*types.Response, error) { return GetNotifications(ctx, d) },
			http.MethodGet, "/users/me/notifications", nil, nil, nil},
		{"getNotificationById", func(ctx context.Context, d Doer) (*types.Response, error) { return GetNotificationByID(ctx, d, "n1") },
			http.MethodGet, "/users/me/notifications/{id}", map[string]string{"id": "n1"}, nil, nil},
		{"getFriendsRequests", func(ctx context.Context, d Doer) (*types.Response, error) { return GetFriendsRequests(ctx, d) },
			http.MethodGet, "/users/friends-requests", nil, nil, nil},
		{"getUserProfile", func(ctx context.Context, d Doer) (*types.Response, error) { return GetUserProfile(ctx, d, "u1") },
			http.MethodGet, "/users/{id}/profile", map[string]string{"id": "u1"}, nil, nil},
		{"searchUsers", func(ctx context.Context, d Doer) (*types.Response, error) { return SearchUsers(ctx, d, "ana maria") },
			http.MethodGet, "/users/search", nil, url.Values{"query": {"ana maria"}}, nil},
		{"getUserFriends", func(ctx context.Context, d Doer) (*types.Response, error) { return GetUserFriends(ctx, d, "u1") },
			http.MethodGet, "/users/{id}/list-friends", map[string]string{"id": "u1"}, nil, nil},
		{"addFriendById", func(ctx context.Context, d Doer) (*types.Response, error) { return AddFriendByID(ctx, d, "u2") },
			http.MethodPost, "/users/{id}/add-friend", map[string]string{"id": "u2"}, nil, nil},
		{"removeFriendById", func(ctx context.Context, d Doer) (*types.Response, error) { return RemoveFriendByID(ctx, d, "u2") },
			http.MethodPost, "/users/{id}/unfriend", map[string]string{"id": "u2"}, nil, nil},
		{"blockUserById", func(ctx context.Context, d Doer) (*types.Response, error) { return BlockUserByID(ctx, d, "u2") },
			http.MethodPost, "/users/{id}/block", map[string]string{"id": "u2"}, nil, nil},
		{"unblockUserById", func(ctx context.Context, d Doer) (*types.Response, error) { return UnblockUserByID(ctx, d, "u2") },
			http.MethodPost, "/users/{id}/unblock", map[string]string{"id": "u2"}, nil, nil},
		{"checkFriendship", func(ctx context.Context, d Doer) (*types.Response, error) { return CheckFriendship(ctx, d, "u2") },
			http.MethodGet, "/users/{id}/check-friendship", map[string]string{"id": "u2"}, nil, nil},
		{"getUserAvatar", func(ctx context.Context, d Doer) (*types.Response, error) {
			return GetUserAvatar(ctx, d, "u2", false, "large")
		},
			http.MethodGet, "/users/{id}/avatar", map[string]string{"id": "u2"}, url.Values{"s": {"large"}, "redirect": {"false"}}, nil},
		{"setAlarm", func(ctx context.Context, d Doer) (*types.Response, error) { return SetAlarm(ctx, d, body) },
			http.MethodPost, "/alarms", nil, nil, body},
		{"getFriendsAlarms", func(ctx context.Context, d Doer) (*types.Response, error) { return GetFriendsAlarms(ctx, d) },
			http.MethodGet, "/alarms/friends-alarms", nil, nil, nil},
		{"getAlarmById", func(ctx context.Context, d Doer) (*types.Response, error) { return GetAlarmByID(ctx, d, "a1") },
			http.MethodGet, "/alarms/{id}", map[string]string{"id": "a1"}, nil, nil},
		{"updateAlarmById", func(ctx context.Context, d Doer) (*types.Response, error) { return UpdateAlarmByID(ctx, d, "a1", body) },
			http.MethodPatch, "/alarms/{id}", map[string]string{"id": "a1"}, nil, body},
		{"removeAlarmById", func(ctx context.Context, d Doer) (*types.Response, error) { return RemoveAlarmByID(ctx, d, "a1") },
			http.MethodDelete, "/alarms/{id}", map[string]string{"id": "a1"}, nil, nil},
		{"turnOffAlarmById", func(ctx context.Context, d Doer) (*types.Response, error) { return TurnOffAlarmByID(ctx, d, "a1") },
			http.MethodPost, "/alarms/{id}/turn-off", map[string]string{"id": "a1"}, nil, nil},
		{"calcAlarmSignature", func(ctx context.Context, d Doer) (*types.Response, error) { return CalcAlarmSignature(ctx, d, "a1") },
			http.MethodGet, "/alarms/{id}/calc-signature", map[string]string{"id": "a1"}, nil, nil},
		{"sendVoiceNote", func(ctx context.Context, d Doer) (*types.Response, error) { return SendVoiceNote(ctx, d, body) },
			http.MethodPost, "/alarms/send-voice-note", nil, nil, body},
		{"getCurrentAlarm", func(ctx context.Context, d Doer) (*types.Response, error) { return GetCurrentAlarm(ctx, d, "u3") },
			http.MethodGet, "/users/{userId}/currentAlarm", map[string]string{"userId": "u3"}, nil, nil},
		{"getVoiceNote", func(ctx context.Context, d Doer) (*types.Response, error) { return GetVoiceNote(ctx, d, "a1", "v1") },
			http.MethodGet, "/alarms/{alarmId}/voicenotes/{voiceNoteId}", map[string]string{"alarmId": "a1", "voiceNoteId": "v1"}, nil, nil},
		{"getVoiceNotes", func(ctx context.Context, d Doer) (*types.Response, error) { return GetVoiceNotes(ctx, d, "a1", nil) },
			http.MethodGet, "/alarms/{alarmId}/voicenotes", map[string]string{"alarmId": "a1"}, url.Values{"filter": {`{"include":"sender"}`}}, nil},
		{"markVoiceNoteAsListened", func(ctx context.Context, d Doer) (*types.Response, error) {
			return MarkVoiceNoteAsListened(ctx, d, "a1", "v1")
		},
			http.MethodPost, "/alarms/{alarmId}/voicenotes/{voiceNoteId}/mark-as-listened", map[string]string{"alarmId": "a1", "voiceNoteId": "v1"}, nil, nil},
		{"getCoffees", func(ctx context.Context, d Doer) (*types.Response, error) { return GetCoffees(ctx, d) },
			http.MethodGet, "/coffees", nil, nil, nil},
	}

	seen := map[string]bool{}
	for _, tc := range cases {
		rec := &recorder{}
		resp, err := tc.call(context.Background(), rec)
		if err != nil || resp == nil || !resp.OK {
			t.Fatalf("%s: unexpected result resp=%+v err=%v", tc.name, resp, err)
		}
		got := rec.last()
		if got.Endpoint != tc.name {
			t.Fatalf("%s: endpoint name %q", tc.name, got.Endpoint)
		}
		if got.Method != tc.method || got.Path != tc.path {
			t.Fatalf("%s: got %s %s want %s %s", tc.name, got.Method, got.Path, tc.method, tc.path)
		}
		if len(tc.params) > 0 && !reflect.DeepEqual(map[string]string(got.PathParams), tc.params) {
			t.Fatalf("%s: params %v want %v", tc.name, got.PathParams, tc.params)
		}
		if len(tc.params) == 0 && len(got.PathParams) != 0 {
			t.Fatalf("%s: unexpected params %v", tc.name, got.PathParams)
		}
		if !reflect.DeepEqual(got.Query, tc.query) {
			t.Fatalf("%s: query %v want %v", tc.name, got.Query, tc.query)
		}
		if !reflect.DeepEqual(got.Body, tc.body) {
			t.Fatalf("%s: body %v want %v", tc.name, got.Body, tc.body)
		}
		seen[tc.name] = true
	}

	for _, ep := range Endpoints() {
		if !seen[ep.Name] {
			t.Fatalf("catalogue endpoint %s has no test case", ep.Name)
		}
	}
	if len(seen) != len(Endpoints()) {
		t.Fatalf("covered %d endpoints, catalogue has %d", len(seen), len(Endpoints()))
	}
}

func TestCatalogue_RegisterDeviceTimeout(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	if _, err := RegisterDevice(context.Background(), rec, nil); err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}
	if got := rec.last().Timeout; got != 50*time.Second {
		t.Fatalf("timeout=%v want 50s", got)
	}
	for _, ep := range Endpoints() {
		if ep.Name != "registerDevice" && ep.Timeout != 0 {
			t.Fatalf("%s should use the client default timeout, got %v", ep.Name, ep.Timeout)
		}
	}
}

func TestCatalogue_MeDefaults(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	_, _ = GetUserProfile(context.Background(), rec, "")
	if got := rec.last().PathParams["id"]; got != "me" {
		t.Fatalf("GetUserProfile id=%q want me", got)
	}
	_, _ = GetUserFriends(context.Background(), rec, "")
	if got := rec.last().PathParams["id"]; got != "me" {
		t.Fatalf("GetUserFriends id=%q want me", got)
	}
	_, _ = GetCurrentAlarm(context.Background(), rec, "")
	if got := rec.last().PathParams["userId"]; got != "me" {
		t.Fatalf("GetCurrentAlarm userId=%q want me", got)
	}
}

func TestGetUserAvatar_DefaultSize(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	_, _ = GetUserAvatar(context.Background(), rec, "u1", true, "")
	q := rec.last().Query
	if q.Get("s") != "small" || q.Get("redirect") != "true" {
		t.Fatalf("avatar query=%v", q)
	}

	_, _ = GetUserAvatar(context.Background(), rec, "", false, "medium")
	if got := rec.last().PathParams["id"]; got != "me" {
		t.Fatalf("GetUserAvatar id=%q want me", got)
	}
}

func TestGetVoiceNotes_FilterMerge(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	_, err := GetVoiceNotes(context.Background(), rec, "a1", types.Filter{"limit": 5, "include": "alarm"})
	if err != nil {
		t.Fatalf("GetVoiceNotes: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(rec.last().Query.Get("filter")), &got); err != nil {
		t.Fatalf("filter is not JSON: %v", err)
	}
	if got["include"] != "alarm" || got["limit"] != float64(5) {
		t.Fatalf("filter=%v", got)
	}
}

func TestGetVoiceNotes_UnencodableFilter(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	resp, err := GetVoiceNotes(context.Background(), rec, "a1", types.Filter{"bad": math.Inf(1)})
	if err == nil || !strings.Contains(err.Error(), "encode voice note filter") {
		t.Fatalf("expected encode error, got %v", err)
	}
	if resp == nil || resp.OK || resp.Problem != "UNKNOWN_ERROR" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(rec.calls) != 0 {
		t.Fatal("no call should be issued when the filter cannot be encoded")
	}
}
