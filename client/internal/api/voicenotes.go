package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gaboelnuevo/cofi-app/client/internal/problem"
	"github.com/gaboelnuevo/cofi-app/client/internal/types"
)

var (
	epSendVoiceNote           = define("sendVoiceNote", http.MethodPost, "/alarms/send-voice-note")
	epGetVoiceNote            = define("getVoiceNote", http.MethodGet, "/alarms/{alarmId}/voicenotes/{voiceNoteId}")
	epGetVoiceNotes           = define("getVoiceNotes", http.MethodGet, "/alarms/{alarmId}/voicenotes")
	epMarkVoiceNoteAsListened = define("markVoiceNoteAsListened", http.MethodPost, "/alarms/{alarmId}/voicenotes/{voiceNoteId}/mark-as-listened")
)

// SendVoiceNote attaches a recorded voice note to a friend's alarm.
func SendVoiceNote(ctx context.Context, d Doer, data any) (*types.Response, error) {
	return do(ctx, d, epSendVoiceNote, nil, nil, data)
}

// GetVoiceNote fetches one voice note of an alarm.
func GetVoiceNote(ctx context.Context, d Doer, alarmID, voiceNoteID string) (*types.Response, error) {
	return do(ctx, d, epGetVoiceNote, params{"alarmId": alarmID, "voiceNoteId": voiceNoteID}, nil, nil)
}

// GetVoiceNotes lists an alarm's voice notes. The sender is always included;
// keys in filter override the defaults.
func GetVoiceNotes(ctx context.Context, d Doer, alarmID string, filter types.Filter) (*types.Response, error) {
	merged := types.Filter{"include": "sender"}
	for k, v := range filter {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		err = fmt.Errorf("encode voice note filter: %w", err)
		return &types.Response{Endpoint: epGetVoiceNotes.Name, Problem: problem.UnknownError.String(), Err: err}, err
	}
	return do(ctx, d, epGetVoiceNotes, params{"alarmId": alarmID}, url.Values{"filter": {string(raw)}}, nil)
}

// MarkVoiceNoteAsListened flags a voice note as played.
func MarkVoiceNoteAsListened(ctx context.Context, d Doer, alarmID, voiceNoteID string) (*types.Response, error) {
	return do(ctx, d, epMarkVoiceNoteAsListened, params{"alarmId": alarmID, "voiceNoteId": voiceNoteID}, nil, nil)
}
