package devmode

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"
)

var alarmTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type alarmRequest struct {
	Time  string `json:"time"`
	Label string `json:"label"`
	Days  []int  `json:"days"`
}

func (s *Server) handleSetAlarm(w http.ResponseWriter, r *http.Request) {
	var req alarmRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "malformed JSON body")
		return
	}
	if !alarmTime.MatchString(req.Time) {
		writeValidation(w, "`time` must be HH:MM")
		return
	}
	a := s.store.createAlarm(alarm{UserID: currentUserID(r), Time: req.Time, Label: req.Label, Days: req.Days})
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleFriendsAlarms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.friendsAlarms(currentUserID(r)))
}

func (s *Server) handleGetAlarm(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.visibleAlarm(currentUserID(r), mux.Vars(r)["id"])
	writeResult(w, a, err)
}

func (s *Server) handleUpdateAlarm(w http.ResponseWriter, r *http.Request) {
	var p alarmPatch
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "malformed JSON body")
		return
	}
	if p.Time != nil && !alarmTime.MatchString(*p.Time) {
		writeValidation(w, "`time` must be HH:MM")
		return
	}
	a, err := s.store.updateAlarm(currentUserID(r), mux.Vars(r)["id"], p)
	writeResult(w, a, err)
}

func (s *Server) handleRemoveAlarm(w http.ResponseWriter, r *http.Request) {
	err := s.store.removeAlarm(currentUserID(r), mux.Vars(r)["id"])
	writeResult(w, map[string]int{"count": 1}, err)
}

func (s *Server) handleTurnOffAlarm(w http.ResponseWriter, r *http.Request) {
	off := false
	a, err := s.store.updateAlarm(currentUserID(r), mux.Vars(r)["id"], alarmPatch{Active: &off})
	writeResult(w, a, err)
}

// handleAlarmSignature returns an HMAC over the alarm's schedule. The app
// compares it with the stored value to detect edits made elsewhere.
func (s *Server) handleAlarmSignature(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.visibleAlarm(currentUserID(r), mux.Vars(r)["id"])
	if err != nil {
		writeResult(w, nil, err)
		return
	}
	days, _ := json.Marshal(a.Days)
	mac := hmac.New(sha256.New, s.auth.secret)
	for _, part := range []string{a.ID, a.UserID, a.Time, string(days)} {
		mac.Write([]byte(part))
		mac.Write([]byte{0})
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": a.ID, "signature": hex.EncodeToString(mac.Sum(nil))})
}

func (s *Server) handleCurrentAlarm(w http.ResponseWriter, r *http.Request) {
	me := currentUserID(r)
	a, err := s.store.currentAlarm(me, resolveUser(r, mux.Vars(r)["userId"]))
	writeResult(w, a, err)
}

// ---------- voice notes ----------

type sendVoiceNoteRequest struct {
	AlarmID string `json:"alarmId"`
	URL     string `json:"url"`
}

func (s *Server) handleSendVoiceNote(w http.ResponseWriter, r *http.Request) {
	var req sendVoiceNoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "malformed JSON body")
		return
	}
	if req.AlarmID == "" || req.URL == "" {
		writeValidation(w, "`alarmId` and `url` are required")
		return
	}
	vn, err := s.store.addVoiceNote(currentUserID(r), req.AlarmID, req.URL)
	writeResult(w, vn, err)
}

// noteFilter is the subset of the backend's filter syntax the stub honors:
// include (string or list), where.listened and limit.
type noteFilter struct {
	Include  json.RawMessage `json:"include"`
	Limit    int             `json:"limit"`
	Listened *bool           `json:"-"`
	Where    struct {
		Listened *bool `json:"listened"`
	} `json:"where"`
}

func (f noteFilter) includeSender() bool {
	var one string
	if json.Unmarshal(f.Include, &one) == nil {
		return one == "sender"
	}
	var many []string
	if json.Unmarshal(f.Include, &many) == nil {
		for _, v := range many {
			if v == "sender" {
				return true
			}
		}
	}
	return false
}

func parseNoteFilter(raw string) (noteFilter, error) {
	var f noteFilter
	if raw == "" {
		return f, nil
	}
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return f, err
	}
	f.Listened = f.Where.Listened
	return f, nil
}

func (s *Server) handleVoiceNotes(w http.ResponseWriter, r *http.Request) {
	f, err := parseNoteFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "filter is not valid JSON")
		return
	}
	notes, err := s.store.voiceNotesOf(currentUserID(r), mux.Vars(r)["alarmId"], f)
	writeResult(w, notes, err)
}

func (s *Server) handleVoiceNote(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	vn, err := s.store.voiceNote(currentUserID(r), v["alarmId"], v["voiceNoteId"])
	writeResult(w, vn, err)
}

func (s *Server) handleMarkListened(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	vn, err := s.store.markListened(currentUserID(r), v["alarmId"], v["voiceNoteId"])
	writeResult(w, vn, err)
}

func (s *Server) handleCoffees(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.allCoffees())
}
