package devmode

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// accessToken mirrors the backend's AccessToken model.
type accessToken struct {
	ID      string    `json:"id"`
	TTL     int64     `json:"ttl"`
	Created time.Time `json:"created"`
	UserID  string    `json:"userId"`
	User    *user     `json:"user,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "malformed JSON body")
		return
	}
	if (req.Email == "" && req.Username == "") || req.Password == "" {
		writeError(w, http.StatusBadRequest, "USERNAME_EMAIL_REQUIRED", "username or email is required")
		return
	}
	u, ok := s.store.userByLogin(req.Email, req.Username)
	if !ok || checkPassword(u.passwordHash, req.Password) != nil {
		writeError(w, http.StatusUnauthorized, codeLoginFailed, "login failed")
		return
	}
	now := time.Now().UTC()
	signed, _, err := s.auth.issue(u.ID, now)
	if err != nil {
		s.logger.Error().Stack().Err(err).Msg("issue token")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not issue token")
		return
	}
	tok := accessToken{
		ID:      signed,
		TTL:     int64(s.auth.ttl / time.Second),
		Created: now,
		UserID:  u.ID,
	}
	if strings.Contains(r.URL.Query().Get("include"), "user") {
		tok.User = &u
	}
	s.logger.Info().Str("user_id", u.ID).Msg("dev login")
	writeJSON(w, http.StatusOK, tok)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.revoke(currentTokenID(r))
	writeJSON(w, http.StatusNoContent, nil)
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "malformed JSON body")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeValidation(w, "The `user` instance is not valid. Details: `email` is invalid.")
		return
	}
	if req.Password == "" {
		writeValidation(w, "The `user` instance is not valid. Details: `password` can't be blank.")
		return
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not hash password")
		return
	}
	u, err := s.store.createUser(req.Email, req.Username, req.Name, hash)
	if errors.Is(err, errDuplicate) {
		writeValidation(w, "The `user` instance is not valid. Details: `email` Email already exists.")
		return
	}
	writeResult(w, u, err)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "EMAIL_REQUIRED", "email is required")
		return
	}
	if _, ok := s.store.userByLogin(req.Email, ""); !ok {
		writeError(w, http.StatusNotFound, "EMAIL_NOT_FOUND", "Email not found")
		return
	}
	s.logger.Info().Str("email", req.Email).Msg("dev password reset requested")
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var d device
	if err := decodeBody(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "malformed JSON body")
		return
	}
	if d.DeviceID == "" {
		writeValidation(w, "`deviceId` can't be blank")
		return
	}
	d.UserID = currentUserID(r)
	writeJSON(w, http.StatusOK, s.store.registerDevice(d))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p profilePatch
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "malformed JSON body")
		return
	}
	u, err := s.store.updateUser(currentUserID(r), p)
	writeResult(w, u, err)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	me := currentUserID(r)
	id := resolveUser(r, mux.Vars(r)["id"])
	u, ok := s.store.user(id)
	if !ok {
		writeNotFound(w, "Unknown \"user\" id \""+id+"\".")
		return
	}
	if id == me {
		writeJSON(w, http.StatusOK, u)
		return
	}
	f, _ := s.store.friendship(me, id)
	writeJSON(w, http.StatusOK, struct {
		publicUser
		Friendship friendship `json:"friendship"`
	}{u.public(), f})
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.searchUsers(r.URL.Query().Get("query"), currentUserID(r)))
}

// handleAvatar answers with a redirect to the image or, with redirect=false,
// the image URL as JSON.
func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	id := resolveUser(r, mux.Vars(r)["id"])
	u, ok := s.store.user(id)
	if !ok {
		writeNotFound(w, "Unknown \"user\" id \""+id+"\".")
		return
	}
	size := r.URL.Query().Get("s")
	px := map[string]string{"small": "64", "medium": "128", "large": "285"}[size]
	if px == "" {
		px = "64"
		size = "small"
	}
	url := avatarBase + px + "/" + u.Username + ".png"
	if r.URL.Query().Get("redirect") == "true" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "size": size})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.notificationsOf(currentUserID(r)))
}

func (s *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := s.store.notification(currentUserID(r), mux.Vars(r)["id"])
	if !ok {
		writeNotFound(w, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// ---------- friends ----------

func (s *Server) handleFriendRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.friendRequestsTo(currentUserID(r)))
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	id := resolveUser(r, mux.Vars(r)["id"])
	if _, ok := s.store.user(id); !ok {
		writeNotFound(w, "Unknown \"user\" id \""+id+"\".")
		return
	}
	writeJSON(w, http.StatusOK, s.store.friendsOf(id))
}

func (s *Server) friendAction(action func(me, other string) (friendship, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := action(currentUserID(r), mux.Vars(r)["id"])
		writeResult(w, f, err)
	}
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	s.friendAction(s.store.addFriend)(w, r)
}

func (s *Server) handleUnfriend(w http.ResponseWriter, r *http.Request) {
	s.friendAction(s.store.unfriend)(w, r)
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	s.friendAction(func(me, other string) (friendship, error) { return s.store.setBlocked(me, other, true) })(w, r)
}

func (s *Server) handleUnblock(w http.ResponseWriter, r *http.Request) {
	s.friendAction(func(me, other string) (friendship, error) { return s.store.setBlocked(me, other, false) })(w, r)
}

func (s *Server) handleCheckFriendship(w http.ResponseWriter, r *http.Request) {
	s.friendAction(s.store.friendship)(w, r)
}

// writeResult maps store errors onto the error envelope.
func writeResult(w http.ResponseWriter, v any, err error) {
	switch {
	case errors.Is(err, errNotFound):
		writeNotFound(w, "not found")
	case errors.Is(err, errForbidden):
		writeError(w, http.StatusForbidden, "ACCESS_DENIED", "Access denied")
	case errors.Is(err, errDuplicate):
		writeValidation(w, "already exists")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	default:
		writeJSON(w, http.StatusOK, v)
	}
}
