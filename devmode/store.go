package devmode

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	errDuplicate = errors.New("already exists")
	errNotFound  = errors.New("not found")
	errForbidden = errors.New("not the owner")
)

type user struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Name     string    `json:"name,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`
	Created  time.Time `json:"created"`

	passwordHash string
}

// publicUser is what other users get to see.
type publicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

func (u user) public() publicUser {
	return publicUser{ID: u.ID, Username: u.Username, Name: u.Name, Avatar: u.Avatar}
}

type alarm struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Time    string    `json:"time"`
	Label   string    `json:"label,omitempty"`
	Days    []int     `json:"days,omitempty"`
	Active  bool      `json:"active"`
	Created time.Time `json:"created"`
}

type notification struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Read    bool      `json:"read"`
	Created time.Time `json:"created"`
}

type voiceNote struct {
	ID       string      `json:"id"`
	AlarmID  string      `json:"alarmId"`
	SenderID string      `json:"senderId"`
	URL      string      `json:"url"`
	Listened bool        `json:"listened"`
	Created  time.Time   `json:"created"`
	Sender   *publicUser `json:"sender,omitempty"`
}

type friendRequest struct {
	ID      string      `json:"id"`
	FromID  string      `json:"fromId"`
	ToID    string      `json:"toId"`
	Created time.Time   `json:"created"`
	From    *publicUser `json:"from,omitempty"`
}

type device struct {
	DeviceID string `json:"deviceId"`
	Platform string `json:"platform,omitempty"`
	PushID   string `json:"pushId,omitempty"`
	UserID   string `json:"userId"`
}

type coffee struct {
	ID        string  `json:"id"`
	Brand     brand   `json:"brand"`
	Variety   variety `json:"variety"`
	Image     image   `json:"image"`
	Altitude  int     `json:"altitude"`
	AvgRating float64 `json:"avg_rating"`
	Roast     string  `json:"roast"`
}

type brand struct {
	Name string `json:"name"`
}

type variety struct {
	Description string `json:"description"`
}

type image struct {
	URL string `json:"url"`
}

// store holds every fixture behind one lock.
type store struct {
	mu sync.RWMutex

	users         map[string]*user
	alarms        map[string]*alarm
	notifications map[string]*notification
	voiceNotes    map[string]*voiceNote
	requests      map[string]*friendRequest
	devices       map[string]*device
	friends       map[string]map[string]bool
	blocked       map[string]map[string]bool
	coffees       []coffee
}

func newStore() *store {
	return &store{
		users:         map[string]*user{},
		alarms:        map[string]*alarm{},
		notifications: map[string]*notification{},
		voiceNotes:    map[string]*voiceNote{},
		requests:      map[string]*friendRequest{},
		devices:       map[string]*device{},
		friends:       map[string]map[string]bool{},
		blocked:       map[string]map[string]bool{},
	}
}

func link(m map[string]map[string]bool, a, b string, on bool) {
	if m[a] == nil {
		m[a] = map[string]bool{}
	}
	if on {
		m[a][b] = true
	} else {
		delete(m[a], b)
	}
}

// ---------- users ----------

func (s *store) user(id string) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return user{}, false
	}
	return *u, true
}

// userByLogin finds a user by email or, when email is empty, username.
func (s *store) userByLogin(email, username string) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if (email != "" && strings.EqualFold(u.Email, email)) || (email == "" && username != "" && u.Username == username) {
			return *u, true
		}
	}
	return user{}, false
}

func (s *store) createUser(email, username, name, hash string) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) || (username != "" && u.Username == username) {
			return user{}, errDuplicate
		}
	}
	u := &user{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		Name:         name,
		Created:      time.Now().UTC(),
		passwordHash: hash,
	}
	s.users[u.ID] = u
	return *u, nil
}

type profilePatch struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Avatar   *string `json:"avatar"`
}

func (s *store) updateUser(id string, p profilePatch) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user{}, errNotFound
	}
	if p.Username != nil {
		for _, other := range s.users {
			if other.ID != id && other.Username == *p.Username {
				return user{}, errDuplicate
			}
		}
		u.Username = *p.Username
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return *u, nil
}

func (s *store) searchUsers(query, except string) []publicUser {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []publicUser{}
	for _, u := range s.users {
		if u.ID == except || s.blocked[u.ID][except] {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Name), q) {
			out = append(out, u.public())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *store) registerDevice(d device) device {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[d.DeviceID] = &d
	return d
}

// ---------- friends ----------

func (s *store) friendsOf(id string) []publicUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []publicUser{}
	for fid := range s.friends[id] {
		if u, ok := s.users[fid]; ok {
			out = append(out, u.public())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *store) friendRequestsTo(id string) []friendRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []friendRequest{}
	for _, fr := range s.requests {
		if fr.ToID != id {
			continue
		}
		cp := *fr
		if u, ok := s.users[fr.FromID]; ok {
			pu := u.public()
			cp.From = &pu
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out
}

type friendship struct {
	IsFriend bool `json:"isFriend"`
	Blocked  bool `json:"blocked"`
	Pending  bool `json:"pending"`
}

func (s *store) friendshipLocked(me, other string) friendship {
	f := friendship{IsFriend: s.friends[me][other], Blocked: s.blocked[me][other]}
	for _, fr := range s.requests {
		if fr.FromID == me && fr.ToID == other {
			f.Pending = true
		}
	}
	return f
}

func (s *store) friendship(me, other string) (friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.users[other]; !ok {
		return friendship{}, errNotFound
	}
	return s.friendshipLocked(me, other), nil
}

// addFriend accepts a pending request from other, or sends one.
func (s *store) addFriend(me, other string) (friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[other]; !ok || me == other {
		return friendship{}, errNotFound
	}
	if s.blocked[other][me] || s.blocked[me][other] {
		return friendship{}, errForbidden
	}
	for id, fr := range s.requests {
		if fr.FromID == other && fr.ToID == me {
			delete(s.requests, id)
			link(s.friends, me, other, true)
			link(s.friends, other, me, true)
			return s.friendshipLocked(me, other), nil
		}
	}
	if !s.friends[me][other] && !s.friendshipLocked(me, other).Pending {
		fr := &friendRequest{ID: uuid.NewString(), FromID: me, ToID: other, Created: time.Now().UTC()}
		s.requests[fr.ID] = fr
	}
	return s.friendshipLocked(me, other), nil
}

func (s *store) unfriend(me, other string) (friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[other]; !ok {
		return friendship{}, errNotFound
	}
	link(s.friends, me, other, false)
	link(s.friends, other, me, false)
	return s.friendshipLocked(me, other), nil
}

func (s *store) setBlocked(me, other string, on bool) (friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[other]; !ok || me == other {
		return friendship{}, errNotFound
	}
	link(s.blocked, me, other, on)
	if on {
		link(s.friends, me, other, false)
		link(s.friends, other, me, false)
		for id, fr := range s.requests {
			if (fr.FromID == me && fr.ToID == other) || (fr.FromID == other && fr.ToID == me) {
				delete(s.requests, id)
			}
		}
	}
	return s.friendshipLocked(me, other), nil
}

// ---------- notifications ----------

func (s *store) notificationsOf(userID string) []notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []notification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	return out
}

func (s *store) notification(userID, id string) (notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return notification{}, false
	}
	return *n, true
}

func (s *store) notifyLocked(userID, kind, message string) {
	n := &notification{ID: uuid.NewString(), UserID: userID, Type: kind, Message: message, Created: time.Now().UTC()}
	s.notifications[n.ID] = n
}

// ---------- alarms ----------

type alarmPatch struct {
	Time   *string `json:"time"`
	Label  *string `json:"label"`
	Days   *[]int  `json:"days"`
	Active *bool   `json:"active"`
}

func (s *store) createAlarm(a alarm) alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.NewString()
	a.Active = true
	a.Created = time.Now().UTC()
	s.alarms[a.ID] = &a
	return a
}

func (s *store) alarm(id string) (alarm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alarms[id]
	if !ok {
		return alarm{}, false
	}
	return *a, true
}

// canSee reports whether viewer may read alarms owned by owner.
func (s *store) canSeeLocked(viewer, owner string) bool {
	return viewer == owner || s.friends[viewer][owner]
}

func (s *store) visibleAlarm(viewer, id string) (alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alarms[id]
	if !ok {
		return alarm{}, errNotFound
	}
	if !s.canSeeLocked(viewer, a.UserID) {
		return alarm{}, errForbidden
	}
	return *a, nil
}

func (s *store) updateAlarm(owner, id string, p alarmPatch) (alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alarms[id]
	if !ok {
		return alarm{}, errNotFound
	}
	if a.UserID != owner {
		return alarm{}, errForbidden
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Label != nil {
		a.Label = *p.Label
	}
	if p.Days != nil {
		a.Days = append([]int(nil), (*p.Days)...)
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
	return *a, nil
}

func (s *store) removeAlarm(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alarms[id]
	if !ok {
		return errNotFound
	}
	if a.UserID != owner {
		return errForbidden
	}
	delete(s.alarms, id)
	for vid, vn := range s.voiceNotes {
		if vn.AlarmID == id {
			delete(s.voiceNotes, vid)
		}
	}
	return nil
}

func (s *store) friendsAlarms(userID string) []alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []alarm{}
	for _, a := range s.alarms {
		if a.Active && s.friends[userID][a.UserID] {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// currentAlarm is the owner's earliest active alarm of the day.
func (s *store) currentAlarm(viewer, owner string) (alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.users[owner]; !ok {
		return alarm{}, errNotFound
	}
	if !s.canSeeLocked(viewer, owner) {
		return alarm{}, errForbidden
	}
	var best *alarm
	for _, a := range s.alarms {
		if a.UserID != owner || !a.Active {
			continue
		}
		if best == nil || a.Time < best.Time {
			best = a
		}
	}
	if best == nil {
		return alarm{}, errNotFound
	}
	return *best, nil
}

// ---------- voice notes ----------

func (s *store) addVoiceNote(sender, alarmID, url string) (voiceNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alarms[alarmID]
	if !ok {
		return voiceNote{}, errNotFound
	}
	if a.UserID == sender || !s.friends[sender][a.UserID] {
		return voiceNote{}, errForbidden
	}
	vn := &voiceNote{ID: uuid.NewString(), AlarmID: alarmID, SenderID: sender, URL: url, Created: time.Now().UTC()}
	s.voiceNotes[vn.ID] = vn
	if u, ok := s.users[sender]; ok {
		s.notifyLocked(a.UserID, "voice-note", u.Username+" sent you a voice note")
	}
	return *vn, nil
}

func (s *store) withSenderLocked(vn voiceNote) voiceNote {
	if u, ok := s.users[vn.SenderID]; ok {
		pu := u.public()
		vn.Sender = &pu
	}
	return vn
}

// voiceNotesOf lists notes on an alarm the viewer owns.
func (s *store) voiceNotesOf(viewer, alarmID string, f noteFilter) ([]voiceNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alarms[alarmID]
	if !ok {
		return nil, errNotFound
	}
	if a.UserID != viewer {
		return nil, errForbidden
	}
	out := []voiceNote{}
	for _, vn := range s.voiceNotes {
		if vn.AlarmID != alarmID {
			continue
		}
		if f.Listened != nil && vn.Listened != *f.Listened {
			continue
		}
		cp := *vn
		if f.includeSender() {
			cp = s.withSenderLocked(cp)
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *store) voiceNote(viewer, alarmID, id string) (voiceNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alarms[alarmID]
	vn, found := s.voiceNotes[id]
	if !ok || !found || vn.AlarmID != alarmID {
		return voiceNote{}, errNotFound
	}
	if a.UserID != viewer && vn.SenderID != viewer {
		return voiceNote{}, errForbidden
	}
	return s.withSenderLocked(*vn), nil
}

func (s *store) markListened(viewer, alarmID, id string) (voiceNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alarms[alarmID]
	vn, found := s.voiceNotes[id]
	if !ok || !found || vn.AlarmID != alarmID {
		return voiceNote{}, errNotFound
	}
	if a.UserID != viewer {
		return voiceNote{}, errForbidden
	}
	vn.Listened = true
	return *vn, nil
}

func (s *store) allCoffees() []coffee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]coffee(nil), s.coffees...)
}
