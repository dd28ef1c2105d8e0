package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gaboelnuevo/cofi-app/client/internal/api"
	"github.com/gaboelnuevo/cofi-app/client/internal/problem"
	"github.com/gaboelnuevo/cofi-app/client/internal/types"
)

const (
	// DefaultBaseURL is used when New is given an empty base URL.
	DefaultBaseURL = "http://localhost:3000/api/v1"

	// DefaultTimeout bounds every call that has no per-endpoint override.
	DefaultTimeout = 30 * time.Second
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client is a thin wrapper over the cofi REST backend. Every endpoint method
// performs exactly one HTTP call and hands back the raw Response; status
// codes are left to the caller.
type Client struct {
	baseURL  string
	http     *http.Client
	rest     *resty.Client
	timeout  time.Duration
	override map[string]time.Duration
	headers  map[string]string
	tokens   TokenProvider
	scheme   string
	monitors []Monitor
	logger   zerolog.Logger
	debug    bool

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for baseURL. Additional options can be provided
// via functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		timeout:  DefaultTimeout,
		override: map[string]time.Duration{},
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		logger: log.Logger,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.monitors = append([]Monitor{InvalidTokenMonitor(c.logger)}, c.monitors...)

	if c.debug {
		transport := c.http.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		c.http.Transport = &debugTransport{base: transport, logger: c.logger}
	}

	c.rest = resty.NewWithClient(c.http).
		SetBaseURL(c.baseURL).
		SetHeaders(c.headers)
	c.rest.OnBeforeRequest(c.injectToken)

	return c, nil
}

// BaseURL returns the base URL every path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases idle connections. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

// injectToken is the request transform: it attaches the stored token, when
// there is one, as the Authorization header.
func (c *Client) injectToken(_ *resty.Client, r *resty.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(r.Context())
	if err != nil {
		c.logger.Warn().Err(err).Msg("token lookup failed, sending request without authorization")
		return nil
	}
	if token == "" {
		return nil
	}
	if c.scheme != "" {
		token = c.scheme + " " + token
	}
	r.SetHeader("Authorization", token)
	return nil
}

// Do performs one call. HTTP error statuses are reported through the
// Response only; err is non-nil when no response was received, in which case
// the Response still carries the problem code.
func (c *Client) Do(ctx context.Context, call Call) (*Response, error) {
	timeout := call.Timeout
	if d, ok := c.override[call.Endpoint]; ok {
		timeout = d
	}
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := c.rest.R().SetContext(ctx)
	if len(call.PathParams) > 0 {
		req.SetPathParams(call.PathParams)
	}
	if len(call.Query) > 0 {
		req.SetQueryParamsFromValues(call.Query)
	}
	if call.Body != nil {
		req.SetBody(call.Body)
	}

	start := time.Now()
	res, err := req.Execute(call.Method, call.Path)
	resp := &types.Response{Endpoint: call.Endpoint, Duration: time.Since(start)}
	if res != nil && res.RawResponse != nil {
		resp.Status = res.StatusCode()
		resp.Header = res.Header()
		resp.Data = res.Body()
	}

	code := problem.Classify(resp.Status, err)
	if err != nil {
		err = &problem.Error{Code: code, Endpoint: call.Endpoint, Underlying: err}
		resp.Err = err
	}
	resp.Problem = code.String()
	resp.OK = code == problem.None

	requestsTotal.WithLabelValues(call.Endpoint, resp.Problem).Inc()
	requestDuration.WithLabelValues(call.Endpoint).Observe(resp.Duration.Seconds())

	c.notify(resp)
	return resp, err
}

// notify runs the response monitors on a snapshot of resp so that none of
// them can alter what the caller receives.
func (c *Client) notify(resp *Response) {
	snap := *resp
	if resp.Data != nil {
		snap.Data = append([]byte(nil), resp.Data...)
	}
	for _, m := range c.monitors {
		c.observe(m, &snap)
	}
}

func (c *Client) observe(m Monitor, resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Str("endpoint", resp.Endpoint).Msg("response monitor panicked")
		}
	}()
	m.Observe(resp)
}

// Endpoints returns the backend operations this client exposes.
func Endpoints() []Endpoint { return api.Endpoints() }

// --------------------------------------------------------------------
// User operations - delegated to internal/api
// --------------------------------------------------------------------

// UserLogin logs in with credentials (typically a Credentials value).
func (c *Client) UserLogin(ctx context.Context, credentials any) (*Response, error) {
	return api.UserLogin(ctx, c, credentials)
}

// RegisterDevice registers the device for push notifications. It runs with
// a 50s timeout regardless of the client default.
func (c *Client) RegisterDevice(ctx context.Context, data any) (*Response, error) {
	return api.RegisterDevice(ctx, c, data)
}

// UserLogout logs the current token out.
func (c *Client) UserLogout(ctx context.Context) (*Response, error) {
	return api.UserLogout(ctx, c)
}

// UserRegister creates an account.
func (c *Client) UserRegister(ctx context.Context, data any) (*Response, error) {
	return api.UserRegister(ctx, c, data)
}

// UpdateProfile patches the current user.
func (c *Client) UpdateProfile(ctx context.Context, data any) (*Response, error) {
	return api.UpdateProfile(ctx, c, data)
}

// ResetPassword starts a password reset.
func (c *Client) ResetPassword(ctx context.Context, data any) (*Response, error) {
	return api.ResetPassword(ctx, c, data)
}

// GetUserProfile fetches a profile; "" means the current user.
func (c *Client) GetUserProfile(ctx context.Context, id string) (*Response, error) {
	return api.GetUserProfile(ctx, c, id)
}

// SearchUsers searches users by free text.
func (c *Client) SearchUsers(ctx context.Context, query string) (*Response, error) {
	return api.SearchUsers(ctx, c, query)
}

// GetUserAvatar fetches an avatar; "" means the current user and size ""
// means "small".
func (c *Client) GetUserAvatar(ctx context.Context, id string, redirect bool, size string) (*Response, error) {
	return api.GetUserAvatar(ctx, c, id, redirect, size)
}

// --------------------------------------------------------------------
// Notifications
// --------------------------------------------------------------------

// GetNotifications lists the current user's notifications.
func (c *Client) GetNotifications(ctx context.Context) (*Response, error) {
	return api.GetNotifications(ctx, c)
}

// GetNotificationByID fetches one notification of the current user.
func (c *Client) GetNotificationByID(ctx context.Context, id string) (*Response, error) {
	return api.GetNotificationByID(ctx, c, id)
}

// --------------------------------------------------------------------
// Friends
// --------------------------------------------------------------------

// GetFriendsRequests lists pending friend requests sent to the current user.
func (c *Client) GetFriendsRequests(ctx context.Context) (*Response, error) {
	return api.GetFriendsRequests(ctx, c)
}

// GetUserFriends lists friends of a user; "" means the current user.
func (c *Client) GetUserFriends(ctx context.Context, id string) (*Response, error) {
	return api.GetUserFriends(ctx, c, id)
}

// AddFriendByID sends a friend request, or accepts a pending one.
func (c *Client) AddFriendByID(ctx context.Context, id string) (*Response, error) {
	return api.AddFriendByID(ctx, c, id)
}

// RemoveFriendByID ends a friendship.
func (c *Client) RemoveFriendByID(ctx context.Context, id string) (*Response, error) {
	return api.RemoveFriendByID(ctx, c, id)
}

// BlockUserByID blocks a user.
func (c *Client) BlockUserByID(ctx context.Context, id string) (*Response, error) {
	return api.BlockUserByID(ctx, c, id)
}

// UnblockUserByID lifts a block.
func (c *Client) UnblockUserByID(ctx context.Context, id string) (*Response, error) {
	return api.UnblockUserByID(ctx, c, id)
}

// CheckFriendship reports the relationship between the current user and id.
func (c *Client) CheckFriendship(ctx context.Context, id string) (*Response, error) {
	return api.CheckFriendship(ctx, c, id)
}

// --------------------------------------------------------------------
// Alarms
// --------------------------------------------------------------------

// SetAlarm creates an alarm for the current user.
func (c *Client) SetAlarm(ctx context.Context, data any) (*Response, error) {
	return api.SetAlarm(ctx, c, data)
}

// GetFriendsAlarms lists the alarms of the current user's friends.
func (c *Client) GetFriendsAlarms(ctx context.Context) (*Response, error) {
	return api.GetFriendsAlarms(ctx, c)
}

// GetAlarmByID fetches one alarm.
func (c *Client) GetAlarmByID(ctx context.Context, id string) (*Response, error) {
	return api.GetAlarmByID(ctx, c, id)
}

// UpdateAlarmByID patches an alarm with data.
func (c *Client) UpdateAlarmByID(ctx context.Context, id string, data any) (*Response, error) {
	return api.UpdateAlarmByID(ctx, c, id, data)
}

// RemoveAlarmByID deletes an alarm.
func (c *Client) RemoveAlarmByID(ctx context.Context, id string) (*Response, error) {
	return api.RemoveAlarmByID(ctx, c, id)
}

// TurnOffAlarmByID switches a ringing alarm off.
func (c *Client) TurnOffAlarmByID(ctx context.Context, id string) (*Response, error) {
	return api.TurnOffAlarmByID(ctx, c, id)
}

// CalcAlarmSignature asks the backend for the alarm's current signature.
func (c *Client) CalcAlarmSignature(ctx context.Context, id string) (*Response, error) {
	return api.CalcAlarmSignature(ctx, c, id)
}

// GetCurrentAlarm fetches the armed alarm of a user; "" means the current user.
func (c *Client) GetCurrentAlarm(ctx context.Context, userID string) (*Response, error) {
	return api.GetCurrentAlarm(ctx, c, userID)
}

// --------------------------------------------------------------------
// Voice notes
// --------------------------------------------------------------------

// SendVoiceNote attaches a recorded voice note to a friend's alarm.
func (c *Client) SendVoiceNote(ctx context.Context, data any) (*Response, error) {
	return api.SendVoiceNote(ctx, c, data)
}

// GetVoiceNote fetches one voice note of an alarm.
func (c *Client) GetVoiceNote(ctx context.Context, alarmID, voiceNoteID string) (*Response, error) {
	return api.GetVoiceNote(ctx, c, alarmID, voiceNoteID)
}

// GetVoiceNotes lists voice notes of an alarm with their sender included.
func (c *Client) GetVoiceNotes(ctx context.Context, alarmID string, filter Filter) (*Response, error) {
	return api.GetVoiceNotes(ctx, c, alarmID, filter)
}

// MarkVoiceNoteAsListened flags a voice note as played.
func (c *Client) MarkVoiceNoteAsListened(ctx context.Context, alarmID, voiceNoteID string) (*Response, error) {
	return api.MarkVoiceNoteAsListened(ctx, c, alarmID, voiceNoteID)
}

// --------------------------------------------------------------------
// Coffees
// --------------------------------------------------------------------

// GetCoffees lists coffees for the explore deck.
func (c *Client) GetCoffees(ctx context.Context) (*Response, error) {
	return api.GetCoffees(ctx, c)
}
