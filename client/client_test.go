package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/v1", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAuthorization_PresentWhenTokenStored(t *testing.T) {
	t.Parallel()
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}, WithTokenProvider(StaticToken("tok-123")))

	if _, err := c.GetNotifications(context.Background()); err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if got != "tok-123" {
		t.Fatalf("Authorization=%q want tok-123", got)
	}
}

func TestAuthorization_Scheme(t *testing.T) {
	t.Parallel()
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}, WithTokenProvider(StaticToken("tok-123")), WithAuthScheme("Bearer"))

	if _, err := c.GetCoffees(context.Background()); err != nil {
		t.Fatalf("GetCoffees: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Fatalf("Authorization=%q want Bearer tok-123", got)
	}
}

func TestAuthorization_AbsentWithoutToken(t *testing.T) {
	t.Parallel()
	providers := map[string][]Option{
		"no provider":    nil,
		"empty token":    {WithTokenProvider(StaticToken(""))},
		"provider error": {WithTokenProvider(TokenFunc(func(context.Context) (string, error) { return "x", errors.New("storage locked") }))},
	}
	for name, opts := range providers {
		var present bool
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, present = r.Header["Authorization"]
		}, append(opts, WithLogger(zerolog.Nop()))...)
		resp, err := c.GetCoffees(context.Background())
		if err != nil || !resp.OK {
			t.Fatalf("%s: resp=%+v err=%v", name, resp, err)
		}
		if present {
			t.Fatalf("%s: Authorization header should be omitted", name)
		}
	}
}

func TestAuthorization_ProviderSeesCallContext(t *testing.T) {
	t.Parallel()
	type key struct{}
	var seen any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {},
		WithTokenProvider(TokenFunc(func(ctx context.Context) (string, error) {
			seen = ctx.Value(key{})
			return "t", nil
		})))
	ctx := context.WithValue(context.Background(), key{}, "marker")
	if _, err := c.GetCoffees(ctx); err != nil {
		t.Fatalf("GetCoffees: %v", err)
	}
	if seen != "marker" {
		t.Fatalf("provider did not receive the call context, got %v", seen)
	}
}

func TestDo_MethodPathQueryBody(t *testing.T) {
	t.Parallel()
	var method, path, include, ctype string
	var body map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		include = r.URL.Query().Get("include")
		ctype = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"token-1","userId":"u1"}`))
	})

	resp, err := c.UserLogin(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("UserLogin: %v", err)
	}
	if method != http.MethodPost || path != "/api/v1/users/login" || include != "user" {
		t.Fatalf("got %s %s include=%q", method, path, include)
	}
	if ctype != "application/json" {
		t.Fatalf("Content-Type=%q", ctype)
	}
	if body["email"] != "a@b.c" || body["password"] != "pw" {
		t.Fatalf("body=%v", body)
	}
	if !resp.OK || resp.Status != 200 || resp.Problem != "NONE" || resp.Endpoint != "userLogin" {
		t.Fatalf("resp=%+v", resp)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := resp.Decode(&out); err != nil || out.ID != "token-1" {
		t.Fatalf("Decode: out=%+v err=%v", out, err)
	}
}

func TestDo_PathParamsEscaped(t *testing.T) {
	t.Parallel()
	var raw string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.EscapedPath()
	})
	if _, err := c.GetAlarmByID(context.Background(), "a/b c"); err != nil {
		t.Fatalf("GetAlarmByID: %v", err)
	}
	if raw != "/api/v1/alarms/a%2Fb%20c" {
		t.Fatalf("escaped path=%q", raw)
	}
}

func TestDo_NonOKStatusIsNotAnError(t *testing.T) {
	t.Parallel()
	cases := map[int]string{
		http.StatusBadRequest:          "CLIENT_ERROR",
		http.StatusNotFound:            "CLIENT_ERROR",
		http.StatusInternalServerError: "SERVER_ERROR",
		http.StatusBadGateway:          "SERVER_ERROR",
	}
	for status, want := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"code":"X"}}`))
		})
		resp, err := c.GetAlarmByID(context.Background(), "a1")
		if err != nil {
			t.Fatalf("%d: unexpected error %v", status, err)
		}
		if resp.OK || resp.Status != status || resp.Problem != want {
			t.Fatalf("%d: resp=%+v", status, resp)
		}
		if resp.ErrorCode() != "X" {
			t.Fatalf("%d: body not passed through: %s", status, resp.Data)
		}
	}
}

func TestDo_ConnectionRefused(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := c.GetCoffees(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if resp == nil || resp.OK || resp.Problem != string(ConnectionError) {
		t.Fatalf("resp=%+v", resp)
	}
	if !IsProblem(err, ConnectionError) {
		t.Fatalf("error not classified: %v", err)
	}
	var ce *CallError
	if !errors.As(err, &ce) || ce.Endpoint != "getCoffees" {
		t.Fatalf("expected CallError for getCoffees, got %v", err)
	}
}

func TestDo_Timeout(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithHTTPTimeout(50*time.Millisecond))

	resp, err := c.GetCoffees(context.Background())
	if err == nil {
		t.Fatal("expected timeout")
	}
	if resp.Problem != string(TimeoutError) || !IsTransient(TimeoutError) {
		t.Fatalf("resp=%+v err=%v", resp, err)
	}
}

func TestDo_Canceled(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp, err := c.GetCoffees(ctx)
	if err == nil || resp.Problem != string(CancelError) {
		t.Fatalf("resp=%+v err=%v", resp, err)
	}
}

func TestRegisterDevice_OverridesDefaultTimeout(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}, WithHTTPTimeout(50*time.Millisecond))

	resp, err := c.RegisterDevice(context.Background(), DeviceRegistration{DeviceID: "d1"})
	if err != nil || !resp.OK {
		t.Fatalf("RegisterDevice should outlive the default timeout: resp=%+v err=%v", resp, err)
	}
}

func TestWithEndpointTimeout(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithEndpointTimeout("registerDevice", 50*time.Millisecond))

	resp, err := c.RegisterDevice(context.Background(), DeviceRegistration{DeviceID: "d1"})
	if err == nil || resp.Problem != string(TimeoutError) {
		t.Fatalf("override not applied: resp=%+v err=%v", resp, err)
	}

	if _, err := New("http://example.com", WithEndpointTimeout("nope", time.Second)); err == nil {
		t.Fatal("expected error for unknown endpoint")
	}
	if _, err := New("http://example.com", WithEndpointTimeout("getCoffees", 0)); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func TestDefaultHeaders(t *testing.T) {
	t.Parallel()
	var h http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		h = r.Header.Clone()
	}, WithHeader("X-App-Version", "1.4.0"))
	if _, err := c.GetFriendsRequests(context.Background()); err != nil {
		t.Fatalf("GetFriendsRequests: %v", err)
	}
	if h.Get("Accept") != "application/json" || h.Get("X-App-Version") != "1.4.0" {
		t.Fatalf("headers=%v", h)
	}
}

func TestInvalidTokenMonitor_FiresOnlyOn401InvalidToken(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		status int
		body   string
		fires  bool
	}{
		{"401 invalid token", 401, `{"error":{"statusCode":401,"code":"INVALID_TOKEN"}}`, true},
		{"401 other code", 401, `{"error":{"statusCode":401,"code":"AUTHORIZATION_REQUIRED"}}`, false},
		{"401 no body", 401, ``, false},
		{"401 not json", 401, `Unauthorized`, false},
		{"401 error not object", 401, `{"error":"INVALID_TOKEN"}`, false},
		{"403 invalid token", 403, `{"error":{"code":"INVALID_TOKEN"}}`, false},
		{"200", 200, `{"error":{"code":"INVALID_TOKEN"}}`, false},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, tc.body)
		}, WithLogger(zerolog.New(&buf)))

		resp, err := c.GetNotifications(context.Background())
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if IsInvalidToken(resp) != tc.fires {
			t.Fatalf("%s: IsInvalidToken=%v", tc.name, !tc.fires)
		}
		logged := strings.Contains(buf.String(), `"message":"invalid token"`)
		if logged != tc.fires {
			t.Fatalf("%s: logged=%v want %v (log=%q)", tc.name, logged, tc.fires, buf.String())
		}
		if tc.fires && !strings.Contains(buf.String(), `"endpoint":"getNotifications"`) {
			t.Fatalf("%s: endpoint missing from log: %q", tc.name, buf.String())
		}
	}
}

func TestMonitors_OrderSnapshotAndPanic(t *testing.T) {
	t.Parallel()
	var order []string
	var calls int32
	mutator := MonitorFunc(func(r *Response) {
		order = append(order, "mutator")
		r.Status = 999
		if len(r.Data) > 0 {
			r.Data[0] = 'X'
		}
	})
	panicker := MonitorFunc(func(r *Response) {
		order = append(order, "panicker")
		panic("boom")
	})
	counter := MonitorFunc(func(r *Response) {
		order = append(order, "counter")
		atomic.AddInt32(&calls, 1)
	})

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2]`))
	}, WithMonitor(mutator), WithMonitor(panicker), WithMonitor(counter), WithLogger(zerolog.Nop()))

	resp, err := c.GetCoffees(context.Background())
	if err != nil {
		t.Fatalf("GetCoffees: %v", err)
	}
	if strings.Join(order, ",") != "mutator,panicker,counter" {
		t.Fatalf("order=%v", order)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatal("monitor after a panicking one did not run")
	}
	if resp.Status != 200 || string(resp.Data) != "[1,2]" {
		t.Fatalf("monitor mutated the caller's response: %+v data=%s", resp, resp.Data)
	}
}

func TestMonitors_SeeTransportFailures(t *testing.T) {
	t.Parallel()
	var seen *Response
	c, err := New("http://127.0.0.1:1", WithMonitor(MonitorFunc(func(r *Response) { seen = r })), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, _ = c.GetCoffees(context.Background())
	if seen == nil || seen.OK || seen.Err == nil {
		t.Fatalf("monitor did not observe the failure: %+v", seen)
	}
}

func TestEndpoints_Catalogue(t *testing.T) {
	t.Parallel()
	eps := Endpoints()
	if len(eps) != 31 {
		t.Fatalf("catalogue has %d endpoints, want 31", len(eps))
	}
	byName := map[string]Endpoint{}
	for _, ep := range eps {
		byName[ep.Name] = ep
	}
	if ep := byName["registerDevice"]; ep.Timeout != 50*time.Second {
		t.Fatalf("registerDevice timeout=%v", ep.Timeout)
	}
	if ep := byName["removeAlarmById"]; ep.Method != http.MethodDelete || ep.Path != "/alarms/{id}" {
		t.Fatalf("removeAlarmById=%+v", ep)
	}
}
