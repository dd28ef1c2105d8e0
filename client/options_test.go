package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestWithHTTPTimeout(t *testing.T) {
	c := &Client{}
	if err := WithHTTPTimeout(5 * time.Second)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.timeout != 5*time.Second {
		t.Fatalf("timeout not set")
	}
	if err := WithHTTPTimeout(0)(c); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func TestWithHTTPClientAndDebugLogging(t *testing.T) {
	var called bool
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: 200, Body: http.NoBody, Header: make(http.Header), Request: r}, nil
	})
	c, err := New("http://example.com", WithHTTPClient(&http.Client{Transport: rt}), WithDebugLogging(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.http.Transport.(*debugTransport); !ok {
		t.Fatalf("expected debugTransport, got %T", c.http.Transport)
	}

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", strings.NewReader(""))
	if _, err := c.http.Do(req); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !called {
		t.Fatalf("base transport not invoked")
	}
}

func TestNew_AutoEnableDebugViaEnv(t *testing.T) {
	t.Setenv("COFI_DEBUG", "true")
	c, err := New("http://example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.http.Transport.(*debugTransport); !ok {
		t.Fatalf("expected debugTransport to be installed when COFI_DEBUG=true")
	}
}

func TestDebugTransport_ErrorPath(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})
	c, err := New("http://example.com", WithHTTPClient(&http.Client{Transport: rt}), WithDebugLogging(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", http.NoBody)
	if _, err := c.http.Do(req); err == nil {
		t.Fatalf("expected error from underlying transport")
	}
}

func TestNew_BaseURL(t *testing.T) {
	t.Parallel()
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("BaseURL=%q want %q", c.BaseURL(), DefaultBaseURL)
	}
	c, err = New("http://api.example.com/api/v1/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != "http://api.example.com/api/v1" {
		t.Fatalf("trailing slash not trimmed: %q", c.BaseURL())
	}
	if _, err := New("not a url"); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}

func TestOptions_RejectNil(t *testing.T) {
	t.Parallel()
	if _, err := New("http://example.com", WithHTTPClient(nil)); err == nil {
		t.Fatal("expected error for nil http client")
	}
	if _, err := New("http://example.com", WithTokenProvider(nil)); err == nil {
		t.Fatal("expected error for nil token provider")
	}
	if _, err := New("http://example.com", WithMonitor(nil)); err == nil {
		t.Fatal("expected error for nil monitor")
	}
	if _, err := New("http://example.com", WithHeader("", "x")); err == nil {
		t.Fatal("expected error for empty header name")
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()
	c, err := New("http://example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
