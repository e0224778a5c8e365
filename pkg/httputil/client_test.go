package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientGet(t *testing.T) {
	var gotCacheControl, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"title":"a"}]`))
	}))
	defer srv.Close()

	c := NewClient(time.Second, map[string]string{"Authorization": "Bearer x"})
	body, err := c.Get(context.Background(), srv.URL+"/projects.json")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(body) != `[{"title":"a"}]` {
		t.Errorf("body = %q", body)
	}
	if gotCacheControl != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", gotCacheControl)
	}
	if gotAuth != "Bearer x" {
		t.Errorf("Authorization = %q, want default header", gotAuth)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(time.Second, nil).WithRetry(3, time.Millisecond)
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(body) != "ok" || calls.Load() != 3 {
		t.Errorf("body %q after %d calls, want ok after 3", body, calls.Load())
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		wantCalls int32
	}{
		{"not found", http.StatusNotFound, ErrNotFound, 1},
		{"forbidden", http.StatusForbidden, ErrNetwork, 1},
		{"rate limited", http.StatusTooManyRequests, ErrNetwork, 2},
		{"server error", http.StatusInternalServerError, ErrNetwork, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(time.Second, nil).WithRetry(2, time.Millisecond)
			_, err := c.Get(context.Background(), srv.URL)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Get error = %v, want %v", err, tt.wantErr)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls.Load(), tt.wantCalls)
			}
		})
	}
}

func TestClientBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	c := NewClient(time.Second, nil)
	c.maxBytes = 16
	if _, err := c.Get(context.Background(), srv.URL); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Get error = %v, want ErrTooLarge", err)
	}
}

func TestClientGetPrefix(t *testing.T) {
	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer srv.Close()

	c := NewClient(time.Second, nil).WithRetry(1, 0)
	body, err := c.GetPrefix(context.Background(), srv.URL, 10)
	if err != nil {
		t.Fatalf("GetPrefix error: %v", err)
	}
	if len(body) != 10 {
		t.Errorf("len(body) = %d, want 10", len(body))
	}
	if gotRange != "bytes=0-9" {
		t.Errorf("Range = %q, want bytes=0-9", gotRange)
	}

	short, err := c.GetPrefix(context.Background(), srv.URL, 4096)
	if err != nil || len(short) != 1000 {
		t.Errorf("GetPrefix past the end = %d bytes, %v; want the whole body", len(short), err)
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: ErrNetwork}
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("Retry = %v after %d calls, want ErrNetwork after 3", err, calls)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound || calls != 1 {
		t.Errorf("Retry = %v after %d calls, want immediate ErrNotFound", err, calls)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	err = Retry(cctx, 3, time.Hour, func() error { return &RetryableError{Err: ErrNetwork} })
	if err != context.Canceled {
		t.Errorf("Retry with cancelled ctx = %v, want context.Canceled", err)
	}
}
