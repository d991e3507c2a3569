package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoadSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"people": []}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "secret-token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	data, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(data) != `{"people": []}` {
		t.Fatalf("unexpected body %s", data)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("expected bearer token header, got %q", gotAuth)
	}
}

func TestLoadWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "")
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestLoadRetriesThrottledRequests(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"groups": []}`))
		}
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "")
	c.MaxWait = time.Millisecond

	data, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if string(data) != `{"groups": []}` {
		t.Fatalf("unexpected body %s", data)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestLoadGivesUp(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{"not found is not retried", http.StatusNotFound, 1},
		{"server errors exhaust retries", http.StatusServiceUnavailable, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c, _ := NewClient(srv.URL, "")
			c.MaxRetries = 2
			c.MaxWait = time.Millisecond

			if _, err := c.Load(context.Background()); err == nil {
				t.Fatalf("expected an error")
			}
			if atomic.LoadInt32(&calls) != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, calls)
			}
		})
	}
}

func TestLoadRejectsOversizedDocument(t *testing.T) {
	body := `{"people": []}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		maxBytes int64
		wantErr  bool
	}{
		{"exactly at limit", int64(len(body)), false},
		{"one byte over", int64(len(body)) - 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := NewClient(srv.URL, "")
			c.MaxBytes = tt.maxBytes

			data, err := c.Load(context.Background())
			if tt.wantErr {
				if !errors.Is(err, ErrDocumentTooLarge) {
					t.Fatalf("expected ErrDocumentTooLarge, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if string(data) != body {
				t.Fatalf("expected full body, got %q", data)
			}
		})
	}
}

func TestSaveIsReadOnly(t *testing.T) {
	c, _ := NewClient("https://roster.example.com/team.json", "")
	if err := c.Save(context.Background(), []byte("{}")); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient("", "token"); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("3"); got != 3*time.Second {
		t.Fatalf("expected 3s, got %v", got)
	}
	if got := parseRetryAfter("soon"); got != 0 {
		t.Fatalf("expected 0 for garbage, got %v", got)
	}
}
