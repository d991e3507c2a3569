// Package remote fetches the team document over HTTP. It is a read-only source.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// ErrReadOnly is returned by Save: published documents are written by the collection pipeline.
var ErrReadOnly = errors.New("remote roster source is read-only")

// ErrDocumentTooLarge is returned when the response body exceeds MaxBytes.
var ErrDocumentTooLarge = errors.New("roster document too large")

const defaultMaxDocumentBytes = 32 << 20

// Client fetches the document from a fixed URL.
type Client struct {
	url        string
	httpClient *http.Client
	// MaxRetries is how many times a throttled or failed request is retried.
	MaxRetries int
	// MaxWait caps the backoff between attempts.
	MaxWait time.Duration
	// MaxBytes bounds the response body read into memory.
	MaxBytes int64
}

// NewClient creates a client for url. A non-empty token is sent as a bearer token.
func NewClient(url, token string) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("roster url is required")
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = 30 * time.Second
	}
	return &Client{url: url, httpClient: httpClient, MaxRetries: 3, MaxWait: 2 * time.Second, MaxBytes: defaultMaxDocumentBytes}, nil
}

// statusError is returned for non-2xx responses.
type statusError struct {
	code       int
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.code, http.StatusText(e.code))
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Load downloads the document, retrying on 429 and 5xx responses.
func (c *Client) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := c.retry(ctx, func() error {
		var err error
		data, err = c.fetch(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", c.url, err)
	}
	return data, nil
}

// Save always fails with ErrReadOnly.
func (c *Client) Save(ctx context.Context, data []byte) error {
	return ErrReadOnly
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &statusError{code: resp.StatusCode, retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}
	limit := c.MaxBytes
	if limit <= 0 {
		limit = defaultMaxDocumentBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrDocumentTooLarge, limit)
	}
	return data, nil
}

func (c *Client) retry(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		var se *statusError
		if !errors.As(err, &se) || !se.retryable() || attempt >= c.MaxRetries {
			return err
		}

		wait := se.retryAfter
		if wait <= 0 {
			wait = time.Duration(attempt+1) * 250 * time.Millisecond
		}
		if wait > c.MaxWait {
			wait = c.MaxWait
		}
		logrus.WithFields(logrus.Fields{
			"status":  se.code,
			"attempt": attempt + 1,
			"wait":    wait.String(),
		}).Warn("Roster fetch throttled, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
