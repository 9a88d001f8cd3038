package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/daylog/pkg/activity"
)

const (
	activitiesPath = "/activities/"
	insightsPath   = "/insights/"

	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 60 * time.Second
)

// HTTPOption customises an HTTP gateway.
type HTTPOption func(*HTTP)

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.client.Timeout = d
	}
}

// HTTP talks to a daylog server (or the original activity backend) over
// JSON/HTTP.
type HTTP struct {
	baseURL string
	client  *http.Client
}

// NewHTTP builds a gateway rooted at baseURL, e.g. http://localhost:8000.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BaseURL reports the configured server root.
func (h *HTTP) BaseURL() string {
	return h.baseURL
}

// FetchAll pages through the server's list with skip and limit, so histories
// longer than one page come back whole.
func (h *HTTP) FetchAll(ctx context.Context) ([]activity.Record, error) {
	return Collect(ctx, h.page)
}

func (h *HTTP) page(ctx context.Context, skip, limit int) ([]activity.Record, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	var out []activity.Record
	if err := h.do(ctx, http.MethodGet, activitiesPath+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HTTP) Create(ctx context.Context, r activity.Record) (activity.Record, error) {
	var out activity.Record
	if err := h.do(ctx, http.MethodPost, activitiesPath, r.WithoutServerFields(), &out); err != nil {
		return activity.Record{}, err
	}
	return out, nil
}

func (h *HTTP) RequestInsight(ctx context.Context, r activity.Record) (string, error) {
	var out InsightResponse
	if err := h.do(ctx, http.MethodPost, insightsPath, r, &out); err != nil {
		return "", err
	}
	return out.Insight, nil
}

func (h *HTTP) do(ctx context.Context, method, path string, body, into any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode %s %s: %v", ErrRemote, method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRemote, method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRemote, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrRemote, method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if into == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("%w: %s %s: decode: %v", ErrRemote, method, path, err)
	}
	return nil
}
