package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"tableflip.dev/daylog/pkg/activity"
)

func TestHTTPFetchAllPreservesServerOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/activities/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `[
			{"id":2,"date":"2024-06-02","work":1,"leisure":2,"sleep":3,"exercise":4,"summary":"b"},
			{"id":1,"date":"2024-06-01","work":5,"leisure":6,"sleep":7,"exercise":8,"summary":"a"}
		]`)
	}))
	defer srv.Close()

	got, err := NewHTTP(srv.URL + "/").FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "1" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestHTTPFetchAllEmptyIsNotNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	}))
	defer srv.Close()

	got, err := NewHTTP(srv.URL).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestHTTPCreateSendsPayloadWithoutServerFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/activities/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if _, ok := body["summary"]; ok {
			t.Errorf("summary must not be sent: %v", body)
		}
		if _, ok := body["id"]; ok {
			t.Errorf("id must not be sent: %v", body)
		}
		body["id"] = "abc"
		body["summary"] = "nice balance"
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	in := activity.Record{ID: "stale", Summary: "stale", Date: activity.MustParseDate("2024-06-03"), Work: 2, Leisure: 3, Sleep: 8, Exercise: 1}
	got, err := NewHTTP(srv.URL).Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ID != "abc" || got.Summary != "nice balance" || got.Sleep != 8 {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestHTTPRequestInsight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/insights/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"insight":"sleep more"}`)
	}))
	defer srv.Close()

	got, err := NewHTTP(srv.URL).RequestInsight(context.Background(), activity.Record{Date: activity.MustParseDate("2024-06-03")})
	if err != nil {
		t.Fatalf("insight: %v", err)
	}
	if got != "sleep more" {
		t.Fatalf("unexpected insight %q", got)
	}
}

func TestHTTPFailuresWrapErrRemote(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"insight":`)
		},
	}
	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()
			_, err := NewHTTP(srv.URL).RequestInsight(context.Background(), activity.Record{})
			if !errors.Is(err, ErrRemote) {
				t.Fatalf("expected ErrRemote, got %v", err)
			}
		})
	}

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		_, err := NewHTTP(url).FetchAll(context.Background())
		if !errors.Is(err, ErrRemote) {
			t.Fatalf("expected ErrRemote, got %v", err)
		}
	})
}

func TestHTTPTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTP(srv.URL, WithTimeout(20*time.Millisecond)).FetchAll(context.Background())
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if !strings.Contains(err.Error(), "GET /activities/") {
		t.Fatalf("expected request detail in %q", err)
	}
}

func TestHTTPFetchAllPages(t *testing.T) {
	all := numbered(2*PageSize + 30)
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(window(all, skip, limit))
	}))
	defer srv.Close()

	got, err := NewHTTP(srv.URL).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != len(all) || got[0].ID != "r000" || got[len(got)-1].ID != "r229" {
		t.Fatalf("expected %d records in order, got %d", len(all), len(got))
	}
	want := []string{"limit=100&skip=0", "limit=100&skip=100", "limit=100&skip=200"}
	if strings.Join(queries, " ") != strings.Join(want, " ") {
		t.Fatalf("queries = %v, want %v", queries, want)
	}
}

func TestHTTPRequestInsightSendsWholeRecord(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = io.WriteString(w, `{"insight":"ok"}`)
	}))
	defer srv.Close()

	rec := activity.Record{ID: "7", Date: activity.MustParseDate("2024-06-03"), Work: 8, Summary: "busy"}
	if _, err := NewHTTP(srv.URL).RequestInsight(context.Background(), rec); err != nil {
		t.Fatalf("insight: %v", err)
	}
	if body["summary"] != "busy" || body["id"] == nil {
		t.Fatalf("expected id and summary in request, got %v", body)
	}
}
