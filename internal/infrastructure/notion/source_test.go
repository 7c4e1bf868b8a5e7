package notion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dueminder/internal/domain"
)

const twoItemsOneDone = `{
  "results": [
    {"id": "p1", "properties": {
      "Task": {"type": "title", "title": [{"plain_text": "Archive audit logs"}]},
      "Due": {"type": "date", "date": {"start": "2024-01-11"}},
      "Status": {"type": "status", "status": {"name": "Done"}}
    }},
    {"id": "p2", "properties": {
      "Task": {"type": "title", "title": [{"plain_text": "Rotate signing keys"}]},
      "Due": {"type": "date", "date": {"start": "2024-01-12"}},
      "Status": {"type": "status", "status": {"name": "In Progress"}}
    }}
  ],
  "has_more": false
}`

func newTestSource(t *testing.T, handler http.HandlerFunc, doneStatus string) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("tok", srv.Client())
	c.baseURL = srv.URL
	return NewSource(c, "db", domain.DefaultFieldNames(), 7, doneStatus, nil)
}

func TestFetchDueItemsFiltersDone(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(twoItemsOneDone))
	}, "Done")

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	items, err := s.FetchDueItems(context.Background(), now)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the done item filtered out, got %d items", len(items))
	}
	if domain.Title(items[0]) != "Rotate signing keys" {
		t.Fatalf("expected the open item to survive, got %q", domain.Title(items[0]))
	}
}

func TestFetchDueItemsCaseSensitiveDoneLabel(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(twoItemsOneDone))
	}, "done")

	items, err := s.FetchDueItems(context.Background(), time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("done label comparison must be case-sensitive, got %d items", len(items))
	}
}

func TestFetchDueItemsWrapsQueryFailure(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"object": "error", "code": "object_not_found"}`))
	}, "Done")

	_, err := s.FetchDueItems(context.Background(), time.Now())
	var srcErr *domain.SourceQueryError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceQueryError, got %v", err)
	}
}
