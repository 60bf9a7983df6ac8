package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func listingJSON(comments ...[2]string) string {
	body := `{"data":{"children":[`
	for i, c := range comments {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"data":{"id":%q,"body":%q,"author":"u1","created_utc":1750000000}}`, c[0], c[1])
	}
	return body + `]}}`
}

func TestFetchParsesListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/r/wallstreetbets/comments.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "sentipull/test" {
			t.Fatalf("unexpected user agent %q", ua)
		}
		if limit := r.URL.Query().Get("limit"); limit != "10" {
			t.Fatalf("unexpected limit %q", limit)
		}
		fmt.Fprint(w, listingJSON([2]string{"c1", "calls printing"}, [2]string{"c2", "puts it is"}))
	}))
	defer srv.Close()

	c := New(srv.URL, "sentipull/test", "wallstreetbets", 10, time.Minute).(*Client)
	items, err := c.fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "c1" || items[0].Text != "calls printing" {
		t.Fatalf("unexpected item %+v", items[0])
	}
	if items[0].Source != "reddit/wallstreetbets" {
		t.Fatalf("unexpected source %q", items[0].Source)
	}
}

func TestFetchSkipsDeletedAndEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingJSON(
			[2]string{"c1", "[deleted]"},
			[2]string{"c2", "[removed]"},
			[2]string{"c3", "   "},
			[2]string{"c4", "real comment"},
		))
	}))
	defer srv.Close()

	c := New(srv.URL, "sentipull/test", "wallstreetbets", 10, time.Minute).(*Client)
	items, err := c.fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 || items[0].ID != "c4" {
		t.Fatalf("expected only the real comment, got %+v", items)
	}
}

func TestMarkSeenDeduplicates(t *testing.T) {
	c := New("http://localhost", "ua", "sub", 10, time.Minute).(*Client)

	if c.markSeen("a") {
		t.Fatalf("first sighting must not be seen")
	}
	if !c.markSeen("a") {
		t.Fatalf("second sighting must be seen")
	}
	if c.markSeen("b") {
		t.Fatalf("different id must not be seen")
	}
}

func TestOpenFailsOnBadSubreddit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "ua", "nope", 10, time.Minute)
	if err := c.Open(context.Background()); err == nil {
		t.Fatalf("expected open to fail on 404")
	}
	if c.IsConnected() {
		t.Fatalf("must not report connected after failed open")
	}
}
