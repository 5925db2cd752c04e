package ingress

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeRegistry struct {
	play map[string]string
	app  map[string]string
}

func (f fakeRegistry) PlayStoreID(_ context.Context, name string) (string, bool) {
	id, ok := f.play[name]
	return id, ok
}

func (f fakeRegistry) AppStoreID(_ context.Context, name string) (string, bool) {
	id, ok := f.app[name]
	return id, ok
}

func appStoreFeed(now time.Time) string {
	fresh := now.Format(time.RFC3339)
	stale := now.AddDate(0, 0, -30).Format(time.RFC3339)
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:im="http://itunes.apple.com/rss">
  <title>Customer Reviews</title>
  <entry>
    <id>review-1</id>
    <title>Sync is broken</title>
    <content type="text">The app keeps losing my notes whenever I switch devices.</content>
    <im:rating>1</im:rating>
    <updated>%s</updated>
  </entry>
  <entry>
    <id>review-2</id>
    <title>Old review</title>
    <content type="text">This review is a month old and must not appear in results.</content>
    <im:rating>3</im:rating>
    <updated>%s</updated>
  </entry>
  <entry>
    <id>review-3</id>
    <title>Short</title>
    <content type="text">meh</content>
    <im:rating>2</im:rating>
    <updated>%s</updated>
  </entry>
</feed>`, fresh, stale, fresh)
}

func TestAppStoreFetch(t *testing.T) {
	now := time.Now().UTC()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(appStoreFeed(now)))
	}))
	defer server.Close()

	reg := fakeRegistry{app: map[string]string{"notion": "1232780281"}}
	src := NewAppStore(reg, "briefd-test", 7)
	src.SetBaseURL(server.URL)

	sigs, err := src.Fetch(context.Background(), "notion")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(sigs) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(sigs))
	}

	s := sigs[0]
	if s.Source != "appstore" {
		t.Errorf("unexpected source: %s", s.Source)
	}
	if s.Score != 1 {
		t.Errorf("expected rating 1, got %f", s.Score)
	}
	if s.URL == "" {
		t.Error("expected synthetic review URL")
	}
}

func TestAppStoreFetchNoID(t *testing.T) {
	src := NewAppStore(fakeRegistry{}, "briefd-test", 7)

	sigs, err := src.Fetch(context.Background(), "unknown-product")
	if err != nil {
		t.Fatalf("missing app ID should not be an error: %v", err)
	}
	if len(sigs) != 0 {
		t.Errorf("expected zero signals, got %d", len(sigs))
	}
}

func TestForumRSSFetch(t *testing.T) {
	now := time.Now().UTC()
	feed := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Community Search</title>
    <item>
      <title>Exporting from notion is confusing</title>
      <link>http://forum.example.com/t/1</link>
      <description>I can never find the export option and the docs do not help.</description>
      <pubDate>%s</pubDate>
    </item>
    <item>
      <title>stale thread</title>
      <link>http://forum.example.com/t/2</link>
      <description>An old thread that is well outside the recency window here.</description>
      <pubDate>%s</pubDate>
    </item>
  </channel>
</rss>`, now.Format(time.RFC1123Z), now.AddDate(0, 0, -30).Format(time.RFC1123Z))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feed))
	}))
	defer server.Close()

	src := NewForumRSS("forum", server.URL+"/search.rss?q=%s", "briefd-test", 7)

	sigs, err := src.Fetch(context.Background(), "notion")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(sigs) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(sigs))
	}
	if sigs[0].URL != "http://forum.example.com/t/1" {
		t.Errorf("unexpected URL: %s", sigs[0].URL)
	}
}
