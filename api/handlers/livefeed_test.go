package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/smartfir/fir-filing-api/api"
	"github.com/smartfir/fir-filing-api/api/handlers"
)

func dialFeed(t *testing.T, feed *handlers.Feed, station string) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(api.WithAuthContext(r.Context(), api.AuthContext{
			Role:    api.RoleAdmin,
			Station: station,
		}))
		feed.SubscribeHandler(w, r)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestFeed_BroadcastReachesStationSubscriber(t *testing.T) {
	feed := handlers.NewFeed()
	conn := dialFeed(t, feed, "Tosham Police Station, Bhiwani")

	event := handlers.FeedEvent{
		Event:    "fir_filed",
		ReportID: "abc123",
		Category: "Theft",
		Station:  "Tosham Police Station, Bhiwani",
	}
	feed.Broadcast("Tosham Police Station, Bhiwani", event)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got handlers.FeedEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, event, got)
}

func TestFeed_ConcurrentBroadcastsToOneSubscriber(t *testing.T) {
	const broadcasts = 50

	feed := handlers.NewFeed()
	conn := dialFeed(t, feed, "Tosham Police Station, Bhiwani")

	// two submissions landing at the same station race their feed writes;
	// every one of them must still arrive on the single admin connection
	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			feed.Broadcast("Tosham Police Station, Bhiwani", handlers.FeedEvent{
				Event:    "fir_filed",
				ReportID: strconv.Itoa(n),
				Station:  "Tosham Police Station, Bhiwani",
			})
		}(i)
	}

	seen := make(map[string]bool)
	for i := 0; i < broadcasts; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var got handlers.FeedEvent
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		seen[got.ReportID] = true
	}
	wg.Wait()

	assert.Len(t, seen, broadcasts)
}

func TestFeed_BroadcastSkipsOtherStations(t *testing.T) {
	feed := handlers.NewFeed()
	conn := dialFeed(t, feed, "Hisar Sadar Police Station, Hisar")

	feed.Broadcast("Tosham Police Station, Bhiwani", handlers.FeedEvent{
		Event:   "fir_filed",
		Station: "Tosham Police Station, Bhiwani",
	})

	// nothing should arrive for a subscriber of a different station
	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var got handlers.FeedEvent
	err := conn.ReadJSON(&got)
	assert.Error(t, err)
}
