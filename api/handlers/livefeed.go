package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/smartfir/fir-filing-api/api"
)

// FeedEvent is one live feed message pushed to station administrators
type FeedEvent struct {
	Event    string `json:"event"`
	ReportID string `json:"reportId"`
	Category string `json:"category"`
	Station  string `json:"station"`
}

// feedClient wraps one subscriber connection. gorilla/websocket allows at
// most one concurrent writer per connection, so every write goes through the
// client's mutex.
type feedClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *feedClient) write(event FeedEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(event)
}

// Feed pushes report events to connected station administrators over
// websockets. Delivery is best-effort; a slow or dead connection is dropped.
type Feed struct {
	mu          sync.RWMutex
	subscribers map[string]map[*feedClient]bool
	upgrader    websocket.Upgrader
}

// NewFeed creates an empty live feed hub
func NewFeed() *Feed {
	return &Feed{
		subscribers: make(map[string]map[*feedClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// SubscribeHandler upgrades the connection and joins the caller to their
// station's feed until the client disconnects
func (f *Feed) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().With(err).Error("failed to upgrade feed connection")
		return
	}

	client := &feedClient{conn: conn}
	f.join(authCtx.Station, client)
	zap.S().Debugw("admin joined live feed", "station", authCtx.Station)

	// hold the connection open; any read error means the client is gone
	go func() {
		defer f.leave(authCtx.Station, client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends an event to every administrator subscribed to the station.
// Safe to call from any number of request goroutines at once.
func (f *Feed) Broadcast(station string, event FeedEvent) {
	f.mu.RLock()
	clients := make([]*feedClient, 0, len(f.subscribers[station]))
	for client := range f.subscribers[station] {
		clients = append(clients, client)
	}
	f.mu.RUnlock()

	for _, client := range clients {
		if err := client.write(event); err != nil {
			zap.S().With(err).Debug("dropping dead feed connection")
			f.leave(station, client)
		}
	}
}

func (f *Feed) join(station string, client *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribers[station] == nil {
		f.subscribers[station] = make(map[*feedClient]bool)
	}
	f.subscribers[station][client] = true
}

func (f *Feed) leave(station string, client *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribers[station] != nil {
		delete(f.subscribers[station], client)
	}
	client.conn.Close()
}
