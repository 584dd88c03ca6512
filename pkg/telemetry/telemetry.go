// Package telemetry pushes realtime audio level metrics to UI clients.
//
// The capture thread publishes levels into a preproc.LevelMonitor; the
// Broadcaster samples that monitor on a fixed interval and fans the
// snapshots out to subscribed websocket clients as JSON frames. Slow or
// broken clients are dropped rather than allowed to stall the feed.
package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vocalapp/vocal/pkg/audio/preproc"
)

// DefaultInterval is the level push rate, roughly twice per UI meter frame.
const DefaultInterval = 50 * time.Millisecond

// Broadcaster serves a websocket endpoint streaming AudioLevel frames.
type Broadcaster struct {
	monitor  *preproc.LevelMonitor
	interval time.Duration
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	closeOnce sync.Once
	closeCh   chan struct{}
}

// Option customizes a Broadcaster.
type Option func(*Broadcaster)

// WithInterval sets the push interval.
func WithInterval(d time.Duration) Option {
	return func(b *Broadcaster) { b.interval = d }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Broadcaster) { b.log = log }
}

// NewBroadcaster creates a Broadcaster reading levels from monitor.
func NewBroadcaster(monitor *preproc.LevelMonitor, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		monitor:  monitor,
		interval: DefaultInterval,
		log:      slog.Default(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ServeHTTP upgrades the request to a websocket subscription. The
// subscription lasts until the client disconnects or the Broadcaster
// closes.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn("level feed upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	b.mu.Lock()
	b.clients[ws] = struct{}{}
	n := len(b.clients)
	b.mu.Unlock()
	b.log.Debug("level feed client connected", "remote", r.RemoteAddr, "clients", n)

	// Drain incoming frames to observe the close handshake.
	go func() {
		defer b.drop(ws)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Run pushes level snapshots to all clients until the context is canceled
// or Close is called.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.closeCh:
			return
		case <-ticker.C:
			b.push(b.monitor.Snapshot())
		}
	}
}

// push writes one level frame to every client, dropping the ones that fail.
func (b *Broadcaster) push(level preproc.Level) {
	b.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(b.clients))
	for ws := range b.clients {
		conns = append(conns, ws)
	}
	b.mu.Unlock()

	for _, ws := range conns {
		ws.SetWriteDeadline(time.Now().Add(b.interval))
		if err := ws.WriteJSON(level); err != nil {
			b.log.Debug("level feed client dropped", "err", err)
			b.drop(ws)
		}
	}
}

// drop removes and closes one client connection.
func (b *Broadcaster) drop(ws *websocket.Conn) {
	b.mu.Lock()
	_, ok := b.clients[ws]
	delete(b.clients, ws)
	b.mu.Unlock()
	if ok {
		ws.Close()
	}
}

// Clients reports the current subscriber count.
func (b *Broadcaster) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close disconnects all clients and stops Run.
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() {
		close(b.closeCh)
		b.mu.Lock()
		for ws := range b.clients {
			ws.Close()
		}
		b.clients = make(map[*websocket.Conn]struct{})
		b.mu.Unlock()
	})
}
