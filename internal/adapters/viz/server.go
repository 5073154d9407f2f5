package viz

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/railempire-go/internal/adapters/bridge"
	"github.com/andrescamacho/railempire-go/internal/adapters/metrics"
)

var upgrader = websocket.Upgrader{
	// The visualizer page is served from anywhere during development
	CheckOrigin: func(*http.Request) bool { return true },
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Server fans the bridge queue out to websocket subscribers. Late
// subscribers get the retained MAP_STATIC and MAP_COORDS frames
// replayed so they can render the board without waiting for the next
// game.
type Server struct {
	queue *bridge.Queue
	addr  string

	mu       sync.Mutex
	clients  map[*client]bool
	retained []bridge.Message

	httpServer *http.Server
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer creates a visualizer server over the given queue
func NewServer(queue *bridge.Queue, addr string, withMetrics bool) *Server {
	s := &Server{
		queue:   queue,
		addr:    addr,
		clients: make(map[*client]bool),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	if withMetrics && metrics.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Run serves websocket subscribers and pumps the queue until the
// context is cancelled or the queue closes
func (s *Server) Run(ctx context.Context) error {
	go s.pump(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// pump drains the bridge queue and broadcasts each message
func (s *Server) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.queue.Wait():
		}
		for _, msg := range s.queue.Drain() {
			s.broadcast(msg)
		}
		if s.queue.Closed() {
			// flush whatever arrived between the drain and the close
			for _, msg := range s.queue.Drain() {
				s.broadcast(msg)
			}
			return
		}
	}
}

func (s *Server) broadcast(msg bridge.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to encode %s message: %v", msg.Tag, err)
		return
	}

	s.mu.Lock()
	if msg.Tag == bridge.TagMapStatic || msg.Tag == bridge.TagMapCoords {
		s.retained = append(s.retained, msg)
	}
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow consumer: drop it rather than stall the feed
			close(c.send)
			delete(s.clients, c)
		}
	}
	s.mu.Unlock()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 64)}

	s.mu.Lock()
	s.clients[c] = true
	replay := make([]bridge.Message, len(s.retained))
	copy(replay, s.retained)
	s.mu.Unlock()

	for _, msg := range replay {
		if data, err := json.Marshal(msg); err == nil {
			select {
			case c.send <- data:
			default:
			}
		}
	}

	go s.writePump(c)
	go s.readPump(c)
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.drop(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.drop(c)
				return
			}
		}
	}
}

// readPump discards inbound frames; the feed is one-way but reading is
// required to process pongs and detect closure
func (s *Server) readPump(c *client) {
	defer s.drop(c)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
	_ = c.conn.Close()
}
