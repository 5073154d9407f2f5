package api

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/railempire-go/internal/domain/shared"
)

const (
	// The server is turn-based; the limiter only guards against tight
	// MOVE bursts inside a tick
	requestsPerSecond = 20
	requestBurst      = 5
)

// Transport owns one TCP connection to the game server. Calls are
// strictly serialized: one request is written and its response read
// before the next call may start. A per-call timeout covers both the
// write and the read; zero means unlimited.
type Transport struct {
	mu      sync.Mutex
	conn    net.Conn
	timeout time.Duration
	limiter *rate.Limiter
}

// NewTransport creates a disconnected transport with the given per-call
// timeout in seconds (0 = unlimited)
func NewTransport(timeoutSeconds int) *Transport {
	return &Transport{
		timeout: time.Duration(timeoutSeconds) * time.Second,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// Connect dials the game server. Must be called before the first call.
func (t *Transport) Connect(ctx context.Context, host string, port int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		return fmt.Errorf("already connected to %s", t.conn.RemoteAddr())
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	if err != nil {
		return fmt.Errorf("failed to connect to %s:%d: %w", host, port, err)
	}
	t.conn = conn
	return nil
}

// Call sends one framed request and reads one framed response
func (t *Transport) Call(ctx context.Context, action Action, body interface{}) (int, []byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return 0, nil, shared.NewNotConnectedError()
	}

	frame, err := EncodeRequest(action, body)
	if err != nil {
		return 0, nil, err
	}
	if t.timeout > 0 {
		if err := t.conn.SetDeadline(time.Now().Add(t.timeout)); err != nil {
			return 0, nil, fmt.Errorf("failed to set deadline: %w", err)
		}
	}
	if _, err := t.conn.Write(frame); err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	status, payload, err := ReadResponse(t.conn)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to receive response: %w", err)
	}
	return status, payload, nil
}

// Close shuts the connection down; safe to call when disconnected
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// Connected reports whether a connection is established
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}
