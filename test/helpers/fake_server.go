package helpers

import (
	"encoding/binary"
	"encoding/json"
	"net"
	"sync"
	"testing"

	"github.com/andrescamacho/railempire-go/internal/adapters/api"
)

// ReceivedRequest is one decoded request frame seen by the fake server
type ReceivedRequest struct {
	Action api.Action
	Body   []byte
}

// FakeServer is a scripted stand-in for the game server. Handlers are
// registered per action; unhandled actions get an empty OK response.
type FakeServer struct {
	t        *testing.T
	listener net.Listener

	mu       sync.Mutex
	handlers map[api.Action]func(body []byte) (int, interface{})
	received []ReceivedRequest
}

// NewFakeServer starts a fake game server on a random local port
func NewFakeServer(t *testing.T) *FakeServer {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	s := &FakeServer{
		t:        t,
		listener: listener,
		handlers: make(map[api.Action]func([]byte) (int, interface{})),
	}
	go s.serve()
	t.Cleanup(func() {
		_ = listener.Close()
	})
	return s
}

// Handle registers the response for an action. The handler returns the
// status code and a body that is JSON-encoded onto the wire.
func (s *FakeServer) Handle(action api.Action, handler func(body []byte) (int, interface{})) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[action] = handler
}

// Respond registers a fixed response for an action
func (s *FakeServer) Respond(action api.Action, status int, body interface{}) {
	s.Handle(action, func([]byte) (int, interface{}) {
		return status, body
	})
}

// Host and Port of the listening socket
func (s *FakeServer) Host() string {
	host, _, _ := net.SplitHostPort(s.listener.Addr().String())
	return host
}

func (s *FakeServer) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Received returns all requests decoded so far
func (s *FakeServer) Received() []ReceivedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ReceivedRequest, len(s.received))
	copy(out, s.received)
	return out
}

func (s *FakeServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *FakeServer) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	for {
		action, body, err := api.DecodeRequest(conn)
		if err != nil {
			return
		}

		s.mu.Lock()
		s.received = append(s.received, ReceivedRequest{Action: action, Body: body})
		handler := s.handlers[action]
		s.mu.Unlock()

		status, respBody := 0, interface{}(nil)
		if handler != nil {
			status, respBody = handler(body)
		}
		if err := writeResponse(conn, status, respBody); err != nil {
			return
		}
	}
}

func writeResponse(conn net.Conn, status int, body interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = data
	}
	frame := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(int32(status)))
	binary.LittleEndian.PutUint32(frame[4:8], uint32(len(payload)))
	copy(frame[8:], payload)
	_, err := conn.Write(frame)
	return err
}
