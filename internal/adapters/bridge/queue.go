package bridge

import (
	"encoding/json"
	"sync"
)

// Tag labels a message on the visualizer queue
type Tag string

const (
	TagStatusText Tag = "STATUS_TEXT"
	TagPlayerID   Tag = "PLAYER_ID"
	TagMapStatic  Tag = "MAP_STATIC"
	TagMapCoords  Tag = "MAP_COORDS"
	TagMapDynamic Tag = "MAP_DYNAMIC"
	TagGameOver   Tag = "GAME_OVER"
)

// Message is one tagged payload handed to the visualizer. Payloads are
// immutable once enqueued: the producer hands off serialized JSON and
// never mutates it afterwards.
type Message struct {
	Tag     Tag             `json:"tag"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Queue is the single synchronization point between the bot task and
// the visualizer task. MAP_STATIC, MAP_COORDS and GAME_OVER are
// lossless; the other tags are coalesced so a slow consumer only sees
// the latest value.
type Queue struct {
	mu       sync.Mutex
	lossless []Message
	latest   map[Tag]*Message
	order    []Tag
	notify   chan struct{}
	closed   bool
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{
		latest: make(map[Tag]*Message),
		notify: make(chan struct{}, 1),
	}
}

// Publish enqueues a message; never blocks the producer
func (q *Queue) Publish(tag Tag, payload json.RawMessage) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	msg := Message{Tag: tag, Payload: payload}
	switch tag {
	case TagMapStatic, TagMapCoords, TagGameOver:
		q.lossless = append(q.lossless, msg)
	default:
		if _, seen := q.latest[tag]; !seen {
			q.order = append(q.order, tag)
		}
		q.latest[tag] = &msg
	}
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// PublishStatus enqueues a STATUS_TEXT line
func (q *Queue) PublishStatus(text string) {
	payload, _ := json.Marshal(text)
	q.Publish(TagStatusText, payload)
}

// Drain returns all pending messages: the lossless backlog in arrival
// order followed by the latest coalesced value per tag
func (q *Queue) Drain() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Message, 0, len(q.lossless)+len(q.order))
	out = append(out, q.lossless...)
	q.lossless = nil
	for _, tag := range q.order {
		if msg := q.latest[tag]; msg != nil {
			out = append(out, *msg)
			delete(q.latest, tag)
		}
	}
	q.order = q.order[:0]
	return out
}

// Wait returns a channel signalled when new messages arrive
func (q *Queue) Wait() <-chan struct{} {
	return q.notify
}

// Close marks the queue finished; later publishes are dropped
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Closed reports whether the producer has finished
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
