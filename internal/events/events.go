// Package events publishes order lifecycle events for downstream consumers
// (audit, reporting). Publishing never blocks an order write from succeeding.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"garageQueue/models"
)

// Type names an order event.
type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
)

// Event is the JSON payload written to the order topic.
type Event struct {
	Type      Type               `json:"type"`
	OrderID   string             `json:"order_id"`
	UserID    string             `json:"user_id,omitempty"`
	OldStatus models.OrderStatus `json:"old_status,omitempty"`
	NewStatus models.OrderStatus `json:"new_status"`
	// Via is "advance" or "assign" for status changes.
	Via string    `json:"via,omitempty"`
	At  time.Time `json:"at"`
}

// Encode returns the wire form of e.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers order events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
