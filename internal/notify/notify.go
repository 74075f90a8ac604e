// Package notify announces tag page changes to other systems.
package notify

import (
	"context"
	"time"
)

// Event describes a tag page whose content changed.
type Event struct {
	BuildID      string    `json:"build_id"`
	Pass         int       `json:"pass"`
	Path         string    `json:"path"`
	Hash         string    `json:"hash"`
	PreviousHash string    `json:"previous_hash,omitempty"`
	Records      int       `json:"records"`
	Tags         []string  `json:"tags"`
	Timestamp    time.Time `json:"timestamp"`
}

// Notifier publishes change events.
type Notifier interface {
	Notify(ctx context.Context, event *Event) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Notify(context.Context, *Event) error { return nil }
func (Noop) Close() error                         { return nil }
