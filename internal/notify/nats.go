package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/doctags/internal/logfields"
)

const flushTimeout = 5 * time.Second

// NATSNotifier publishes change events as JSON on a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNATSNotifier connects to the NATS server at url.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	if subject == "" {
		return nil, fmt.Errorf("notification subject is required")
	}

	conn, err := nats.Connect(url, nats.Name("doctags"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS notifier initialized", logfields.URL(url), slog.String("subject", subject))
	return &NATSNotifier{conn: conn, subject: subject}, nil
}

// Notify publishes event and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Notify(ctx context.Context, event *Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := Encode(event)
	if err != nil {
		return err
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	timeout := flushTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := n.conn.FlushTimeout(timeout); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}

	slog.Debug("Published tag page change",
		logfields.BuildID(event.BuildID),
		logfields.Path(event.Path),
		logfields.Hash(event.Hash))
	return nil
}

// Close drains and closes the connection.
func (n *NATSNotifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}

// Encode marshals event to its wire form.
func Encode(event *Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}
