package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
}

func NewNATSPublisher(url, prefix string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("teamboard"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS publisher initialized", "url", url, "prefix", prefix)

	return &NATSPublisher{
		conn:   nc,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Subject is the NATS subject an event type is published on.
func (p *NATSPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "type", event.Type, "error", err)
		return err
	}

	subject := p.Subject(event.Type)
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event to NATS", "subject", subject, "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event published", "subject", subject)
	return nil
}

// HealthCheck fails when the connection is not currently established or the
// server does not answer a flush. ctx must carry a deadline.
func (p *NATSPublisher) HealthCheck(ctx context.Context) error {
	if !p.conn.IsConnected() {
		return fmt.Errorf("nats connection status: %v", p.conn.Status())
	}
	return p.conn.FlushWithContext(ctx)
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
