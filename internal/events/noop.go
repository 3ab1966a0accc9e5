package events

import (
	"context"
	"log/slog"
)

// NoopPublisher drops every event. The server uses it when LEADS_NATS_URL
// is unset.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}

// Connect returns a NATS publisher for url, or a NoopPublisher when url is
// empty.
func Connect(url string) (Publisher, error) {
	if url == "" {
		slog.Info("events: NATS not configured, events stay local")
		return &NoopPublisher{}, nil
	}
	pub, err := NewNATSPublisher(url)
	if err != nil {
		return nil, err
	}
	slog.Info("events: publishing to NATS", "url", url)
	return pub, nil
}
