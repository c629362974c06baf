package publisher

import (
	"context"
	"log/slog"

	"quoteguard/pkg/platform/audit"
)

// ChannelPublisher hands events to an in-process worker over a buffered
// channel. It backs deployments without Kafka; emission stays fail-open by
// dropping events when the buffer is full rather than blocking validation.
type ChannelPublisher struct {
	ch     chan audit.Event
	logger *slog.Logger
}

// NewChannel creates a ChannelPublisher with the given buffer size.
func NewChannel(buffer int, logger *slog.Logger) *ChannelPublisher {
	return &ChannelPublisher{
		ch:     make(chan audit.Event, buffer),
		logger: logger,
	}
}

// Inbox is the receive side for an audit worker.
func (p *ChannelPublisher) Inbox() <-chan audit.Event {
	return p.ch
}

func (p *ChannelPublisher) Emit(ctx context.Context, event audit.Event) error {
	select {
	case p.ch <- event:
		return nil
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, event dropped",
				"action", event.Action, "report_id", event.ReportID)
		}
		return nil
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
