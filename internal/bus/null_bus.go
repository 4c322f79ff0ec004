package bus

import (
	"context"
	"log"
)

// NullBus is a no-op implementation of the bus interface for when Redis is
// disabled or unreachable
type NullBus struct {
	logger *log.Logger
}

// NewNullBus creates a new null bus instance
func NewNullBus(logger *log.Logger) *NullBus {
	if logger == nil {
		logger = log.New(log.Writer(), "[NullBus] ", log.LstdFlags)
	}

	return &NullBus{
		logger: logger,
	}
}

// Close is a no-op for null bus
func (nb *NullBus) Close() error {
	return nil
}

// PublishRequest logs the request but doesn't actually publish it
func (nb *NullBus) PublishRequest(ctx context.Context, req LookupRequest) error {
	nb.logger.Printf("Would publish lookup request %s with %d indicator(s) (Redis disabled)",
		req.RequestID, len(req.Indicators))
	return nil
}

// PublishReply logs the reply but doesn't actually publish it
func (nb *NullBus) PublishReply(ctx context.Context, reply LookupReply) error {
	nb.logger.Printf("Would publish reply for request %s (Redis disabled)", reply.RequestID)
	return nil
}

// ReadRequests is a no-op for null bus (blocks until cancelled)
func (nb *NullBus) ReadRequests(ctx context.Context, group, consumer string, handler func(ctx context.Context, req LookupRequest) error) error {
	nb.logger.Printf("Would read requests stream %s:%s (Redis disabled)", group, consumer)
	<-ctx.Done()
	return ctx.Err()
}

// HealthCheck always returns nil for null bus
func (nb *NullBus) HealthCheck(ctx context.Context) error {
	return nil
}
