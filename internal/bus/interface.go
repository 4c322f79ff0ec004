package bus

import (
	"context"
	"io"
	"log"

	"github.com/radar989/crits/internal/crits"
)

// LookupRequest is a batch of indicators submitted by the host on the
// requests stream.
type LookupRequest struct {
	RequestID  string            `json:"request_id"`
	Indicators []crits.Indicator `json:"indicators"`
	Timestamp  int64             `json:"timestamp"`
}

// LookupReply carries the outcome of one request on the results stream.
// Error and Results are mutually exclusive: a failed batch never delivers
// partial results.
type LookupReply struct {
	RequestID string               `json:"request_id"`
	Error     string               `json:"error,omitempty"`
	Results   []crits.LookupResult `json:"results,omitempty"`
	Timestamp int64                `json:"timestamp"`
}

// Bus defines the interface for the host-facing message bus
type Bus interface {
	// PublishRequest publishes a lookup request to the requests stream
	PublishRequest(ctx context.Context, req LookupRequest) error

	// PublishReply publishes a lookup outcome to the results stream
	PublishReply(ctx context.Context, reply LookupReply) error

	// ReadRequests consumes lookup requests using a consumer group
	ReadRequests(ctx context.Context, group, consumer string, handler func(ctx context.Context, req LookupRequest) error) error

	// HealthCheck performs a health check on the bus connection
	HealthCheck(ctx context.Context) error

	// Close closes the bus connection
	Close() error
}

// NewBus creates a new bus instance based on the Redis URL.
// If redisURL is empty or the connection fails, returns a NullBus.
func NewBus(redisURL string, logger *log.Logger) Bus {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if redisURL == "" {
		return NewNullBus(logger)
	}

	if redisBus, err := NewRedisBus(redisURL, logger); err == nil {
		return redisBus
	}

	return NewNullBus(logger)
}
