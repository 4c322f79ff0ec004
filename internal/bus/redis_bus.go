package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// Stream names shared with the host platform.
const (
	requestsStream = "crits.lookups"
	resultsStream  = "crits.results"
)

// RedisBus provides Redis Streams-based messaging between the host platform
// and the lookup worker
type RedisBus struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedisBus creates a new Redis bus instance
func NewRedisBus(redisURL string, logger *log.Logger) (*RedisBus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = log.New(log.Writer(), "[RedisBus] ", log.LstdFlags)
	}

	return &RedisBus{
		client: client,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (rb *RedisBus) Close() error {
	return rb.client.Close()
}

// PublishRequest publishes a lookup request to the requests stream
func (rb *RedisBus) PublishRequest(ctx context.Context, req LookupRequest) error {
	indicatorsJSON, err := json.Marshal(req.Indicators)
	if err != nil {
		return fmt.Errorf("failed to marshal indicators: %w", err)
	}

	result := rb.client.XAdd(ctx, &redis.XAddArgs{
		Stream: requestsStream,
		Values: map[string]interface{}{
			"request_id": req.RequestID,
			"indicators": string(indicatorsJSON),
			"timestamp":  req.Timestamp,
		},
	})
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to publish lookup request: %w", err)
	}

	rb.logger.Printf("Published lookup request %s (%d indicator(s))", req.RequestID, len(req.Indicators))
	return nil
}

// PublishReply publishes a lookup outcome to the results stream
func (rb *RedisBus) PublishReply(ctx context.Context, reply LookupReply) error {
	resultsJSON, err := json.Marshal(reply.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	result := rb.client.XAdd(ctx, &redis.XAddArgs{
		Stream: resultsStream,
		Values: map[string]interface{}{
			"request_id": reply.RequestID,
			"error":      reply.Error,
			"results":    string(resultsJSON),
			"timestamp":  reply.Timestamp,
		},
	})
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to publish lookup reply: %w", err)
	}

	rb.logger.Printf("Published reply for request %s", reply.RequestID)
	return nil
}

// createConsumerGroup creates a consumer group for a stream if it doesn't exist
func (rb *RedisBus) createConsumerGroup(ctx context.Context, stream, group string) error {
	result := rb.client.XGroupCreateMkStream(ctx, stream, group, "0")
	if err := result.Err(); err != nil {
		// Ignore error if the group already exists
		if !strings.Contains(err.Error(), "BUSYGROUP") {
			return fmt.Errorf("failed to create consumer group %s for stream %s: %w", group, stream, err)
		}
	}

	rb.logger.Printf("Consumer group %s ready for stream %s", group, stream)
	return nil
}

// ReadRequests consumes lookup requests from the requests stream using a
// consumer group, acknowledging each message after its handler returns
func (rb *RedisBus) ReadRequests(ctx context.Context, group, consumer string, handler func(ctx context.Context, req LookupRequest) error) error {
	if err := rb.createConsumerGroup(ctx, requestsStream, group); err != nil {
		return err
	}

	rb.logger.Printf("Starting request reader (group: %s, consumer: %s)", group, consumer)

	for {
		select {
		case <-ctx.Done():
			rb.logger.Printf("Request reader stopping due to context cancellation")
			return ctx.Err()
		default:
			result := rb.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{requestsStream, ">"},
				Count:    4,
				Block:    1 * time.Second,
			})

			if err := result.Err(); err != nil {
				if err == redis.Nil {
					// No messages available
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				rb.logger.Printf("Error reading from stream %s: %v", requestsStream, err)
				time.Sleep(5 * time.Second)
				continue
			}

			for _, stream := range result.Val() {
				for _, message := range stream.Messages {
					req, err := parseRequestMessage(message.Values)
					if err != nil {
						rb.logger.Printf("Skipping malformed request %s: %v", message.ID, err)
					} else if err := handler(ctx, req); err != nil {
						rb.logger.Printf("Error processing request %s: %v", req.RequestID, err)
						continue
					}

					if err := rb.client.XAck(ctx, requestsStream, group, message.ID).Err(); err != nil {
						rb.logger.Printf("Error acknowledging message %s: %v", message.ID, err)
					}
				}
			}
		}
	}
}

// parseRequestMessage decodes one stream entry into a LookupRequest
func parseRequestMessage(values map[string]interface{}) (LookupRequest, error) {
	req := LookupRequest{
		RequestID: getStringField(values, "request_id"),
	}
	if req.RequestID == "" {
		return req, fmt.Errorf("missing request_id")
	}

	if raw := getStringField(values, "indicators"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Indicators); err != nil {
			return req, fmt.Errorf("failed to decode indicators: %w", err)
		}
	}
	if ts := getStringField(values, "timestamp"); ts != "" {
		if parsed, err := strconv.ParseInt(ts, 10, 64); err == nil {
			req.Timestamp = parsed
		}
	}
	return req, nil
}

// getStringField extracts a string field from Redis message values
func getStringField(values map[string]interface{}, key string) string {
	if value, ok := values[key]; ok {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return ""
}

// HealthCheck performs a health check on the Redis connection
func (rb *RedisBus) HealthCheck(ctx context.Context) error {
	return rb.client.Ping(ctx).Err()
}
