package bus

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"
)

func TestParseRequestMessage(t *testing.T) {
	values := map[string]interface{}{
		"request_id": "req-1",
		"indicators": `[{"value":"1.2.3.4","isIP":true},{"value":"evil.example.com","isDomain":true}]`,
		"timestamp":  "1700000000",
	}

	req, err := parseRequestMessage(values)
	if err != nil {
		t.Fatalf("parseRequestMessage failed: %v", err)
	}
	if req.RequestID != "req-1" {
		t.Errorf("Expected request_id req-1, got %q", req.RequestID)
	}
	if len(req.Indicators) != 2 {
		t.Fatalf("Expected 2 indicators, got %d", len(req.Indicators))
	}
	if !req.Indicators[0].IsIP || req.Indicators[0].Value != "1.2.3.4" {
		t.Errorf("First indicator decoded wrong: %+v", req.Indicators[0])
	}
	if !req.Indicators[1].IsDomain {
		t.Errorf("Second indicator decoded wrong: %+v", req.Indicators[1])
	}
	if req.Timestamp != 1700000000 {
		t.Errorf("Expected timestamp 1700000000, got %d", req.Timestamp)
	}
}

func TestParseRequestMessageMissingID(t *testing.T) {
	_, err := parseRequestMessage(map[string]interface{}{
		"indicators": `[]`,
	})
	if err == nil {
		t.Fatal("Expected error for missing request_id")
	}
	if !strings.Contains(err.Error(), "missing request_id") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestParseRequestMessageBadIndicators(t *testing.T) {
	_, err := parseRequestMessage(map[string]interface{}{
		"request_id": "req-1",
		"indicators": "not json",
	})
	if err == nil {
		t.Fatal("Expected error for malformed indicators payload")
	}
	if !strings.Contains(err.Error(), "failed to decode indicators") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestNewBusFallsBackToNullBus(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	if _, ok := NewBus("", logger).(*NullBus); !ok {
		t.Error("Expected NullBus for empty Redis URL")
	}
	if _, ok := NewBus("not-a-redis-url", logger).(*NullBus); !ok {
		t.Error("Expected NullBus for unparseable Redis URL")
	}
}

func TestNullBusReadRequestsBlocksUntilCancelled(t *testing.T) {
	nb := NewNullBus(log.New(io.Discard, "", 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- nb.ReadRequests(ctx, "g", "c", func(ctx context.Context, req LookupRequest) error {
			t.Error("NullBus handler should never be invoked")
			return nil
		})
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ReadRequests did not return after cancellation")
	}
}

func TestNullBusPublishIsNoop(t *testing.T) {
	nb := NewNullBus(log.New(io.Discard, "", 0))
	ctx := context.Background()

	if err := nb.PublishRequest(ctx, LookupRequest{RequestID: "req-1"}); err != nil {
		t.Errorf("PublishRequest failed: %v", err)
	}
	if err := nb.PublishReply(ctx, LookupReply{RequestID: "req-1"}); err != nil {
		t.Errorf("PublishReply failed: %v", err)
	}
	if err := nb.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
	if err := nb.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
