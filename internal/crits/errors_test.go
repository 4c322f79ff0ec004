package crits

import (
	"errors"
	"strings"
	"testing"
)

func TestClassifyResponse(t *testing.T) {
	transportErr := errors.New("dial tcp 10.0.0.1:443: connect: connection refused")

	tests := []struct {
		name     string
		err      error
		status   int
		wantNil  bool
		wantAuth bool
		contains string
	}{
		{
			name:     "transport error surfaced",
			err:      transportErr,
			contains: "connection refused",
		},
		{
			name:     "unauthorized",
			status:   401,
			wantAuth: true,
		},
		{
			name:     "server error",
			status:   500,
			contains: "HTTP 500",
		},
		{
			name:     "not found",
			status:   404,
			contains: "unknown error accessing the CRITs server",
		},
		{
			name:    "success with empty body",
			status:  200,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyResponse(tt.err, tt.status)

			if tt.wantNil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if tt.wantAuth && !errors.Is(err, ErrAuthorization) {
				t.Errorf("Expected ErrAuthorization, got %v", err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %q", tt.contains, err.Error())
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("Transport error not wrapped: %v", err)
			}
		})
	}
}
