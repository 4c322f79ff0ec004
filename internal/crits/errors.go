package crits

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthorization is returned when the CRITs server rejects the configured
// credentials with HTTP 401.
var ErrAuthorization = errors.New("authorization failed: verify that your CRITs username and API key are correct")

// classifyResponse maps a raw transport outcome to the single error surfaced
// to the caller. Transport failures are passed through, a 401 becomes the
// fixed authorization message, any other non-200 becomes a generic message.
// A 200 is never an error, regardless of how many records came back: zero
// records is a valid, successful miss.
func classifyResponse(err error, status int) error {
	switch {
	case err != nil:
		return fmt.Errorf("CRITs request failed: %w", err)
	case status == http.StatusUnauthorized:
		return ErrAuthorization
	case status != http.StatusOK:
		return fmt.Errorf("unknown error accessing the CRITs server (HTTP %d)", status)
	}
	return nil
}
