package opensky

import (
	"fmt"
	"time"
)

// FetchReason is a structured reason code carried by every fetch failure,
// so callers classify over a closed set instead of inspecting messages.
type FetchReason string

const (
	ReasonRateLimit  FetchReason = "rate_limit"
	ReasonTimeout    FetchReason = "timeout"
	ReasonConnection FetchReason = "connection"
	ReasonStatus     FetchReason = "status"
	ReasonDecode     FetchReason = "decode"
)

// FetchError is the tagged failure type returned by Client.FetchStates.
type FetchError struct {
	Reason     FetchReason
	HTTPStatus int           // set for ReasonStatus and ReasonRateLimit
	RetryAfter time.Duration // from the Retry-After header, 0 if absent
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Reason {
	case ReasonRateLimit:
		if e.RetryAfter > 0 {
			return fmt.Sprintf("opensky: rate limit exceeded, retry after %s", e.RetryAfter)
		}
		return "opensky: rate limit exceeded"
	case ReasonStatus:
		return fmt.Sprintf("opensky: request failed with status %d", e.HTTPStatus)
	}
	return fmt.Sprintf("opensky: %s: %v", e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
