package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/gyeh/flightwatch/internal/model"
	"github.com/gyeh/flightwatch/internal/opensky"
	"github.com/gyeh/flightwatch/internal/storage"
)

// Classify maps an attempt failure onto its error category and the message
// recorded with the attempt. Classification reads structured reason codes
// from the collaborator error types, never message text. Unrecognized
// errors land in UNEXPECTED with their message preserved verbatim.
func Classify(err error) (model.ErrorCategory, string) {
	var fe *opensky.FetchError
	if errors.As(err, &fe) {
		switch fe.Reason {
		case opensky.ReasonRateLimit:
			if fe.RetryAfter > 0 {
				return model.CategoryRateLimit, fmt.Sprintf("rate limit exceeded, retry after %s", fe.RetryAfter)
			}
			return model.CategoryRateLimit, "rate limit exceeded"
		case opensky.ReasonTimeout:
			return model.CategoryAPITimeout, fe.Error()
		case opensky.ReasonConnection:
			return model.CategoryAPIConnection, fe.Error()
		}
		// Status and decode failures have no dedicated category.
		return model.CategoryUnexpected, fe.Error()
	}

	var we *storage.WriteError
	if errors.As(err, &we) {
		switch we.Reason {
		case storage.ReasonConfig:
			return model.CategoryS3Config, we.Error()
		case storage.ReasonEncoding:
			return model.CategoryParquet, we.Error()
		}
		return model.CategoryS3Upload, we.Error()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return model.CategoryAPITimeout, err.Error()
	}

	return model.CategoryUnexpected, err.Error()
}
