package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gyeh/flightwatch/internal/model"
	"github.com/gyeh/flightwatch/internal/opensky"
	"github.com/gyeh/flightwatch/internal/storage"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCategory model.ErrorCategory
	}{
		{
			name:         "rate limit",
			err:          &opensky.FetchError{Reason: opensky.ReasonRateLimit, HTTPStatus: 429},
			wantCategory: model.CategoryRateLimit,
		},
		{
			name:         "fetch timeout",
			err:          &opensky.FetchError{Reason: opensky.ReasonTimeout, Err: context.DeadlineExceeded},
			wantCategory: model.CategoryAPITimeout,
		},
		{
			name:         "fetch connection",
			err:          &opensky.FetchError{Reason: opensky.ReasonConnection, Err: errors.New("connection refused")},
			wantCategory: model.CategoryAPIConnection,
		},
		{
			name:         "unexpected http status",
			err:          &opensky.FetchError{Reason: opensky.ReasonStatus, HTTPStatus: 502},
			wantCategory: model.CategoryUnexpected,
		},
		{
			name:         "malformed response",
			err:          &opensky.FetchError{Reason: opensky.ReasonDecode, Err: errors.New("unexpected end of JSON input")},
			wantCategory: model.CategoryUnexpected,
		},
		{
			name:         "storage config",
			err:          &storage.WriteError{Reason: storage.ReasonConfig, Err: errors.New("access denied")},
			wantCategory: model.CategoryS3Config,
		},
		{
			name:         "storage upload",
			err:          &storage.WriteError{Reason: storage.ReasonUpload, Err: errors.New("connection reset")},
			wantCategory: model.CategoryS3Upload,
		},
		{
			name:         "parquet encoding",
			err:          &storage.WriteError{Reason: storage.ReasonEncoding, Err: errors.New("schema mismatch")},
			wantCategory: model.CategoryParquet,
		},
		{
			name:         "bare deadline",
			err:          context.DeadlineExceeded,
			wantCategory: model.CategoryAPITimeout,
		},
		{
			name:         "anything else",
			err:          errors.New("disk on fire"),
			wantCategory: model.CategoryUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, message := Classify(tt.err)
			if category != tt.wantCategory {
				t.Errorf("category = %s, want %s", category, tt.wantCategory)
			}
			if message == "" {
				t.Error("message must not be empty")
			}
			if !category.Valid() {
				t.Errorf("category %s not in the closed set", category)
			}
		})
	}
}

func TestClassify_WrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("run failed"), &opensky.FetchError{Reason: opensky.ReasonRateLimit})
	category, _ := Classify(wrapped)
	if category != model.CategoryRateLimit {
		t.Errorf("category = %s, want RATE_LIMIT through wrapping", category)
	}
}

func TestClassify_RateLimitMessageIncludesRetryAfter(t *testing.T) {
	_, message := Classify(&opensky.FetchError{Reason: opensky.ReasonRateLimit, RetryAfter: 90 * time.Second})
	if !strings.Contains(message, "1m30s") {
		t.Errorf("message %q should carry the retry-after hint", message)
	}
}

func TestClassify_UnexpectedKeepsMessageVerbatim(t *testing.T) {
	_, message := Classify(errors.New("disk on fire"))
	if message != "disk on fire" {
		t.Errorf("message = %q, want verbatim cause", message)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	err := &storage.WriteError{Reason: storage.ReasonUpload, Err: errors.New("reset")}
	c1, m1 := Classify(err)
	c2, m2 := Classify(err)
	if c1 != c2 || m1 != m2 {
		t.Error("same error must classify identically every time")
	}
}
