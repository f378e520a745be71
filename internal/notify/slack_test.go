package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/flightwatch/internal/model"
)

func TestSlackClient_NotifyFailure(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("unmarshal payload: %v", err)
		}
	}))
	defer server.Close()

	c := NewSlackClient(server.URL)
	err := c.NotifyFailure(context.Background(), 7, model.CategoryRateLimit, "rate limit exceeded, retry after 90s")
	if err != nil {
		t.Fatalf("NotifyFailure: %v", err)
	}

	text := got["text"]
	if !strings.Contains(text, "attempt 7") || !strings.Contains(text, "RATE_LIMIT") {
		t.Errorf("unexpected message: %q", text)
	}
}

func TestSlackClient_NotifyFailure_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewSlackClient(server.URL)
	if err := c.NotifyFailure(context.Background(), 1, model.CategoryUnexpected, "boom"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestSlackClient_Enabled(t *testing.T) {
	if NewSlackClient("").Enabled() {
		t.Error("empty webhook URL should be disabled")
	}
	if !NewSlackClient("https://hooks.slack.example/T/B/x").Enabled() {
		t.Error("configured webhook URL should be enabled")
	}
}

func TestIngestionNotifier_OnFailure_SwallowsWebhookError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewIngestionNotifier(NewSlackClient(server.URL), zerolog.Nop())

	// Must not panic or propagate the delivery failure.
	n.OnFailure(context.Background(), 3, model.CategoryS3Upload, "upload failed", time.Second)
}

func TestIngestionNotifier_NilSlack(t *testing.T) {
	n := NewIngestionNotifier(nil, zerolog.Nop())
	n.OnSuccess(context.Background(), 1, 10, time.Second)
	n.OnFailure(context.Background(), 2, model.CategoryAPITimeout, "timeout", time.Second)
}
