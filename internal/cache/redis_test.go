package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestDialWithRetryRejectsMalformedURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	start := time.Now()
	if _, err := DialWithRetry(context.Background(), "not a url", 5, time.Hour, logger); err == nil {
		t.Fatal("malformed url accepted")
	}
	if time.Since(start) > time.Second {
		t.Error("malformed url was retried")
	}
}

func TestDialWithRetryStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DialWithRetry(ctx, "redis://127.0.0.1:1/0", 5, time.Hour, logger)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
