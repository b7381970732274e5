// Package listener provides a Postgres LISTEN/NOTIFY consumer for finished
// index runs. It holds a dedicated pgx connection (not from the pool)
// listening on the `embedding_run_finished` channel.
//
// A trigger on embedding_runs fires pg_notify when a run flips to
// "succeeded"; the API server uses the event to drop cached responses that
// were built from the previous index.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/albapepper/scoracle-baseball/internal/config"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// RunEvent is the JSON payload from pg_notify('embedding_run_finished', ...).
type RunEvent struct {
	RunID          uuid.UUID `json:"run_id"`
	EmbeddingType  string    `json:"embedding_type"`
	Model          string    `json:"model"`
	SeasonsIndexed int       `json:"seasons_indexed"`
	Timestamp      int64     `json:"ts"`
}

// HandlerFunc reacts to one finished run. It runs on the listener goroutine,
// so it should return quickly.
type HandlerFunc func(ctx context.Context, event RunEvent)

// Start opens a dedicated connection and listens on the run-finished
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, handle HandlerFunc, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, handle, logger)
		if ctx.Err() != nil {
			logger.Info("Run listener stopped (context cancelled)")
			return
		}

		logger.Error("Run listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = nextBackoff(backoff)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, handle HandlerFunc, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	channel := pgx.Identifier{config.RunFinishedChannel}.Sanitize()
	if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Run listener connected", "channel", config.RunFinishedChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		event, err := ParseEvent(notification.Payload)
		if err != nil {
			logger.Warn("Failed to parse run event",
				"payload", notification.Payload, "error", err)
			continue
		}

		logger.Info("Run finished event received",
			"run_id", event.RunID,
			"embedding_type", event.EmbeddingType,
			"model", event.Model,
			"seasons_indexed", event.SeasonsIndexed)

		handle(ctx, event)
	}
}

// ParseEvent decodes a notification payload.
func ParseEvent(payload string) (RunEvent, error) {
	var event RunEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return RunEvent{}, err
	}
	if event.RunID == uuid.Nil {
		return RunEvent{}, fmt.Errorf("run event without run_id")
	}
	return event, nil
}

func nextBackoff(cur time.Duration) time.Duration {
	return min(cur*2, maxReconnect)
}
