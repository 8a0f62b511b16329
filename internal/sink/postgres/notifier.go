package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"voteRelay/internal/model"
)

// Postgres caps NOTIFY payloads just under 8000 bytes.
const maxNotifyPayload = 7999

// Notifier forwards events to listeners through pg_notify. Nothing is stored.
type Notifier struct {
	pool    *pgxpool.Pool
	channel string
	now     func() time.Time
}

func NewNotifier(ctx context.Context, dsn, channel string) (*Notifier, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	if channel == "" {
		return nil, fmt.Errorf("pg channel is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Notifier{pool: pool, channel: channel, now: time.Now}, nil
}

func (n *Notifier) Close() {
	if n.pool != nil {
		n.pool.Close()
	}
}

// Publish sends the event record on the configured channel.
func (n *Notifier) Publish(ctx context.Context, event model.ChainEvent) error {
	payload, err := notifyPayload(model.NewEventRecord(event, n.now()))
	if err != nil {
		return err
	}
	if _, err := n.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, n.channel, payload); err != nil {
		return fmt.Errorf("pg_notify %s: %w", n.channel, err)
	}
	return nil
}

// notifyPayload drops the payload and extra bag when the full record is too large.
func notifyPayload(record model.EventRecord) (string, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal event record: %w", err)
	}
	if len(raw) <= maxNotifyPayload {
		return string(raw), nil
	}
	record.Payload = nil
	record.Extra = nil
	raw, err = json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal event record: %w", err)
	}
	if len(raw) > maxNotifyPayload {
		return "", fmt.Errorf("event record exceeds notify limit (%d bytes)", len(raw))
	}
	return string(raw), nil
}
