// CLAUDE:SUMMARY Cross-process SQLite rate gate: reserve-then-advance pacing per key.
// Package rategate paces calls to shared external services across every
// process that opens the same SQLite database.
//
// Each key holds one row with the next allowed departure time. Reserving a
// slot reads that time, takes it as the caller's departure, and advances it
// by one interval, all inside a single transaction, so concurrent callers in
// any number of processes serialize on the row and each receives a distinct
// slot spaced at least one interval apart.
package rategate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/docmill/dbopen"
)

// Schema creates the gate table.
const Schema = `
CREATE TABLE IF NOT EXISTS rate_gate (
	key             TEXT PRIMARY KEY,
	next_allowed_at INTEGER NOT NULL
);
`

// Gate allocates departure slots for rate-limited keys.
type Gate struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// New creates a Gate on db. The database must carry Schema.
func New(db *sql.DB, opts ...Option) *Gate {
	g := &Gate{db: db, now: time.Now}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Reserve allocates the next departure slot for key at ratePerMinute calls
// per minute and returns how long the caller must wait before using it. The
// returned delay is zero when the slot is already due. A rate of zero or
// less disables pacing for the call.
//
// The read-advance-write runs in one transaction; SQLITE_BUSY collisions
// with other processes are retried by the transaction runner.
func (g *Gate) Reserve(ctx context.Context, key string, ratePerMinute float64) (time.Duration, error) {
	if ratePerMinute <= 0 {
		return 0, nil
	}
	interval := time.Duration(float64(time.Minute) / ratePerMinute)

	var delay time.Duration
	err := dbopen.RunTx(ctx, g.db, func(tx *sql.Tx) error {
		nowMs := g.now().UnixMilli()

		var nextMs int64
		err := tx.QueryRowContext(ctx,
			`SELECT next_allowed_at FROM rate_gate WHERE key = ?`, key).Scan(&nextMs)
		if errors.Is(err, sql.ErrNoRows) {
			nextMs = nowMs
		} else if err != nil {
			return fmt.Errorf("rategate: read slot: %w", err)
		}

		if nextMs < nowMs {
			nextMs = nowMs
		}
		delay = time.Duration(nextMs-nowMs) * time.Millisecond

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rate_gate (key, next_allowed_at) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET next_allowed_at = excluded.next_allowed_at`,
			key, nextMs+interval.Milliseconds()); err != nil {
			return fmt.Errorf("rategate: advance slot: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return delay, nil
}

// Wait reserves a slot and sleeps until it is due. It returns early with the
// context error if ctx is cancelled during the wait.
func (g *Gate) Wait(ctx context.Context, key string, ratePerMinute float64) error {
	delay, err := g.Reserve(ctx, key, ratePerMinute)
	if err != nil {
		return err
	}
	if delay <= 0 {
		return ctx.Err()
	}
	return dbopen.SleepCtx(ctx, delay)
}
