package store

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/erazemk/omara/internal/db"
	"github.com/erazemk/omara/internal/storage"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestAdapter returns an adapter over a fresh in-memory SQLite database.
func newTestAdapter(t *testing.T) *storage.Adapter {
	t.Helper()
	return storage.NewAdapter(storage.NewSQLite(db.NewTestDB(t)), quietLogger())
}

// fixedOpts pins the clock and hands out sequential IDs.
func fixedOpts() []Option {
	n := 0
	return []Option{
		WithClock(func() time.Time { return testNow }),
		WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	}
}
