package storage

import (
	"fmt"
	"log/slog"
	"sync"
)

// Lazy holds a process-wide Adapter that is opened on first use.
type Lazy struct {
	Open func() (Backend, error)
	Log  *slog.Logger

	once    sync.Once
	adapter *Adapter
	err     error
}

// Adapter opens the backend on the first call and returns the same Adapter
// (or error) on every call after that.
func (l *Lazy) Adapter() (*Adapter, error) {
	l.once.Do(func() {
		if l.Open == nil {
			l.adapter = NewAdapter(NewMemory(), l.Log)
			return
		}
		backend, err := l.Open()
		if err != nil {
			l.err = fmt.Errorf("opening storage: %w", err)
			return
		}
		l.adapter = NewAdapter(backend, l.Log)
	})
	return l.adapter, l.err
}
