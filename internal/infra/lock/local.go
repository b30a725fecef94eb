package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker блокировка дня врача внутри одного процесса.
// Используется, когда Redis выключен в конфигурации.
type LocalLocker struct {
	mu       sync.Mutex
	entries  map[string]*localEntry
	recorder Recorder
}

type localEntry struct {
	ch   chan struct{} // буфер 1: занятость ключа
	refs int
}

// NewLocalLocker создает in-process блокировку
func NewLocalLocker(recorder Recorder) *LocalLocker {
	return &LocalLocker{
		entries:  make(map[string]*localEntry),
		recorder: recorder,
	}
}

// WithDoctorDayLock выполняет fn, удерживая блокировку (врач, дата).
// Ожидание прерывается отменой контекста.
func (l *LocalLocker) WithDoctorDayLock(ctx context.Context, doctorID int64, date time.Time, fn func(ctx context.Context) error) error {
	key := Key(doctorID, date)
	entry := l.ref(key)
	defer l.unref(key)

	select {
	case entry.ch <- struct{}{}:
		l.recorder.RecordLock(resultAcquired)
	case <-ctx.Done():
		l.recorder.RecordLock(resultBusy)
		return ctx.Err()
	}
	defer func() { <-entry.ch }()

	return fn(ctx)
}

func (l *LocalLocker) ref(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	return entry
}

func (l *LocalLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.entries[key]
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}
