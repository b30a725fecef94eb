package lock

import "errors"

const (
	resultAcquired = "acquired"
	resultBusy     = "busy"
	resultError    = "error"
)

var (
	// ErrLockNotAcquired блокировка дня врача занята дольше допустимого ожидания
	ErrLockNotAcquired = errors.New("lock: doctor day lock not acquired")

	// ErrLockUnavailable хранилище блокировок недоступно
	ErrLockUnavailable = errors.New("lock: lock backend unavailable")
)

// Recorder учет попыток захвата блокировки (реализуется pkg/metrics)
type Recorder interface {
	RecordLock(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
