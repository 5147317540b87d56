package utils

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the logger shared by all FVGrid packages. It discards
// everything until SetLogger installs a real one.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger installs l and returns the previous logger. A nil l restores
// the no-op logger.
func SetLogger(l *zap.Logger) (prev *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	return logger.Swap(l)
}
