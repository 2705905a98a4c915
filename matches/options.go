package matches

import (
	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Logger receives growth events. It never influences the store.
type Logger interface {
	Debugln(args ...interface{})
}

// Allocator returns a buffer of exactly size bytes.
type Allocator func(size int) ([]byte, error)

// Option configures a Store
type Option func(*Store)

// WithLogger replaces the default "matches" logger.
func WithLogger(log Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithAllocator replaces the backing allocator, an allocator error fails the
// operation that needed the memory with ErrOutOfMemory.
func WithAllocator(alloc Allocator) Option {
	return func(s *Store) {
		s.alloc = alloc
	}
}

func defaultLogger() Logger {
	return logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "matches"))
}

func defaultAllocator(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrOutOfMemory
	}
	return make([]byte, size), nil
}
