package scan

import (
	"github.com/Moonlight-Companies/gologger/logger"

	"scanmem/process/memory_map"
)

// Option configures a Session
type Option func(*Session)

func WithLogger(log *logger.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// WithRegionFilter selects the regions the first pass reads. The default is
// every readable and writable region.
func WithRegionFilter(filter func(memory_map.MemoryMapItem) bool) Option {
	return func(s *Session) {
		s.filter = filter
	}
}

func defaultRegionFilter(item memory_map.MemoryMapItem) bool {
	return item.IsReadable() && item.IsWritable()
}
