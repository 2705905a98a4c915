package matches

import (
	"errors"
	"fmt"

	"scanmem/process"
)

const (
	// EntrySize is the size of one entry: old value, a reserved byte, flags (uint16 LE).
	EntrySize = 4

	// SwathHeaderSize is the size of a swath header: first remote address and
	// number of bytes covered, both uint64 LE.
	SwathHeaderSize = 16

	entryFlagsOffset = 2
	swathLenOffset   = 8
)

// ErrOutOfMemory is returned when the backing buffer cannot be (re)allocated.
// The store must not be used afterwards.
var ErrOutOfMemory = errors.New("matches: out of memory")

// Store is the array of swaths for one scan.
type Store struct {
	buf      []byte // len(buf) is the allocated capacity
	maxBytes int
	alloc    Allocator
	log      Logger
}

// New creates an empty store that will never grow past maxBytes. maxBytes
// must be an honest upper bound for everything that is going to be appended,
// see MaxBytesFor.
func New(maxBytes int, opts ...Option) (*Store, error) {
	if maxBytes < SwathHeaderSize {
		panic(fmt.Sprintf("matches: maximum of %d bytes cannot hold the sentinel swath", maxBytes))
	}

	s := &Store{
		maxBytes: maxBytes,
		alloc:    defaultAllocator,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = defaultLogger()
	}

	buf, err := s.alloc(SwathHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("%w: allocating %d bytes: %v", ErrOutOfMemory, SwathHeaderSize, err)
	}
	clear(buf)
	s.buf = buf

	return s, nil
}

// MaxBytesFor returns the most a store can need when every byte of regions
// with the given sizes is appended.
func MaxBytesFor(regionSizes ...uint64) int {
	total := uint64(SwathHeaderSize) // sentinel
	for _, size := range regionSizes {
		total += SwathHeaderSize + size*EntrySize
	}
	return int(total)
}

// Cap returns the number of bytes currently allocated.
func (s *Store) Cap() int {
	return len(s.buf)
}

// MaxBytes returns the declared upper bound.
func (s *Store) MaxBytes() int {
	return s.maxBytes
}

// Bytes exposes the raw layout. It is only valid until the next mutation.
func (s *Store) Bytes() []byte {
	return s.buf
}

// First returns the first swath, which is the sentinel for an empty store.
func (s *Store) First() Swath {
	return Swath{store: s, off: 0}
}

// growToFit makes sure at least need bytes are allocated, doubling the
// capacity until it does and clamping to maxBytes.
func (s *Store) growToFit(need int) error {
	if need <= len(s.buf) {
		return nil
	}

	size := max(len(s.buf), SwathHeaderSize)
	for size < need {
		size *= 2
	}

	// sometimes we know an absolute max that we will need
	if s.maxBytes < size {
		if s.maxBytes < need {
			panic(fmt.Sprintf("matches: %d bytes needed but the declared maximum is %d", need, s.maxBytes))
		}
		size = s.maxBytes
	}

	s.log.Debugln("matches: allocating", size, "bytes, max", s.maxBytes)

	return s.realloc(size)
}

func (s *Store) realloc(size int) error {
	buf, err := s.alloc(size)
	if err != nil {
		return fmt.Errorf("%w: allocating %d bytes: %v", ErrOutOfMemory, size, err)
	}

	copy(buf, s.buf)
	s.buf = buf
	return nil
}

// Finalize writes the sentinel after last and shrinks the buffer to the bytes
// in use. last is the swath returned by the final Append, or the sentinel of
// a store nothing was appended to. Calling it again with the same swath
// changes nothing.
func (s *Store) Finalize(last Swath) error {
	sentinel := last

	if last.Len() == 0 {
		if last.FirstByte() != 0 {
			panic(fmt.Sprintf("matches: empty swath at offset %d has address %s", last.off, last.FirstByte().ToString()))
		}
	} else {
		sentinel = last.Next()
		if err := s.growToFit(sentinel.off + SwathHeaderSize); err != nil {
			return err
		}
		clear(s.buf[sentinel.off : sentinel.off+SwathHeaderSize])
	}

	used := sentinel.off + SwathHeaderSize
	if used < len(s.buf) {
		return s.realloc(used)
	}

	return nil
}

// RemoteAddressRange returns the first covered address and the first address past the last swath.
// ok is false for an empty store.
func (s *Store) RemoteAddressRange() (start, end process.ProcessMemoryAddress, ok bool) {
	first := s.First()
	if first.IsSentinel() {
		return 0, 0, false
	}

	last := first
	for w := first; !w.IsSentinel(); w = w.Next() {
		last = w
	}

	return first.FirstByte(), last.LastAddress() + 1, true
}
