// Package matches stores the candidate addresses of a memory scan together
// with the last byte observed at each of them.
//
// Candidates are kept in swaths: a header holding the remote address of the
// first byte and the number of bytes covered, followed by one entry per byte.
// Swaths are packed back to back in a single buffer that grows by doubling up
// to a maximum declared by the caller, and the last swath is followed by a
// zero header (the sentinel). Addresses that were skipped inside a swath are
// held by placeholder entries whose flags are empty.
//
// Swath and Location values are byte offsets into the buffer, so they survive
// growth. They do not survive Finalize on an earlier swath, Rewrite or
// DeleteInAddressRange, which rewrite the layout.
//
// A Store is not safe for concurrent use.
package matches
