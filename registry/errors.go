package registry

import "errors"

// Sentinel errors returned by store operations. Returned errors wrap exactly
// one of them, use errors.Is to classify.
var (
	// ErrInvalidArgument is returned for malformed input: empty ids, unsupported
	// search keys, invalid records.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned by point lookups and unregister when no record matches.
	ErrNotFound = errors.New("handler not found")

	// ErrIO is returned on any unexpected short read or write, failed seek or
	// failed lock, and on corrupt records.
	ErrIO = errors.New("registry i/o error")

	// ErrOutOfMemory is returned when a record or field is larger than the
	// store is allowed to buffer.
	ErrOutOfMemory = errors.New("record exceeds buffer limit")

	// ErrNotImplemented is returned for capabilities this store does not provide.
	ErrNotImplemented = errors.New("not implemented")
)
