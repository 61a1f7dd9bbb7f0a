package sixlink

import "errors"

var (
	// ErrNotFound covers unknown codes, malformed codes, corrupted records,
	// and deletion-token mismatches. The cases are deliberately collapsed so
	// callers cannot probe which codes exist.
	ErrNotFound = errors.New("sixlink: link not found")

	// ErrExpired marks a link that existed but is past its expiry.
	ErrExpired = errors.New("sixlink: link expired")

	// ErrInvalidURL rejects a Shorten target that is not an absolute
	// http(s) URL with a plausible host.
	ErrInvalidURL = errors.New("sixlink: invalid URL")

	// ErrWriteRejected reports a store that refused the record under
	// pressure; the link was NOT created.
	ErrWriteRejected = errors.New("sixlink: store rejected write")
)
