// Package ulid wraps github.com/oklog/ulid/v2 with prefixed identifiers.
//
// ULIDs sort lexicographically by creation time, which keeps history entries
// and request logs in chronological order without a separate timestamp index.
package ulid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Common prefixes for different parts of the application
const (
	// Prefix for request IDs
	PrefixRequest = "req"

	// Prefix for history entries
	PrefixHistory = "hist"

	// PrefixSeparator is used to separate the prefix from the ULID
	PrefixSeparator = "-"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// ULID wraps ulid.ULID with an optional prefix.
type ULID struct {
	ulid.ULID
	prefix string
}

// GenerateWithPrefix creates a new ULID with the current timestamp and a prefix.
func GenerateWithPrefix(prefix string) ULID {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyLock.Unlock()
	return ULID{id, prefix}
}

// String returns "prefix-ulid", or the bare ULID when no prefix is set.
func (u ULID) String() string {
	if u.prefix != "" {
		return u.prefix + PrefixSeparator + u.ULID.String()
	}
	return u.ULID.String()
}

// RequestID generates a new ULID with the request prefix
func RequestID() string {
	return GenerateWithPrefix(PrefixRequest).String()
}

// HistoryID generates a new ULID with the history prefix
func HistoryID() string {
	return GenerateWithPrefix(PrefixHistory).String()
}
