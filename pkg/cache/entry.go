package cache

import (
	"time"
)

// Entry is a cached payload held by in-process backends, which need to
// track per-entry expiry themselves.
type Entry struct {
	// Data is the serialized response payload
	Data []byte

	// Expires is when the entry becomes stale
	Expires time.Time
}

// NewEntry copies data into an entry expiring ttl from now.
func NewEntry(data []byte, ttl time.Duration, now time.Time) Entry {
	return Entry{
		Data:    append([]byte(nil), data...),
		Expires: now.Add(ttl),
	}
}

// IsExpired returns true if the entry has expired at now.
func (e Entry) IsExpired(now time.Time) bool {
	return !now.Before(e.Expires)
}
