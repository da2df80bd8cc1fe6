// Package cache keeps fetched reference-data sources on disk for a limited
// time so repeated invocations do not refetch the same CSV over the network.
//
// Entries are JSON files named after the SHA-256 of the source location.
// Writes go through a temp file and rename so a crash never leaves a
// half-written entry behind.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Entry is one cached source body.
type Entry struct {
	// Source is the location the body was fetched from.
	Source string `json:"source"`

	// Body is the raw fetched content.
	Body []byte `json:"body"`

	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newEntry(source string, body []byte, ttl time.Duration, now time.Time) *Entry {
	return &Entry{
		Source:    source,
		Body:      body,
		FetchedAt: now.UTC(),
		ExpiresAt: now.Add(ttl).UTC(),
	}
}

// Expired reports whether the entry is past its expiry at now.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Age returns how long ago the entry was fetched.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Key returns the cache key for a source location.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
