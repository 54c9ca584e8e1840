// Package kv provides the durable key-value backends tigre persists its documents in.
// Every Put replaces the whole value for a key; there are no partial writes.
package kv

import "context"

// Backend stores opaque documents by key.
type Backend interface {
	// Get returns the stored value. ok is false when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put fully overwrites the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases any underlying resources.
	Close() error
}
