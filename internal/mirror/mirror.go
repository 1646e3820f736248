// Package mirror duplicates application records into an external,
// non-authoritative system of record. Mirroring is strictly best-effort:
// it runs after the primary write has committed and its failures are
// logged, never propagated.
package mirror

import "context"

// Fields is the record payload sent to the external store.
type Fields map[string]interface{}

// Mirror is the external record store. Both operations may fail at any
// time; callers must treat failures as non-fatal.
type Mirror interface {
	// CreateRecord creates a record and returns its external ID.
	CreateRecord(ctx context.Context, fields Fields) (string, error)
	// UpdateRecord patches the record with the given external ID.
	UpdateRecord(ctx context.Context, recordID string, fields Fields) error
}
