// Package syncer bridges the board store to local durable storage and to an
// optional remote per-user document, applying an epoch/flag-based
// last-writer-wins plus echo-suppression protocol.
//
// This is not a CRDT and not operational transform: the whole snapshot is
// the unit of replication, and the last write accepted by either lane fully
// replaces prior state. That is an explicit, accepted simplification for a
// single-user multi-device setup.
package syncer

import "context"

// KV is the opaque synchronous string key-value store used for the local
// persistence lane. The SQLite store satisfies it; tests use an in-memory
// fake.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Auth is the anonymous-identity collaborator. No credentials, no
// user-visible login: Identity creates an identity on first use and returns
// the same one afterwards.
type Auth interface {
	Identity(ctx context.Context) (string, error)
}

// DocumentStore is the remote document database collaborator: one document
// per identity with realtime change notification, plus an
// independently-addressable shared-board collection.
type DocumentStore interface {
	// Subscribe opens a live subscription to the document with the given
	// ID. onChange fires for every emission, including ones caused by this
	// client's own writes - hence the reconciler's echo suppression.
	// The returned cancel releases the subscription.
	Subscribe(ctx context.Context, docID string, onChange func(payload []byte)) (cancel func(), err error)

	// Write replaces the document as a merge-write; the backend tags it
	// with a server-assigned timestamp.
	Write(ctx context.Context, docID string, payload []byte) error

	// CreateShared stores a shared-board document and returns its
	// generated ID.
	CreateShared(ctx context.Context, payload []byte) (string, error)

	// FetchShared reads a shared-board document by ID.
	// The second return is false when no such document exists.
	FetchShared(ctx context.Context, id string) ([]byte, bool, error)
}

// Status is the user-visible sync indicator. Transitions are non-blocking
// hints only; no failure mode here halts the application.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusError   Status = "error"
)
