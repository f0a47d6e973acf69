// Package kv persists whole collections as JSON documents keyed by
// collection name. The entity store flushes a full collection after every
// mutation, so backends only need Load/Save, not per-record operations.
package kv

import "context"

// ErrNotFound is returned by Load when no document exists for the collection.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "kv: collection document not found" }

// Store is a durable document store keyed by collection name.
type Store interface {
	// Load unmarshals the saved document for the collection into dest.
	// Returns ErrNotFound when no document has been saved yet.
	Load(ctx context.Context, collection string, dest interface{}) error
	// Save marshals value and replaces the collection document wholesale.
	Save(ctx context.Context, collection string, value interface{}) error
}
