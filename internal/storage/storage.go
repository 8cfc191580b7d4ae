// Package storage persists named flows.
package storage

import (
	"context"
	"time"
)

const (
	// ErrNotFound is returned when a flow cannot be found.
	ErrNotFound Error = "not found"
	// ErrInvalidName is returned when a flow name fails validation.
	ErrInvalidName Error = "flow name must be 3-64 characters, alphanumeric, dashes and underscores only"
	// ErrInvalidFlow is returned when a flow has no steps or a step does not
	// resolve to a converter.
	ErrInvalidFlow Error = "invalid flow"
)

// Error is an error type returned by the storage implementation.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// SavedFlow is a named, persisted sequence of step references.
type SavedFlow struct {
	ID         uint64    `json:"id,string"`
	Name       string    `json:"name"`
	Steps      []string  `json:"steps"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
}

// Flows are the methods on a storage implementation that are responsible for
// accessing and modifying saved flows.
type Flows interface {
	// ListFlows returns flows ordered by name, starting after the given name
	// (if provided) up to the given limit of records.
	ListFlows(ctx context.Context, afterName string, limit int32) ([]SavedFlow, error)
	// GetFlow returns the flow with the given name. An [ErrNotFound] is
	// returned if no such flow exists.
	GetFlow(ctx context.Context, name string) (SavedFlow, error)
	// UpsertFlow creates the flow or replaces the steps of the flow with the
	// same name, returning the stored flow. IDs and timestamps are assigned
	// by the store.
	UpsertFlow(ctx context.Context, flow SavedFlow) (SavedFlow, error)
	// DeleteFlow removes the named flow. An [ErrNotFound] is returned if no
	// such flow exists.
	DeleteFlow(ctx context.Context, name string) error
}

// Store is a [Flows] that holds resources until closed.
type Store interface {
	Flows
	// Close releases any resources held by the store. An error is returned if
	// the store cannot be cleanly closed.
	Close() error
}
