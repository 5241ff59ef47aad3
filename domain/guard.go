package domain

import (
	"context"
	"fmt"
)

// Lookup fetches one record by id. It returns nil, nil when no row matches.
type Lookup[T any] func(ctx context.Context, id int64) (*T, error)

// Guard fetches the record an id-scoped operation works on, or reports a
// NotFound error when it does not exist.
type Guard[T any] struct {
	lookup  Lookup[T]
	missing string
}

func NewGuard[T any](lookup Lookup[T], missing string) Guard[T] {
	return Guard[T]{lookup: lookup, missing: missing}
}

// CheckAndGet returns the record for id. Store failures are wrapped and
// returned as is; only an empty lookup becomes a NotFound error.
func (g Guard[T]) CheckAndGet(ctx context.Context, id int64) (T, error) {
	var zero T
	rec, err := g.lookup(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("lookup %d: %w", id, err)
	}
	if rec == nil {
		return zero, notFoundError(g.missing)
	}
	return *rec, nil
}
