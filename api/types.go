package api

import (
	"context"

	"taskbook-api/domain"
)

// Resource is the set of operations exposed for one entity. In is the body
// decoded for create and update requests.
type Resource[In any] interface {
	List(ctx context.Context) (domain.Envelope, error)
	Get(ctx context.Context, id int64) (domain.Envelope, error)
	Search(ctx context.Context, name string) (domain.Envelope, error)
	Create(ctx context.Context, in In) (domain.Envelope, error)
	Update(ctx context.Context, id int64, in In) (domain.Envelope, error)
	Delete(ctx context.Context, id int64) (domain.Envelope, error)
}

// StatusReporter builds the status payload.
type StatusReporter interface {
	Status(ctx context.Context) (domain.Envelope, error)
}

// Pinger checks the database connection for health probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deduper prevents processing of duplicate create requests.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(ctx context.Context, scope, key string) (bool, error)
	// Remove deletes a previously added key, used when the create fails.
	Remove(ctx context.Context, scope, key string) error
}

// Services groups the dependencies of the HTTP layer.
type Services struct {
	Tasks   Resource[domain.TaskInput]
	Notes   Resource[domain.NoteInput]
	Status  StatusReporter
	Health  Pinger
	Deduper Deduper
}
