package domain

import (
	"context"

	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// ThreadRepository stores backend threads
type ThreadRepository interface {
	// Create stores a new thread; ErrConflict if the id exists
	Create(ctx context.Context, thread *entity.Thread) error

	// Get returns a copy of the thread or ErrNotFound
	Get(ctx context.Context, id string) (*entity.Thread, error)

	// Update applies fn to the stored thread atomically. An error from fn aborts the update.
	Update(ctx context.Context, id string, fn func(*entity.Thread) error) error

	// DeleteByUser drops every thread owned by userID and returns how many were removed
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// DocumentRepository stores ingested documents per user scope
type DocumentRepository interface {
	Add(ctx context.Context, doc *entity.Document) error
	List(ctx context.Context, userID string) ([]entity.Document, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)
	Count(ctx context.Context) (int, error)
}
