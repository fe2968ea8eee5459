package memory

import (
	"context"
	"sync"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// documentRepository keeps ingested documents per user scope
type documentRepository struct {
	mu     sync.RWMutex
	byUser map[string][]entity.Document
}

// NewDocumentRepository creates a new DocumentRepository instance.
func NewDocumentRepository() domain.DocumentRepository {
	return &documentRepository{
		byUser: make(map[string][]entity.Document),
	}
}

func (r *documentRepository) Add(ctx context.Context, doc *entity.Document) error {
	if doc.UserID == "" {
		return domain.NewInvalidInputError("document owner is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[doc.UserID] = append(r.byUser[doc.UserID], *doc)
	return nil
}

func (r *documentRepository) List(ctx context.Context, userID string) ([]entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.Document(nil), r.byUser[userID]...), nil
}

func (r *documentRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.byUser[userID])
	delete(r.byUser, userID)
	return n, nil
}

func (r *documentRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, docs := range r.byUser {
		n += len(docs)
	}
	return n, nil
}
