package memory

import (
	"context"
	"sync"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// threadRepository is the in-memory implementation of ThreadRepository.
// Threads live as long as the process, like the simulator's checkpoints.
type threadRepository struct {
	mu      sync.RWMutex
	threads map[string]*entity.Thread
}

// NewThreadRepository creates a new ThreadRepository instance.
//
// Returns:
//   - domain.ThreadRepository: Repository interface implementation
func NewThreadRepository() domain.ThreadRepository {
	return &threadRepository{
		threads: make(map[string]*entity.Thread),
	}
}

// Create stores a new thread.
//
// Returns:
//   - error: conflict if a thread with the same id exists
func (r *threadRepository) Create(ctx context.Context, thread *entity.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.threads[thread.ID]; ok {
		return domain.NewConflictError("thread " + thread.ID + " already exists")
	}
	r.threads[thread.ID] = copyThread(thread)
	return nil
}

// Get returns a copy of the thread.
//
// Returns:
//   - *entity.Thread: thread snapshot
//   - error: not found if id is unknown
func (r *threadRepository) Get(ctx context.Context, id string) (*entity.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.threads[id]
	if !ok {
		return nil, domain.NewNotFoundError("thread", id)
	}
	return copyThread(t), nil
}

// Update applies fn to a working copy and commits it only if fn succeeds.
func (r *threadRepository) Update(ctx context.Context, id string, fn func(*entity.Thread) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.threads[id]
	if !ok {
		return domain.NewNotFoundError("thread", id)
	}

	working := copyThread(t)
	if err := fn(working); err != nil {
		return err
	}
	r.threads[id] = working
	return nil
}

// DeleteByUser drops every thread owned by userID.
func (r *threadRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, t := range r.threads {
		if t.UserID == userID {
			delete(r.threads, id)
			n++
		}
	}
	return n, nil
}

func copyThread(t *entity.Thread) *entity.Thread {
	out := *t
	out.History = append([]entity.HistoryEntry(nil), t.History...)
	return &out
}
