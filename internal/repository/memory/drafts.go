// Package memory keeps receipt drafts in process memory. It backs the
// receiving service when no MongoDB is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

// DraftRepository stores drafts keyed by id.
type DraftRepository struct {
	drafts map[string]models.Draft
	mu     sync.RWMutex
}

// NewDraftRepository creates an empty repository.
func NewDraftRepository() *DraftRepository {
	return &DraftRepository{
		drafts: make(map[string]models.Draft),
	}
}

// SaveDraft inserts or replaces a draft.
func (r *DraftRepository) SaveDraft(_ context.Context, draft models.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft.Payload = append([]byte(nil), draft.Payload...)
	r.drafts[draft.ID] = draft
	return nil
}

// LoadDraft returns the draft with the given id.
func (r *DraftRepository) LoadDraft(_ context.Context, id string) (models.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	draft, ok := r.drafts[id]
	if !ok {
		return models.Draft{}, models.ErrDraftNotFound
	}
	draft.Payload = append([]byte(nil), draft.Payload...)
	return draft, nil
}

// DeleteDraft removes a draft. Unknown ids are ignored.
func (r *DraftRepository) DeleteDraft(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

// PurgeDrafts removes drafts last updated before cutoff.
func (r *DraftRepository) PurgeDrafts(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, d := range r.drafts {
		if d.UpdatedAt.Before(cutoff) {
			delete(r.drafts, id)
			n++
		}
	}
	return n, nil
}
