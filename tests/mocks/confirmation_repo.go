package mocks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
)

type ConfirmationRepo struct {
	*EventRepo
	dbbyID  map[confirmation.ID]*confirmation.Confirmation
	dbbyKey map[string]*confirmation.Confirmation
	mu      sync.Mutex
}

func NewConfirmationRepo() *ConfirmationRepo {
	return &ConfirmationRepo{
		EventRepo: NewEventRepo(),
		dbbyID:    make(map[confirmation.ID]*confirmation.Confirmation),
		dbbyKey:   make(map[string]*confirmation.Confirmation),
	}
}

func (r *ConfirmationRepo) SaveConfirmation(ctx context.Context, c *confirmation.Confirmation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c == nil {
		return errors.New("confirmation cannot be nil")
	}

	r.dbbyID[c.ID()] = c
	r.dbbyKey[c.Key()] = c

	r.appendEvents(c.GetUncommittedEvents()...)
	c.MarkEventsAsCommitted()

	return nil
}

func (r *ConfirmationRepo) GetConfirmationByKey(ctx context.Context, key string) (*confirmation.Confirmation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, exists := r.dbbyKey[key]; exists {
		return c, nil
	}
	return nil, confirmation.ErrKeyNotFound
}

func (r *ConfirmationRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, c := range r.dbbyID {
		if !c.CreatedAt().After(cutoff) {
			delete(r.dbbyID, id)
			delete(r.dbbyKey, c.Key())
			deleted++
		}
	}

	return deleted, nil
}

func (r *ConfirmationRepo) SeedConfirmation(t *testing.T, c *confirmation.Confirmation) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyID[c.ID()]; exists {
		t.Fatalf("confirmation with ID %s already exists", c.ID())
	}

	r.dbbyID[c.ID()] = c
	r.dbbyKey[c.Key()] = c
	c.MarkEventsAsCommitted()
}

func (r *ConfirmationRepo) AssertConfirmationExistsByKey(t *testing.T, key string) *ConfirmationRepo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyKey[key]; !exists {
		t.Errorf("expected confirmation with key %s to exist, but it does not", key)
	}
	return r
}

func (r *ConfirmationRepo) AssertConfirmationNotExistsByKey(t *testing.T, key string) *ConfirmationRepo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyKey[key]; exists {
		t.Errorf("expected confirmation with key %s to not exist, but it does", key)
	}
	return r
}

func (r *ConfirmationRepo) ConfirmationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.dbbyID)
}
