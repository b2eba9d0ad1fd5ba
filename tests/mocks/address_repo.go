package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
)

type AddressRepo struct {
	*EventRepo
	dbbyID        map[address.ID]*address.Address
	dbbyUserEmail map[string]*address.Address
	mu            sync.Mutex
}

func NewAddressRepo() *AddressRepo {
	return &AddressRepo{
		EventRepo:     NewEventRepo(),
		dbbyID:        make(map[address.ID]*address.Address),
		dbbyUserEmail: make(map[string]*address.Address),
	}
}

func userEmailKey(userID uuid.UUID, email string) string {
	return userID.String() + "|" + email
}

func (r *AddressRepo) SaveAddress(ctx context.Context, addr *address.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if addr == nil {
		return errors.New("address cannot be nil")
	}

	if _, exists := r.dbbyID[addr.ID()]; exists {
		return address.ErrDuplicateEmail
	}
	if _, exists := r.dbbyUserEmail[userEmailKey(addr.UserID(), addr.Email())]; exists {
		return address.ErrDuplicateEmail
	}

	r.dbbyID[addr.ID()] = addr
	r.dbbyUserEmail[userEmailKey(addr.UserID(), addr.Email())] = addr

	r.appendEvents(addr.GetUncommittedEvents()...)
	addr.MarkEventsAsCommitted()

	return nil
}

func (r *AddressRepo) GetAddressByID(ctx context.Context, id address.ID) (*address.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if addr, exists := r.dbbyID[id]; exists {
		return addr, nil
	}
	return nil, address.ErrNotFound
}

func (r *AddressRepo) GetAddressByUserAndEmail(ctx context.Context, userID uuid.UUID, email string) (*address.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if addr, exists := r.dbbyUserEmail[userEmailKey(userID, email)]; exists {
		return addr, nil
	}
	return nil, address.ErrNotFound
}

func (r *AddressRepo) UpdateAddress(
	ctx context.Context,
	id address.ID,
	fn func(context.Context, *address.Address) error,
) error {
	if fn == nil {
		return errors.New("update function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	addr, exists := r.dbbyID[id]
	if !exists {
		return address.ErrNotFound
	}

	fnerr := fn(ctx, addr)
	if fnerr != nil && !errorx.IsPersistable(fnerr) {
		return fmt.Errorf("failed to apply update function: %w", fnerr)
	}

	r.dbbyID[id] = addr
	r.dbbyUserEmail[userEmailKey(addr.UserID(), addr.Email())] = addr

	r.appendEvents(addr.GetUncommittedEvents()...)
	addr.MarkEventsAsCommitted()

	if fnerr != nil && errorx.IsPersistable(fnerr) {
		return fmt.Errorf("failed to apply update function: %w", fnerr)
	}
	return nil
}

func (r *AddressRepo) SetAsPrimary(ctx context.Context, id address.ID, overwriteUsername bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	addr, exists := r.dbbyID[id]
	if !exists {
		return address.ErrNotFound
	}

	if err := addr.SetPrimary(); err != nil {
		return err
	}

	for _, other := range r.dbbyID {
		if other.ID() != id && other.UserID() == addr.UserID() {
			other.ClearPrimary()
		}
	}

	r.appendEvents(addr.GetUncommittedEvents()...)
	addr.MarkEventsAsCommitted()

	return nil
}

func (r *AddressRepo) SeedAddress(t *testing.T, addr *address.Address) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyID[addr.ID()]; exists {
		t.Fatalf("address with ID %s already exists", addr.ID())
	}
	if _, exists := r.dbbyUserEmail[userEmailKey(addr.UserID(), addr.Email())]; exists {
		t.Fatalf("address with email %s already exists for user %s", addr.Email(), addr.UserID())
	}

	r.dbbyID[addr.ID()] = addr
	r.dbbyUserEmail[userEmailKey(addr.UserID(), addr.Email())] = addr
	addr.MarkEventsAsCommitted()
}

func (r *AddressRepo) AssertAddressExistsByID(t *testing.T, id address.ID) *address.AddressAssertion {
	r.mu.Lock()
	defer r.mu.Unlock()

	addr, exists := r.dbbyID[id]
	if !exists {
		t.Errorf("expected address with ID %s to exist, but it does not", id)
		return nil
	}
	return address.NewAddressAssertion(addr)
}

func (r *AddressRepo) AssertAddressExists(t *testing.T, userID uuid.UUID, email string) *address.AddressAssertion {
	r.mu.Lock()
	defer r.mu.Unlock()

	addr, exists := r.dbbyUserEmail[userEmailKey(userID, email)]
	if !exists {
		t.Errorf("expected address with email %s for user %s to exist, but it does not", email, userID)
		return nil
	}
	return address.NewAddressAssertion(addr)
}

func (r *AddressRepo) AssertAddressNotExists(t *testing.T, userID uuid.UUID, email string) *AddressRepo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyUserEmail[userEmailKey(userID, email)]; exists {
		t.Errorf("expected address with email %s for user %s to not exist, but it does", email, userID)
		return r
	}
	return r
}
