package address

import (
	"encoding/json"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/google/uuid"

	"gitlab.com/verimail/verimail-backend/internal/domain/event"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
	"gitlab.com/verimail/verimail-backend/pkg/validationx"
)

const MaxEmailLength = 255

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id).String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	uid, err := uuid.Parse(s)
	if err != nil {
		return err
	}

	*id = ID(uid)
	return nil
}

// Address is an email address attached to a user. A user may hold any number
// of addresses, at most one of them primary, and only verified addresses are
// eligible for promotion.
type Address struct {
	event.Recorder
	id        ID
	userID    uuid.UUID
	email     string
	verified  bool
	primary   bool
	createdAt time.Time
	updatedAt time.Time
}

func NewAddress(userID uuid.UUID, email string) (*Address, error) {
	const op = "address.NewAddress"
	err := validation.Errors{
		"user_id": validationx.Required.Validate(userID),
		"email":   validation.Validate(email, validationx.EmailRules...),
	}.Filter()
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	now := time.Now().UTC()
	addr := &Address{
		id:        NewID(),
		userID:    userID,
		email:     email,
		verified:  false,
		primary:   false,
		createdAt: now,
		updatedAt: now,
	}

	addr.AddEvent(&AddressAdded{
		Header:    event.NewEventHeader(),
		AddressID: addr.id,
		UserID:    userID,
		Email:     email,
	})

	return addr, nil
}

type RehydrateArgs struct {
	ID        ID
	UserID    uuid.UUID
	Email     string
	Verified  bool
	Primary   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func Rehydrate(args RehydrateArgs) *Address {
	return &Address{
		id:        args.ID,
		userID:    args.UserID,
		email:     args.Email,
		verified:  args.Verified,
		primary:   args.Primary,
		createdAt: args.CreatedAt,
		updatedAt: args.UpdatedAt,
	}
}

// MarkVerified flips the address to verified. Confirming an already verified
// address is a no-op so repeated clicks on the same link stay harmless.
func (a *Address) MarkVerified() error {
	const op = "address.Address.MarkVerified"
	if a == nil {
		return errorx.Wrap(ErrNotFound, op)
	}
	if a.verified {
		return nil
	}

	a.verified = true
	a.updatedAt = time.Now().UTC()
	a.AddEvent(&EmailConfirmed{
		Header:    event.NewEventHeader(),
		AddressID: a.id,
		UserID:    a.userID,
		Email:     a.email,
	})

	return nil
}

// CheckPromotable reports whether the address may become the user's primary.
func (a *Address) CheckPromotable() error {
	const op = "address.Address.CheckPromotable"
	if a == nil {
		return errorx.Wrap(ErrNotFound, op)
	}
	if !a.verified {
		return errorx.Wrap(ErrNotVerified, op)
	}

	return nil
}

// SetPrimary marks the address primary after a successful promotion. The
// repository is responsible for demoting the previous primary in the same
// transaction.
func (a *Address) SetPrimary() error {
	const op = "address.Address.SetPrimary"
	if err := a.CheckPromotable(); err != nil {
		return errorx.Wrap(err, op)
	}
	if a.primary {
		return nil
	}

	a.primary = true
	a.updatedAt = time.Now().UTC()
	a.AddEvent(&PrimaryChanged{
		Header:    event.NewEventHeader(),
		AddressID: a.id,
		UserID:    a.userID,
		Email:     a.email,
	})

	return nil
}

func (a *Address) ClearPrimary() {
	if a == nil || !a.primary {
		return
	}

	a.primary = false
	a.updatedAt = time.Now().UTC()
}

func (a *Address) ID() ID {
	if a == nil {
		return ID{}
	}

	return a.id
}

func (a *Address) UserID() uuid.UUID {
	if a == nil {
		return uuid.Nil
	}

	return a.userID
}

func (a *Address) Email() string {
	if a == nil {
		return ""
	}

	return a.email
}

func (a *Address) IsVerified() bool {
	if a == nil {
		return false
	}

	return a.verified
}

func (a *Address) IsPrimary() bool {
	if a == nil {
		return false
	}

	return a.primary
}

func (a *Address) CreatedAt() time.Time {
	if a == nil {
		return time.Time{}
	}

	return a.createdAt
}

func (a *Address) UpdatedAt() time.Time {
	if a == nil {
		return time.Time{}
	}

	return a.updatedAt
}
