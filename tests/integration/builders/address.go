package builders

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
)

type AddressBuilder struct {
	id        address.ID
	userID    uuid.UUID
	email     string
	verified  bool
	primary   bool
	createdAt time.Time
	updatedAt time.Time
}

func NewAddressBuilder() *AddressBuilder {
	now := time.Now().UTC()

	return &AddressBuilder{
		id:        address.NewID(),
		userID:    uuid.New(),
		email:     "test@example.com",
		verified:  false,
		primary:   false,
		createdAt: now,
		updatedAt: now,
	}
}

func (b *AddressBuilder) WithID(id address.ID) *AddressBuilder {
	b.id = id
	return b
}

func (b *AddressBuilder) WithUserID(userID uuid.UUID) *AddressBuilder {
	b.userID = userID
	return b
}

func (b *AddressBuilder) WithEmail(email string) *AddressBuilder {
	b.email = email
	return b
}

func (b *AddressBuilder) Verified() *AddressBuilder {
	b.verified = true
	return b
}

func (b *AddressBuilder) Primary() *AddressBuilder {
	b.verified = true
	b.primary = true
	return b
}

func (b *AddressBuilder) Build() *address.Address {
	return address.Rehydrate(address.RehydrateArgs{
		ID:        b.id,
		UserID:    b.userID,
		Email:     b.email,
		Verified:  b.verified,
		Primary:   b.primary,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	})
}
