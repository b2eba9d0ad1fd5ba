package builders

import (
	"time"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
	"gitlab.com/verimail/verimail-backend/pkg/confirmkey"
)

type ConfirmationBuilder struct {
	id        confirmation.ID
	addressID address.ID
	key       string
	createdAt time.Time
}

func NewConfirmationBuilder() *ConfirmationBuilder {
	key, _ := confirmkey.Generate("test@example.com")

	return &ConfirmationBuilder{
		id:        confirmation.NewID(),
		addressID: address.NewID(),
		key:       key,
		createdAt: time.Now().UTC(),
	}
}

func (b *ConfirmationBuilder) WithID(id confirmation.ID) *ConfirmationBuilder {
	b.id = id
	return b
}

func (b *ConfirmationBuilder) WithAddressID(id address.ID) *ConfirmationBuilder {
	b.addressID = id
	return b
}

func (b *ConfirmationBuilder) ForAddress(addr *address.Address) *ConfirmationBuilder {
	b.addressID = addr.ID()
	return b
}

func (b *ConfirmationBuilder) WithKey(key string) *ConfirmationBuilder {
	b.key = key
	return b
}

func (b *ConfirmationBuilder) WithCreatedAt(t time.Time) *ConfirmationBuilder {
	b.createdAt = t
	return b
}

func (b *ConfirmationBuilder) Expired(window time.Duration) *ConfirmationBuilder {
	b.createdAt = time.Now().UTC().Add(-window - time.Minute)
	return b
}

func (b *ConfirmationBuilder) Build() *confirmation.Confirmation {
	return confirmation.Rehydrate(confirmation.RehydrateArgs{
		ID:        b.id,
		AddressID: b.addressID,
		Key:       b.key,
		CreatedAt: b.createdAt,
	})
}
