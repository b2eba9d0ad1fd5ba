package postgres

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
)

type AddressDTO struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Email     string
	Verified  bool
	Primary   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func DomainToAddressDTO(a *address.Address) AddressDTO {
	return AddressDTO{
		ID:        uuid.UUID(a.ID()),
		UserID:    a.UserID(),
		Email:     a.Email(),
		Verified:  a.IsVerified(),
		Primary:   a.IsPrimary(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
}

func AddressToDomain(dto AddressDTO) *address.Address {
	return address.Rehydrate(address.RehydrateArgs{
		ID:        address.ID(dto.ID),
		UserID:    dto.UserID,
		Email:     dto.Email,
		Verified:  dto.Verified,
		Primary:   dto.Primary,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	})
}

type ConfirmationDTO struct {
	ID        uuid.UUID
	AddressID uuid.UUID
	Key       string
	CreatedAt time.Time
}

func DomainToConfirmationDTO(c *confirmation.Confirmation) ConfirmationDTO {
	return ConfirmationDTO{
		ID:        uuid.UUID(c.ID()),
		AddressID: uuid.UUID(c.AddressID()),
		Key:       c.Key(),
		CreatedAt: c.CreatedAt(),
	}
}

func ConfirmationToDomain(dto ConfirmationDTO) *confirmation.Confirmation {
	return confirmation.Rehydrate(confirmation.RehydrateArgs{
		ID:        confirmation.ID(dto.ID),
		AddressID: address.ID(dto.AddressID),
		Key:       dto.Key,
		CreatedAt: dto.CreatedAt,
	})
}
