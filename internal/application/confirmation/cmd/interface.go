package cmd

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
)

type Repo interface {
	SaveConfirmation(ctx context.Context, c *confirmation.Confirmation) error
	GetConfirmationByKey(ctx context.Context, key string) (*confirmation.Confirmation, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type AddressRepo interface {
	GetAddressByID(ctx context.Context, id address.ID) (*address.Address, error)
	GetAddressByUserAndEmail(ctx context.Context, userID uuid.UUID, email string) (*address.Address, error)
	UpdateAddress(ctx context.Context, id address.ID, fn func(context.Context, *address.Address) error) error
	SetAsPrimary(ctx context.Context, id address.ID, overwriteUsername bool) error
}
