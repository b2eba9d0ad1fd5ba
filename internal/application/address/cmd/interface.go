package cmd

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
)

type Repo interface {
	SaveAddress(ctx context.Context, a *address.Address) error
	GetAddressByUserAndEmail(ctx context.Context, userID uuid.UUID, email string) (*address.Address, error)
	SetAsPrimary(ctx context.Context, id address.ID, overwriteUsername bool) error
}
