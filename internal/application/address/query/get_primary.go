package query

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/verimail/verimail-backend/pkg/errorx"
)

type Address struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	Primary   bool      `json:"primary"`
	CreatedAt time.Time `json:"created_at"`
}

type GetPrimaryHandler struct {
	pool *pgxpool.Pool
}

func NewGetPrimaryHandler(pool *pgxpool.Pool) *GetPrimaryHandler {
	return &GetPrimaryHandler{
		pool: pool,
	}
}

func (h *GetPrimaryHandler) Handle(ctx context.Context, userID uuid.UUID) (*Address, error) {
	var a Address
	err := h.pool.QueryRow(ctx, `
        SELECT id, user_id, email, verified, "primary", created_at
        FROM email_addresses
        WHERE user_id = $1 AND "primary"
    `, userID).Scan(&a.ID, &a.UserID, &a.Email, &a.Verified, &a.Primary, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewResourceNotFound("primary email address").WithCause(err)
		}
		return nil, err
	}
	return &a, nil
}
