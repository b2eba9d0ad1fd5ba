package query

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/verimail/verimail-backend/pkg/errorx"
)

// GetKeyHandler exposes the latest confirmation key for an address. It only
// serves test and local modes so end-to-end suites can confirm without a
// mailbox.
type GetKeyHandler struct {
	pool *pgxpool.Pool
}

func NewGetKeyHandler(pool *pgxpool.Pool) *GetKeyHandler {
	return &GetKeyHandler{
		pool: pool,
	}
}

func (h *GetKeyHandler) Handle(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	var key string
	err := h.pool.QueryRow(ctx, `
        SELECT c.key
        FROM email_confirmations c
        JOIN email_addresses a ON a.id = c.address_id
        WHERE a.user_id = $1 AND a.email = $2
        ORDER BY c.created_at DESC
        LIMIT 1
    `, userID, email).Scan(&key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errorx.NewNotFound().WithCause(err)
		}
		return "", err
	}
	return key, nil
}
