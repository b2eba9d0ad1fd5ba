package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ListAddressesHandler struct {
	pool *pgxpool.Pool
}

func NewListAddressesHandler(pool *pgxpool.Pool) *ListAddressesHandler {
	return &ListAddressesHandler{
		pool: pool,
	}
}

func (h *ListAddressesHandler) Handle(ctx context.Context, userID uuid.UUID) ([]Address, error) {
	rows, err := h.pool.Query(ctx, `
        SELECT id, user_id, email, verified, "primary", created_at
        FROM email_addresses
        WHERE user_id = $1
        ORDER BY created_at
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addrs := make([]Address, 0)
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Email, &a.Verified, &a.Primary, &a.CreatedAt); err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return addrs, nil
}
