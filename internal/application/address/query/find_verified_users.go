package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VerifiedUser struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

type FindVerifiedUsersHandler struct {
	pool *pgxpool.Pool
}

func NewFindVerifiedUsersHandler(pool *pgxpool.Pool) *FindVerifiedUsersHandler {
	return &FindVerifiedUsersHandler{
		pool: pool,
	}
}

// Handle returns every user who has verified the given address. An empty
// slice is a valid answer, not an error.
func (h *FindVerifiedUsersHandler) Handle(ctx context.Context, email string) ([]VerifiedUser, error) {
	rows, err := h.pool.Query(ctx, `
        SELECT u.id, u.username
        FROM users u
        JOIN email_addresses a ON a.user_id = u.id
        WHERE a.email = $1 AND a.verified
        ORDER BY u.username
    `, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]VerifiedUser, 0)
	for rows.Next() {
		var u VerifiedUser
		if err := rows.Scan(&u.UserID, &u.Username); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
