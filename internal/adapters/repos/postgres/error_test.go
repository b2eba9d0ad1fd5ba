package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
)

func TestTranslatePromoteError(t *testing.T) {
	t.Parallel()

	t.Run("unique violation becomes a business rule violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "email_addresses_one_primary_per_user",
		}

		err := translatePromoteError(fmt.Errorf("promote: %w", pgErr))
		assert.True(t, errorx.IsBusinessRuleViolation(err), "lost promotion race must not read as internal, got: %v", err)
		assert.ErrorIs(t, err, address.ErrPrimaryConflict)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		cause := errors.New("connection reset")

		err := translatePromoteError(cause)
		assert.Same(t, cause, err)
		assert.False(t, errorx.IsBusinessRuleViolation(err))
	})
}
