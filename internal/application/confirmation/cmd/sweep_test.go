package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/verimail/verimail-backend/tests/integration/builders"
	"gitlab.com/verimail/verimail-backend/tests/mocks"
)

func TestSweepExpiredHandler(t *testing.T) {
	t.Parallel()

	window := time.Hour

	t.Run("deletes only expired confirmations", func(t *testing.T) {
		mockRepo := mocks.NewConfirmationRepo()
		handler := NewSweepExpiredHandler(SweepExpiredHandlerArgs{
			Repo:   mockRepo,
			Window: window,
		})

		expired := builders.NewConfirmationBuilder().Expired(window).Build()
		fresh := builders.NewConfirmationBuilder().Build()
		mockRepo.SeedConfirmation(t, expired)
		mockRepo.SeedConfirmation(t, fresh)

		deleted, err := handler.Handle(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		mockRepo.AssertConfirmationNotExistsByKey(t, expired.Key())
		mockRepo.AssertConfirmationExistsByKey(t, fresh.Key())
	})

	t.Run("key exactly at the cutoff is swept", func(t *testing.T) {
		mockRepo := mocks.NewConfirmationRepo()

		c := builders.NewConfirmationBuilder().Build()
		mockRepo.SeedConfirmation(t, c)

		deleted, err := mockRepo.DeleteExpired(t.Context(), c.CreatedAt())
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
		mockRepo.AssertConfirmationNotExistsByKey(t, c.Key())
	})

	t.Run("nothing to sweep", func(t *testing.T) {
		mockRepo := mocks.NewConfirmationRepo()
		handler := NewSweepExpiredHandler(SweepExpiredHandlerArgs{
			Repo:   mockRepo,
			Window: window,
		})

		fresh := builders.NewConfirmationBuilder().Build()
		mockRepo.SeedConfirmation(t, fresh)

		deleted, err := handler.Handle(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)
		assert.Equal(t, 1, mockRepo.ConfirmationCount())
	})
}
