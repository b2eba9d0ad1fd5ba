package cmd

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
	"gitlab.com/verimail/verimail-backend/tests/integration/builders"
	"gitlab.com/verimail/verimail-backend/tests/mocks"
)

type PromoteSuite struct {
	Handler  *PromoteToPrimaryHandler
	MockRepo *mocks.AddressRepo
}

func NewPromoteSuite(t *testing.T) *PromoteSuite {
	t.Helper()

	mockRepo := mocks.NewAddressRepo()

	handler := NewPromoteToPrimaryHandler(PromoteToPrimaryHandlerArgs{
		Repo: mockRepo,
	})

	return &PromoteSuite{
		Handler:  handler,
		MockRepo: mockRepo,
	}
}

func TestPromoteToPrimaryHandler_HappyPath(t *testing.T) {
	t.Parallel()

	t.Run("first primary for the user", func(t *testing.T) {
		s := NewPromoteSuite(t)
		userID := uuid.New()
		addr := builders.NewAddressBuilder().
			WithUserID(userID).
			WithEmail("verified@example.com").
			Verified().
			Build()
		s.MockRepo.SeedAddress(t, addr)

		err := s.Handler.Handle(t.Context(), PromoteToPrimary{UserID: userID, Email: addr.Email()})
		require.NoError(t, err)

		s.MockRepo.AssertAddressExists(t, userID, addr.Email()).
			AssertVerified(t, true).
			AssertPrimary(t, true)

		e := mocks.RequireEventExists(t, s.MockRepo.EventRepo, &address.PrimaryChanged{})
		assert.Equal(t, addr.ID(), e.AddressID)
		assert.Equal(t, userID, e.UserID)
		assert.Equal(t, addr.Email(), e.Email)
	})

	t.Run("previous primary gets demoted", func(t *testing.T) {
		s := NewPromoteSuite(t)
		userID := uuid.New()
		oldPrimary := builders.NewAddressBuilder().
			WithUserID(userID).
			WithEmail("old@example.com").
			Primary().
			Build()
		newPrimary := builders.NewAddressBuilder().
			WithUserID(userID).
			WithEmail("new@example.com").
			Verified().
			Build()
		s.MockRepo.SeedAddress(t, oldPrimary)
		s.MockRepo.SeedAddress(t, newPrimary)

		err := s.Handler.Handle(t.Context(), PromoteToPrimary{UserID: userID, Email: "new@example.com"})
		require.NoError(t, err)

		s.MockRepo.AssertAddressExists(t, userID, "new@example.com").
			AssertPrimary(t, true)
		s.MockRepo.AssertAddressExists(t, userID, "old@example.com").
			AssertPrimary(t, false)
	})

	t.Run("promoting the current primary is a no-op", func(t *testing.T) {
		s := NewPromoteSuite(t)
		userID := uuid.New()
		addr := builders.NewAddressBuilder().
			WithUserID(userID).
			WithEmail("already@example.com").
			Primary().
			Build()
		s.MockRepo.SeedAddress(t, addr)

		err := s.Handler.Handle(t.Context(), PromoteToPrimary{UserID: userID, Email: addr.Email()})
		require.NoError(t, err)

		s.MockRepo.AssertAddressExists(t, userID, addr.Email()).
			AssertPrimary(t, true)
		s.MockRepo.AssertEventNotExists(t, &address.PrimaryChanged{})
	})

	t.Run("another user's primary is untouched", func(t *testing.T) {
		s := NewPromoteSuite(t)
		userID := uuid.New()
		otherUserID := uuid.New()
		otherPrimary := builders.NewAddressBuilder().
			WithUserID(otherUserID).
			WithEmail("other@example.com").
			Primary().
			Build()
		addr := builders.NewAddressBuilder().
			WithUserID(userID).
			WithEmail("mine@example.com").
			Verified().
			Build()
		s.MockRepo.SeedAddress(t, otherPrimary)
		s.MockRepo.SeedAddress(t, addr)

		err := s.Handler.Handle(t.Context(), PromoteToPrimary{UserID: userID, Email: "mine@example.com"})
		require.NoError(t, err)

		s.MockRepo.AssertAddressExists(t, otherUserID, "other@example.com").
			AssertPrimary(t, true)
	})
}

func TestPromoteToPrimaryHandler_ErrorCases(t *testing.T) {
	t.Parallel()

	t.Run("address not found", func(t *testing.T) {
		s := NewPromoteSuite(t)

		err := s.Handler.Handle(t.Context(), PromoteToPrimary{UserID: uuid.New(), Email: "ghost@example.com"})
		require.Error(t, err)
		assert.True(t, errorx.IsNotFound(err), "expected NotFound error, got: %v", err)
	})

	t.Run("unverified address", func(t *testing.T) {
		s := NewPromoteSuite(t)
		userID := uuid.New()
		addr := builders.NewAddressBuilder().
			WithUserID(userID).
			WithEmail("unverified@example.com").
			Build()
		s.MockRepo.SeedAddress(t, addr)

		err := s.Handler.Handle(t.Context(), PromoteToPrimary{UserID: userID, Email: addr.Email()})
		require.Error(t, err)
		assert.True(t, errorx.IsBusinessRuleViolation(err), "expected BusinessRuleViolation error, got: %v", err)

		s.MockRepo.AssertAddressExists(t, userID, addr.Email()).
			AssertPrimary(t, false)
	})
}
