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

type AddEmailSuite struct {
	Handler  *AddEmailHandler
	MockRepo *mocks.AddressRepo
}

func NewAddEmailSuite(t *testing.T) *AddEmailSuite {
	t.Helper()

	mockRepo := mocks.NewAddressRepo()

	handler := NewAddEmailHandler(AddEmailHandlerArgs{
		Repo: mockRepo,
	})

	return &AddEmailSuite{
		Handler:  handler,
		MockRepo: mockRepo,
	}
}

func TestAddEmailHandler_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewAddEmailSuite(t)
	userID := uuid.New()
	email := "happypath@example.com"

	err := s.Handler.Handle(t.Context(), AddEmail{UserID: userID, Email: email})
	require.NoError(t, err)

	s.MockRepo.AssertAddressExists(t, userID, email).
		AssertEmail(t, email).
		AssertUserID(t, userID).
		AssertVerified(t, false).
		AssertPrimary(t, false)

	e := mocks.RequireEventExists(t, s.MockRepo.EventRepo, &address.AddressAdded{})
	assert.Equal(t, userID, e.UserID)
	assert.Equal(t, email, e.Email)
	assert.NotEqual(t, address.ID{}, e.AddressID)
}

func TestAddEmailHandler_SecondAddressStaysSecondary(t *testing.T) {
	t.Parallel()

	s := NewAddEmailSuite(t)
	userID := uuid.New()
	primary := builders.NewAddressBuilder().
		WithUserID(userID).
		WithEmail("first@example.com").
		Primary().
		Build()
	s.MockRepo.SeedAddress(t, primary)

	err := s.Handler.Handle(t.Context(), AddEmail{UserID: userID, Email: "second@example.com"})
	require.NoError(t, err)

	s.MockRepo.AssertAddressExists(t, userID, "first@example.com").
		AssertPrimary(t, true)
	s.MockRepo.AssertAddressExists(t, userID, "second@example.com").
		AssertVerified(t, false).
		AssertPrimary(t, false)
}

func TestAddEmailHandler_ErrorCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		userID uuid.UUID
		email  string
	}{
		{name: "empty email", userID: uuid.New(), email: ""},
		{name: "not an email", userID: uuid.New(), email: "not-an-email"},
		{name: "nil user id", userID: uuid.Nil, email: "valid@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAddEmailSuite(t)

			err := s.Handler.Handle(t.Context(), AddEmail{UserID: tt.userID, Email: tt.email})
			require.Error(t, err)

			s.MockRepo.AssertAddressNotExists(t, tt.userID, tt.email).
				AssertEventCount(t, 0)
		})
	}

	t.Run("duplicate email for same user", func(t *testing.T) {
		s := NewAddEmailSuite(t)
		userID := uuid.New()
		email := "dup@example.com"
		existing := builders.NewAddressBuilder().
			WithUserID(userID).
			WithEmail(email).
			Build()
		s.MockRepo.SeedAddress(t, existing)

		err := s.Handler.Handle(t.Context(), AddEmail{UserID: userID, Email: email})
		require.Error(t, err)
		assert.True(t, errorx.IsDuplicateEntry(err), "expected DuplicateEntry error, got: %v", err)
	})
}
