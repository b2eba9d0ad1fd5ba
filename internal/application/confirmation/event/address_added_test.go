package confirmationevent

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
	"gitlab.com/verimail/verimail-backend/internal/domain/event"
	"gitlab.com/verimail/verimail-backend/tests/integration/builders"
	"gitlab.com/verimail/verimail-backend/tests/mocks"
)

type HandlerSuite struct {
	Handler         *ConfirmationEventHandler
	MockRepo        *mocks.ConfirmationRepo
	MockAddressRepo *mocks.AddressRepo
}

func NewHandlerSuite(t *testing.T) *HandlerSuite {
	t.Helper()

	mockRepo := mocks.NewConfirmationRepo()
	mockAddressRepo := mocks.NewAddressRepo()

	handler := NewConfirmationEventHandler(ConfirmationEventHandlerArgs{
		Repo:        mockRepo,
		AddressRepo: mockAddressRepo,
	})

	return &HandlerSuite{
		Handler:         handler,
		MockRepo:        mockRepo,
		MockAddressRepo: mockAddressRepo,
	}
}

func addressAddedEvent(addr *address.Address) *address.AddressAdded {
	return &address.AddressAdded{
		Header:    event.NewEventHeader(),
		AddressID: addr.ID(),
		UserID:    addr.UserID(),
		Email:     addr.Email(),
	}
}

func TestConfirmationEventHandler_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewHandlerSuite(t)
	addr := builders.NewAddressBuilder().
		WithEmail("new@example.com").
		Build()
	s.MockAddressRepo.SeedAddress(t, addr)

	err := s.Handler.HandleAddressAdded(t.Context(), addressAddedEvent(addr))
	require.NoError(t, err)

	assert.Equal(t, 1, s.MockRepo.ConfirmationCount())

	e := mocks.RequireEventExists(t, s.MockRepo.EventRepo, &confirmation.EmailConfirmationSent{})
	assert.Equal(t, addr.ID(), e.AddressID)
	assert.Equal(t, addr.Email(), e.Email)
}

func TestConfirmationEventHandler_NilEvent(t *testing.T) {
	t.Parallel()

	s := NewHandlerSuite(t)

	err := s.Handler.HandleAddressAdded(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.MockRepo.ConfirmationCount())
}

func TestConfirmationEventHandler_AlreadyVerified(t *testing.T) {
	t.Parallel()

	s := NewHandlerSuite(t)
	addr := builders.NewAddressBuilder().
		WithEmail("verified@example.com").
		Verified().
		Build()
	s.MockAddressRepo.SeedAddress(t, addr)

	err := s.Handler.HandleAddressAdded(t.Context(), addressAddedEvent(addr))
	require.NoError(t, err)

	assert.Equal(t, 0, s.MockRepo.ConfirmationCount())
}

func TestConfirmationEventHandler_AddressGone(t *testing.T) {
	t.Parallel()

	s := NewHandlerSuite(t)
	e := &address.AddressAdded{
		Header:    event.NewEventHeader(),
		AddressID: address.NewID(),
		UserID:    uuid.New(),
		Email:     "gone@example.com",
	}

	err := s.Handler.HandleAddressAdded(t.Context(), e)
	require.Error(t, err)
	assert.Equal(t, 0, s.MockRepo.ConfirmationCount())
}
