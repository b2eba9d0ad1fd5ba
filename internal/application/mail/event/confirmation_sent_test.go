package mailevent

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
	"gitlab.com/verimail/verimail-backend/internal/domain/event"
	"gitlab.com/verimail/verimail-backend/pkg/confirmkey"
	"gitlab.com/verimail/verimail-backend/tests/mocks"
)

type MailSuite struct {
	Handler    *MailEventHandler
	MockSender *mocks.MockMailSender
}

func NewMailSuite(t *testing.T) *MailSuite {
	t.Helper()

	mockSender := mocks.NewMockMailSender()

	handler, err := NewMailEventHandler(MailEventHandlerArgs{
		Mailsender:         mockSender,
		ActivationProtocol: "https",
		ActivationHost:     "verimail.dev",
		WindowDays:         7,
	})
	require.NoError(t, err)

	return &MailSuite{
		Handler:    handler,
		MockSender: mockSender,
	}
}

func newConfirmationSentEvent(t *testing.T, email string) *confirmation.EmailConfirmationSent {
	t.Helper()

	key, err := confirmkey.Generate(email)
	require.NoError(t, err)

	return &confirmation.EmailConfirmationSent{
		Header:         event.NewEventHeader(),
		ConfirmationID: confirmation.NewID(),
		AddressID:      address.NewID(),
		UserID:         uuid.New(),
		Email:          email,
		Key:            key,
	}
}

func TestMailEventHandler_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewMailSuite(t)
	e := newConfirmationSentEvent(t, "recipient@example.com")

	err := s.Handler.HandleEmailConfirmationSent(t.Context(), e)
	require.NoError(t, err)

	sent := s.MockSender.GetSentMails()
	require.Len(t, sent, 1)

	assert.Equal(t, "recipient@example.com", sent[0].To)
	assert.Equal(t, "Confirm your email address", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "https://verimail.dev/v1/confirmations/"+e.Key+"/confirm")
	assert.Contains(t, sent[0].Body, e.Key)
	assert.Contains(t, sent[0].Body, "recipient@example.com")
	assert.Contains(t, sent[0].Body, "7 days")
	assert.NotContains(t, sent[0].Subject, "\n")
}

func TestMailEventHandler_NilEvent(t *testing.T) {
	t.Parallel()

	s := NewMailSuite(t)

	err := s.Handler.HandleEmailConfirmationSent(t.Context(), nil)
	require.NoError(t, err)
	s.MockSender.AssertNoMailSent(t)
}

func TestMailEventHandler_ErrorCases(t *testing.T) {
	t.Parallel()

	t.Run("missing email", func(t *testing.T) {
		s := NewMailSuite(t)
		e := newConfirmationSentEvent(t, "recipient@example.com")
		e.Email = ""

		err := s.Handler.HandleEmailConfirmationSent(t.Context(), e)
		require.Error(t, err)
		s.MockSender.AssertNoMailSent(t)
	})

	t.Run("missing key", func(t *testing.T) {
		s := NewMailSuite(t)
		e := newConfirmationSentEvent(t, "recipient@example.com")
		e.Key = ""

		err := s.Handler.HandleEmailConfirmationSent(t.Context(), e)
		require.Error(t, err)
		s.MockSender.AssertNoMailSent(t)
	})

	t.Run("invalid email format", func(t *testing.T) {
		s := NewMailSuite(t)
		e := newConfirmationSentEvent(t, "recipient@example.com")
		e.Email = "not-an-email"

		err := s.Handler.HandleEmailConfirmationSent(t.Context(), e)
		require.Error(t, err)
		s.MockSender.AssertNoMailSent(t)
	})
}

func TestMailEventHandler_SubjectStaysSingleLine(t *testing.T) {
	t.Parallel()

	s := NewMailSuite(t)
	e := newConfirmationSentEvent(t, "single-line@example.com")

	err := s.Handler.HandleEmailConfirmationSent(t.Context(), e)
	require.NoError(t, err)

	sent := s.MockSender.GetSentMails()
	require.Len(t, sent, 1)
	assert.False(t, strings.ContainsAny(sent[0].Subject, "\r\n"))
}
