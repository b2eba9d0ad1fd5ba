package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"gitlab.com/verimail/verimail-backend/pkg/confirmkey"
)

type ConfirmationFlowSuite struct {
	TestSuite
}

func TestConfirmationFlowSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(ConfirmationFlowSuite))
}

func (s *ConfirmationFlowSuite) postJSON(path string, body any) *httptest.ResponseRecorder {
	b, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.app.HTTPHandler.ServeHTTP(rec, req)
	return rec
}

func (s *ConfirmationFlowSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.app.HTTPHandler.ServeHTTP(rec, req)
	return rec
}

func (s *ConfirmationFlowSuite) TestAddConfirmPromote() {
	userID := s.SeedUser("armand")
	email := "armand@example.com"

	rec := s.postJSON(fmt.Sprintf("/v1/users/%s/emails", userID), map[string]string{"email": email})
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())

	// the outbox handler issues the key after the insert commits
	key := s.WaitForConfirmationKey(userID, email)
	s.Require().Len(key, confirmkey.Length)

	s.WaitForMail(email)
	mails := s.app.MockMailSender.GetSentMails()
	s.Require().NotEmpty(mails)
	s.Contains(mails[len(mails)-1].Body, key)

	rec = s.get(fmt.Sprintf("/v1/confirmations/%s/confirm?make_primary=false", key))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	addr, err := s.app.AddressRepo.GetAddressByUserAndEmail(s.T().Context(), userID, email)
	s.Require().NoError(err)
	s.True(addr.IsVerified())
	s.False(addr.IsPrimary())

	rec = s.postJSON(fmt.Sprintf("/v1/users/%s/emails/primary", userID), map[string]string{"email": email})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	addr, err = s.app.AddressRepo.GetAddressByUserAndEmail(s.T().Context(), userID, email)
	s.Require().NoError(err)
	s.True(addr.IsPrimary())

	s.Equal(email, s.UserEmail(userID))
}

func (s *ConfirmationFlowSuite) TestConfirmPromotesByDefault() {
	userID := s.SeedUser("sanzhar")
	first := "sanzhar-one@example.com"
	second := "sanzhar-two@example.com"

	rec := s.postJSON(fmt.Sprintf("/v1/users/%s/emails", userID), map[string]string{"email": first})
	s.Require().Equal(http.StatusAccepted, rec.Code)

	key := s.WaitForConfirmationKey(userID, first)
	rec = s.get(fmt.Sprintf("/v1/confirmations/%s/confirm", key))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	addr, err := s.app.AddressRepo.GetAddressByUserAndEmail(s.T().Context(), userID, first)
	s.Require().NoError(err)
	s.True(addr.IsVerified())
	s.True(addr.IsPrimary(), "a plain confirm must leave the address primary")
	s.Equal(first, s.UserEmail(userID))

	// confirming a second address demotes the first
	rec = s.postJSON(fmt.Sprintf("/v1/users/%s/emails", userID), map[string]string{"email": second})
	s.Require().Equal(http.StatusAccepted, rec.Code)

	key = s.WaitForConfirmationKey(userID, second)
	rec = s.get(fmt.Sprintf("/v1/confirmations/%s/confirm", key))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	addr, err = s.app.AddressRepo.GetAddressByUserAndEmail(s.T().Context(), userID, second)
	s.Require().NoError(err)
	s.True(addr.IsPrimary())

	addr, err = s.app.AddressRepo.GetAddressByUserAndEmail(s.T().Context(), userID, first)
	s.Require().NoError(err)
	s.False(addr.IsPrimary())

	s.Equal(second, s.UserEmail(userID))
}

func (s *ConfirmationFlowSuite) TestConfirmRejectsBadMakePrimary() {
	unknown, err := confirmkey.Generate("bad-flag@example.com")
	s.Require().NoError(err)

	rec := s.get(fmt.Sprintf("/v1/confirmations/%s/confirm?make_primary=banana", unknown))
	s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
}

func (s *ConfirmationFlowSuite) TestConfirmIsIdempotent() {
	userID := s.SeedUser("bakhytzhan")
	email := "bakhytzhan@example.com"

	rec := s.postJSON(fmt.Sprintf("/v1/users/%s/emails", userID), map[string]string{"email": email})
	s.Require().Equal(http.StatusAccepted, rec.Code)

	key := s.WaitForConfirmationKey(userID, email)

	rec = s.get(fmt.Sprintf("/v1/confirmations/%s/confirm", key))
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.get(fmt.Sprintf("/v1/confirmations/%s/confirm", key))
	s.Require().Equal(http.StatusOK, rec.Code, "second confirm must succeed too")

	addr, err := s.app.AddressRepo.GetAddressByUserAndEmail(s.T().Context(), userID, email)
	s.Require().NoError(err)
	s.True(addr.IsVerified())
}

func (s *ConfirmationFlowSuite) TestUnknownAndMalformedKeys() {
	unknown, err := confirmkey.Generate("unknown@example.com")
	s.Require().NoError(err)

	rec := s.get(fmt.Sprintf("/v1/confirmations/%s/confirm", unknown))
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.get("/v1/confirmations/not-a-key/confirm")
	s.Equal(http.StatusNotFound, rec.Code, "malformed keys must read the same as unknown ones")
}

func (s *ConfirmationFlowSuite) TestResendIssuesSecondKey() {
	userID := s.SeedUser("dana")
	email := "dana@example.com"

	rec := s.postJSON(fmt.Sprintf("/v1/users/%s/emails", userID), map[string]string{"email": email})
	s.Require().Equal(http.StatusAccepted, rec.Code)

	firstKey := s.WaitForConfirmationKey(userID, email)

	rec = s.postJSON("/v1/confirmations", map[string]any{"user_id": userID, "email": email})
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())

	s.Require().Eventually(func() bool {
		latest, err := s.app.ConfirmationApp.Query.GetKey.Handle(s.T().Context(), userID, email)
		return err == nil && latest != firstKey
	}, 10*time.Second, 50*time.Millisecond, "second key never appeared")

	// the first key still works after a resend
	rec = s.get(fmt.Sprintf("/v1/confirmations/%s/confirm", firstKey))
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *ConfirmationFlowSuite) TestPromoteUnverifiedFails() {
	userID := s.SeedUser("yerlan")
	email := "yerlan@example.com"

	rec := s.postJSON(fmt.Sprintf("/v1/users/%s/emails", userID), map[string]string{"email": email})
	s.Require().Equal(http.StatusAccepted, rec.Code)
	s.WaitForConfirmationKey(userID, email)

	rec = s.postJSON(fmt.Sprintf("/v1/users/%s/emails/primary", userID), map[string]string{"email": email})
	s.GreaterOrEqual(rec.Code, 400, "unverified address must not become primary")

	addr, err := s.app.AddressRepo.GetAddressByUserAndEmail(s.T().Context(), userID, email)
	s.Require().NoError(err)
	s.False(addr.IsPrimary())
}

func (s *ConfirmationFlowSuite) TestPrimarySwitchDemotesOldPrimary() {
	userID := s.SeedUser("aigerim")
	first := "aigerim-one@example.com"
	second := "aigerim-two@example.com"

	for _, email := range []string{first, second} {
		rec := s.postJSON(fmt.Sprintf("/v1/users/%s/emails", userID), map[string]string{"email": email})
		s.Require().Equal(http.StatusAccepted, rec.Code)

		key := s.WaitForConfirmationKey(userID, email)
		rec = s.get(fmt.Sprintf("/v1/confirmations/%s/confirm?make_primary=false", key))
		s.Require().Equal(http.StatusOK, rec.Code)
	}

	rec := s.postJSON(fmt.Sprintf("/v1/users/%s/emails/primary", userID), map[string]string{"email": first})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.postJSON(fmt.Sprintf("/v1/users/%s/emails/primary", userID), map[string]string{"email": second})
	s.Require().Equal(http.StatusOK, rec.Code)

	addrs, err := s.app.AddressRepo.ListAddresses(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Require().Len(addrs, 2)

	var primaries int
	for _, a := range addrs {
		if a.IsPrimary() {
			primaries++
			s.Equal(second, a.Email())
		}
	}
	s.Equal(1, primaries, "exactly one primary address per user")

	s.Equal(second, s.UserEmail(userID))
}

func (s *ConfirmationFlowSuite) TestFindVerifiedUsers() {
	userID := s.SeedUser("madina")
	email := "madina@example.com"

	rec := s.postJSON(fmt.Sprintf("/v1/users/%s/emails", userID), map[string]string{"email": email})
	s.Require().Equal(http.StatusAccepted, rec.Code)

	key := s.WaitForConfirmationKey(userID, email)
	rec = s.get(fmt.Sprintf("/v1/confirmations/%s/confirm", key))
	s.Require().Equal(http.StatusOK, rec.Code)

	users, err := s.app.AddressApp.Query.FindVerifiedUsers.Handle(s.T().Context(), email)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal(userID, users[0].UserID)
}

func (s *ConfirmationFlowSuite) TestAddEmailForUnknownUser() {
	rec := s.postJSON(fmt.Sprintf("/v1/users/%s/emails", uuid.New()), map[string]string{"email": "nobody@example.com"})
	s.GreaterOrEqual(rec.Code, 400, "address insert must fail without a user row")
}
