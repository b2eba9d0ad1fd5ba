package address

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type AddressAssertion struct {
	Address *Address
}

func NewAddressAssertion(addr *Address) *AddressAssertion {
	return &AddressAssertion{Address: addr}
}

func (aa *AddressAssertion) AssertEmail(t *testing.T, expected string) *AddressAssertion {
	t.Helper()
	assert.Equal(t, expected, aa.Address.email, "Expected address email to be %s, got %s", expected, aa.Address.email)
	return aa
}

func (aa *AddressAssertion) AssertUserID(t *testing.T, expected uuid.UUID) *AddressAssertion {
	t.Helper()
	assert.Equal(t, expected, aa.Address.userID, "Expected address user ID to be %s, got %s", expected, aa.Address.userID)
	return aa
}

func (aa *AddressAssertion) AssertVerified(t *testing.T, expected bool) *AddressAssertion {
	t.Helper()
	assert.Equal(t, expected, aa.Address.verified, "Expected address verified to be %v, got %v", expected, aa.Address.verified)
	return aa
}

func (aa *AddressAssertion) AssertPrimary(t *testing.T, expected bool) *AddressAssertion {
	t.Helper()
	assert.Equal(t, expected, aa.Address.primary, "Expected address primary to be %v, got %v", expected, aa.Address.primary)
	return aa
}

func (aa *AddressAssertion) AssertEventsCount(t *testing.T, expected int) *AddressAssertion {
	t.Helper()
	events := aa.Address.GetUncommittedEvents()
	assert.Len(t, events, expected, "Expected %d uncommitted events, got %d", expected, len(events))
	return aa
}

func (aa *AddressAssertion) AssertNoEvents(t *testing.T) *AddressAssertion {
	t.Helper()
	events := aa.Address.GetUncommittedEvents()
	assert.Empty(t, events, "Expected no uncommitted events, got %d", len(events))
	return aa
}

func (aa *AddressAssertion) AssertEventExists(t *testing.T, eventType string) *AddressAssertion {
	t.Helper()
	events := aa.Address.GetUncommittedEvents()
	for _, ev := range events {
		if fmt.Sprintf("%T", ev) == eventType {
			return aa
		}
	}
	t.Errorf("Expected event of type %s to exist, but it does not", eventType)
	return aa
}
