package validationx

import (
	"testing"

	"github.com/ARUMANDESU/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredRule_UUID(t *testing.T) {
	t.Parallel()

	assert.Error(t, Required.Validate(uuid.Nil))
	assert.Error(t, Required.Validate(uuid.Nil.String()))
	assert.NoError(t, Required.Validate(uuid.New()))
}

func TestEmailDomainRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "regular domain", input: "user@example.com", wantErr: false},
		{name: "subdomain", input: "user@mail.example.co.uk", wantErr: false},
		{name: "bare suffix", input: "user@com", wantErr: true},
		{name: "unknown tld", input: "user@host.invalidtld", wantErr: true},
		{name: "empty delegated to required", input: "", wantErr: false},
		{name: "malformed delegated to email rule", input: "no-at-sign", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := EmailDomain.Validate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidEmailDomain)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmailRules(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validation.Validate("user@example.com", EmailRules...))
	assert.Error(t, validation.Validate("", EmailRules...))
	assert.Error(t, validation.Validate("not-an-email", EmailRules...))
	assert.Error(t, validation.Validate("a@b", EmailRules...))
}

func TestConfirmationKeyRules(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validation.Validate("06d4c3bd357a1346dcdc5e1dbb32c4026de2d383", ConfirmationKeyRules...))
	assert.Error(t, validation.Validate("", ConfirmationKeyRules...))
	assert.Error(t, validation.Validate("short", ConfirmationKeyRules...))
	assert.Error(t, validation.Validate("zzzzc3bd357a1346dcdc5e1dbb32c4026de2d383", ConfirmationKeyRules...))
}
