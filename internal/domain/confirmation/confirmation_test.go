package confirmation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/pkg/confirmkey"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
)

func newTestAddress(t *testing.T) *address.Address {
	t.Helper()
	addr, err := address.NewAddress(uuid.New(), "user@example.com")
	require.NoError(t, err)
	return addr
}

func TestNewConfirmation(t *testing.T) {
	t.Parallel()

	addr := newTestAddress(t)
	c, err := NewConfirmation(addr)
	require.NoError(t, err)

	assert.Len(t, c.Key(), confirmkey.Length)
	assert.Equal(t, addr.ID(), c.AddressID())
	assert.WithinDuration(t, time.Now(), c.CreatedAt(), time.Second)

	events := c.GetUncommittedEvents()
	require.Len(t, events, 1)
	sent, ok := events[0].(*EmailConfirmationSent)
	require.True(t, ok)
	assert.Equal(t, c.ID(), sent.ConfirmationID)
	assert.Equal(t, addr.ID(), sent.AddressID)
	assert.Equal(t, addr.UserID(), sent.UserID)
	assert.Equal(t, "user@example.com", sent.Email)
	assert.Equal(t, c.Key(), sent.Key)
}

func TestNewConfirmation_UniqueKeys(t *testing.T) {
	t.Parallel()

	addr := newTestAddress(t)
	first, err := NewConfirmation(addr)
	require.NoError(t, err)
	second, err := NewConfirmation(addr)
	require.NoError(t, err)

	assert.NotEqual(t, first.Key(), second.Key())
}

func TestNewConfirmation_NilAddress(t *testing.T) {
	t.Parallel()

	_, err := NewConfirmation(nil)
	require.Error(t, err)
	assert.True(t, errorx.IsNotFound(err))
}

func TestConfirmation_CheckUsable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		createdAt time.Time
		window    time.Duration
		wantErr   bool
	}{
		{name: "fresh", createdAt: time.Now(), window: DefaultWindow, wantErr: false},
		{name: "just inside window", createdAt: time.Now().Add(-6 * 24 * time.Hour), window: DefaultWindow, wantErr: false},
		{name: "expired", createdAt: time.Now().Add(-8 * 24 * time.Hour), window: DefaultWindow, wantErr: true},
		{name: "exactly window old", createdAt: time.Now().Add(-DefaultWindow), window: DefaultWindow, wantErr: true},
		{name: "custom short window", createdAt: time.Now().Add(-2 * time.Hour), window: time.Hour, wantErr: true},
		{name: "zero window falls back to default", createdAt: time.Now(), window: 0, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := Rehydrate(RehydrateArgs{
				ID:        NewID(),
				AddressID: address.NewID(),
				Key:       "06d4c3bd357a1346dcdc5e1dbb32c4026de2d383",
				CreatedAt: tt.createdAt,
			})

			err := c.CheckUsable(tt.window)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errorx.IsNotFound(err), "expired keys must read as not found")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfirmation_CheckUsable_Nil(t *testing.T) {
	t.Parallel()

	var c *Confirmation
	err := c.CheckUsable(DefaultWindow)
	require.Error(t, err)
	assert.True(t, errorx.IsNotFound(err))
}
