package confirmation

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/internal/domain/event"
	"gitlab.com/verimail/verimail-backend/pkg/confirmkey"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
)

// DefaultWindow is how long a confirmation key stays usable unless
// configured otherwise.
const DefaultWindow = 7 * 24 * time.Hour

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id).String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	uid, err := uuid.Parse(s)
	if err != nil {
		return err
	}

	*id = ID(uid)
	return nil
}

// Confirmation is a single-use key mailed to an address. Several live
// confirmations may exist for one address; any of them verifies it.
type Confirmation struct {
	event.Recorder
	id        ID
	addressID address.ID
	key       string
	createdAt time.Time
}

func NewConfirmation(addr *address.Address) (*Confirmation, error) {
	const op = "confirmation.NewConfirmation"
	if addr == nil {
		return nil, errorx.Wrap(address.ErrNotFound, op)
	}

	key, err := confirmkey.Generate(addr.Email())
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	c := &Confirmation{
		id:        NewID(),
		addressID: addr.ID(),
		key:       key,
		createdAt: time.Now().UTC(),
	}

	c.AddEvent(&EmailConfirmationSent{
		Header:         event.NewEventHeader(),
		ConfirmationID: c.id,
		AddressID:      addr.ID(),
		UserID:         addr.UserID(),
		Email:          addr.Email(),
		Key:            key,
	})

	return c, nil
}

type RehydrateArgs struct {
	ID        ID
	AddressID address.ID
	Key       string
	CreatedAt time.Time
}

func Rehydrate(args RehydrateArgs) *Confirmation {
	return &Confirmation{
		id:        args.ID,
		addressID: args.AddressID,
		key:       args.Key,
		createdAt: args.CreatedAt,
	}
}

// CheckUsable returns ErrKeyExpired when the key's confirmation window has
// closed. A key exactly window old is already expired. Expired keys are
// indistinguishable from unknown ones at the HTTP layer, which is deliberate.
func (c *Confirmation) CheckUsable(window time.Duration) error {
	const op = "confirmation.Confirmation.CheckUsable"
	if c == nil {
		return errorx.Wrap(ErrKeyNotFound, op)
	}
	if window <= 0 {
		window = DefaultWindow
	}

	if !time.Now().Before(c.createdAt.Add(window)) {
		return errorx.Wrap(ErrKeyExpired, op)
	}

	return nil
}

func (c *Confirmation) ID() ID {
	if c == nil {
		return ID{}
	}

	return c.id
}

func (c *Confirmation) AddressID() address.ID {
	if c == nil {
		return address.ID{}
	}

	return c.addressID
}

func (c *Confirmation) Key() string {
	if c == nil {
		return ""
	}

	return c.key
}

func (c *Confirmation) CreatedAt() time.Time {
	if c == nil {
		return time.Time{}
	}

	return c.createdAt
}
