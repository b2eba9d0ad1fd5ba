package confirmation

import (
	"github.com/google/uuid"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/internal/domain/event"
)

const EventStreamName = "events_confirmation"

type EmailConfirmationSent struct {
	event.Header
	event.Otel
	ConfirmationID ID         `json:"confirmation_id"`
	AddressID      address.ID `json:"address_id"`
	UserID         uuid.UUID  `json:"user_id"`
	Email          string     `json:"email"`
	Key            string     `json:"key"`
}

func (e EmailConfirmationSent) GetStreamName() string {
	return EventStreamName
}
