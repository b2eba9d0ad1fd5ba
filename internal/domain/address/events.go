package address

import (
	"github.com/google/uuid"

	"gitlab.com/verimail/verimail-backend/internal/domain/event"
)

const EventStreamName = "events_address"

type AddressAdded struct {
	event.Header
	event.Otel
	AddressID ID        `json:"address_id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
}

func (e AddressAdded) GetStreamName() string {
	return EventStreamName
}

type EmailConfirmed struct {
	event.Header
	event.Otel
	AddressID ID        `json:"address_id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
}

func (e EmailConfirmed) GetStreamName() string {
	return EventStreamName
}

type PrimaryChanged struct {
	event.Header
	event.Otel
	AddressID ID        `json:"address_id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
}

func (e PrimaryChanged) GetStreamName() string {
	return EventStreamName
}
