package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything an aggregate records for the outbox. GetStreamName maps
// the event to its watermill topic.
type Event interface {
	GetEventHeader() Header
	GetStreamName() string
}

// Header carries the event identity plus trace metadata across the outbox.
type Header struct {
	ID        uuid.UUID
	Timestamp time.Time
	Metadata  map[string]string
}

func (e *Header) GetEventHeader() Header {
	return *e
}

func NewEventHeader() Header {
	return Header{
		ID:        uuid.New(),
		Timestamp: time.Now(),
	}
}

// Recorder collects uncommitted events inside an aggregate. Repositories
// drain it with GetUncommittedEvents and then MarkEventsAsCommitted once the
// outbox insert is in the same transaction.
type Recorder struct {
	events []Event
}

func (e *Recorder) AddEvent(event Event) {
	if e == nil {
		return
	}
	e.events = append(e.events, event)
}

func (e *Recorder) GetUncommittedEvents() []Event {
	if e == nil {
		return nil
	}
	return e.events
}

func (e *Recorder) MarkEventsAsCommitted() {
	if e == nil {
		return
	}
	e.events = []Event{}
}
