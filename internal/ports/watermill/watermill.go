package watermill

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"

	confirmationevent "gitlab.com/verimail/verimail-backend/internal/application/confirmation/event"
	mailevent "gitlab.com/verimail/verimail-backend/internal/application/mail/event"
	"gitlab.com/verimail/verimail-backend/pkg/watermillx"
)

type Port struct {
	eventProcessor *cqrs.EventProcessor
}

type AppEventHandlers struct {
	Confirmation *confirmationevent.ConfirmationEventHandler
	Mail         *mailevent.MailEventHandler
}

func NewPort(router *message.Router, conn *pgxpool.Pool, wmlogger watermill.LoggerAdapter) (*Port, error) {
	eventProcessor, err := watermillx.NewEventProcessor(router, conn, wmlogger)
	if err != nil {
		return nil, err
	}

	return &Port{
		eventProcessor: eventProcessor,
	}, nil
}

func NewPortForTest(router *message.Router, conn *pgxpool.Pool, wmlogger watermill.LoggerAdapter) (*Port, error) {
	eventProcessor, err := watermillx.NewEventProcessorForTests(router, conn, wmlogger)
	if err != nil {
		return nil, err
	}

	return &Port{
		eventProcessor: eventProcessor,
	}, nil
}

func (p *Port) Run(handlers AppEventHandlers) error {
	err := p.eventProcessor.AddHandlers(
		cqrs.NewEventHandler("ConfirmationOnAddressAdded", handlers.Confirmation.HandleAddressAdded),
		cqrs.NewEventHandler("MailOnEmailConfirmationSent", handlers.Mail.HandleEmailConfirmationSent),
	)
	if err != nil {
		return fmt.Errorf("failed to add event handlers: %w", err)
	}

	return nil
}
