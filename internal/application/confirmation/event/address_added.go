package confirmationevent

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/verimail-backend/internal/application/confirmation/cmd"
	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
	"gitlab.com/verimail/verimail-backend/pkg/logging"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("verimail/application/confirmation/event")
	logger = otelslog.NewLogger("verimail/application/confirmation/event")
)

type ConfirmationEventHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
	send   *cmd.SendHandler
}

type ConfirmationEventHandlerArgs struct {
	Tracer      trace.Tracer
	Logger      *slog.Logger
	Repo        cmd.Repo
	AddressRepo cmd.AddressRepo
}

func NewConfirmationEventHandler(args ConfirmationEventHandlerArgs) *ConfirmationEventHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &ConfirmationEventHandler{
		tracer: args.Tracer,
		logger: args.Logger,
		send: cmd.NewSendHandler(cmd.SendHandlerArgs{
			Tracer:      args.Tracer,
			Logger:      args.Logger,
			Repo:        args.Repo,
			AddressRepo: args.AddressRepo,
		}),
	}
}

// HandleAddressAdded issues the initial confirmation for every new address.
// It runs after the AddressAdded transaction commits, so the address row is
// already visible here.
func (h *ConfirmationEventHandler) HandleAddressAdded(ctx context.Context, e *address.AddressAdded) error {
	if e == nil {
		return nil
	}
	const op = "confirmationevent.ConfirmationEventHandler.HandleAddressAdded"

	l := h.logger.With(
		slog.String("event", "AddressAdded"),
		slog.String("address.id", e.AddressID.String()),
	)
	ctx, span := h.tracer.Start(
		ctx,
		"ConfirmationEventHandler.HandleAddressAdded",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("event.address.id", e.AddressID.String()),
			attribute.String("event.address.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	if err := h.send.HandleForAddress(ctx, e.AddressID); err != nil {
		// already verified between commit and delivery, nothing to send
		if errorx.IsCode(err, errorx.CodeAlreadyProcessed) {
			l.DebugContext(ctx, "address already verified, skipping confirmation")
			return nil
		}
		otelx.RecordSpanError(span, err, "failed to issue confirmation")
		l.ErrorContext(ctx, "failed to issue confirmation", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	return nil
}
