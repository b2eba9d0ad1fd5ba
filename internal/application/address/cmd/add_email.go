package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/pkg/logging"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("verimail/application/address/cmd")
	logger = otelslog.NewLogger("verimail/application/address/cmd")
)

type AddEmail struct {
	UserID uuid.UUID
	Email  string
}

type AddEmailHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
	repo   Repo
}

type AddEmailHandlerArgs struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	Repo   Repo
}

func NewAddEmailHandler(args AddEmailHandlerArgs) *AddEmailHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &AddEmailHandler{
		tracer: args.Tracer,
		logger: args.Logger,
		repo:   args.Repo,
	}
}

// Handle attaches a new unverified address to the user. Saving the address
// publishes AddressAdded through the outbox, which in turn issues the
// confirmation mail after commit.
func (h *AddEmailHandler) Handle(ctx context.Context, cmd AddEmail) error {
	ctx, span := h.tracer.Start(ctx, "AddEmailHandler.Handle",
		trace.WithAttributes(
			attribute.String("user.id", cmd.UserID.String()),
			attribute.String("address.email", logging.RedactEmail(cmd.Email)),
		),
	)
	defer span.End()

	h.logger.DebugContext(ctx, "adding email address",
		slog.String("user.id", cmd.UserID.String()),
		slog.String("address.email", logging.RedactEmail(cmd.Email)),
	)

	addr, err := address.NewAddress(cmd.UserID, cmd.Email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to create email address")
		return fmt.Errorf("failed to create email address: %w", err)
	}

	if err := h.repo.SaveAddress(ctx, addr); err != nil {
		otelx.RecordSpanError(span, err, "failed to save email address")
		return fmt.Errorf("failed to save email address: %w", err)
	}

	span.AddEvent("email address saved",
		trace.WithAttributes(attribute.String("address.id", addr.ID().String())),
	)

	return nil
}
