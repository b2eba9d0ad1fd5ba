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
	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
	"gitlab.com/verimail/verimail-backend/pkg/logging"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("verimail/application/confirmation/cmd")
	logger = otelslog.NewLogger("verimail/application/confirmation/cmd")
)

type Send struct {
	UserID uuid.UUID
	Email  string
}

type SendHandler struct {
	tracer      trace.Tracer
	logger      *slog.Logger
	repo        Repo
	addressRepo AddressRepo
}

type SendHandlerArgs struct {
	Tracer      trace.Tracer
	Logger      *slog.Logger
	Repo        Repo
	AddressRepo AddressRepo
}

func NewSendHandler(args SendHandlerArgs) *SendHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &SendHandler{
		tracer:      args.Tracer,
		logger:      args.Logger,
		repo:        args.Repo,
		addressRepo: args.AddressRepo,
	}
}

// Handle issues a fresh confirmation key for the address. Old keys remain
// valid until they expire or get swept, so a resend never invalidates a mail
// already in flight.
func (h *SendHandler) Handle(ctx context.Context, cmd Send) error {
	ctx, span := h.tracer.Start(ctx, "SendHandler.Handle",
		trace.WithAttributes(
			attribute.String("user.id", cmd.UserID.String()),
			attribute.String("address.email", logging.RedactEmail(cmd.Email)),
		),
	)
	defer span.End()

	addr, err := h.addressRepo.GetAddressByUserAndEmail(ctx, cmd.UserID, cmd.Email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get email address")
		return fmt.Errorf("failed to get email address: %w", err)
	}

	if err := h.sendForAddress(ctx, addr); err != nil {
		otelx.RecordSpanError(span, err, "failed to send confirmation")
		return err
	}

	return nil
}

func (h *SendHandler) sendForAddress(ctx context.Context, addr *address.Address) error {
	if addr.IsVerified() {
		return errorx.NewAlreadyProcessed()
	}

	c, err := confirmation.NewConfirmation(addr)
	if err != nil {
		return fmt.Errorf("failed to create confirmation: %w", err)
	}

	if err := h.repo.SaveConfirmation(ctx, c); err != nil {
		return fmt.Errorf("failed to save confirmation: %w", err)
	}

	h.logger.DebugContext(ctx, "confirmation issued",
		slog.String("confirmation.id", c.ID().String()),
		slog.String("address.id", addr.ID().String()),
		slog.String("confirmation.key", logging.RedactKey(c.Key())),
	)

	return nil
}

// HandleForAddress is the path taken by the AddressAdded event handler,
// which already holds the address identity.
func (h *SendHandler) HandleForAddress(ctx context.Context, id address.ID) error {
	ctx, span := h.tracer.Start(ctx, "SendHandler.HandleForAddress",
		trace.WithAttributes(attribute.String("address.id", id.String())),
	)
	defer span.End()

	addr, err := h.addressRepo.GetAddressByID(ctx, id)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get email address")
		return fmt.Errorf("failed to get email address: %w", err)
	}

	if err := h.sendForAddress(ctx, addr); err != nil {
		otelx.RecordSpanError(span, err, "failed to send confirmation")
		return err
	}

	return nil
}
