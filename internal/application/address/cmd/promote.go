package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/verimail-backend/pkg/logging"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
)

type PromoteToPrimary struct {
	UserID uuid.UUID
	Email  string
}

type PromoteToPrimaryHandler struct {
	tracer            trace.Tracer
	logger            *slog.Logger
	repo              Repo
	overwriteUsername bool
}

type PromoteToPrimaryHandlerArgs struct {
	Tracer            trace.Tracer
	Logger            *slog.Logger
	Repo              Repo
	OverwriteUsername bool
}

func NewPromoteToPrimaryHandler(args PromoteToPrimaryHandlerArgs) *PromoteToPrimaryHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &PromoteToPrimaryHandler{
		tracer:            args.Tracer,
		logger:            args.Logger,
		repo:              args.Repo,
		overwriteUsername: args.OverwriteUsername,
	}
}

// Handle promotes one of the user's verified addresses to primary. Demotion
// of the old primary, promotion and the login email mirror all happen in one
// transaction inside the repository.
func (h *PromoteToPrimaryHandler) Handle(ctx context.Context, cmd PromoteToPrimary) error {
	ctx, span := h.tracer.Start(ctx, "PromoteToPrimaryHandler.Handle",
		trace.WithAttributes(
			attribute.String("user.id", cmd.UserID.String()),
			attribute.String("address.email", logging.RedactEmail(cmd.Email)),
		),
	)
	defer span.End()

	addr, err := h.repo.GetAddressByUserAndEmail(ctx, cmd.UserID, cmd.Email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get email address")
		return fmt.Errorf("failed to get email address: %w", err)
	}

	if err := h.repo.SetAsPrimary(ctx, addr.ID(), h.overwriteUsername); err != nil {
		otelx.RecordSpanError(span, err, "failed to promote email address")
		return fmt.Errorf("failed to promote email address: %w", err)
	}

	h.logger.InfoContext(ctx, "email address promoted to primary",
		slog.String("user.id", cmd.UserID.String()),
		slog.String("address.id", addr.ID().String()),
	)

	return nil
}
