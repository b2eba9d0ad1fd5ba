package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
	"gitlab.com/verimail/verimail-backend/pkg/logging"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
)

type Confirm struct {
	Key string
	// MakePrimary promotes the address after verification. Ports default it
	// to true; callers opt out explicitly.
	MakePrimary bool
}

// ConfirmResult identifies the address a key just verified.
type ConfirmResult struct {
	AddressID address.ID
	UserID    uuid.UUID
	Email     string
	Primary   bool
}

type ConfirmHandler struct {
	tracer            trace.Tracer
	logger            *slog.Logger
	repo              Repo
	addressRepo       AddressRepo
	window            time.Duration
	overwriteUsername bool
}

type ConfirmHandlerArgs struct {
	Tracer            trace.Tracer
	Logger            *slog.Logger
	Repo              Repo
	AddressRepo       AddressRepo
	Window            time.Duration
	OverwriteUsername bool
}

func NewConfirmHandler(args ConfirmHandlerArgs) *ConfirmHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}
	if args.Window <= 0 {
		args.Window = confirmation.DefaultWindow
	}

	return &ConfirmHandler{
		tracer:            args.Tracer,
		logger:            args.Logger,
		repo:              args.Repo,
		addressRepo:       args.AddressRepo,
		window:            args.Window,
		overwriteUsername: args.OverwriteUsername,
	}
}

// Handle verifies the address behind a confirmation key and, when requested,
// promotes it to the user's primary in the same breath, demoting the previous
// one. Unknown and expired keys both come back as not found. Confirming an
// already verified address succeeds without emitting a second EmailConfirmed
// event.
func (h *ConfirmHandler) Handle(ctx context.Context, cmd Confirm) (*ConfirmResult, error) {
	ctx, span := h.tracer.Start(ctx, "ConfirmHandler.Handle",
		trace.WithAttributes(
			attribute.String("confirmation.key", logging.RedactKey(cmd.Key)),
			attribute.Bool("confirmation.make_primary", cmd.MakePrimary),
		),
	)
	defer span.End()

	c, err := h.repo.GetConfirmationByKey(ctx, cmd.Key)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get confirmation by key")
		return nil, fmt.Errorf("failed to get confirmation by key: %w", err)
	}

	if err := c.CheckUsable(h.window); err != nil {
		otelx.RecordSpanError(span, err, "confirmation key is not usable")
		return nil, err
	}

	var result ConfirmResult
	err = h.addressRepo.UpdateAddress(ctx, c.AddressID(), func(ctx context.Context, a *address.Address) error {
		if err := a.MarkVerified(); err != nil {
			return err
		}
		result = ConfirmResult{
			AddressID: a.ID(),
			UserID:    a.UserID(),
			Email:     a.Email(),
			Primary:   a.IsPrimary(),
		}
		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to mark address verified")
		return nil, fmt.Errorf("failed to mark address verified: %w", err)
	}

	if cmd.MakePrimary && !result.Primary {
		if err := h.addressRepo.SetAsPrimary(ctx, result.AddressID, h.overwriteUsername); err != nil {
			otelx.RecordSpanError(span, err, "failed to promote confirmed address")
			return nil, fmt.Errorf("failed to promote confirmed address: %w", err)
		}
		result.Primary = true
	}

	h.logger.InfoContext(ctx, "email address confirmed",
		slog.String("address.id", result.AddressID.String()),
		slog.String("user.id", result.UserID.String()),
		slog.String("address.email", logging.RedactEmail(result.Email)),
		slog.Bool("address.primary", result.Primary),
	)

	return &result, nil
}
