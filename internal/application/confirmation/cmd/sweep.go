package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
)

type SweepExpiredHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
	repo   Repo
	window time.Duration
}

type SweepExpiredHandlerArgs struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	Repo   Repo
	Window time.Duration
}

func NewSweepExpiredHandler(args SweepExpiredHandlerArgs) *SweepExpiredHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}
	if args.Window <= 0 {
		args.Window = confirmation.DefaultWindow
	}

	return &SweepExpiredHandler{
		tracer: args.Tracer,
		logger: args.Logger,
		repo:   args.Repo,
		window: args.Window,
	}
}

// Handle deletes confirmations whose window has closed. Verified addresses
// stay verified, only the dead keys go away.
func (h *SweepExpiredHandler) Handle(ctx context.Context) (int64, error) {
	ctx, span := h.tracer.Start(ctx, "SweepExpiredHandler.Handle")
	defer span.End()

	cutoff := time.Now().UTC().Add(-h.window)
	deleted, err := h.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to sweep expired confirmations")
		return 0, fmt.Errorf("failed to sweep expired confirmations: %w", err)
	}

	span.SetAttributes(attribute.Int64("confirmations.deleted", deleted))
	if deleted > 0 {
		h.logger.InfoContext(ctx, "swept expired confirmations", slog.Int64("deleted", deleted))
	}

	return deleted, nil
}
