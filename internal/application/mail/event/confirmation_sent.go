package mailevent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
	"gitlab.com/verimail/verimail-backend/internal/domain/mails"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
	"gitlab.com/verimail/verimail-backend/pkg/logging"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
	"gitlab.com/verimail/verimail-backend/pkg/urlx"
)

type confirmationMailData struct {
	Email           string
	ActivationURL   string
	ConfirmationKey string
	WindowDays      int
}

// HandleEmailConfirmationSent renders and sends the confirmation mail. It
// fires after the confirmation row is committed, so a user clicking the link
// the moment it arrives will always find the key.
func (h *MailEventHandler) HandleEmailConfirmationSent(ctx context.Context, e *confirmation.EmailConfirmationSent) error {
	if e == nil {
		return nil
	}
	const op = "mailevent.MailEventHandler.HandleEmailConfirmationSent"

	l := h.logger.With(
		slog.String("event", "EmailConfirmationSent"),
		slog.String("confirmation.id", e.ConfirmationID.String()),
	)
	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandleEmailConfirmationSent",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("event.confirmation.id", e.ConfirmationID.String()),
			attribute.String("event.address.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	err := validation.ValidateStruct(e,
		validation.Field(&e.Email, validation.Required, is.EmailFormat),
		validation.Field(&e.Key, validation.Required),
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "validation failed")
		l.ErrorContext(ctx, "validation failed", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	activationURL, err := urlx.BuildActivationURL(h.activationProtocol, h.activationHost, e.Key)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to build activation url")
		l.ErrorContext(ctx, "failed to build activation url", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	data := confirmationMailData{
		Email:           e.Email,
		ActivationURL:   activationURL,
		ConfirmationKey: e.Key,
		WindowDays:      h.windowDays,
	}

	var subject, body strings.Builder
	if err := h.subjectTmpl.Execute(&subject, data); err != nil {
		otelx.RecordSpanError(span, err, "failed to render subject template")
		return errorx.Wrap(err, op)
	}
	if err := h.messageTmpl.Execute(&body, data); err != nil {
		otelx.RecordSpanError(span, err, "failed to render message template")
		return errorx.Wrap(err, op)
	}

	payload := mails.Payload{
		To: e.Email,
		// header injection guard, a subject must never span lines
		Subject: strings.Join(strings.Fields(subject.String()), " "),
		Body:    body.String(),
	}
	if err := h.mailsender.SendMail(ctx, payload); err != nil {
		otelx.RecordSpanError(span, err, "failed to send confirmation mail")
		l.ErrorContext(ctx, "failed to send confirmation mail", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	l.InfoContext(ctx, "confirmation mail sent",
		slog.String("address.email", logging.RedactEmail(e.Email)),
	)

	return nil
}
