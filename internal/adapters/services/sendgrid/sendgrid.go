package sendgrid

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/verimail-backend/internal/domain/mails"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
	"gitlab.com/verimail/verimail-backend/pkg/logging"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("verimail/internal/adapters/services/sendgrid")
	logger = otelslog.NewLogger("verimail/internal/adapters/services/sendgrid")
)

type Sender struct {
	tracer      trace.Tracer
	logger      *slog.Logger
	client      *sendgrid.Client
	fromName    string
	fromAddress string
}

type SenderArgs struct {
	Tracer      trace.Tracer
	Logger      *slog.Logger
	APIKey      string
	FromName    string
	FromAddress string
}

func NewSender(args SenderArgs) *Sender {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &Sender{
		tracer:      args.Tracer,
		logger:      args.Logger,
		client:      sendgrid.NewSendClient(args.APIKey),
		fromName:    args.FromName,
		fromAddress: args.FromAddress,
	}
}

func (s *Sender) SendMail(ctx context.Context, payload mails.Payload) error {
	ctx, span := s.tracer.Start(ctx, "Sender.SendMail",
		trace.WithAttributes(attribute.String("mail.to", logging.RedactEmail(payload.To))),
	)
	defer span.End()

	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail("", payload.To)
	message := mail.NewSingleEmail(from, payload.Subject, to, payload.Body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to send mail")
		s.logger.ErrorContext(ctx, "failed to send mail",
			slog.String("mail.to", logging.RedactEmail(payload.To)),
			slog.Any("error", err),
		)
		return errorx.NewUpstreamServiceError().WithCause(err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
		otelx.RecordSpanError(span, err, "mail rejected")
		s.logger.ErrorContext(ctx, "mail rejected",
			slog.String("mail.to", logging.RedactEmail(payload.To)),
			slog.Int("status_code", resp.StatusCode),
		)
		return errorx.NewUpstreamServiceError().WithCause(err)
	}

	s.logger.InfoContext(ctx, "mail sent",
		slog.String("mail.to", logging.RedactEmail(payload.To)),
		slog.Int("status_code", resp.StatusCode),
	)

	return nil
}
