package mailevent

import (
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	verimail "gitlab.com/verimail/verimail-backend"
	"gitlab.com/verimail/verimail-backend/internal/domain/mails"
)

var (
	tracer = otel.Tracer("verimail/application/mail/event")
	logger = otelslog.NewLogger("verimail/application/mail/event")
)

type MailSender interface {
	SendMail(ctx context.Context, payload mails.Payload) error
}

type MailEventHandler struct {
	tracer             trace.Tracer
	logger             *slog.Logger
	mailsender         MailSender
	activationProtocol string
	activationHost     string
	windowDays         int
	subjectTmpl        *template.Template
	messageTmpl        *template.Template
}

type MailEventHandlerArgs struct {
	Tracer             trace.Tracer
	Logger             *slog.Logger
	Mailsender         MailSender
	ActivationProtocol string
	ActivationHost     string
	WindowDays         int
}

func NewMailEventHandler(args MailEventHandlerArgs) (*MailEventHandler, error) {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	subjectTmpl, err := template.ParseFS(verimail.MailTemplates, "templates/mail/confirmation_subject.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse subject template: %w", err)
	}
	messageTmpl, err := template.ParseFS(verimail.MailTemplates, "templates/mail/confirmation_message.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse message template: %w", err)
	}

	return &MailEventHandler{
		tracer:             args.Tracer,
		logger:             args.Logger,
		mailsender:         args.Mailsender,
		activationProtocol: args.ActivationProtocol,
		activationHost:     args.ActivationHost,
		windowDays:         args.WindowDays,
		subjectTmpl:        subjectTmpl,
		messageTmpl:        messageTmpl,
	}, nil
}
