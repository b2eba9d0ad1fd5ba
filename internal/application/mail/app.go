package mail

import (
	mailevent "gitlab.com/verimail/verimail-backend/internal/application/mail/event"
)

type App struct {
	Event *mailevent.MailEventHandler
}

type Args struct {
	Mailsender         mailevent.MailSender
	ActivationProtocol string
	ActivationHost     string
	WindowDays         int
}

func NewApp(args Args) (*App, error) {
	handler, err := mailevent.NewMailEventHandler(mailevent.MailEventHandlerArgs{
		Mailsender:         args.Mailsender,
		ActivationProtocol: args.ActivationProtocol,
		ActivationHost:     args.ActivationHost,
		WindowDays:         args.WindowDays,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Event: handler,
	}, nil
}
