package integration

import (
	"context"
	"net/http"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/verimail/verimail-backend/internal/adapters/repos/postgres"
	addressapp "gitlab.com/verimail/verimail-backend/internal/application/address"
	confirmationapp "gitlab.com/verimail/verimail-backend/internal/application/confirmation"
	"gitlab.com/verimail/verimail-backend/internal/application/mail"
	httpport "gitlab.com/verimail/verimail-backend/internal/ports/http"
	watermillport "gitlab.com/verimail/verimail-backend/internal/ports/watermill"
	"gitlab.com/verimail/verimail-backend/tests/mocks"
)

type App struct {
	HTTPHandler      http.Handler
	MockMailSender   *mocks.MockMailSender
	AddressRepo      *postgres.AddressRepo
	ConfirmationRepo *postgres.ConfirmationRepo
	AddressApp       *addressapp.App
	ConfirmationApp  *confirmationapp.App
	EventRouter      *message.Router
}

func NewApp(ctx context.Context, pool *pgxpool.Pool) (*App, error) {
	mux := chi.NewRouter()

	addressRepo := postgres.NewAddressRepo(pool, nil, nil)
	confirmationRepo := postgres.NewConfirmationRepo(pool, nil, nil)

	mockMailSender := mocks.NewMockMailSender()

	addrApp := addressapp.NewApp(addressapp.Args{
		Repo: addressRepo,
		Pool: pool,
	})
	confApp := confirmationapp.NewApp(confirmationapp.Args{
		Repo:        confirmationRepo,
		AddressRepo: addressRepo,
		Pool:        pool,
	})
	mailApp, err := mail.NewApp(mail.Args{
		Mailsender:         mockMailSender,
		ActivationProtocol: "http",
		ActivationHost:     "localhost:8080",
		WindowDays:         7,
	})
	if err != nil {
		return nil, err
	}

	wlogger := watermill.NewStdLogger(false, false)
	eventRouter, err := message.NewRouter(message.RouterConfig{}, wlogger)
	if err != nil {
		return nil, err
	}

	wmport, err := watermillport.NewPortForTest(eventRouter, pool, wlogger)
	if err != nil {
		return nil, err
	}
	if err := wmport.Run(watermillport.AppEventHandlers{
		Confirmation: confApp.Event,
		Mail:         mailApp.Event,
	}); err != nil {
		return nil, err
	}

	go func() {
		_ = eventRouter.Run(ctx)
	}()
	<-eventRouter.Running()

	port := httpport.NewPort(httpport.Args{
		AddressApp:      addrApp,
		ConfirmationApp: confApp,
	})
	port.Route(mux)

	return &App{
		HTTPHandler:      mux,
		MockMailSender:   mockMailSender,
		AddressRepo:      addressRepo,
		ConfirmationRepo: confirmationRepo,
		AddressApp:       addrApp,
		ConfirmationApp:  confApp,
		EventRouter:      eventRouter,
	}, nil
}
