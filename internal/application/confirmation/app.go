package confirmation

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/verimail/verimail-backend/internal/application/confirmation/cmd"
	confirmationevent "gitlab.com/verimail/verimail-backend/internal/application/confirmation/event"
	"gitlab.com/verimail/verimail-backend/internal/application/confirmation/query"
)

type App struct {
	CMD   Command
	Event *confirmationevent.ConfirmationEventHandler
	Query Query
}

type Command struct {
	Send         *cmd.SendHandler
	Confirm      *cmd.ConfirmHandler
	SweepExpired *cmd.SweepExpiredHandler
}

type Query struct {
	GetKey *query.GetKeyHandler
}

type Args struct {
	Repo              cmd.Repo
	AddressRepo       cmd.AddressRepo
	Pool              *pgxpool.Pool
	Window            time.Duration
	OverwriteUsername bool
}

func NewApp(args Args) *App {
	send := cmd.NewSendHandler(cmd.SendHandlerArgs{
		Repo:        args.Repo,
		AddressRepo: args.AddressRepo,
	})

	return &App{
		CMD: Command{
			Send: send,
			Confirm: cmd.NewConfirmHandler(cmd.ConfirmHandlerArgs{
				Repo:              args.Repo,
				AddressRepo:       args.AddressRepo,
				Window:            args.Window,
				OverwriteUsername: args.OverwriteUsername,
			}),
			SweepExpired: cmd.NewSweepExpiredHandler(cmd.SweepExpiredHandlerArgs{
				Repo:   args.Repo,
				Window: args.Window,
			}),
		},
		Event: confirmationevent.NewConfirmationEventHandler(confirmationevent.ConfirmationEventHandlerArgs{
			Repo:        args.Repo,
			AddressRepo: args.AddressRepo,
		}),
		Query: Query{
			GetKey: query.NewGetKeyHandler(args.Pool),
		},
	}
}
