package address

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/verimail/verimail-backend/internal/application/address/cmd"
	"gitlab.com/verimail/verimail-backend/internal/application/address/query"
)

type App struct {
	CMD   Command
	Query Query
}

type Command struct {
	AddEmail         *cmd.AddEmailHandler
	PromoteToPrimary *cmd.PromoteToPrimaryHandler
}

type Query struct {
	GetPrimary        *query.GetPrimaryHandler
	FindVerifiedUsers *query.FindVerifiedUsersHandler
	ListAddresses     *query.ListAddressesHandler
}

type Args struct {
	Repo              cmd.Repo
	Pool              *pgxpool.Pool
	OverwriteUsername bool
}

func NewApp(args Args) *App {
	return &App{
		CMD: Command{
			AddEmail: cmd.NewAddEmailHandler(cmd.AddEmailHandlerArgs{
				Repo: args.Repo,
			}),
			PromoteToPrimary: cmd.NewPromoteToPrimaryHandler(cmd.PromoteToPrimaryHandlerArgs{
				Repo:              args.Repo,
				OverwriteUsername: args.OverwriteUsername,
			}),
		},
		Query: Query{
			GetPrimary:        query.NewGetPrimaryHandler(args.Pool),
			FindVerifiedUsers: query.NewFindVerifiedUsersHandler(args.Pool),
			ListAddresses:     query.NewListAddressesHandler(args.Pool),
		},
	}
}
