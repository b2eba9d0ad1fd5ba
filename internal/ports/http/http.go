package http

import (
	"github.com/go-chi/chi/v5"

	addressapp "gitlab.com/verimail/verimail-backend/internal/application/address"
	confirmationapp "gitlab.com/verimail/verimail-backend/internal/application/confirmation"
	addresshttp "gitlab.com/verimail/verimail-backend/internal/ports/http/address"
	confirmationhttp "gitlab.com/verimail/verimail-backend/internal/ports/http/confirmation"
	"gitlab.com/verimail/verimail-backend/pkg/httpx"
)

type Port struct {
	address      *addresshttp.HTTP
	confirmation *confirmationhttp.HTTP
}

type Args struct {
	AddressApp      *addressapp.App
	ConfirmationApp *confirmationapp.App
	Errhandler      *httpx.ErrorHandler
}

func NewPort(args Args) *Port {
	if args.Errhandler == nil {
		args.Errhandler = httpx.NewErrorHandler()
	}

	return &Port{
		address: addresshttp.NewHTTP(addresshttp.Args{
			App:        args.AddressApp,
			Errhandler: args.Errhandler,
		}),
		confirmation: confirmationhttp.NewHTTP(confirmationhttp.Args{
			App:        args.ConfirmationApp,
			Errhandler: args.Errhandler,
		}),
	}
}

func (p *Port) Route(r chi.Router) chi.Router {
	if r == nil {
		r = chi.NewRouter()
	}

	p.address.Route(r)
	p.confirmation.Route(r)

	return r
}
