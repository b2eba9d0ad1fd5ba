package addresshttp

import (
	"log/slog"
	"net/http"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	addressapp "gitlab.com/verimail/verimail-backend/internal/application/address"
	"gitlab.com/verimail/verimail-backend/internal/application/address/cmd"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
	"gitlab.com/verimail/verimail-backend/pkg/httpx"
	"gitlab.com/verimail/verimail-backend/pkg/logging"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
	"gitlab.com/verimail/verimail-backend/pkg/sanitizex"
	"gitlab.com/verimail/verimail-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("verimail/internal/ports/http/address")
	logger = otelslog.NewLogger("verimail/internal/ports/http/address")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	cmd        *addressapp.Command
	query      *addressapp.Query
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *addressapp.App
	Errhandler *httpx.ErrorHandler
}

func NewHTTP(args Args) *HTTP {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &HTTP{
		tracer:     args.Tracer,
		logger:     args.Logger,
		cmd:        &args.App.CMD,
		query:      &args.App.Query,
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Route("/v1/users/{user_id}/emails", func(r chi.Router) {
		r.Post("/", h.AddEmail)
		r.Get("/", h.ListAddresses)
		r.Get("/primary", h.GetPrimary)
		r.Post("/primary", h.PromoteToPrimary)
	})
	r.Get("/v1/addresses/verified-users", h.FindVerifiedUsers)
}

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		return uuid.Nil, errorx.NewInvalidRequest().WithCause(err)
	}
	return id, nil
}

type AddEmailRequest struct {
	Email string `json:"email"`

	userID uuid.UUID
}

func (r *AddEmailRequest) Sanitized() {
	r.Email = sanitizex.Email(r.Email)
}

func (r *AddEmailRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{
		"user.id": r.userID,
		"email":   logging.RedactEmail(r.Email),
	})
}

func (r *AddEmailRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
	)
}

func (h *HTTP) AddEmail(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddEmail")
	defer span.End()

	userID, err := userIDFromRequest(r)
	if err != nil {
		h.errhandler.HandleError(w, r, err)
		return
	}

	req := AddEmailRequest{userID: userID}
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, errorx.NewMalformedJSON().WithCause(err))
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, err)
		return
	}

	if err := h.cmd.AddEmail.Handle(ctx, cmd.AddEmail{UserID: userID, Email: req.Email}); err != nil {
		otelx.RecordSpanError(span, err, "failed to add email address")
		h.errhandler.HandleError(w, r, err)
		return
	}

	httpx.Success(w, r, http.StatusAccepted, nil)
}

func (h *HTTP) ListAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListAddresses")
	defer span.End()

	userID, err := userIDFromRequest(r)
	if err != nil {
		h.errhandler.HandleError(w, r, err)
		return
	}
	otelx.SetSpanAttrs(span, map[string]any{"user.id": userID})

	addrs, err := h.query.ListAddresses.Handle(ctx, userID)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to list email addresses")
		h.errhandler.HandleError(w, r, err)
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"addresses": addrs})
}

func (h *HTTP) GetPrimary(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetPrimary")
	defer span.End()

	userID, err := userIDFromRequest(r)
	if err != nil {
		h.errhandler.HandleError(w, r, err)
		return
	}
	otelx.SetSpanAttrs(span, map[string]any{"user.id": userID})

	addr, err := h.query.GetPrimary.Handle(ctx, userID)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get primary email address")
		h.errhandler.HandleError(w, r, err)
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"address": addr})
}

type PromoteToPrimaryRequest struct {
	Email string `json:"email"`

	userID uuid.UUID
}

func (r *PromoteToPrimaryRequest) Sanitized() {
	r.Email = sanitizex.Email(r.Email)
}

func (r *PromoteToPrimaryRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{
		"user.id": r.userID,
		"email":   logging.RedactEmail(r.Email),
	})
}

func (r *PromoteToPrimaryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
	)
}

func (h *HTTP) PromoteToPrimary(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PromoteToPrimary")
	defer span.End()

	userID, err := userIDFromRequest(r)
	if err != nil {
		h.errhandler.HandleError(w, r, err)
		return
	}

	req := PromoteToPrimaryRequest{userID: userID}
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, errorx.NewMalformedJSON().WithCause(err))
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, err)
		return
	}

	if err := h.cmd.PromoteToPrimary.Handle(ctx, cmd.PromoteToPrimary{UserID: userID, Email: req.Email}); err != nil {
		otelx.RecordSpanError(span, err, "failed to promote email address")
		h.errhandler.HandleError(w, r, err)
		return
	}

	httpx.Success(w, r, http.StatusOK, nil)
}

func (h *HTTP) FindVerifiedUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FindVerifiedUsers")
	defer span.End()

	email := sanitizex.Email(r.URL.Query().Get("email"))
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(email)})

	if err := validation.Validate(email, validationx.EmailRules...); err != nil {
		h.errhandler.HandleError(w, r, err)
		return
	}

	users, err := h.query.FindVerifiedUsers.Handle(ctx, email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to find verified users")
		h.errhandler.HandleError(w, r, err)
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"users": users})
}
