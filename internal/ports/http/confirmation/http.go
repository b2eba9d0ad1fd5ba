package confirmationhttp

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	confirmationapp "gitlab.com/verimail/verimail-backend/internal/application/confirmation"
	"gitlab.com/verimail/verimail-backend/internal/application/confirmation/cmd"
	"gitlab.com/verimail/verimail-backend/pkg/env"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
	"gitlab.com/verimail/verimail-backend/pkg/httpx"
	"gitlab.com/verimail/verimail-backend/pkg/logging"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
	"gitlab.com/verimail/verimail-backend/pkg/sanitizex"
	"gitlab.com/verimail/verimail-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("verimail/internal/ports/http/confirmation")
	logger = otelslog.NewLogger("verimail/internal/ports/http/confirmation")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	cmd        *confirmationapp.Command
	query      *confirmationapp.Query
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *confirmationapp.App
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
	r.Route("/v1/confirmations", func(r chi.Router) {
		r.Post("/", h.SendConfirmation)
		// the activation link is followed from a mail client, so GET works too
		r.Get("/{key}/confirm", h.Confirm)
		r.Post("/{key}/confirm", h.Confirm)
	})

	if env.Current() == env.Dev || env.Current() == env.Local || env.Current() == env.Test {
		r.Get("/dev/confirmations/key", h.GetKey)
	}
}

type SendConfirmationRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

func (r *SendConfirmationRequest) Sanitized() {
	r.Email = sanitizex.Email(r.Email)
}

func (r *SendConfirmationRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{
		"user.id": r.UserID,
		"email":   logging.RedactEmail(r.Email),
	})
}

func (r *SendConfirmationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validationx.Required),
		validation.Field(&r.Email, validationx.EmailRules...),
	)
}

func (h *HTTP) SendConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SendConfirmation")
	defer span.End()

	var req SendConfirmationRequest
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

	if err := h.cmd.Send.Handle(ctx, cmd.Send{UserID: req.UserID, Email: req.Email}); err != nil {
		otelx.RecordSpanError(span, err, "failed to send confirmation")
		h.errhandler.HandleError(w, r, err)
		return
	}

	httpx.Success(w, r, http.StatusAccepted, nil)
}

func (h *HTTP) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Confirm")
	defer span.End()

	key := sanitizex.CleanSingleLine(chi.URLParam(r, "key"))

	// confirming promotes to primary unless the caller opts out
	makePrimary := true
	if raw := r.URL.Query().Get("make_primary"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.errhandler.HandleError(w, r, errorx.NewInvalidRequest().WithCause(err))
			return
		}
		makePrimary = v
	}
	otelx.SetSpanAttrs(span, map[string]any{
		"confirmation.key":          logging.RedactKey(key),
		"confirmation.make_primary": makePrimary,
	})

	if err := validation.Validate(key, validationx.ConfirmationKeyRules...); err != nil {
		// malformed keys read the same as unknown ones
		h.errhandler.HandleError(w, r, errorx.NewResourceNotFound("confirmation key").WithCause(err))
		return
	}

	result, err := h.cmd.Confirm.Handle(ctx, cmd.Confirm{Key: key, MakePrimary: makePrimary})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to confirm email address")
		h.errhandler.HandleError(w, r, err)
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"address": httpx.Envelope{
			"id":      result.AddressID,
			"user_id": result.UserID,
			"email":   result.Email,
			"primary": result.Primary,
		},
	})
}

func (h *HTTP) GetKey(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetKey")
	defer span.End()

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		h.errhandler.HandleError(w, r, errorx.NewInvalidRequest().WithCause(err))
		return
	}
	email := sanitizex.Email(r.URL.Query().Get("email"))
	otelx.SetSpanAttrs(span, map[string]any{
		"user.id": userID,
		"email":   logging.RedactEmail(email),
	})

	key, err := h.query.GetKey.Handle(ctx, userID, email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get confirmation key")
		h.errhandler.HandleError(w, r, err)
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"key": key})
}
