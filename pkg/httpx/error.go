package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ARUMANDESU/validation"
	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	verimail "gitlab.com/verimail/verimail-backend"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
)

type ErrorHandler struct {
	bundle *i18n.Bundle
	enloc  *i18n.Localizer
}

func NewErrorHandler() *ErrorHandler {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.LoadMessageFileFS(verimail.Locales, "locales/en.toml")
	bundle.LoadMessageFileFS(verimail.Locales, "locales/validation.en.toml")

	return &ErrorHandler{
		bundle: bundle,
		enloc:  i18n.NewLocalizer(bundle, "en"),
	}
}

func (h *ErrorHandler) Localizer(lang string) *i18n.Localizer {
	if lang == "" || lang == "en" {
		return h.enloc
	}
	return i18n.NewLocalizer(h.bundle, lang, "en")
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "HTTP error response", "error", err.Error())

	lang := r.Header.Get("Accept-Language")
	localizer := h.Localizer(lang)

	var appErr *errorx.I18nError
	if errors.As(err, &appErr) {
		writeError(w, r,
			appErr.Code,
			appErr.Localize(localizer),
			appErr.HTTPStatusCode(),
		)
		return
	}

	var valErrs validation.Errors
	if errors.As(err, &valErrs) {
		var msg strings.Builder
		for field, fieldErr := range valErrs {
			if valErr, ok := fieldErr.(validation.Error); ok {
				msg.WriteString(fmt.Sprintf("%s: %s; ", field, localizeValidation(localizer, valErr)))
			} else {
				msg.WriteString(fmt.Sprintf("%s: %s; ", field, fieldErr.Error()))
			}
		}
		writeError(w, r,
			errorx.CodeValidationFailed,
			msg.String(),
			http.StatusBadRequest,
		)
		return
	}

	var valErr validation.Error
	if errors.As(err, &valErr) {
		writeError(w, r,
			errorx.CodeValidationFailed,
			localizeValidation(localizer, valErr),
			http.StatusBadRequest,
		)
		return
	}

	slog.ErrorContext(r.Context(), "Unhandled error", "error", err)
	internalErr := errorx.NewInternalError().WithCause(err)
	writeError(w, r,
		internalErr.Code,
		internalErr.Localize(localizer),
		internalErr.HTTPStatusCode(),
	)
}

func localizeValidation(localizer *i18n.Localizer, valErr validation.Error) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    valErr.Code(),
		TemplateData: valErr.Params(),
	})
	if err != nil {
		return valErr.Error()
	}
	return msg
}

func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	slog.ErrorContext(r.Context(), "Bad request", "message", message)
	writeError(w, r,
		errorx.CodeInvalid,
		message,
		http.StatusBadRequest,
	)
}

func writeError(w http.ResponseWriter, r *http.Request,
	code errorx.Code,
	message string,
	status int,
) {
	response := Envelope{
		"code":    code,
		"message": message,
		"success": false,
	}

	err := WriteJSON(w, status, response, nil)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to write error response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
