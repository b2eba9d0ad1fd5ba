package logging

import (
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"gitlab.com/verimail/verimail-backend/pkg/env"
)

// Setup builds the process-wide logger: a JSON handler on stderr at the
// mode's level, fanned out to the OTel log bridge so records also reach the
// configured log exporter.
func Setup(mode env.Mode) (*slog.Logger, func()) {
	stderrHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: mode.SlogLevel(),
	})
	otelHandler := otelslog.NewHandler("verimail")

	logger := slog.New(fanoutHandler{handlers: []slog.Handler{stderrHandler, otelHandler}})

	return logger, func() {}
}
