package postgres

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

var (
	tracer = otel.Tracer("verimail/internal/adapters/repos/postgres")
	logger = otelslog.NewLogger("verimail/internal/adapters/repos/postgres")
)
