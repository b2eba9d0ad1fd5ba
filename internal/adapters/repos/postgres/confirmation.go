package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/verimail-backend/internal/domain/confirmation"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
	"gitlab.com/verimail/verimail-backend/pkg/postgres"
	"gitlab.com/verimail/verimail-backend/pkg/watermillx"
)

type ConfirmationRepo struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	pool    *pgxpool.Pool
	wlogger watermill.LoggerAdapter
}

// NewConfirmationRepo creates a new instance of ConfirmationRepo.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if pool is nil
func NewConfirmationRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *ConfirmationRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &ConfirmationRepo{
		tracer:  t,
		logger:  l,
		pool:    pool,
		wlogger: watermill.NewSlogLogger(l),
	}
}

func (re *ConfirmationRepo) SaveConfirmation(ctx context.Context, c *confirmation.Confirmation) error {
	ctx, span := re.tracer.Start(ctx, "ConfirmationRepo.SaveConfirmation")
	defer span.End()

	dto := DomainToConfirmationDTO(c)

	query := `
        INSERT INTO email_confirmations (id, address_id, key, created_at)
        VALUES ($1, $2, $3, $4)
    `

	return postgres.WithTx(ctx, re.pool, func(ctx context.Context, tx pgx.Tx) error {
		res, err := tx.Exec(ctx, query, dto.ID, dto.AddressID, dto.Key, dto.CreatedAt)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert confirmation")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when inserting confirmation")
			return fmt.Errorf("failed to insert confirmation: %w", ErrNoRowsAffected)
		}

		if events := c.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, re.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}
		return nil
	})
}

func (re *ConfirmationRepo) GetConfirmationByKey(ctx context.Context, key string) (*confirmation.Confirmation, error) {
	ctx, span := re.tracer.Start(ctx, "ConfirmationRepo.GetConfirmationByKey")
	defer span.End()

	query := `
        SELECT id, address_id, key, created_at
        FROM email_confirmations
        WHERE key = $1;
    `

	var dto ConfirmationDTO
	err := re.pool.QueryRow(ctx, query, key).Scan(&dto.ID, &dto.AddressID, &dto.Key, &dto.CreatedAt)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get confirmation by key")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, confirmation.ErrKeyNotFound.WithCause(err)
		}
		return nil, err
	}

	return ConfirmationToDomain(dto), nil
}

// GetLatestKey returns the most recent key issued for an address. It backs a
// development-only endpoint, production flows never read keys back.
func (re *ConfirmationRepo) GetLatestKey(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	ctx, span := re.tracer.Start(ctx, "ConfirmationRepo.GetLatestKey")
	defer span.End()

	query := `
        SELECT c.key
        FROM email_confirmations c
        JOIN email_addresses a ON a.id = c.address_id
        WHERE a.user_id = $1 AND a.email = $2
        ORDER BY c.created_at DESC
        LIMIT 1;
    `

	var key string
	err := re.pool.QueryRow(ctx, query, userID, email).Scan(&key)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get latest confirmation key")
		if errors.Is(err, pgx.ErrNoRows) {
			return "", confirmation.ErrKeyNotFound.WithCause(err)
		}
		return "", err
	}

	return key, nil
}

// DeleteExpired removes confirmations created before the cutoff and returns
// how many were deleted. Addresses and their verified state are untouched.
func (re *ConfirmationRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, span := re.tracer.Start(ctx, "ConfirmationRepo.DeleteExpired")
	defer span.End()

	query := `
        DELETE FROM email_confirmations
        WHERE created_at <= $1;
    `

	res, err := re.pool.Exec(ctx, query, cutoff)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to delete expired confirmations")
		return 0, err
	}

	return res.RowsAffected(), nil
}
