package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/verimail-backend/internal/domain/address"
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
	"gitlab.com/verimail/verimail-backend/pkg/otelx"
	"gitlab.com/verimail/verimail-backend/pkg/postgres"
	"gitlab.com/verimail/verimail-backend/pkg/watermillx"
)

type AddressRepo struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	pool    *pgxpool.Pool
	wlogger watermill.LoggerAdapter
}

// NewAddressRepo creates a new instance of AddressRepo.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if pool is nil
func NewAddressRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *AddressRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &AddressRepo{
		tracer:  t,
		logger:  l,
		pool:    pool,
		wlogger: watermill.NewSlogLogger(l),
	}
}

const addressColumns = `id, user_id, email, verified, "primary", created_at, updated_at`

func scanAddress(row pgx.Row) (AddressDTO, error) {
	var dto AddressDTO
	err := row.Scan(
		&dto.ID, &dto.UserID, &dto.Email,
		&dto.Verified, &dto.Primary,
		&dto.CreatedAt, &dto.UpdatedAt,
	)
	return dto, err
}

func (re *AddressRepo) SaveAddress(ctx context.Context, a *address.Address) error {
	ctx, span := re.tracer.Start(ctx, "AddressRepo.SaveAddress")
	defer span.End()

	dto := DomainToAddressDTO(a)

	query := `
        INSERT INTO email_addresses (id, user_id, email, verified, "primary", created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	return postgres.WithTx(ctx, re.pool, func(ctx context.Context, tx pgx.Tx) error {
		res, err := tx.Exec(ctx, query,
			dto.ID, dto.UserID, dto.Email,
			dto.Verified, dto.Primary,
			dto.CreatedAt, dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert email address")
			if isUniqueViolation(err) {
				return address.ErrDuplicateEmail.WithCause(err)
			}
			if isForeignKeyViolation(err) {
				return address.ErrUserNotFound.WithCause(err)
			}
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when inserting email address")
			return fmt.Errorf("failed to insert email address: %w", ErrNoRowsAffected)
		}

		if events := a.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, re.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}
		return nil
	})
}

func (re *AddressRepo) GetAddressByID(ctx context.Context, id address.ID) (*address.Address, error) {
	ctx, span := re.tracer.Start(ctx, "AddressRepo.GetAddressByID")
	defer span.End()

	query := `
        SELECT ` + addressColumns + `
        FROM email_addresses
        WHERE id = $1;
    `

	dto, err := scanAddress(re.pool.QueryRow(ctx, query, uuid.UUID(id)))
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get email address by id")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrNotFound.WithCause(err)
		}
		return nil, err
	}

	return AddressToDomain(dto), nil
}

func (re *AddressRepo) GetAddressByUserAndEmail(ctx context.Context, userID uuid.UUID, email string) (*address.Address, error) {
	ctx, span := re.tracer.Start(ctx, "AddressRepo.GetAddressByUserAndEmail")
	defer span.End()

	query := `
        SELECT ` + addressColumns + `
        FROM email_addresses
        WHERE user_id = $1 AND email = $2;
    `

	dto, err := scanAddress(re.pool.QueryRow(ctx, query, userID, email))
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get email address by user and email")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrNotFound.WithCause(err)
		}
		return nil, err
	}

	return AddressToDomain(dto), nil
}

func (re *AddressRepo) GetPrimaryAddress(ctx context.Context, userID uuid.UUID) (*address.Address, error) {
	ctx, span := re.tracer.Start(ctx, "AddressRepo.GetPrimaryAddress")
	defer span.End()

	query := `
        SELECT ` + addressColumns + `
        FROM email_addresses
        WHERE user_id = $1 AND "primary";
    `

	dto, err := scanAddress(re.pool.QueryRow(ctx, query, userID))
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get primary email address")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrNotFound.WithCause(err)
		}
		return nil, err
	}

	return AddressToDomain(dto), nil
}

func (re *AddressRepo) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*address.Address, error) {
	ctx, span := re.tracer.Start(ctx, "AddressRepo.ListAddresses")
	defer span.End()

	query := `
        SELECT ` + addressColumns + `
        FROM email_addresses
        WHERE user_id = $1
        ORDER BY created_at;
    `

	rows, err := re.pool.Query(ctx, query, userID)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to list email addresses")
		return nil, err
	}
	defer rows.Close()

	var addrs []*address.Address
	for rows.Next() {
		dto, err := scanAddress(rows)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to scan email address")
			return nil, err
		}
		addrs = append(addrs, AddressToDomain(dto))
	}
	if err := rows.Err(); err != nil {
		otelx.RecordSpanError(span, err, "failed to iterate email addresses")
		return nil, err
	}

	return addrs, nil
}

// FindVerifiedUserIDs returns the IDs of users holding the given address in
// verified state. Several users may have verified the same address.
func (re *AddressRepo) FindVerifiedUserIDs(ctx context.Context, email string) ([]uuid.UUID, error) {
	ctx, span := re.tracer.Start(ctx, "AddressRepo.FindVerifiedUserIDs")
	defer span.End()

	query := `
        SELECT user_id
        FROM email_addresses
        WHERE email = $1 AND verified
        ORDER BY created_at;
    `

	rows, err := re.pool.Query(ctx, query, email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to find verified users")
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			otelx.RecordSpanError(span, err, "failed to scan user id")
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		otelx.RecordSpanError(span, err, "failed to iterate user ids")
		return nil, err
	}

	return ids, nil
}

func (re *AddressRepo) UpdateAddress(
	ctx context.Context,
	id address.ID,
	fn func(ctx context.Context, a *address.Address) error,
) error {
	ctx, span := re.tracer.Start(ctx, "AddressRepo.UpdateAddress")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "update function cannot be nil")
		return ErrNilFunc
	}

	selectquery := `
        SELECT ` + addressColumns + `
        FROM email_addresses
        WHERE id = $1
        FOR UPDATE;
    `
	updatequery := `
        UPDATE email_addresses
        SET email = $2, verified = $3, "primary" = $4, updated_at = $5
        WHERE id = $1;
    `

	return postgres.WithTx(ctx, re.pool, func(ctx context.Context, tx pgx.Tx) error {
		dto, err := scanAddress(tx.QueryRow(ctx, selectquery, uuid.UUID(id)))
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to get email address for update")
			if errors.Is(err, pgx.ErrNoRows) {
				return address.ErrNotFound.WithCause(err)
			}
			return err
		}

		addr := AddressToDomain(dto)

		fnerr := fn(ctx, addr)
		if fnerr != nil && !errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "failed to apply update function")
			return fnerr
		}

		dto = DomainToAddressDTO(addr)

		res, err := tx.Exec(ctx, updatequery,
			dto.ID, dto.Email, dto.Verified, dto.Primary, dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update email address")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when updating email address")
			return fmt.Errorf("failed to update email address: %w", ErrNoRowsAffected)
		}

		if events := addr.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, re.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}

		if fnerr != nil && errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "update function returned an error but is allowed to continue")
			return fnerr
		}
		return nil
	})
}

// SetAsPrimary promotes the address to the user's primary in one transaction:
// the current primary is demoted, the address promoted, and the user's login
// email mirrored. The partial unique index on (user_id) WHERE "primary"
// backs the at-most-one-primary invariant even under concurrent promotions.
func (re *AddressRepo) SetAsPrimary(ctx context.Context, id address.ID, overwriteUsername bool) error {
	ctx, span := re.tracer.Start(ctx, "AddressRepo.SetAsPrimary")
	defer span.End()

	selectquery := `
        SELECT ` + addressColumns + `
        FROM email_addresses
        WHERE id = $1
        FOR UPDATE;
    `
	demotequery := `
        UPDATE email_addresses
        SET "primary" = FALSE, updated_at = NOW()
        WHERE user_id = $1 AND "primary" AND id <> $2;
    `
	promotequery := `
        UPDATE email_addresses
        SET "primary" = TRUE, updated_at = $2
        WHERE id = $1;
    `

	return postgres.WithTx(ctx, re.pool, func(ctx context.Context, tx pgx.Tx) error {
		dto, err := scanAddress(tx.QueryRow(ctx, selectquery, uuid.UUID(id)))
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to get email address for promotion")
			if errors.Is(err, pgx.ErrNoRows) {
				return address.ErrNotFound.WithCause(err)
			}
			return err
		}

		addr := AddressToDomain(dto)
		if err := addr.SetPrimary(); err != nil {
			otelx.RecordSpanError(span, err, "address is not promotable")
			return err
		}

		if _, err := tx.Exec(ctx, demotequery, dto.UserID, dto.ID); err != nil {
			otelx.RecordSpanError(span, err, "failed to demote current primary")
			return translatePromoteError(err)
		}

		dto = DomainToAddressDTO(addr)
		res, err := tx.Exec(ctx, promotequery, dto.ID, dto.UpdatedAt)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to promote email address")
			return translatePromoteError(err)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when promoting email address")
			return fmt.Errorf("failed to promote email address: %w", ErrNoRowsAffected)
		}

		if err := re.mirrorUser(ctx, tx, dto, overwriteUsername); err != nil {
			otelx.RecordSpanError(span, err, "failed to mirror user login email")
			return err
		}

		if events := addr.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, re.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}
		return nil
	})
}

// translatePromoteError maps a unique violation from the partial index
// email_addresses_one_primary_per_user to the domain conflict error, so a lost
// promotion race does not read as an internal failure.
func translatePromoteError(err error) error {
	if isUniqueViolation(err) {
		return address.ErrPrimaryConflict.WithCause(err)
	}
	return err
}

func (re *AddressRepo) mirrorUser(ctx context.Context, tx pgx.Tx, dto AddressDTO, overwriteUsername bool) error {
	query := `
        UPDATE users
        SET email = $2, updated_at = NOW()
        WHERE id = $1;
    `
	if overwriteUsername {
		query = `
        UPDATE users
        SET email = $2, username = $2, updated_at = NOW()
        WHERE id = $1;
    `
	}

	res, err := tx.Exec(ctx, query, dto.UserID, dto.Email)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return address.ErrUserNotFound
	}
	return nil
}
