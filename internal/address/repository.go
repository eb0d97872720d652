package address

import (
	"context"
	"database/sql"

	"github.com/Ayush3323/printingbackend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)
	GetByUserID(ctx context.Context, userID uint) ([]*Address, error)
	GetDefault(ctx context.Context, userID uint, typ Type) (*Address, error)
	Create(ctx context.Context, addr *Address) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SetDefaultTx atomically clears the current default for
	// (user, type) and marks the given address. A single transaction
	// keeps concurrent calls from leaving two defaults, or none.
	SetDefaultTx(ctx context.Context, userID uint, typ Type, addressID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const addressColumns = `
	id, user_id,
	company_name, recipient_name, phone_number,
	street, apartment_suite, city, state, zip_code, country,
	type, is_default, created_at, updated_at
`

func scanAddress(row interface{ Scan(...any) error }) (*Address, error) {
	var a Address
	err := row.Scan(
		&a.ID, &a.UserID,
		&a.CompanyName, &a.RecipientName, &a.PhoneNumber,
		&a.Street, &a.ApartmentSuite, &a.City, &a.State, &a.ZipCode, &a.Country,
		&a.Type, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "GetByID"),
		zap.String("address_id", id.String()),
	)

	const q = `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE id = $1
		LIMIT 1
	`

	a, err := scanAddress(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uint) ([]*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "GetByUserID"),
		zap.Uint("user_id", userID),
	)

	const q = `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var res []*Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *repository) GetDefault(ctx context.Context, userID uint, typ Type) (*Address, error) {
	const q = `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1 AND type = $2 AND is_default = true
		LIMIT 1
	`

	a, err := scanAddress(r.db.QueryRowContext(ctx, q, userID, typ))
	if err == sql.ErrNoRows {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, addr *Address) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "Create"),
		zap.String("address_id", addr.ID.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if addr.IsDefault {
		if err := clearDefault(ctx, tx, addr.UserID, addr.Type); err != nil {
			log.Error("clear default failed", zap.Error(err))
			return err
		}
	}

	const q = `
		INSERT INTO addresses (
			id, user_id,
			company_name, recipient_name, phone_number,
			street, apartment_suite, city, state, zip_code, country,
			type, is_default
		) VALUES (
			$1, $2,
			$3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12, $13
		)
	`

	_, err = tx.ExecContext(
		ctx, q,
		addr.ID, addr.UserID,
		addr.CompanyName, addr.RecipientName, addr.PhoneNumber,
		addr.Street, addr.ApartmentSuite, addr.City, addr.State, addr.ZipCode, addr.Country,
		addr.Type, addr.IsDefault,
	)
	if err != nil {
		log.Error("insert failed", zap.Error(err))
		return err
	}

	return tx.Commit()
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM addresses WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *repository) SetDefaultTx(
	ctx context.Context,
	userID uint,
	typ Type,
	addressID uuid.UUID,
) error {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "SetDefaultTx"),
		zap.String("address_id", addressID.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize concurrent set-default calls on the target row.
	var owner uint
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM addresses WHERE id = $1 AND type = $2 FOR UPDATE`,
		addressID, typ,
	).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrAddressNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrAddressNotFound
	}

	if err := clearDefault(ctx, tx, userID, typ); err != nil {
		log.Error("clear default failed", zap.Error(err))
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE addresses SET is_default = true, updated_at = NOW() WHERE id = $1`,
		addressID,
	)
	if err != nil {
		log.Error("set default failed", zap.Error(err))
		return err
	}

	return tx.Commit()
}

func clearDefault(ctx context.Context, tx *sql.Tx, userID uint, typ Type) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE addresses
		SET is_default = false, updated_at = NOW()
		WHERE user_id = $1 AND type = $2 AND is_default = true
	`, userID, typ)
	return err
}
