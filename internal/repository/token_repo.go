package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"simple-microservice/internal/domain"
)

// PgTokenRepository implementa TokenRepository usando pgxpool.
type PgTokenRepository struct {
	pool *pgxpool.Pool
}

func NewPgTokenRepository(pool *pgxpool.Pool) *PgTokenRepository {
	return &PgTokenRepository{pool: pool}
}

func (r *PgTokenRepository) Create(ctx context.Context, record domain.TokenRecord) error {
	const query = `
		INSERT INTO tokens (id, email, access_token, state, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.Email,
		record.AccessToken,
		string(record.State),
		record.ExpiryDate,
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

func (r *PgTokenRepository) GetByValue(ctx context.Context, accessToken string) (domain.TokenRecord, error) {
	if accessToken == "" {
		return domain.TokenRecord{}, ErrNotFound
	}
	const query = `
		SELECT id, email, access_token, state, expiry_date, created_at, updated_at
		FROM tokens
		WHERE access_token = $1 AND state = $2
		LIMIT 1
	`
	var (
		rec   domain.TokenRecord
		state string
	)
	err := r.pool.QueryRow(ctx, query, accessToken, string(domain.TokenActive)).Scan(
		&rec.ID,
		&rec.Email,
		&rec.AccessToken,
		&state,
		&rec.ExpiryDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TokenRecord{}, ErrNotFound
	}
	rec.State = domain.TokenState(state)
	return rec, err
}

func (r *PgTokenRepository) Update(ctx context.Context, record domain.TokenRecord) error {
	const query = `
		UPDATE tokens
		SET access_token = $2, state = $3, updated_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		record.ID,
		record.AccessToken,
		string(record.State),
		record.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
