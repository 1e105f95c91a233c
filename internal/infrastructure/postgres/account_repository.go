package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain/entity"
	"inkwell/internal/domain/repository"
	"inkwell/pkg/apperr"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, username, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at, updated_at
	`, a.Email, a.Password, a.Username, a.AvatarURL)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.Conflict, "email already in use", err)
		}
		return err
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.getBy(ctx, `WHERE id = $1::uuid`, id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *AccountRepository) getBy(ctx context.Context, where string, arg any) (*entity.Account, error) {
	a := &entity.Account{}
	row := r.pool.QueryRow(ctx, `
		SELECT id::text, email, password_hash, username, avatar_url, created_at, updated_at
		FROM users `+where, arg)

	if err := row.Scan(&a.ID, &a.Email, &a.Password, &a.Username, &a.AvatarURL,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, apperr.New(apperr.NotFound, "account not found")
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	a.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $1, avatar_url = $2, password_hash = $3, updated_at = $4
		WHERE id = $5::uuid
	`, a.Username, a.AvatarURL, a.Password, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "account not found")
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
