package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeuanimo/expensegate/internal/core/domain"
)

// SessionRepository is the Postgres-backed session store. Expected table:
//
//	CREATE TABLE sessions (
//	    id          UUID PRIMARY KEY,
//	    token_hash  TEXT UNIQUE NOT NULL,
//	    owner_id    BIGINT NOT NULL,
//	    display_name TEXT NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL,
//	    expires_at  TIMESTAMPTZ NOT NULL
//	);
type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Put(ctx context.Context, tokenHash string, sess domain.Session) error {
	query := `
		INSERT INTO sessions (id, token_hash, owner_id, display_name, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (token_hash) DO UPDATE
		SET owner_id = $3, display_name = $4, created_at = $5, expires_at = $6
	`
	_, err := r.db.Exec(ctx, query,
		uuid.New(), tokenHash, sess.OwnerID, sess.DisplayName, sess.CreatedAt, sess.ExpiresAt)
	return err
}

func (r *SessionRepository) Get(ctx context.Context, tokenHash string) (*domain.Session, error) {
	query := `
		SELECT owner_id, display_name, created_at, expires_at
		FROM sessions WHERE token_hash = $1
	`
	var sess domain.Session
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&sess.OwnerID, &sess.DisplayName, &sess.CreatedAt, &sess.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
