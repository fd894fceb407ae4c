package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"omnicode-gateway/internal/domain"
)

// PgSessionStore implementa SessionStore sobre Postgres.
//
// Esquema esperado:
//
//	CREATE TABLE chat_sessions (
//	    user_id    text PRIMARY KEY,
//	    history    jsonb NOT NULL DEFAULT '[]',
//	    updated_at timestamptz NOT NULL
//	);
type PgSessionStore struct {
	pool *pgxpool.Pool
}

func NewPgSessionStore(pool *pgxpool.Pool) *PgSessionStore {
	return &PgSessionStore{pool: pool}
}

func (s *PgSessionStore) Get(ctx context.Context, userID string) (domain.Session, error) {
	const query = `
		SELECT user_id, history, updated_at
		FROM chat_sessions
		WHERE user_id = $1
	`
	var (
		session     domain.Session
		historyJSON []byte
	)
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&session.UserID,
		&historyJSON,
		&session.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}

	if err := json.Unmarshal(historyJSON, &session.History); err != nil {
		return domain.Session{}, fmt.Errorf("decode history: %w", err)
	}
	return session, nil
}

// Merge hace upsert del documento en una sola sentencia: las columnas no
// nombradas quedan como estaban, equivalente a un set con merge.
func (s *PgSessionStore) Merge(ctx context.Context, userID string, history []domain.Message, updatedAt time.Time) error {
	const query = `
		INSERT INTO chat_sessions (user_id, history, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET history = EXCLUDED.history, updated_at = EXCLUDED.updated_at
	`
	if history == nil {
		history = []domain.Message{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	_, err = s.pool.Exec(ctx, query, userID, historyJSON, updatedAt)
	return err
}
