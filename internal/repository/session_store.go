package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"omnicode-gateway/internal/domain"
)

// ErrSessionNotFound indica que el usuario todavía no tiene documento de sesión.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore es el contrato contra el documento de conversación por usuario.
// Merge reemplaza historial y updated_at dejando intacto cualquier otro campo
// del documento: una escritura por ronda, sin read-modify-write en el server.
type SessionStore interface {
	Get(ctx context.Context, userID string) (domain.Session, error)
	Merge(ctx context.Context, userID string, history []domain.Message, updatedAt time.Time) error
}

// MemorySessionStore guarda sesiones en memoria. Se usa en tests y en
// ambientes de desarrollo sin Postgres.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domain.Session),
	}
}

func (s *MemorySessionStore) Get(_ context.Context, userID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	session.History = append([]domain.Message(nil), session.History...)
	return session, nil
}

func (s *MemorySessionStore) Merge(_ context.Context, userID string, history []domain.Message, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = domain.Session{
		UserID:    userID,
		History:   append([]domain.Message(nil), history...),
		UpdatedAt: updatedAt,
	}
	return nil
}
