package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"omnicode-gateway/internal/domain"
	"omnicode-gateway/internal/llm"
	"omnicode-gateway/internal/repository"
	"omnicode-gateway/internal/retry"
)

// Clases de falla del pipeline autenticado. El transporte decide el status
// según el tag en vez de colapsar todo en un 500 indistinto.
var (
	ErrUpstream    = errors.New("model upstream failure")
	ErrPersistence = errors.New("session store failure")
)

// ChatService ejecuta la ronda de chat ya autenticada: filtrar historial,
// sembrar contexto, invocar al modelo con reintentos y persistir el
// transcript con el turno nuevo del agente.
type ChatService struct {
	logger            *zap.Logger
	client            llm.Client
	store             repository.SessionStore
	backoff           retry.Backoff
	systemInstruction string
}

func NewChatService(
	logger *zap.Logger,
	client llm.Client,
	store repository.SessionStore,
	backoff retry.Backoff,
	systemInstruction string,
) *ChatService {
	return &ChatService{
		logger:            logger,
		client:            client,
		store:             store,
		backoff:           backoff,
		systemInstruction: systemInstruction,
	}
}

// Respond genera la respuesta del agente para un mensaje del usuario.
//
// Solo la llamada al modelo reintenta; la escritura al store es una sola y
// no se reintenta: si falla después de un modelo exitoso, la ronda se pierde
// sin compensación (at-most-once).
func (s *ChatService) Respond(ctx context.Context, uid, message string, history []domain.Message) (domain.Message, error) {
	prior := SeedContext(FilterHistory(history), s.systemInstruction)

	replyText, err := retry.Do(ctx, s.backoff, func(ctx context.Context) (string, error) {
		return s.client.Chat(ctx, prior, message)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	agentReply := domain.Message{
		Role:      domain.RoleAgent,
		Text:      replyText,
		Timestamp: time.Now().UTC(),
		Type:      domain.TypeAIResponse,
	}

	updated := make([]domain.Message, 0, len(history)+1)
	updated = append(updated, history...)
	updated = append(updated, agentReply)

	if err := s.store.Merge(ctx, uid, updated, time.Now().UTC()); err != nil {
		s.logger.Error("session merge failed", zap.String("uid", uid), zap.Error(err))
		return domain.Message{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return agentReply, nil
}
