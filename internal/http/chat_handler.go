package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"omnicode-gateway/internal/auth"
	"omnicode-gateway/internal/domain"
	"omnicode-gateway/internal/repository"
	"omnicode-gateway/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints del gateway de chat.
type ChatHandler struct {
	logger   *zap.Logger
	verifier auth.TokenVerifier
	chatSvc  *service.ChatService
	store    repository.SessionStore
	limiter  service.ChatRateLimiter
}

func NewChatHandler(
	logger *zap.Logger,
	verifier auth.TokenVerifier,
	chatSvc *service.ChatService,
	store repository.SessionStore,
	limiter service.ChatRateLimiter,
) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		verifier: verifier,
		chatSvc:  chatSvc,
		store:    store,
		limiter:  limiter,
	}
}

// Chat maneja POST /chat.
//
// La validación del body corre antes que la autenticación: un request
// malformado responde 400 sin tocar nada, traiga o no credenciales.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req struct {
		History []domain.Message `json:"history" binding:"required"`
		Message string           `json:"message" binding:"required"`
		UID     string           `json:"uid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing required fields."})
		return
	}

	claims, status, message := verifyBearer(c, h.verifier)
	if status != 0 {
		c.JSON(status, gin.H{"status": "error", "message": message})
		return
	}
	if claims.UserID != req.UID {
		h.logger.Warn("uid mismatch", zap.String("claimed", req.UID), zap.String("subject", claims.UserID))
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "UID mismatch."})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(req.UID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"status": "error", "message": "Too many requests."})
		return
	}

	reply, err := h.chatSvc.Respond(c.Request.Context(), req.UID, req.Message, req.History)
	if err != nil {
		h.logger.Error("chat gateway critical failure", zap.String("uid", req.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "A critical server error occurred.",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, reply)
}

// History maneja GET /chat/history: devuelve el documento de sesión del
// sujeto autenticado (el front lo lee al montar la pantalla de chat).
func (h *ChatHandler) History(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid credentials."})
		return
	}

	session, err := h.store.Get(c.Request.Context(), claims.UserID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Session not found."})
		return
	}
	if err != nil {
		h.logger.Error("session read failed", zap.String("uid", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "A critical server error occurred.",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, session)
}
