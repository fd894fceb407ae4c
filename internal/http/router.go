package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"omnicode-gateway/internal/auth"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	allowedOrigins []string,
	verifier auth.TokenVerifier,
	chatH *ChatHandler,
	healthH *HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(requestLoggerMiddleware(logger), gin.Recovery(), CORSMiddleware(allowedOrigins))

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"status": "error", "message": "Method Not Allowed. Use POST."})
	})

	r.GET("/healthz", healthH.Check)

	// POST /chat valida el body antes de autenticar, por eso verifica el
	// token dentro del handler y no con el middleware.
	r.POST("/chat", chatH.Chat)
	r.GET("/chat/history", AuthMiddleware(verifier), chatH.History)

	return r
}

// requestLoggerMiddleware loggea cada request con zap y le asigna un id.
func requestLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// HealthHandler responde el chequeo de vida del servicio.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler recibe un ping opcional contra el store.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Check maneja GET /healthz.
func (h *HealthHandler) Check(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "store unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
