package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"omnicode-gateway/internal/auth"
)

const authClaimsKey = "auth_claims"

// AuthMiddleware valida el bearer token y guarda los claims en el contexto.
func AuthMiddleware(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, status, message := verifyBearer(c, verifier)
		if status != 0 {
			c.JSON(status, gin.H{"status": "error", "message": message})
			c.Abort()
			return
		}
		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene los claims verificados desde el contexto.
func GetAuthClaims(c *gin.Context) (auth.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := val.(auth.Claims)
	return claims, ok
}

// verifyBearer extrae y verifica el token. Devuelve status 0 si todo bien;
// si no, el código HTTP y mensaje a responder.
func verifyBearer(c *gin.Context, verifier auth.TokenVerifier) (auth.Claims, int, string) {
	if verifier == nil {
		return auth.Claims{}, http.StatusInternalServerError, "Identity verifier not configured."
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return auth.Claims{}, http.StatusUnauthorized, "Missing authorization header."
	}

	token := strings.TrimSpace(header[len("Bearer "):])
	claims, err := verifier.VerifyIDToken(c.Request.Context(), token)
	if err != nil {
		return auth.Claims{}, http.StatusUnauthorized, "Invalid credentials."
	}
	return claims, 0, ""
}
