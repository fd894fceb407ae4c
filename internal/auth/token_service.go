package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier es el contrato contra el proveedor de identidad: dado un
// bearer token devuelve los claims del sujeto autenticado.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (Claims, error)
}

// Claims son los datos de identidad que viajan dentro del token.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("id token invalid")
	ErrTokenExpired = errors.New("id token expired")
)

// TokenService emite y valida ID tokens HS256. Hace de colaborador de
// identidad local: el mismo secreto compartido firma y verifica.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "omnicode-gateway",
	}
}

// IssueIDToken firma un token cuyo subject es el uid del usuario.
func (s *TokenService) IssueIDToken(uid, email string) (string, error) {
	if len(s.secret) == 0 || strings.TrimSpace(uid) == "" {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID: uid,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyIDToken valida firma, expiración y coherencia de claims.
func (s *TokenService) VerifyIDToken(_ context.Context, idToken string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(idToken) == "" {
		return Claims{}, ErrTokenInvalid
	}

	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(idToken, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	if !s.isValidClaims(claims) {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *TokenService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
