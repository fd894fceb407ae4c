package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChatRateLimiter limita cuántas rondas de chat puede disparar un usuario
// por ventana. Protege la llamada facturable al modelo.
type ChatRateLimiter interface {
	Allow(uid string) bool
}

const redisChatAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisChatRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

func NewRedisChatRateLimiter(client *redis.Client, window time.Duration, max int) ChatRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisChatRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "chat:rl:",
	}
}

// Allow falla abierto: sin redis o con redis caído no se bloquea a nadie.
func (l *redisChatRateLimiter) Allow(uid string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalized := strings.TrimSpace(uid)
	if normalized == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	redisKey := l.prefix + normalized
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisChatAllowScript, []string{redisKey}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
