package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Backoff define la política de reintentos con espera exponencial.
// Entre intentos se espera BaseDelay * 2^intento (intento cero-indexado):
// con BaseDelay de 1s la secuencia es 1s, 2s, 4s, ...
type Backoff struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *zap.Logger
}

// New devuelve la política por defecto: 3 intentos, base de 1 segundo.
func New(logger *zap.Logger) Backoff {
	return Backoff{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Logger:      logger,
	}
}

// Do ejecuta op hasta que tenga éxito o se agoten los intentos. El primer
// resultado exitoso se devuelve de inmediato, sin más intentos. Cada fallo
// se reporta por el logger y nunca se suprime: el caller siempre recibe el
// valor o el error terminal, que nombra la cantidad de intentos y el último
// error subyacente. No hay chequeo de retryabilidad: todo error reintenta.
func Do[T any](ctx context.Context, b Backoff, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	maxAttempts := b.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	baseDelay := b.BaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err
		logger.Warn("attempt failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err),
		)

		if attempt == maxAttempts-1 {
			break
		}

		wait := baseDelay << uint(attempt)
		logger.Info("waiting before next retry", zap.Duration("backoff", wait))
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
	}

	logger.Error("all retry attempts failed",
		zap.Int("max_attempts", maxAttempts),
		zap.Error(lastErr),
	)
	return zero, fmt.Errorf("critical api failure after %d attempts: %w", maxAttempts, lastErr)
}

// sleep espera la duración indicada respetando la cancelación del contexto.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
