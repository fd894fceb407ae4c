package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"omnicode-gateway/internal/auth"
	"omnicode-gateway/internal/config"
	"omnicode-gateway/internal/db"
	apihttp "omnicode-gateway/internal/http"
	"omnicode-gateway/internal/llm"
	"omnicode-gateway/internal/repository"
	"omnicode-gateway/internal/retry"
	"omnicode-gateway/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	sessionStore := repository.NewPgSessionStore(pool)
	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, zap.NewStdLog(logger))

	backoff := retry.New(logger)
	if cfg.ChatMaxRetries > 0 {
		backoff.MaxAttempts = cfg.ChatMaxRetries
	}

	tokenSvc := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	var limiter service.ChatRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisChatRateLimiter(
				redisClient,
				time.Duration(cfg.ChatRateWindowSecs)*time.Second,
				cfg.ChatRateMax,
			)
		}
		cancel()
	}

	chatSvc := service.NewChatService(logger, llmClient, sessionStore, backoff, cfg.SystemInstruction)
	chatHandler := apihttp.NewChatHandler(logger, tokenSvc, chatSvc, sessionStore, limiter)
	healthHandler := apihttp.NewHealthHandler(func(ctx context.Context) error {
		return db.Ping(ctx, pool)
	})
	router := apihttp.NewRouter(logger, cfg.AllowedOrigins, tokenSvc, chatHandler, healthHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
