package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	LLMAPIKey  string `env:"LLM_API_KEY,required"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gemini-1.5-flash"`

	// Instrucción de persona inyectada como preámbulo cuando el historial
	// filtrado llega vacío. Vacío usa el default del servicio.
	SystemInstruction string `env:"SYSTEM_INSTRUCTION"`

	JWTSecret       string `env:"JWT_SECRET,required"`
	TokenTTLMinutes int    `env:"TOKEN_TTL_MINUTES" envDefault:"60"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://omnicode-f652d.web.app,http://localhost:5173"`

	ChatMaxRetries int `env:"CHAT_MAX_RETRIES" envDefault:"3"`

	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB" envDefault:"0"`
	ChatRateWindowSecs int    `env:"CHAT_RATE_WINDOW_SECONDS" envDefault:"60"`
	ChatRateMax        int    `env:"CHAT_RATE_MAX" envDefault:"20"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
