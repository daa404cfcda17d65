package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	HTTPPort        string
	DatabaseDSN     string
	JWTSecret       string
	CORSOrigins     string
	AssistantAPIURL string // OpenAI uyumlu chat completions endpoint'i
	AssistantAPIKey string // boşsa asistan devre dışı
	AssistantModel  string
}

func Load() *Config {
	// .env varsa yükle, yoksa sessizce geç (production'da env doğrudan gelir)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=mutfak port=5432 sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AssistantAPIURL: getEnv("ASSISTANT_API_URL", "https://api.openai.com/v1/chat/completions"),
		AssistantAPIKey: getEnv("ASSISTANT_API_KEY", ""),
		AssistantModel:  getEnv("ASSISTANT_MODEL", "gpt-4o-mini"),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal().Msg("JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=mutfak port=5432 sslmode=disable" {
		log.Warn().Msg("DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.AssistantAPIKey == "" {
		log.Warn().Msg("ASSISTANT_API_KEY tanımlı değil, AI asistan devre dışı.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
