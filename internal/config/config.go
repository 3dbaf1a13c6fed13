package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL      string        `env:"DATABASE_URL"`
	RedisURL         string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	OpenAIKey        string        `env:"OPENAI_API_KEY"`
	MetricsPort      string        `env:"METRICS_PORT" envDefault:"9090"`
	HTTPAddr         string        `env:"HTTP_ADDR" envDefault:":3000"`
	SessionSecret    string        `env:"SESSION_SECRET"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	SuperAdminEmail  string        `env:"SUPER_ADMIN_EMAIL"`
	AllowSignup      bool          `env:"ALLOW_SIGNUP" envDefault:"false"`
	SecureCookies    bool          `env:"SECURE_COOKIES" envDefault:"false"`
	UploadDir        string        `env:"UPLOAD_DIR" envDefault:"public/assets"`
	AssetsDir        string        `env:"ASSETS_DIR" envDefault:"public/assets"`
	ResellerCSVURL   string        `env:"RESELLER_CSV_URL"`
	ResellerCacheTTL time.Duration `env:"RESELLER_CACHE_TTL" envDefault:"10m"`
	QuoteRateLimit   int           `env:"QUOTE_RATE_LIMIT" envDefault:"5"`
	QuoteRateWindow  time.Duration `env:"QUOTE_RATE_WINDOW" envDefault:"1h"`
	TrustedProxies   []string      `env:"TRUSTED_PROXIES" envSeparator:","`
	WorkerCount      int           `env:"WORKER_COUNT" envDefault:"5"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	return &cfg, nil
}

// Validate confere o que o servidor web precisa para subir.
// As ferramentas de linha de comando usam só parte da configuração.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must have at least 32 characters")
	}
	if c.SuperAdminEmail == "" {
		return fmt.Errorf("SUPER_ADMIN_EMAIL is required")
	}
	return nil
}
