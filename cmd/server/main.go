package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"krenke/internal/auth"
	"krenke/internal/blog"
	"krenke/internal/config"
	"krenke/internal/db"
	"krenke/internal/logging"
	"krenke/internal/observability"
	"krenke/internal/ratelimit"
	"krenke/internal/repository"
	"krenke/internal/reseller"
	"krenke/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Erro ao iniciar logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// database/sql para leads e migrações, pgxpool para o resto
	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("erro ao abrir o Postgres", zap.Error(err))
	}
	defer sqlDB.Close()

	applied, err := db.Migrate(ctx, sqlDB)
	if err != nil {
		logger.Fatal("erro ao aplicar migrações", zap.Error(err))
	}
	if len(applied) > 0 {
		logger.Info("migrações aplicadas", zap.Strings("arquivos", applied))
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("erro ao conectar no Postgres (pgxpool)", zap.Error(err))
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("erro ao conectar no Redis", zap.String("addr", cfg.RedisURL), zap.Error(err))
	}

	users := &repository.UserRepository{DB: pool}
	authService := auth.NewService(users, &auth.RedisSessions{Client: redisClient},
		cfg.SessionSecret, cfg.SessionTTL, cfg.SuperAdminEmail)

	var summarizer blog.Summarizer
	if cfg.OpenAIKey != "" {
		summarizer = blog.NewOpenAISummarizer(cfg.OpenAIKey)
	} else {
		logger.Info("OPENAI_API_KEY ausente, resumos dos posts serão recortes do texto")
	}

	proxies, err := web.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Fatal("TRUSTED_PROXIES inválido", zap.Error(err))
	}

	srv, err := web.NewServer(web.Deps{
		Products: &repository.ProductRepository{DB: pool},
		Posts:    &repository.PostRepository{DB: pool},
		Leads:    &repository.LeadRepository{DB: sqlDB},
		Scripts:  &repository.ScriptRepository{DB: pool},
		Users:    users,
		Auth:     authService,
		Limiter: &ratelimit.Limiter{
			Client: redisClient,
			Prefix: "krenke:quote:",
			Limit:  cfg.QuoteRateLimit,
			Window: cfg.QuoteRateWindow,
		},
		Reseller:      reseller.NewCatalog(cfg.ResellerCSVURL, cfg.ResellerCacheTTL, logger.Named("revenda")),
		Summarizer:    summarizer,
		AssetsFS:      os.DirFS(cfg.AssetsDir),
		UploadDir:     cfg.UploadDir,
		AllowSignup:   cfg.AllowSignup,
		SecureCookies: cfg.SecureCookies,
		Log:           logger,

		TrustedProxies: proxies,
	})
	if err != nil {
		logger.Fatal("erro ao montar o servidor", zap.Error(err))
	}

	metrics := observability.Start(cfg.MetricsPort)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logger.Info("site rodando", zap.String("addr", cfg.HTTPAddr), zap.String("metrics_port", cfg.MetricsPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("servidor HTTP parou", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("encerrando")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("erro ao encerrar o servidor HTTP", zap.Error(err))
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		logger.Error("erro ao encerrar métricas", zap.Error(err))
	}
}
