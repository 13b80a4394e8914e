package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/adapter/handler"
	"github.com/johnquangdev/meeting-insights/internal/adapter/repository"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-insights/internal/usecase/analysis"
	pkgai "github.com/johnquangdev/meeting-insights/pkg/ai"
	"github.com/johnquangdev/meeting-insights/pkg/config"
	"github.com/johnquangdev/meeting-insights/pkg/lexicon"
	"github.com/johnquangdev/meeting-insights/pkg/telemetry"
	pkgvalidator "github.com/johnquangdev/meeting-insights/pkg/validator"
)

// @title           Meeting Insights API
// @version         1.0
// @description     Speaker, agenda and consensus analysis of meeting transcripts

// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Metrics go to a dedicated registry served on /metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewAnalysisMetrics(registry)
	tracer := telemetry.NewTracer()

	log.Println("🔧 Initializing dependencies...")

	// Distillation reply cache
	var store pkgai.Store
	var closers []func() error
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		redisStore := cache.NewRedisStore(redisClient, "meeting-insights:")
		store = redisStore
		closers = append(closers, redisStore.Close)
	} else {
		memStore := cache.NewMemoryStore()
		store = memStore
		closers = append(closers, memStore.Close)
	}

	// Distillers, tried in order before the rules
	log.Println("🤖 Initializing distillers...")
	var distillers []pkgai.Distiller
	distillerOpts := []pkgai.DistillerOption{
		pkgai.WithTimeout(cfg.Distiller.Timeout),
		pkgai.WithMaxRetries(cfg.Distiller.MaxRetries),
		pkgai.WithLogger(logger),
		pkgai.WithTelemetry(metrics, tracer),
	}
	if cfg.Groq.APIKey != "" {
		groq := pkgai.NewCachedCompleter(pkgai.NewGroqClient(&cfg.Groq, cfg.Distiller.Timeout), store, cfg.Redis.TTL, logger, metrics)
		distillers = append(distillers, pkgai.NewLLMDistiller(groq, distillerOpts...))
	}
	if cfg.Anthropic.APIKey != "" {
		anthropic := pkgai.NewCachedCompleter(pkgai.NewAnthropicClient(&cfg.Anthropic), store, cfg.Redis.TTL, logger, metrics)
		distillers = append(distillers, pkgai.NewLLMDistiller(anthropic, distillerOpts...))
	}
	if !cfg.DistillersEnabled() {
		log.Println("⚠️  No distiller credentials, using rules only")
	}

	// Lexicon
	lexicons := lexicon.NewRegistry()
	lex := lexicons.Resolve(cfg.Analysis.Language)
	if cfg.Analysis.LexiconPath != "" {
		lex, err = lexicons.LoadFile(cfg.Analysis.LexiconPath)
		if err != nil {
			log.Fatalf("Failed to load lexicon: %v", err)
		}
	}
	log.Printf("📖 Lexicon: %s", lex.Language)

	resOpts := []analysis.Option{
		analysis.WithLexicon(lex),
		analysis.WithDistillers(distillers...),
		analysis.WithLogger(logger),
		analysis.WithMetrics(metrics),
		analysis.WithTracer(tracer),
	}
	for _, c := range closers {
		resOpts = append(resOpts, analysis.WithCloser(c))
	}
	res, err := analysis.NewResources(resOpts...)
	if err != nil {
		log.Fatalf("Failed to initialize analysis resources: %v", err)
	}
	defer res.Close()

	svcOpts := []analysis.ServiceOption{
		analysis.WithDefaultLanguage(lex.Language),
		analysis.WithServiceLogger(logger),
	}

	// Database is optional
	if cfg.Database.Enabled {
		log.Println("📦 Connecting to database...")
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		if cfg.Database.AutoMigrate {
			if cfg.Server.Environment == "production" {
				log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or run scripts/migrate.go.")
			}
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}

		svcOpts = append(svcOpts,
			analysis.WithAnalysisRepository(repository.NewAnalysisRepository(db)),
			analysis.WithTranscriptRepository(repository.NewTranscriptRepository(db)),
		)
	} else {
		log.Println("⚠️  Database disabled, results are not stored")
	}

	// Report archive is optional
	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to MinIO...")
		archive, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		svcOpts = append(svcOpts, analysis.WithReportArchiver(archive))
	}

	if cfg.Assembly.APIKey != "" {
		svcOpts = append(svcOpts, analysis.WithTranscriptSource(pkgai.NewAssemblyAIClient(&cfg.Assembly)))
	}

	svc := analysis.NewService(analysis.NewDefaultOrchestrator(res), svcOpts...)

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, handler.SignatureHeader},
	}))

	var webhook *handler.AIWebhookHandler
	if cfg.Assembly.WebhookSecret != "" {
		webhook = handler.NewAIWebhookHandler(svc, cfg.Assembly.WebhookSecret, logger)
	}

	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg,
		handler.NewAnalysisController(svc, logger),
		webhook,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
		return
	}

	log.Println("✅ Server stopped gracefully")
}
