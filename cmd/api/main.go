package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"matchmycv/backend/internal/ai"
	"matchmycv/backend/internal/config"
	"matchmycv/backend/internal/handlers"
	"matchmycv/backend/internal/logger"
	"matchmycv/backend/internal/metrics"
	"matchmycv/backend/internal/middleware"
	"matchmycv/backend/internal/render"
	"matchmycv/backend/internal/repositories"
	"matchmycv/backend/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		stdlog.Fatalf("failed to build logger: %v", err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	log.Info("config loaded", zap.String("env", cfg.Server.Env), zap.String("ai_provider", cfg.AI.Provider))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	versionRepo := repositories.NewVersionRepository(db)
	jobRepo := repositories.NewJobTargetRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	cvRepo := repositories.NewCVAnalysisRepository(db)
	usageRepo := repositories.NewUsageRepository(db)

	// Initialize services
	storage, err := services.NewStorage(cfg.Storage, log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	provider, err := ai.NewProvider(ctx, cfg.AI, log)
	if err != nil {
		log.Fatal("failed to initialize AI provider", zap.Error(err))
	}
	log.Info("ai provider ready", zap.String("provider", provider.Name()), zap.String("model", provider.Model()))

	embedder, guides := initRetrieval(ctx, cfg, log)

	m := metrics.New()
	authService := services.NewAuthService(userRepo, cfg.Auth)
	usageService := services.NewUsageService(usageRepo, userRepo, cfg.Usage.FreeMonthlyAnalyses)
	analyzer := services.NewAnalyzerService(
		provider,
		embedder,
		guides,
		usageService,
		cvRepo,
		docRepo,
		m,
		services.AnalyzerOptions{
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
		},
		log,
	)

	registry, err := render.NewRegistry(cfg.Export, log)
	if err != nil {
		log.Fatal("failed to initialize export renderers", zap.Error(err))
	}

	// Initialize worker
	worker := services.NewWorker(cvRepo, analyzer, services.WorkerOptions{
		Concurrency:  cfg.Worker.Concurrency,
		PollInterval: cfg.Worker.PollInterval,
	}, log)
	worker.Start(ctx)

	// Initialize handlers
	h := &handlers.Handlers{
		Auth:       handlers.NewAuthHandler(authService, log),
		Documents:  handlers.NewDocumentHandler(docRepo, storage, services.NewTextExtractor(log), cfg.Storage.MaxFileSize, log),
		Versions:   handlers.NewVersionHandler(versionRepo, docRepo, analyzer, log),
		JobTargets: handlers.NewJobTargetHandler(jobRepo, log),
		Analyses:   handlers.NewAnalysisHandler(analysisRepo, docRepo, versionRepo, jobRepo, analyzer, log),
		CVAnalyses: handlers.NewCVAnalysisHandler(cvRepo, docRepo, usageService, worker, log),
		Export:     handlers.NewExportHandler(versionRepo, registry, m, cfg.Export.DefaultPaper, log),
		Usage:      handlers.NewUsageHandler(usageService, log),
	}

	limiter := middleware.NewRateLimiter(cfg.Usage.RateLimitPerMinute, log)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(5*time.Minute, stopCleanup)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MatchMyCV API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: customErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(m.Middleware())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition",
	}))

	app.Get("/metrics", m.Handler())

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	h.Register(api, middleware.RequireAuth(authService, log), limiter.Handler())

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":  "MatchMyCV API",
			"version":  "1.0.0",
			"provider": provider.Name(),
			"storage":  storage.Name(),
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		cancel()
		worker.Stop()
		close(stopCleanup)
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// initRetrieval connects the guideline store when Qdrant and a Gemini key are
// configured. Reviews run without guidance otherwise.
func initRetrieval(ctx context.Context, cfg *config.Config, log *zap.Logger) (ai.Embedder, services.GuideStore) {
	if !cfg.Qdrant.Enabled() {
		log.Info("qdrant not configured, cv reviews run without guidance")
		return nil, nil
	}
	if cfg.AI.Gemini.APIKey == "" {
		log.Warn("qdrant configured without GEMINI_API_KEY, cv reviews run without guidance")
		return nil, nil
	}

	embedder, err := ai.NewGeminiProvider(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model)
	if err != nil {
		log.Fatal("failed to initialize Gemini embedder", zap.Error(err))
	}

	store, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, ai.EmbeddingSize, log)
	if err != nil {
		log.Fatal("failed to initialize Qdrant", zap.Error(err))
	}
	if err := store.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize Qdrant collection", zap.Error(err))
	}

	log.Info("qdrant initialized", zap.String("collection", cfg.Qdrant.Collection))
	return embedder, store
}

func customErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": msg,
			"code":  code,
		})
	}
}
