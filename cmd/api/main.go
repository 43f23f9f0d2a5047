package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"evidenceapi/internal/ai"
	"evidenceapi/internal/analysis"
	"evidenceapi/internal/auth"
	"evidenceapi/internal/config"
	handlers "evidenceapi/internal/http/handler"
	"evidenceapi/internal/http/middleware"
	"evidenceapi/internal/metrics"
	"evidenceapi/internal/otel"
	"evidenceapi/internal/pricing"
	"evidenceapi/internal/repository/memory"
	"evidenceapi/internal/search"
	"evidenceapi/internal/service"
	"evidenceapi/internal/storage"
)

// @title Evidence API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	logger := newLogger(cfg.LogLevel, loc)
	slog.SetDefault(logger)

	if err := run(cfg, loc, logger); err != nil {
		logger.Error("server_exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, loc *time.Location, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Raw evidence bytes live in the content store (memory or S3-compatible)
	store, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}

	var extractor interface {
		ai.MediaExtractor
		ai.KeywordExtractor
	} = ai.Disabled{}
	if cfg.Gemini.APIKey != "" {
		gc, err := ai.NewGeminiClient(ctx, cfg.Gemini, logger)
		if err != nil {
			return err
		}
		extractor = gc
	} else {
		logger.Warn("ai_disabled", slog.String("reason", "GEMINI_API_KEY not set; analysis fails per file and search uses the fallback tokenizer"))
	}

	rates, err := pricing.LoadRates(cfg.Analysis.PricingFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	analysisMetrics, err := metrics.NewAnalysis(reg)
	if err != nil {
		return err
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	translator, err := search.NewTranslator(extractor, cfg.Search.CacheSize, logger)
	if err != nil {
		return err
	}

	// Initialize repositories and services
	caseRepo := memory.NewCaseMemory()
	caseSvc := service.NewCaseService(store, caseRepo)
	analysisSvc := service.NewAnalysisService(caseRepo,
		analysis.NewClient(store, extractor, cfg.Analysis.MaxParallel, logger),
		rates,
		service.WithPendingDelay(cfg.Analysis.PendingDelay()),
		service.WithObservers(analysisMetrics, service.LogObserver{Log: logger}),
		service.WithLogger(logger),
	)
	searchSvc := service.NewSearchService(caseSvc, translator)
	jobs := handlers.NewJobs(logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    512 * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Dependencies{
		Store:    store,
		Cases:    caseSvc,
		Analysis: analysisSvc,
		Search:   searchSvc,
		Session:  auth.NewSession(),
		Jobs:     jobs,
		Gatherer: reg,
		Location: loc,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", slog.String("addr", ":"+cfg.Port), slog.String("storage", cfg.Storage.Driver))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_stopping")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Error("server_shutdown_failed", slog.String("error", err.Error()))
	}
	// Confirmed batches run to completion.
	jobs.Wait()
	return nil
}

// newLogger writes JSON lines with the same "ts" field the request logger uses.
func newLogger(level string, loc *time.Location) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			}
			return a
		},
	}))
}
