package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"fever-helpline/internal/config"
	"fever-helpline/internal/db"
	httpserver "fever-helpline/internal/http"
	"fever-helpline/internal/llm"
	"fever-helpline/internal/redflag"
	"fever-helpline/internal/triage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Persistence is a collaborator, not a requirement: without DATABASE_URL
	// the service still triages, it just keeps nothing.
	var store httpserver.Store
	var notifier httpserver.Notifier
	if cfg.DatabaseURL != "" {
		dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := dbConn.PingContext(ctx); err != nil {
			cancel()
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		cancel()
		if err := db.Migrate(context.Background(), dbConn); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		store = db.NewRepository(dbConn)
		notifier = db.NewEscalationNotifier(dbConn, cfg.NotifyChannel)
		logger.Info("connected to database")
	} else {
		logger.Warn("DATABASE_URL not set, running without persistence")
	}

	// The red-flag catalog is loaded once and shared read-only by every
	// conversation.
	detector := redflag.NewDetector(redflag.DefaultCatalog())

	// Strategy selection happens here, once, by explicit construction.
	// Missing credentials downgrade to the rule-based strategy.
	var assessor triage.Assessor
	switch {
	case cfg.Assessor == config.AssessorOpenAI && cfg.OpenAIKey != "":
		client := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.LLMTimeout)
		assessor = triage.NewModelAssessor(detector, client, logger)
		logger.Info("using model-backed triage assessor", "model", cfg.OpenAIModel)
	case cfg.Assessor == config.AssessorOpenAI:
		logger.Warn("OPENAI_API_KEY not set, falling back to rule-based assessor")
		assessor = triage.NewRuleAssessor(detector)
	default:
		assessor = triage.NewRuleAssessor(detector)
		logger.Info("using rule-based triage assessor")
	}

	engine := triage.NewEngine(detector, assessor, logger)
	server := httpserver.NewServer(engine, store, notifier, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Mount("/", server.Routes())

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
