// Package bootstrap wires configuration, storage, the AI client and the
// HTTP surface into a runnable application.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"careerlens-backend/internal/companies"
	"careerlens-backend/internal/extract"
	"careerlens-backend/internal/llm"
	"careerlens-backend/internal/llm/gemini"
	"careerlens-backend/internal/resumes"
	"careerlens-backend/internal/shared/config"
	"careerlens-backend/internal/shared/server"
	"careerlens-backend/internal/shared/storage/db"
	"careerlens-backend/internal/shared/storage/object"
	"careerlens-backend/internal/shared/storage/object/local"
	"careerlens-backend/internal/shared/storage/object/s3"
	"careerlens-backend/internal/shared/telemetry"
	"careerlens-backend/internal/uploads"
)

// App is the assembled application.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
}

// Build assembles the application from configuration. Outside production,
// a missing or unreachable database degrades to in-memory repositories and
// a missing AI key degrades to an unavailable client, so the service stays
// runnable for local development.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	var (
		database    *sql.DB
		resumeRepo  resumes.Repo
		companyRepo companies.Repo
	)
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			if cfg.Env == "production" {
				return nil, fmt.Errorf("connect database: %w", err)
			}
			telemetry.Error("database unavailable, falling back to in-memory repositories", map[string]any{
				"error": err.Error(),
			})
		} else {
			if err := db.RunMigrations(ctx, conn); err != nil {
				conn.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
			database = conn
			resumeRepo = &resumes.PGRepo{DB: conn}
			companyRepo = &companies.PGRepo{DB: conn}
		}
	}
	if resumeRepo == nil {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		resumeRepo = resumes.NewMemoryRepo()
		companyRepo = companies.NewMemoryRepo()
	}

	store, err := buildObjectStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ai := buildAIClient(ctx, cfg)

	extractor := &extract.Extractor{
		Store:      store,
		HTTPClient: &http.Client{Timeout: cfg.FetchTimeout},
	}

	resumeSvc := resumes.NewService(resumeRepo, store, extractor, ai, uploads.NewGate(cfg.MaxUploadBytes))
	companySvc := companies.NewService(companyRepo, ai)

	router := server.NewRouter(server.RouterDeps{
		Config:    cfg,
		Resumes:   resumes.NewHandler(resumeSvc),
		Companies: companies.NewHandler(companySvc),
	})

	return &App{Config: cfg, Router: router, DB: database}, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildObjectStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		return store, nil
	default:
		return local.New(cfg.LocalStoreDir), nil
	}
}

func buildAIClient(ctx context.Context, cfg config.Config) llm.Client {
	if cfg.GeminiAPIKey == "" {
		telemetry.Info("no AI key configured, analysis runs degraded", nil)
		return llm.Unavailable{}
	}
	client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		telemetry.Error("AI client init failed, analysis runs degraded", map[string]any{
			"error": err.Error(),
		})
		return llm.Unavailable{}
	}
	return client
}
