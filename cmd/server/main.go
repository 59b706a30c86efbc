// @title           Portfolio API
// @version         1.0.0
// @description     Project catalogue and admin session API for the filmmaker portfolio site.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5001
// @BasePath  /

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name portfolio.sid
// @description Session cookie set by POST /api/admin/login.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"portfolio-backend/docs"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/server"
	"portfolio-backend/internal/services"
	"portfolio-backend/internal/session"
	"portfolio-backend/internal/site"
	"portfolio-backend/internal/supabase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		JSON:        strings.EqualFold(cfg.LogFormat, "json"),
		File:        cfg.LogFile,
		DefaultSlog: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	configureSwagger(cfg.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := database.Open(connectCtx, cfg.DatabaseURL, cfg.DatabaseName)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to open project store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("failed to close project store", "error", err)
		}
	}()
	logger.Info("project store ready", "scheme", schemeOf(cfg.DatabaseURL))

	provider, err := newMediaProvider(cfg)
	if err != nil {
		return err
	}
	adapter := media.NewAdapter(provider, media.Options{
		AllowedFormats: cfg.MediaAllowedFormats,
		Logger:         logger.With("component", "media"),
	})
	cleaner := media.NewCleaner(adapter, 4, 30*time.Second, logger.With("component", "cleanup"))
	defer cleaner.Wait()

	secret, err := auth.NewAdminSecret(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return err
	}
	sessions := session.NewManager(session.Options{
		Secret:     cfg.SessionSecret,
		Production: cfg.IsProduction(),
		Logger:     logger.With("component", "session"),
	})
	go sessions.RunJanitor(ctx, cfg.SessionSweepInterval)

	content, err := site.LoadContent(cfg.SiteContentFile)
	if err != nil {
		return err
	}
	renderer, err := site.NewRenderer(content)
	if err != nil {
		return err
	}

	projects := services.NewProjectService(store, adapter, cleaner, cfg.MediaInputPolicy, logger.With("component", "projects"))

	router := server.NewRouter(server.Deps{
		Projects:       projects,
		Sessions:       sessions,
		Secret:         secret,
		Health:         store,
		Site:           renderer,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		Swagger:        true,
		Logger:         logger,
	})

	logger.Info("server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"media_provider", cfg.MediaProvider,
		"media_input_policy", cfg.MediaInputPolicy,
	)
	return server.Run(ctx, ":"+cfg.Port, router, shutdownTimeout, logger)
}

func newMediaProvider(cfg *config.Config) (media.Provider, error) {
	switch cfg.MediaProvider {
	case "supabase":
		sc, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
		}
		return supabase.NewStorageProvider(sc, cfg.SupabaseStorageBucket), nil
	default:
		p, err := media.NewCloudinaryProvider(cfg.CloudinaryURL, cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
		}
		return p, nil
	}
}

// configureSwagger points the served OpenAPI document at BASE_URL.
func configureSwagger(baseURL string) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return
	}
	docs.SwaggerInfo.Host = u.Host
	if u.Scheme == "https" {
		docs.SwaggerInfo.Schemes = []string{"https", "http"}
	} else {
		docs.SwaggerInfo.Schemes = []string{"http", "https"}
	}
}

func schemeOf(rawURL string) string {
	if i := strings.Index(rawURL, "://"); i > 0 {
		return rawURL[:i]
	}
	return ""
}
