// Package server assembles the HTTP router and runs it with graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/services"
	"portfolio-backend/internal/session"
	"portfolio-backend/internal/site"
)

type Deps struct {
	Projects       *services.ProjectService
	Sessions       *session.Manager
	Secret         *auth.AdminSecret
	Health         handlers.Pinger
	Site           *site.Renderer
	AllowedOrigins []string
	MaxUploadBytes int64
	Swagger        bool
	Logger         *slog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(d.Logger))
	router.Use(middleware.RequestLog(d.Logger))
	router.Use(middleware.CORS(d.AllowedOrigins))

	if d.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/health", handlers.NewHealthHandler(d.Health))

	if d.Site != nil {
		router.GET("/", handlers.NewSiteHandler(d.Site, d.Projects, d.Logger).Index)
	}

	projects := handlers.NewProjectsHandler(d.Projects, d.MaxUploadBytes, d.Logger)
	admin := handlers.NewAdminHandler(d.Secret, d.Sessions, d.Logger)
	requireAdmin := middleware.RequireAdmin(d.Sessions)

	api := router.Group("/api")

	api.GET("/projects", projects.ListProjects)
	api.GET("/projects/:id", projects.GetProject)
	api.POST("/projects", requireAdmin, projects.CreateProject)
	api.PUT("/projects/:id", requireAdmin, projects.UpdateProject)
	api.DELETE("/projects/:id", requireAdmin, projects.DeleteProject)

	api.POST("/admin/login", admin.Login)
	api.GET("/admin/status", admin.Status)
	api.POST("/admin/logout", admin.Logout)

	return router
}

// Run serves handler on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func Run(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
