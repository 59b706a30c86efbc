package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/site"
)

type ProjectLister interface {
	List(ctx context.Context) ([]models.Project, error)
}

type SiteHandler struct {
	renderer *site.Renderer
	projects ProjectLister
	now      func() time.Time
	logger   *slog.Logger
}

func NewSiteHandler(renderer *site.Renderer, projects ProjectLister, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{
		renderer: renderer,
		projects: projects,
		now:      time.Now,
		logger:   logger,
	}
}

// Index renders the public page. A project store failure still renders the
// page, with the error shown in place of the grid.
func (h *SiteHandler) Index(c *gin.Context) {
	page := site.Page{Year: h.now().Year()}

	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.logger.Error("site: failed to list projects", "error", err)
		page.ProjectsError = "Error fetching projects"
	} else {
		page.Projects = projects
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		h.logger.Error("site: render failed", "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
