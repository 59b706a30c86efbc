package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

type ProjectsHandler struct {
	service        *services.ProjectService
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewProjectsHandler(service *services.ProjectService, maxUploadBytes int64, logger *slog.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// bind reads either a JSON body or multipart form fields into req, plus any
// "thumbnail" and "video" files. The returned func closes opened files.
func (h *ProjectsHandler) bind(c *gin.Context, req any) (services.MediaFiles, func(), error) {
	var files services.MediaFiles
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return files, closeAll, nil
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	if !isMultipart(c) {
		if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
			return files, closeAll, err
		}
		return files, closeAll, nil
	}

	if err := c.ShouldBind(req); err != nil {
		return files, closeAll, err
	}
	for _, slot := range []struct {
		field string
		dst   **media.Upload
	}{
		{"thumbnail", &files.Thumbnail},
		{"video", &files.Video},
	} {
		fh, err := c.FormFile(slot.field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return files, closeAll, err
		}
		f, err := fh.Open()
		if err != nil {
			return files, closeAll, err
		}
		opened = append(opened, f)
		*slot.dst = &media.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		}
	}
	return files, closeAll, nil
}

// blankFormField reports a multipart field that was sent but left empty.
// Form binding turns such a value into a zero rather than a missing one.
func blankFormField(c *gin.Context, name string) bool {
	if !isMultipart(c) {
		return false
	}
	v, ok := c.GetPostForm(name)
	return ok && strings.TrimSpace(v) == ""
}

func (h *ProjectsHandler) badRequest(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Message: fmt.Sprintf("Upload exceeds the %d MB limit", h.maxUploadBytes>>20),
			Error:   "too_large",
		})
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body", Error: err.Error()})
}

// ListProjects godoc
// @Summary     List projects
// @Description Returns every project ordered by year, newest first
// @Tags        projects
// @Produce     json
// @Success     200 {array}  models.ProjectResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Error fetching projects")
		return
	}
	c.JSON(http.StatusOK, models.NewProjectListResponse(projects))
}

// GetProject godoc
// @Summary     Get a project
// @Tags        projects
// @Produce     json
// @Param       id  path     string true "Project ID"
// @Success     200 {object} models.ProjectResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/projects/{id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Error fetching project")
		return
	}
	c.JSON(http.StatusOK, models.NewProjectResponse(*p))
}

// CreateProject godoc
// @Summary     Create a project
// @Description Accepts JSON, or multipart form fields with optional "thumbnail" and "video" files
// @Tags        projects
// @Accept      json,mpfd
// @Produce     json
// @Param       request   body     models.CreateProjectRequest false "Project fields"
// @Param       thumbnail formData file                        false "Thumbnail image"
// @Param       video     formData file                        false "Video file"
// @Success     201 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Security    SessionCookie
// @Router      /api/projects [post]
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	files, closeFiles, err := h.bind(c, &req)
	defer closeFiles()
	if err != nil {
		h.badRequest(c, err)
		return
	}

	if blankFormField(c, "year") {
		respondError(c, h.logger, &services.ValidationError{Message: "year is required"}, "Error creating project")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req, files)
	if err != nil {
		respondError(c, h.logger, err, "Error creating project")
		return
	}
	c.JSON(http.StatusCreated, models.NewProjectResponse(*p))
}

// UpdateProject godoc
// @Summary     Update a project
// @Description Merges the supplied fields; a replacement file supersedes the stored media
// @Tags        projects
// @Accept      json,mpfd
// @Produce     json
// @Param       id        path     string                      true  "Project ID"
// @Param       request   body     models.UpdateProjectRequest false "Fields to change"
// @Param       thumbnail formData file                        false "Replacement thumbnail"
// @Param       video     formData file                        false "Replacement video"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Security    SessionCookie
// @Router      /api/projects/{id} [put]
func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	var req models.UpdateProjectRequest
	files, closeFiles, err := h.bind(c, &req)
	defer closeFiles()
	if err != nil {
		h.badRequest(c, err)
		return
	}

	if blankFormField(c, "year") {
		respondError(c, h.logger, &services.ValidationError{Message: "year must not be empty"}, "Error updating project")
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), req, files)
	if err != nil {
		respondError(c, h.logger, err, "Error updating project")
		return
	}
	c.JSON(http.StatusOK, models.NewProjectResponse(*p))
}

// DeleteProject godoc
// @Summary     Delete a project
// @Tags        projects
// @Produce     json
// @Param       id  path     string true "Project ID"
// @Success     200 {object} models.MessageResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Security    SessionCookie
// @Router      /api/projects/{id} [delete]
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Error deleting project")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Project deleted successfully"})
}
