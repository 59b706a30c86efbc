package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/models"
)

type Uploader interface {
	Upload(ctx context.Context, u media.Upload) (media.Result, error)
}

type CleanupScheduler interface {
	Schedule(reason string, urls ...string)
}

// MediaFiles are the optional uploads that accompany a create or update.
type MediaFiles struct {
	Thumbnail *media.Upload
	Video     *media.Upload
}

func (f MediaFiles) empty() bool {
	return f.Thumbnail == nil && f.Video == nil
}

type ProjectService struct {
	store    database.Store
	uploader Uploader
	cleaner  CleanupScheduler
	policy   config.MediaInputPolicy
	logger   *slog.Logger
}

func NewProjectService(
	store database.Store,
	uploader Uploader,
	cleaner CleanupScheduler,
	policy config.MediaInputPolicy,
	logger *slog.Logger,
) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{
		store:    store,
		uploader: uploader,
		cleaner:  cleaner,
		policy:   policy,
		logger:   logger,
	}
}

func (s *ProjectService) storeError(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err
	}
	s.logger.Error("project store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, s.storeError("list", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, s.storeError("get", err)
	}
	return p, nil
}

func requireText(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(name + " is required")
	}
	return nil
}

const errFilesNotAccepted = "file uploads are not accepted, provide videoUrl and thumbnailUrl"

func (s *ProjectService) checkCreateMedia(req models.CreateProjectRequest, files MediaFiles) error {
	switch s.policy {
	case config.URLsRequired:
		if !files.empty() {
			return invalid(errFilesNotAccepted)
		}
		if err := requireText("videoUrl", req.VideoURL); err != nil {
			return err
		}
		return requireText("thumbnailUrl", req.ThumbnailURL)
	case config.FilesRequired:
		if files.Thumbnail == nil {
			return invalid("thumbnail file is required")
		}
		if files.Video == nil {
			return invalid("video file is required")
		}
		return nil
	default:
		if files.Video == nil && strings.TrimSpace(req.VideoURL) == "" {
			return invalid("video is required (upload a file or provide videoUrl)")
		}
		if files.Thumbnail == nil && strings.TrimSpace(req.ThumbnailURL) == "" {
			return invalid("thumbnail is required (upload a file or provide thumbnailUrl)")
		}
		return nil
	}
}

// uploadAll sends the supplied files to the media host. If one upload fails,
// anything already uploaded in this call is scheduled for removal.
func (s *ProjectService) uploadAll(ctx context.Context, files MediaFiles) (thumbURL, videoURL string, err error) {
	if files.Thumbnail != nil {
		res, err := s.uploader.Upload(ctx, *files.Thumbnail)
		if err != nil {
			return "", "", err
		}
		thumbURL = res.URL
	}
	if files.Video != nil {
		res, err := s.uploader.Upload(ctx, *files.Video)
		if err != nil {
			s.cleaner.Schedule("upload aborted", thumbURL)
			return "", "", err
		}
		videoURL = res.URL
	}
	return thumbURL, videoURL, nil
}

func (s *ProjectService) Create(ctx context.Context, req models.CreateProjectRequest, files MediaFiles) (*models.Project, error) {
	for _, f := range []struct{ name, value string }{
		{"title", req.Title},
		{"role", req.Role},
		{"synopsis", req.Synopsis},
	} {
		if err := requireText(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if req.Year == nil {
		return nil, invalid("year is required")
	}
	if err := s.checkCreateMedia(req, files); err != nil {
		return nil, err
	}

	thumbURL, videoURL, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	p := models.Project{
		Title:        strings.TrimSpace(req.Title),
		Year:         *req.Year,
		Role:         strings.TrimSpace(req.Role),
		Synopsis:     strings.TrimSpace(req.Synopsis),
		VideoURL:     strings.TrimSpace(req.VideoURL),
		ThumbnailURL: strings.TrimSpace(req.ThumbnailURL),
	}
	if thumbURL != "" {
		p.ThumbnailURL = thumbURL
	}
	if videoURL != "" {
		p.VideoURL = videoURL
	}

	created, err := s.store.CreateProject(ctx, p)
	if err != nil {
		s.cleaner.Schedule("create failed", thumbURL, videoURL)
		return nil, s.storeError("create", err)
	}
	s.logger.Info("project created", "id", created.ID, "title", created.Title)
	return created, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, req models.UpdateProjectRequest, files MediaFiles) (*models.Project, error) {
	patch := req.Patch()
	for _, f := range []struct {
		name  string
		value **string
	}{
		{"title", &patch.Title},
		{"role", &patch.Role},
		{"synopsis", &patch.Synopsis},
		{"videoUrl", &patch.VideoURL},
		{"thumbnailUrl", &patch.ThumbnailURL},
	} {
		if *f.value == nil {
			continue
		}
		if err := requireText(f.name, **f.value); err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(**f.value)
		*f.value = &trimmed
	}
	if s.policy == config.URLsRequired && !files.empty() {
		return nil, invalid(errFilesNotAccepted)
	}

	existing, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, s.storeError("get", err)
	}
	if req.Version != nil && *req.Version != existing.Version {
		return nil, ErrConflict
	}
	if patch.IsEmpty() && files.empty() {
		return existing, nil
	}

	thumbURL, videoURL, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}
	if thumbURL != "" {
		patch.ThumbnailURL = &thumbURL
	}
	if videoURL != "" {
		patch.VideoURL = &videoURL
	}

	updated, err := s.store.UpdateProject(ctx, id, patch, req.Version)
	if err != nil {
		s.cleaner.Schedule("update failed", thumbURL, videoURL)
		return nil, s.storeError("update", err)
	}

	var superseded []string
	if existing.ThumbnailURL != updated.ThumbnailURL {
		superseded = append(superseded, existing.ThumbnailURL)
	}
	if existing.VideoURL != updated.VideoURL {
		superseded = append(superseded, existing.VideoURL)
	}
	if len(superseded) > 0 {
		s.cleaner.Schedule("media replaced", superseded...)
	}

	s.logger.Info("project updated", "id", updated.ID, "version", updated.Version)
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	removed, err := s.store.DeleteProject(ctx, id)
	if err != nil {
		return s.storeError("delete", err)
	}
	s.cleaner.Schedule("project deleted", removed.ThumbnailURL, removed.VideoURL)
	s.logger.Info("project deleted", "id", id)
	return nil
}
