package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

type fakeUploader struct {
	mu      sync.Mutex
	n       int
	failOn  string
	uploads []string
}

func (f *fakeUploader) Upload(_ context.Context, u media.Upload) (media.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && u.Filename == f.failOn {
		return media.Result{}, fmt.Errorf("%w: provider rejected %s", media.ErrUpload, u.Filename)
	}
	f.n++
	folder, kind := media.Classify(u.ContentType)
	url := fmt.Sprintf("https://res.example.com/%s/upload/v1/%s/asset%d.bin", kind, folder, f.n)
	f.uploads = append(f.uploads, url)
	return media.Result{URL: url, PublicID: fmt.Sprintf("%s/asset%d", folder, f.n), Kind: kind}, nil
}

type recordingCleaner struct {
	mu   sync.Mutex
	urls map[string][]string
}

func (r *recordingCleaner) Schedule(reason string, urls ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.urls == nil {
		r.urls = map[string][]string{}
	}
	for _, u := range urls {
		if u != "" {
			r.urls[reason] = append(r.urls[reason], u)
		}
	}
}

type failingStore struct {
	database.Store
}

func (failingStore) CreateProject(context.Context, models.Project) (*models.Project, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) ListProjects(context.Context) ([]models.Project, error) {
	return nil, errors.New("connection refused")
}

type fixture struct {
	svc      *services.ProjectService
	store    database.Store
	uploader *fakeUploader
	cleaner  *recordingCleaner
}

func newFixture(t *testing.T, policy config.MediaInputPolicy) *fixture {
	t.Helper()
	store, err := database.NewMemoryStore()
	require.NoError(t, err)
	f := &fixture{store: store, uploader: &fakeUploader{}, cleaner: &recordingCleaner{}}
	f.svc = services.NewProjectService(store, f.uploader, f.cleaner, policy, logging.Discard())
	return f
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func artisan() models.CreateProjectRequest {
	return models.CreateProjectRequest{
		Title:        "Artisan",
		Year:         intPtr(2025),
		Role:         "Director",
		Synopsis:     "A portrait of a craftsman.",
		VideoURL:     "https://provider/video/v1/videos/abc123.mp4",
		ThumbnailURL: "https://provider/image/v1/thumbnails/xyz.jpg",
	}
}

func upload(name, contentType string) *media.Upload {
	return &media.Upload{Filename: name, ContentType: contentType, Body: bytes.NewReader([]byte(name))}
}

func TestCreate_RoundTrip(t *testing.T) {
	f := newFixture(t, config.EitherAccepted)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, models.CreateProjectRequest{
		Title: "Older", Year: intPtr(2019), Role: "Editor", Synopsis: "s",
		VideoURL: "https://v", ThumbnailURL: "https://t",
	}, services.MediaFiles{})
	require.NoError(t, err)

	created, err := f.svc.Create(ctx, artisan(), services.MediaFiles{})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	first := list[0]
	assert.Equal(t, created.ID, first.ID)
	assert.Equal(t, "Artisan", first.Title)
	assert.Equal(t, 2025, first.Year)
	assert.Equal(t, "Director", first.Role)
	assert.Equal(t, "https://provider/video/v1/videos/abc123.mp4", first.VideoURL)
	assert.Equal(t, "https://provider/image/v1/thumbnails/xyz.jpg", first.ThumbnailURL)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateProjectRequest)
		want   string
	}{
		{"missing title", func(r *models.CreateProjectRequest) { r.Title = "  " }, "title is required"},
		{"missing role", func(r *models.CreateProjectRequest) { r.Role = "" }, "role is required"},
		{"missing synopsis", func(r *models.CreateProjectRequest) { r.Synopsis = "" }, "synopsis is required"},
		{"missing year", func(r *models.CreateProjectRequest) { r.Year = nil }, "year is required"},
		{"missing video", func(r *models.CreateProjectRequest) { r.VideoURL = "" }, "video is required"},
		{"missing thumbnail", func(r *models.CreateProjectRequest) { r.ThumbnailURL = "" }, "thumbnail is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, config.EitherAccepted)
			req := artisan()
			tt.mutate(&req)

			_, err := f.svc.Create(context.Background(), req, services.MediaFiles{})
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Message, tt.want)

			list, err := f.store.ListProjects(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestCreate_MediaPolicies(t *testing.T) {
	files := services.MediaFiles{
		Thumbnail: upload("poster.jpg", "image/jpeg"),
		Video:     upload("reel.mp4", "video/mp4"),
	}

	t.Run("urls rejects files", func(t *testing.T) {
		f := newFixture(t, config.URLsRequired)
		_, err := f.svc.Create(context.Background(), artisan(), files)
		var verr *services.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("files requires both uploads", func(t *testing.T) {
		f := newFixture(t, config.FilesRequired)
		_, err := f.svc.Create(context.Background(), artisan(), services.MediaFiles{Thumbnail: upload("poster.jpg", "image/jpeg")})
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "video file is required", verr.Message)
	})

	t.Run("either prefers a file over a url", func(t *testing.T) {
		f := newFixture(t, config.EitherAccepted)
		created, err := f.svc.Create(context.Background(), artisan(), services.MediaFiles{
			Thumbnail: upload("poster.jpg", "image/jpeg"),
		})
		require.NoError(t, err)
		assert.Contains(t, created.ThumbnailURL, "/project-thumbnails/")
		assert.Equal(t, "https://provider/video/v1/videos/abc123.mp4", created.VideoURL)
	})
}

func TestCreate_UploadFailureCleansEarlierUpload(t *testing.T) {
	f := newFixture(t, config.FilesRequired)
	f.uploader.failOn = "reel.mp4"

	_, err := f.svc.Create(context.Background(), artisan(), services.MediaFiles{
		Thumbnail: upload("poster.jpg", "image/jpeg"),
		Video:     upload("reel.mp4", "video/mp4"),
	})
	assert.ErrorIs(t, err, services.ErrUpload)
	assert.Equal(t, f.uploader.uploads, f.cleaner.urls["upload aborted"])
}

func TestCreate_StoreFailureCleansUploads(t *testing.T) {
	f := newFixture(t, config.FilesRequired)
	svc := services.NewProjectService(failingStore{f.store}, f.uploader, f.cleaner, config.FilesRequired, logging.Discard())

	_, err := svc.Create(context.Background(), artisan(), services.MediaFiles{
		Thumbnail: upload("poster.jpg", "image/jpeg"),
		Video:     upload("reel.mp4", "video/mp4"),
	})
	assert.ErrorIs(t, err, services.ErrStore)
	assert.Len(t, f.cleaner.urls["create failed"], 2)

	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, services.ErrStore)
}

func TestUpdate_PartialChangesOnlyTitle(t *testing.T) {
	f := newFixture(t, config.EitherAccepted)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, artisan(), services.MediaFiles{})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, created.ID, models.UpdateProjectRequest{Title: strPtr("X")}, services.MediaFiles{})
	require.NoError(t, err)

	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, created.Year, updated.Year)
	assert.Equal(t, created.Role, updated.Role)
	assert.Equal(t, created.Synopsis, updated.Synopsis)
	assert.Equal(t, created.VideoURL, updated.VideoURL)
	assert.Equal(t, created.ThumbnailURL, updated.ThumbnailURL)
	assert.Empty(t, f.cleaner.urls)
}

func TestUpdate_RejectsEmptySuppliedText(t *testing.T) {
	f := newFixture(t, config.EitherAccepted)
	created, err := f.svc.Create(context.Background(), artisan(), services.MediaFiles{})
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), created.ID, models.UpdateProjectRequest{Role: strPtr(" ")}, services.MediaFiles{})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role is required", verr.Message)
}

func TestUpdate_ReplacementSchedulesOldMedia(t *testing.T) {
	f := newFixture(t, config.EitherAccepted)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, artisan(), services.MediaFiles{
		Thumbnail: upload("poster.jpg", "image/jpeg"),
	})
	require.NoError(t, err)
	oldThumb := created.ThumbnailURL

	updated, err := f.svc.Update(ctx, created.ID, models.UpdateProjectRequest{}, services.MediaFiles{
		Thumbnail: upload("poster2.jpg", "image/jpeg"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldThumb, updated.ThumbnailURL)
	assert.Equal(t, created.VideoURL, updated.VideoURL)
	assert.Equal(t, []string{oldThumb}, f.cleaner.urls["media replaced"])
}

func TestUpdate_URLPolicyRejectsFiles(t *testing.T) {
	f := newFixture(t, config.URLsRequired)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, artisan(), services.MediaFiles{})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, models.UpdateProjectRequest{Title: strPtr("X")}, services.MediaFiles{
		Video: upload("reel.mp4", "video/mp4"),
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "file uploads are not accepted, provide videoUrl and thumbnailUrl", verr.Message)
	assert.Empty(t, f.uploader.uploads)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Artisan", got.Title)
	assert.Equal(t, created.VideoURL, got.VideoURL)
	assert.Equal(t, 1, got.Version)

	updated, err := f.svc.Update(ctx, created.ID, models.UpdateProjectRequest{VideoURL: strPtr("https://provider/video/v1/videos/new.mp4")}, services.MediaFiles{})
	require.NoError(t, err)
	assert.Equal(t, "https://provider/video/v1/videos/new.mp4", updated.VideoURL)
}

func TestUpdate_VersionConflict(t *testing.T) {
	f := newFixture(t, config.EitherAccepted)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, artisan(), services.MediaFiles{})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, models.UpdateProjectRequest{Year: intPtr(2024), Version: intPtr(created.Version)}, services.MediaFiles{})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, models.UpdateProjectRequest{Year: intPtr(2023), Version: intPtr(created.Version)}, services.MediaFiles{})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestDelete_ThenUpdateIsNotFound(t *testing.T) {
	f := newFixture(t, config.EitherAccepted)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, artisan(), services.MediaFiles{})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	assert.Equal(t, []string{created.ThumbnailURL, created.VideoURL}, f.cleaner.urls["project deleted"])

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.svc.Update(ctx, created.ID, models.UpdateProjectRequest{Title: strPtr("X")}, services.MediaFiles{})
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), services.ErrNotFound)
	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
