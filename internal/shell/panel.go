package shell

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"portfolio-backend/internal/client"
	"portfolio-backend/internal/models"
)

const (
	invalidPasswordMessage = "Invalid password. Please try again."
	fallbackErrorMessage   = "An error occurred"
	missingMediaMessage    = "Please provide both a thumbnail and a video for new projects."
)

// Form is the shared create/edit form. EditingID is empty when creating.
type Form struct {
	EditingID    string
	Title        string
	Year         int
	Role         string
	Synopsis     string
	VideoURL     string
	ThumbnailURL string
	Thumbnail    *client.File
	Video        *client.File
}

func (f Form) input() client.ProjectInput {
	return client.ProjectInput{
		Title:        f.Title,
		Year:         f.Year,
		Role:         f.Role,
		Synopsis:     f.Synopsis,
		VideoURL:     f.VideoURL,
		ThumbnailURL: f.ThumbnailURL,
		Thumbnail:    f.Thumbnail,
		Video:        f.Video,
	}
}

// AdminPanel is locked until a login succeeds. Once unlocked it keeps its own
// copy of the project list, refreshed after every mutation.
type AdminPanel struct {
	api    API
	shell  *Shell
	logger *slog.Logger
	now    func() time.Time

	LoginError string
	Projects   []models.ProjectResponse
	ListError  string
	Loading    bool
	Submitting bool
	Form       Form
	// Notice holds the last mutation failure for the view to alert.
	Notice string
}

func newAdminPanel(api API, shell *Shell, logger *slog.Logger) *AdminPanel {
	p := &AdminPanel{api: api, shell: shell, logger: logger, now: time.Now}
	p.NewProject()
	return p
}

func (p *AdminPanel) Unlocked() bool { return p.shell.AdminUnlocked }

func (p *AdminPanel) Login(ctx context.Context, password string) bool {
	p.LoginError = ""
	if err := p.api.Login(ctx, password); err != nil {
		p.logger.Debug("admin login failed", "error", err)
		p.LoginError = invalidPasswordMessage
		return false
	}
	p.shell.unlock(ctx)
	return true
}

// Logout always leaves the panel locked and closed, whatever the server says.
func (p *AdminPanel) Logout(ctx context.Context) {
	defer p.shell.lock()
	if err := p.api.Logout(ctx); err != nil {
		p.logger.Warn("admin logout request failed", "error", err)
	}
}

func (p *AdminPanel) refresh(ctx context.Context) {
	p.Loading = true
	p.ListError = ""
	defer func() { p.Loading = false }()

	projects, err := p.api.ListProjects(ctx)
	if err != nil {
		p.ListError = errorMessage(err, fallbackErrorMessage)
		return
	}
	p.Projects = projects
}

// NewProject resets the form for a new record.
func (p *AdminPanel) NewProject() {
	p.Form = Form{Year: p.now().Year()}
}

// Edit loads an existing project into the form. File inputs start empty.
func (p *AdminPanel) Edit(project models.ProjectResponse) {
	p.Form = Form{
		EditingID:    project.ID,
		Title:        project.Title,
		Year:         project.Year,
		Role:         project.Role,
		Synopsis:     project.Synopsis,
		VideoURL:     project.VideoURL,
		ThumbnailURL: project.ThumbnailURL,
	}
}

// Submit creates or updates depending on Form.EditingID. On success both the
// panel list and the public list are refreshed and the form is reset.
func (p *AdminPanel) Submit(ctx context.Context) error {
	p.Notice = ""
	f := p.Form
	if f.EditingID == "" && !hasMedia(f) {
		p.Notice = missingMediaMessage
		return errors.New(missingMediaMessage)
	}

	p.Submitting = true
	defer func() { p.Submitting = false }()

	var err error
	if f.EditingID == "" {
		_, err = p.api.CreateProject(ctx, f.input())
	} else {
		_, err = p.api.UpdateProject(ctx, f.EditingID, f.input())
	}
	if err != nil {
		p.Notice = errorMessage(err, fallbackErrorMessage)
		return err
	}

	p.NewProject()
	p.invalidate(ctx)
	return nil
}

func (p *AdminPanel) Delete(ctx context.Context, id string) error {
	p.Notice = ""
	if err := p.api.DeleteProject(ctx, id); err != nil {
		p.Notice = errorMessage(err, fallbackErrorMessage)
		return err
	}
	p.invalidate(ctx)
	return nil
}

func (p *AdminPanel) invalidate(ctx context.Context) {
	p.refresh(ctx)
	p.shell.Refresh(ctx)
}

func hasMedia(f Form) bool {
	thumb := f.Thumbnail != nil || f.ThumbnailURL != ""
	video := f.Video != nil || f.VideoURL != ""
	return thumb && video
}

// errorMessage prefers the server's message over a generic fallback.
func errorMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
