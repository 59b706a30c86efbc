// Package shell holds the client-side state of the portfolio page and its
// admin panel, independent of any rendering toolkit. Views read the exported
// state and call the methods in response to user input.
package shell

import (
	"context"
	"log/slog"
	"time"

	"portfolio-backend/internal/client"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/site"
)

// API is the subset of the REST client the shell and panel use.
type API interface {
	ListProjects(ctx context.Context) ([]models.ProjectResponse, error)
	Status(ctx context.Context) (bool, error)
	Login(ctx context.Context, password string) error
	Logout(ctx context.Context) error
	CreateProject(ctx context.Context, in client.ProjectInput) (*models.ProjectResponse, error)
	UpdateProject(ctx context.Context, id string, in client.ProjectInput) (*models.ProjectResponse, error)
	DeleteProject(ctx context.Context, id string) error
}

const scrolledThreshold = 50

// Box is a rendered section's vertical extent.
type Box struct {
	Section string
	Top     float64
	Height  float64
}

// TapResult is what a logo activation asks the view to do.
type TapResult int

const (
	NavigateHome TapResult = iota
	OpenAdminPanel
)

type Shell struct {
	api    API
	logger *slog.Logger

	Projects      []models.ProjectResponse
	ProjectsError string
	Loading       bool
	AdminUnlocked bool
	AdminOpen     bool

	active   string
	scrolled bool
	gesture  Gesture
	panel    *AdminPanel
}

func New(api API, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Shell{
		api:    api,
		logger: logger,
		active: site.Sections[0].ID,
	}
	s.panel = newAdminPanel(api, s, logger)
	return s
}

func (s *Shell) Panel() *AdminPanel { return s.panel }

// Load fetches the public project list and the session status. Failures end
// up in the shell state; nothing is returned.
func (s *Shell) Load(ctx context.Context) {
	s.Refresh(ctx)

	loggedIn, err := s.api.Status(ctx)
	if err != nil {
		s.logger.Warn("could not verify login status", "error", err)
		return
	}
	if loggedIn {
		s.unlock(ctx)
	}
}

// Refresh re-fetches the public project list.
func (s *Shell) Refresh(ctx context.Context) {
	s.Loading = true
	s.ProjectsError = ""
	defer func() { s.Loading = false }()

	projects, err := s.api.ListProjects(ctx)
	if err != nil {
		s.ProjectsError = errorMessage(err, "An unknown error occurred")
		return
	}
	s.Projects = projects
}

// OnScroll updates the scrolled flag and the active section.
func (s *Shell) OnScroll(scrollY, viewportHeight float64, layout []Box) {
	s.scrolled = scrollY > scrolledThreshold
	s.active = ActiveSection(s.active, scrollY, viewportHeight, layout)
}

func (s *Shell) Scrolled() bool        { return s.scrolled }
func (s *Shell) CurrentSection() string { return s.active }

// ActiveSection returns the section containing the viewport midpoint, or
// current when none does.
func ActiveSection(current string, scrollY, viewportHeight float64, layout []Box) string {
	mid := scrollY + viewportHeight/2
	for _, b := range layout {
		if mid >= b.Top && mid < b.Top+b.Height {
			current = b.Section
		}
	}
	return current
}

// ScrollTarget returns the anchor id for a section name such as "About".
func ScrollTarget(name string) (string, bool) {
	for _, sec := range site.Sections {
		if sec.Name == name || sec.ID == name {
			return "#" + sec.ID, true
		}
	}
	return "", false
}

// TapLogo feeds the unlock gesture.
func (s *Shell) TapLogo(now time.Time) TapResult {
	if s.gesture.Tap(now) {
		s.OpenAdmin()
		return OpenAdminPanel
	}
	return NavigateHome
}

func (s *Shell) OpenAdmin()  { s.AdminOpen = true }
func (s *Shell) CloseAdmin() { s.AdminOpen = false }

func (s *Shell) unlock(ctx context.Context) {
	s.AdminUnlocked = true
	s.panel.refresh(ctx)
}

func (s *Shell) lock() {
	s.AdminUnlocked = false
	s.AdminOpen = false
}
