// Package database persists portfolio projects. Open picks a backend from
// the scheme of the connection URL: mongodb, postgres or memory.
package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"portfolio-backend/internal/models"
)

var (
	ErrNotFound        = errors.New("project not found")
	ErrVersionConflict = errors.New("project was modified by another request")
)

// Store is the project collection. Implementations must return ErrNotFound
// for unknown or malformed ids and keep List ordered by year descending,
// ties broken by ascending id.
type Store interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)
	// UpdateProject merges patch into the stored record. When expectedVersion
	// is non-nil and differs from the stored version, ErrVersionConflict is
	// returned and nothing is written.
	UpdateProject(ctx context.Context, id string, patch models.ProjectPatch, expectedVersion *int) (*models.Project, error)
	// DeleteProject removes the record and returns it as it was.
	DeleteProject(ctx context.Context, id string) (*models.Project, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the backend named by url's scheme.
func Open(ctx context.Context, url, dbName string) (Store, error) {
	scheme, _, _ := strings.Cut(url, "://")
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return NewMongoStore(ctx, url, dbName)
	case "postgres", "postgresql":
		return NewPostgresStore(ctx, url)
	case "memory":
		return NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// SortProjects orders projects by year descending, then id ascending.
func SortProjects(projects []models.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Year != projects[j].Year {
			return projects[i].Year > projects[j].Year
		}
		return projects[i].ID < projects[j].ID
	})
}
