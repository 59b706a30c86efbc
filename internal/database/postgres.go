package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"portfolio-backend/internal/models"
)

const projectColumns = `id, title, year, role, synopsis, video_url, thumbnail_url, version, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := NewMigrator(db, slog.Default()).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		p  models.Project
		id uuid.UUID
	)
	err := row.Scan(&id, &p.Title, &p.Year, &p.Role, &p.Synopsis,
		&p.VideoURL, &p.ThumbnailURL, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ID = id.String()
	return &p, nil
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY year DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *PostgresStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1
	`, pid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) CreateProject(ctx context.Context, in models.Project) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		INSERT INTO projects (id, title, year, role, synopsis, video_url, thumbnail_url, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING `+projectColumns,
		uuid.New(), in.Title, in.Year, in.Role, in.Synopsis, in.VideoURL, in.ThumbnailURL,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch, expectedVersion *int) (*models.Project, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		UPDATE projects
		SET title = COALESCE($2, title),
		    year = COALESCE($3, year),
		    role = COALESCE($4, role),
		    synopsis = COALESCE($5, synopsis),
		    video_url = COALESCE($6, video_url),
		    thumbnail_url = COALESCE($7, thumbnail_url),
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND ($8::INTEGER IS NULL OR version = $8)
		RETURNING `+projectColumns,
		pid, patch.Title, patch.Year, patch.Role, patch.Synopsis, patch.VideoURL, patch.ThumbnailURL, expectedVersion,
	))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := s.GetProject(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id string) (*models.Project, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		DELETE FROM projects
		WHERE id = $1
		RETURNING `+projectColumns,
		pid,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}
