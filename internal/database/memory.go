package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"portfolio-backend/internal/models"
)

const projectsTable = "projects"

var memorySchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		projectsTable: {
			Name: projectsTable,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
			},
		},
	},
}

// MemoryStore keeps projects in process. Used for local development and tests.
type MemoryStore struct {
	db  *memdb.MemDB
	now func() time.Time
}

func NewMemoryStore() (*MemoryStore, error) {
	db, err := memdb.NewMemDB(memorySchema)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory database: %w", err)
	}
	return &MemoryStore{db: db, now: time.Now}, nil
}

func (s *MemoryStore) ListProjects(context.Context) ([]models.Project, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(projectsTable, "id")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	projects := []models.Project{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		projects = append(projects, *obj.(*models.Project))
	}
	SortProjects(projects)
	return projects, nil
}

func (s *MemoryStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return s.lookup(txn, id)
}

func (s *MemoryStore) lookup(txn *memdb.Txn, id string) (*models.Project, error) {
	obj, err := txn.First(projectsTable, "id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if obj == nil {
		return nil, ErrNotFound
	}
	p := *obj.(*models.Project)
	return &p, nil
}

func (s *MemoryStore) CreateProject(_ context.Context, in models.Project) (*models.Project, error) {
	now := s.now().UTC()
	p := in
	p.ID = uuid.NewString()
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(projectsTable, &p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	txn.Commit()

	out := p
	return &out, nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, id string, patch models.ProjectPatch, expectedVersion *int) (*models.Project, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	p, err := s.lookup(txn, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion != nil && *expectedVersion != p.Version {
		return nil, ErrVersionConflict
	}
	patch.Apply(p)
	p.Version++
	p.UpdatedAt = s.now().UTC()

	if err := txn.Insert(projectsTable, p); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	txn.Commit()

	out := *p
	return &out, nil
}

func (s *MemoryStore) DeleteProject(_ context.Context, id string) (*models.Project, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(projectsTable, "id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	if obj == nil {
		return nil, ErrNotFound
	}
	if err := txn.Delete(projectsTable, obj); err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	txn.Commit()

	p := *obj.(*models.Project)
	return &p, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }
