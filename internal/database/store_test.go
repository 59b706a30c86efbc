package database_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func sample(title string, year int) models.Project {
	return models.Project{
		Title:        title,
		Year:         year,
		Role:         "Director",
		Synopsis:     "A short film.",
		VideoURL:     "https://res.example.com/video/upload/v1/project-videos/" + title + ".mp4",
		ThumbnailURL: "https://res.example.com/image/upload/v1/project-thumbnails/" + title + ".jpg",
	}
}

// runStoreSuite exercises the behaviour every backend must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) database.Store) {
	ctx := context.Background()

	t.Run("create then list orders by year desc", func(t *testing.T) {
		s := newStore(t)
		for _, p := range []models.Project{sample("old", 2019), sample("new", 2025), sample("mid", 2022)} {
			_, err := s.CreateProject(ctx, p)
			require.NoError(t, err)
		}

		list, err := s.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []int{2025, 2022, 2019}, []int{list[0].Year, list[1].Year, list[2].Year})
	})

	t.Run("equal years tie break on id", func(t *testing.T) {
		s := newStore(t)
		for _, title := range []string{"a", "b", "c"} {
			_, err := s.CreateProject(ctx, sample(title, 2024))
			require.NoError(t, err)
		}
		list, err := s.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Less(t, list[0].ID, list[1].ID)
		assert.Less(t, list[1].ID, list[2].ID)
	})

	t.Run("create assigns id and version", func(t *testing.T) {
		s := newStore(t)
		p, err := s.CreateProject(ctx, sample("Artisan", 2025))
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, 1, p.Version)
		assert.False(t, p.CreatedAt.IsZero())

		got, err := s.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Artisan", got.Title)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		s := newStore(t)
		p, err := s.CreateProject(ctx, sample("Artisan", 2025))
		require.NoError(t, err)

		updated, err := s.UpdateProject(ctx, p.ID, models.ProjectPatch{Synopsis: strPtr("New synopsis")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "New synopsis", updated.Synopsis)
		assert.Equal(t, p.Title, updated.Title)
		assert.Equal(t, p.Year, updated.Year)
		assert.Equal(t, p.VideoURL, updated.VideoURL)
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("update with stale version conflicts", func(t *testing.T) {
		s := newStore(t)
		p, err := s.CreateProject(ctx, sample("Artisan", 2025))
		require.NoError(t, err)

		_, err = s.UpdateProject(ctx, p.ID, models.ProjectPatch{Year: intPtr(2020)}, intPtr(1))
		require.NoError(t, err)

		_, err = s.UpdateProject(ctx, p.ID, models.ProjectPatch{Year: intPtr(2021)}, intPtr(1))
		assert.ErrorIs(t, err, database.ErrVersionConflict)

		got, err := s.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2020, got.Year)
	})

	t.Run("unknown and malformed ids are not found", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []string{"does-not-exist", "000000000000000000000000", "00000000-0000-0000-0000-000000000000"} {
			_, err := s.GetProject(ctx, id)
			assert.ErrorIs(t, err, database.ErrNotFound, id)
			_, err = s.UpdateProject(ctx, id, models.ProjectPatch{Title: strPtr("x")}, nil)
			assert.ErrorIs(t, err, database.ErrNotFound, id)
			_, err = s.DeleteProject(ctx, id)
			assert.ErrorIs(t, err, database.ErrNotFound, id)
		}
	})

	t.Run("delete returns removed record", func(t *testing.T) {
		s := newStore(t)
		p, err := s.CreateProject(ctx, sample("Artisan", 2025))
		require.NoError(t, err)

		removed, err := s.DeleteProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ThumbnailURL, removed.ThumbnailURL)

		_, err = s.GetProject(ctx, p.ID)
		assert.ErrorIs(t, err, database.ErrNotFound)
		_, err = s.DeleteProject(ctx, p.ID)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) database.Store {
		s, err := database.NewMemoryStore()
		require.NoError(t, err)
		return s
	})
}

func TestMemoryStore_ConcurrentUpdatesSerialize(t *testing.T) {
	ctx := context.Background()
	s, err := database.NewMemoryStore()
	require.NoError(t, err)
	p, err := s.CreateProject(ctx, sample("Artisan", 2025))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.UpdateProject(ctx, p.ID, models.ProjectPatch{Year: intPtr(2000 + i)}, nil)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 21, got.Version)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}
	runStoreSuite(t, func(t *testing.T) database.Store {
		s, err := database.NewPostgresStore(context.Background(), url)
		require.NoError(t, err)
		cleanup(t, s)
		return s
	})
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	runStoreSuite(t, func(t *testing.T) database.Store {
		s, err := database.NewMongoStore(context.Background(), uri, "portfolio_test")
		require.NoError(t, err)
		cleanup(t, s)
		return s
	})
}

// cleanup empties a shared backend before each subtest and closes it after.
func cleanup(t *testing.T, s database.Store) {
	ctx := context.Background()
	wipe := func() {
		list, err := s.ListProjects(ctx)
		require.NoError(t, err)
		for _, p := range list {
			_, err := s.DeleteProject(ctx, p.ID)
			require.NoError(t, err)
		}
	}
	wipe()
	t.Cleanup(func() {
		wipe()
		_ = s.Close(ctx)
	})
}

func TestOpen_Scheme(t *testing.T) {
	s, err := database.Open(context.Background(), "memory://", "portfolio")
	require.NoError(t, err)
	assert.IsType(t, &database.MemoryStore{}, s)

	_, err = database.Open(context.Background(), "sqlite://x.db", "portfolio")
	assert.ErrorContains(t, err, "unsupported database scheme")
}

func TestSortProjects(t *testing.T) {
	projects := []models.Project{
		{ID: "b", Year: 2020},
		{ID: "c", Year: 2025},
		{ID: "a", Year: 2020},
	}
	database.SortProjects(projects)
	assert.Equal(t, []string{"c", "a", "b"}, []string{projects[0].ID, projects[1].ID, projects[2].ID})
}
