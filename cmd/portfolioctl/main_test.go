package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"portfolio-backend/internal/models"
)

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/projects", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]models.ProjectResponse{
			{ID: "p1", Title: "Artisan", Year: 2025, Role: "Director"},
		})
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := newApp(&out).Run([]string{"portfolioctl", "--addr", srv.URL, "list"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Artisan")
	assert.Contains(t, out.String(), "2025")
}

func TestCreate_RequiresPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	var out bytes.Buffer
	err := newApp(&out).Run([]string{"portfolioctl", "--addr", "http://127.0.0.1:1", "create", "--title", "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}
