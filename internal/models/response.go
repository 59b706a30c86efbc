package models

import "time"

// ProjectResponse exposes the identifier as both "_id" and "id" so clients
// written against either spelling keep working.
type ProjectResponse struct {
	MongoID      string    `json:"_id"`
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Year         int       `json:"year"`
	Role         string    `json:"role"`
	Synopsis     string    `json:"synopsis"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewProjectResponse(p Project) ProjectResponse {
	return ProjectResponse{
		MongoID:      p.ID,
		ID:           p.ID,
		Title:        p.Title,
		Year:         p.Year,
		Role:         p.Role,
		Synopsis:     p.Synopsis,
		VideoURL:     p.VideoURL,
		ThumbnailURL: p.ThumbnailURL,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func NewProjectListResponse(projects []Project) []ProjectResponse {
	out := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		out[i] = NewProjectResponse(p)
	}
	return out
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	LoggedIn bool `json:"loggedIn"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
