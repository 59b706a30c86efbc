package models

// CreateProjectRequest is accepted as JSON or as multipart form fields
// alongside optional "thumbnail" and "video" files.
type CreateProjectRequest struct {
	Title        string `json:"title" form:"title" example:"Artisan"`
	Year         *int   `json:"year" form:"year" example:"2025"`
	Role         string `json:"role" form:"role" example:"Director"`
	Synopsis     string `json:"synopsis" form:"synopsis"`
	VideoURL     string `json:"videoUrl" form:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl" form:"thumbnailUrl"`
}

// UpdateProjectRequest carries any subset of project fields.
// Version, when present, must match the stored version.
type UpdateProjectRequest struct {
	Title        *string `json:"title" form:"title"`
	Year         *int    `json:"year" form:"year"`
	Role         *string `json:"role" form:"role"`
	Synopsis     *string `json:"synopsis" form:"synopsis"`
	VideoURL     *string `json:"videoUrl" form:"videoUrl"`
	ThumbnailURL *string `json:"thumbnailUrl" form:"thumbnailUrl"`
	Version      *int    `json:"version,omitempty" form:"version"`
}

func (r UpdateProjectRequest) Patch() ProjectPatch {
	return ProjectPatch{
		Title:        r.Title,
		Year:         r.Year,
		Role:         r.Role,
		Synopsis:     r.Synopsis,
		VideoURL:     r.VideoURL,
		ThumbnailURL: r.ThumbnailURL,
	}
}

type LoginRequest struct {
	Password string `json:"password"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
