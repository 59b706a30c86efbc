package models

import (
	"time"
)

// Project is a single portfolio entry.
type Project struct {
	ID           string
	Title        string
	Year         int
	Role         string
	Synopsis     string
	VideoURL     string
	ThumbnailURL string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProjectPatch carries the fields supplied by an update; nil means "keep".
type ProjectPatch struct {
	Title        *string
	Year         *int
	Role         *string
	Synopsis     *string
	VideoURL     *string
	ThumbnailURL *string
}

// Apply merges the supplied fields into p.
func (patch ProjectPatch) Apply(p *Project) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Year != nil {
		p.Year = *patch.Year
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	if patch.Synopsis != nil {
		p.Synopsis = *patch.Synopsis
	}
	if patch.VideoURL != nil {
		p.VideoURL = *patch.VideoURL
	}
	if patch.ThumbnailURL != nil {
		p.ThumbnailURL = *patch.ThumbnailURL
	}
}

func (patch ProjectPatch) IsEmpty() bool {
	return patch.Title == nil && patch.Year == nil && patch.Role == nil &&
		patch.Synopsis == nil && patch.VideoURL == nil && patch.ThumbnailURL == nil
}
