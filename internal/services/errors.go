package services

import (
	"errors"

	"portfolio-backend/internal/database"
	"portfolio-backend/internal/media"
)

// ValidationError is a client mistake; Message is safe to show to users.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

var (
	ErrNotFound = database.ErrNotFound
	ErrConflict = database.ErrVersionConflict
	ErrUpload   = media.ErrUpload
	ErrStore    = errors.New("project store unavailable")
)
