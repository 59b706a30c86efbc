// Package media uploads project assets to an external media host and removes
// them again by URL.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindRaw   Kind = "raw"
)

const (
	ThumbnailsFolder = "project-thumbnails"
	VideosFolder     = "project-videos"
	FilesFolder      = "project-files"
)

var (
	ErrUpload    = errors.New("media upload failed")
	ErrNotHosted = errors.New("url is not hosted by the media provider")
)

// Object describes where a new asset goes. Name carries no extension.
type Object struct {
	Folder      string
	Name        string
	Format      string
	Kind        Kind
	ContentType string
}

// Provider is a media host.
type Provider interface {
	Upload(ctx context.Context, obj Object, body io.Reader) (string, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.ReadSeeker
}

type Result struct {
	URL      string
	PublicID string
	Kind     Kind
}

type Options struct {
	AllowedFormats []string
	Attempts       uint
	RetryDelay     time.Duration
	Logger         *slog.Logger
}

type Adapter struct {
	provider Provider
	allowed  map[string]bool
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

func NewAdapter(provider Provider, opt Options) *Adapter {
	if opt.Attempts == 0 {
		opt.Attempts = 3
	}
	if opt.RetryDelay <= 0 {
		opt.RetryDelay = time.Second
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	allowed := make(map[string]bool, len(opt.AllowedFormats))
	for _, f := range opt.AllowedFormats {
		allowed[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))] = true
	}
	return &Adapter{
		provider: provider,
		allowed:  allowed,
		attempts: opt.Attempts,
		delay:    opt.RetryDelay,
		logger:   opt.Logger,
	}
}

// Classify maps a MIME type to its collection and resource kind.
func Classify(contentType string) (string, Kind) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return ThumbnailsFolder, KindImage
	case strings.HasPrefix(ct, "video/"):
		return VideosFolder, KindVideo
	default:
		return FilesFolder, KindRaw
	}
}

// Upload sends the file to the provider, retrying transient failures.
// The declared type is replaced by a sniffed one when it is missing or generic.
func (a *Adapter) Upload(ctx context.Context, u Upload) (Result, error) {
	contentType := strings.TrimSpace(u.ContentType)
	format := strings.ToLower(strings.TrimPrefix(path.Ext(u.Filename), "."))

	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") || format == "" {
		mt, err := mimetype.DetectReader(u.Body)
		if err != nil {
			return Result{}, fmt.Errorf("%w: could not read file: %v", ErrUpload, err)
		}
		if _, err := u.Body.Seek(0, io.SeekStart); err != nil {
			return Result{}, fmt.Errorf("%w: could not rewind file: %v", ErrUpload, err)
		}
		if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
			contentType = mt.String()
		}
		if format == "" {
			format = strings.TrimPrefix(mt.Extension(), ".")
		}
	}

	if !a.allowed[format] {
		return Result{}, fmt.Errorf("%w: file format %q is not allowed", ErrUpload, format)
	}

	folder, kind := Classify(contentType)
	obj := Object{
		Folder:      folder,
		Name:        uuid.NewString(),
		Format:      format,
		Kind:        kind,
		ContentType: contentType,
	}

	var url string
	err := retry.Do(
		func() error {
			if _, err := u.Body.Seek(0, io.SeekStart); err != nil {
				return retry.Unrecoverable(err)
			}
			var err error
			url, err = a.provider.Upload(ctx, obj, u.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(a.attempts),
		retry.Delay(a.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			a.logger.Warn("media upload attempt failed", "attempt", n+1, "folder", folder, "error", err)
		}),
	)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	id, idKind, ok := ParsePublicID(url)
	if !ok {
		id, idKind = folder+"/"+obj.Name, kind
	}
	a.logger.Info("media uploaded", "public_id", id, "kind", idKind)
	return Result{URL: url, PublicID: id, Kind: idKind}, nil
}

// DeleteByURL removes the asset a stored URL points at. URLs that do not
// carry a provider identifier return ErrNotHosted without calling the provider.
func (a *Adapter) DeleteByURL(ctx context.Context, rawURL string) error {
	id, kind, ok := ParsePublicID(rawURL)
	if !ok {
		return ErrNotHosted
	}
	if err := a.provider.Delete(ctx, id, kind); err != nil {
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	return nil
}
