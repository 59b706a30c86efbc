package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryProvider struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryProvider prefers a full cloudinary:// URL and falls back to
// the individual credentials.
func NewCloudinaryProvider(cloudinaryURL, cloudName, apiKey, apiSecret string) (*CloudinaryProvider, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cloudinaryURL)
	} else {
		cld, err = cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &CloudinaryProvider{cld: cld}, nil
}

// SetUploadPrefix points the client at a different API host. The uploader
// holds its own copy of the configuration, so that is the one to change.
func (p *CloudinaryProvider) SetUploadPrefix(prefix string) {
	p.cld.Config.API.UploadPrefix = prefix
	p.cld.Upload.Config.API.UploadPrefix = prefix
}

func (p *CloudinaryProvider) Upload(ctx context.Context, obj Object, body io.Reader) (string, error) {
	res, err := p.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:       obj.Name,
		Folder:         obj.Folder,
		ResourceType:   string(obj.Kind),
		AllowedFormats: api.CldAPIArray{obj.Format},
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary returned no url")
	}
	return res.SecureURL, nil
}

func (p *CloudinaryProvider) Delete(ctx context.Context, publicID string, kind Kind) error {
	res, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: string(kind),
	})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	if res.Result != "ok" {
		return fmt.Errorf("cloudinary destroy returned %q", res.Result)
	}
	return nil
}
