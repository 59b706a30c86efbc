package supabase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	storage "github.com/supabase-community/storage-go"
	"portfolio-backend/internal/media"
)

// objectPrefix keeps an "upload/<version>" pair in every object path so public
// URLs parse the same way as other hosted media.
const objectPrefix = "upload/v1"

// StorageProvider stores media in a Supabase Storage bucket.
type StorageProvider struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageProvider(c *Client, bucket string) *StorageProvider {
	return &StorageProvider{
		client:  c.Supabase.Storage,
		bucket:  bucket,
		baseURL: c.BaseURL,
	}
}

func (s *StorageProvider) objectPath(folder, file string) string {
	return fmt.Sprintf("%s/%s/%s", objectPrefix, folder, file)
}

func (s *StorageProvider) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}

func (s *StorageProvider) Upload(_ context.Context, obj media.Object, body io.Reader) (string, error) {
	storagePath := s.objectPath(obj.Folder, obj.Name+"."+obj.Format)

	contentType := obj.ContentType
	upsert := false
	_, err := s.client.UploadFile(s.bucket, storagePath, body, storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.PublicURL(storagePath), nil
}

// Delete removes every object in the identifier's folder whose name matches
// the identifier once the extension is dropped.
func (s *StorageProvider) Delete(_ context.Context, publicID string, _ media.Kind) error {
	folder, name := path.Split(publicID)
	prefix := strings.TrimSuffix(s.objectPath(strings.TrimSuffix(folder, "/"), ""), "/")

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	var paths []string
	for _, file := range files {
		if strings.TrimSuffix(file.Name, path.Ext(file.Name)) == name {
			paths = append(paths, prefix+"/"+file.Name)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no stored object matches %s", publicID)
	}

	if _, err := s.client.RemoveFile(s.bucket, paths); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}
