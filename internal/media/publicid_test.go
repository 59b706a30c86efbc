package media_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"portfolio-backend/internal/media"
)

func TestParsePublicID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		id   string
		kind media.Kind
		ok   bool
	}{
		{
			name: "thumbnail",
			url:  "https://res.example.com/image/upload/v1699999999/project-thumbnails/xyz.jpg",
			id:   "project-thumbnails/xyz",
			kind: media.KindImage,
			ok:   true,
		},
		{
			name: "video",
			url:  "https://res.cloudinary.com/demo/video/upload/v1700000000/project-videos/reel.mp4",
			id:   "project-videos/reel",
			kind: media.KindVideo,
			ok:   true,
		},
		{
			name: "nested without extension",
			url:  "https://res.example.com/raw/upload/v1/project-files/a/b",
			id:   "project-files/a/b",
			kind: media.KindImage,
			ok:   true,
		},
		{
			name: "dots in name keep all but the last extension",
			url:  "https://res.example.com/image/upload/v2/project-thumbnails/cut.v2.final.png",
			id:   "project-thumbnails/cut.v2.final",
			kind: media.KindImage,
			ok:   true,
		},
		{
			name: "supabase public url",
			url:  "https://xyz.supabase.co/storage/v1/object/public/portfolio-media/upload/v1/project-videos/abc.mov",
			id:   "project-videos/abc",
			kind: media.KindVideo,
			ok:   true,
		},
		{name: "third party video page", url: "https://vimeo.com/123456789"},
		{name: "provider url without upload segment", url: "https://provider/video/v1/videos/abc123.mp4"},
		{name: "nothing after version", url: "https://res.example.com/image/upload/v1"},
		{name: "empty", url: ""},
		{name: "upload as substring only", url: "https://example.com/uploads/v1/x.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, kind, ok := media.ParsePublicID(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestClassify(t *testing.T) {
	folder, kind := media.Classify("image/png")
	assert.Equal(t, media.ThumbnailsFolder, folder)
	assert.Equal(t, media.KindImage, kind)

	folder, kind = media.Classify("Video/MP4")
	assert.Equal(t, media.VideosFolder, folder)
	assert.Equal(t, media.KindVideo, kind)

	folder, kind = media.Classify("application/pdf")
	assert.Equal(t, media.FilesFolder, folder)
	assert.Equal(t, media.KindRaw, kind)
}
