package media

import (
	"net/url"
	"path"
	"strings"
)

// ParsePublicID extracts the provider identifier from a hosted media URL:
// everything after the segment that follows "upload", minus the extension.
// Identifiers under the videos folder are video, everything else image.
func ParsePublicID(rawURL string) (string, Kind, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Path == "" {
		return "", "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i, s := range segments {
		if s == "upload" {
			idx = i
			break
		}
	}
	if idx < 0 || idx+2 >= len(segments) {
		return "", "", false
	}

	rest := segments[idx+2:]
	last := rest[len(rest)-1]
	rest[len(rest)-1] = strings.TrimSuffix(last, path.Ext(last))
	id := strings.Join(rest, "/")
	if strings.Trim(id, "/") == "" {
		return "", "", false
	}

	if rest[0] == VideosFolder {
		return id, KindVideo, true
	}
	return id, KindImage, true
}
