package media

import (
	"path"
	"strings"
)

var extensions = map[string]struct {
	kind Type
	mime string
}{
	".jpg":  {TypePhoto, "image/jpeg"},
	".jpeg": {TypePhoto, "image/jpeg"},
	".png":  {TypePhoto, "image/png"},
	".gif":  {TypePhoto, "image/gif"},
	".webp": {TypePhoto, "image/webp"},
	".heic": {TypePhoto, "image/heic"},
	".bmp":  {TypePhoto, "image/bmp"},
	".dng":  {TypePhoto, "image/x-adobe-dng"},
	".mp4":  {TypeVideo, "video/mp4"},
	".m4v":  {TypeVideo, "video/x-m4v"},
	".mov":  {TypeVideo, "video/quicktime"},
	".3gp":  {TypeVideo, "video/3gpp"},
	".mkv":  {TypeVideo, "video/x-matroska"},
	".webm": {TypeVideo, "video/webm"},
}

// TypeOfPath classifies a file by extension. ok is false for files that are
// neither photos nor videos.
func TypeOfPath(p string) (kind Type, mimeType string, ok bool) {
	e, found := extensions[strings.ToLower(path.Ext(p))]
	if !found {
		return TypeUnknown, "", false
	}
	return e.kind, e.mime, true
}
