package model

import "strings"

// AllowedContentTypes are the declared multipart types accepted for blog images.
var AllowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// File is one uploaded part, already read into memory.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// DeclaredTypeAllowed checks the client supplied content type, ignoring parameters.
func (f File) DeclaredTypeAllowed() bool {
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return AllowedContentTypes[ct]
}

type UploadResponse struct {
	URL        string   `json:"url"`
	URLs       []string `json:"urls"`
	Thumbnails []string `json:"thumbnails"`
}
