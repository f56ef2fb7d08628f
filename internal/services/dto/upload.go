package dto

import (
	"mime/multipart"
)

// ImageUploadRequest carries one image payload through the pipeline.
type ImageUploadRequest struct {
	UserID string                // from the authenticated context
	File   *multipart.FileHeader // the multipart "file" field
}

// ImageUploadResponse is the success body of the image path: only the
// service-assigned public identifier is returned.
type ImageUploadResponse struct {
	PublicID string `json:"publicId"`
}

// VideoUploadRequest carries one video payload plus its caller-supplied
// scalar fields. The strings are opaque: empty or missing values pass
// through unmodified, and OriginalSize is never checked against the
// payload.
type VideoUploadRequest struct {
	Title        string                `form:"title"`
	Description  string                `form:"description"`
	OriginalSize string                `form:"originalSize"`
	File         *multipart.FileHeader `form:"-"`
}
