// Package media contains the client for the external media
// storage/transcoding service (Cloudinary-compatible upload API).
package media

import (
	"context"
	"encoding/json"
)

// DefaultUploadPrefix is the production endpoint of the upload API.
const DefaultUploadPrefix = "https://api.cloudinary.com/v1_1"

// Resource kinds accepted by the upload API.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

// Transformations understood by the service. The video path requests
// automatic quality selection and normalization to mp4.
const (
	TransformationAutoQuality = "q_auto"
	TransformationMP4         = "f_mp4"
)

// Config holds the service account credentials. It is built once from
// the process configuration and passed around as an immutable value.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string

	// UploadPrefix overrides the API endpoint; empty means production.
	UploadPrefix string
}

// Valid reports whether the credentials required for an upload are
// present.
func (c Config) Valid() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// UploadOptions configures a single upload session.
type UploadOptions struct {
	// Folder is the storage location inside the service namespace.
	Folder string

	// ResourceType is ResourceImage or ResourceVideo. Empty defaults
	// to ResourceImage.
	ResourceType string

	// Transformations are applied by the service to the stored asset.
	Transformations []string

	// Filename is the declared name of the payload; informational.
	Filename string
}

// UploadResult is the structured outcome of a successful upload. Raw
// carries service-specific fields this system does not interpret.
type UploadResult struct {
	PublicID     string  `json:"public_id"`
	Bytes        int64   `json:"bytes"`
	Duration     float64 `json:"duration"`
	Format       string  `json:"format"`
	ResourceType string  `json:"resource_type"`
	SecureURL    string  `json:"secure_url"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`

	Raw map[string]json.RawMessage `json:"-"`
}

// Uploader delivers a fully buffered payload to the media service and
// returns its structured result. Implementations guarantee that every
// invocation yields exactly one outcome: a result or an error.
type Uploader interface {
	Upload(ctx context.Context, opts UploadOptions, data []byte) (*UploadResult, error)
}
