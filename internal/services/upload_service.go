package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"mediabridge/internal/logger"
	"mediabridge/internal/media"
	"mediabridge/internal/models"
	"mediabridge/internal/repositories"
	"mediabridge/internal/services/dto"
	"mediabridge/pkg/apperrors"
)

// Client-facing failure messages. Underlying causes are logged, not
// returned.
const (
	msgFileNotFound       = "File not found"
	msgCredentialsMissing = "Cloudinary credentials not found"
	msgImageUploadFailed  = "Upload image failed"
	msgVideoUploadFailed  = "Upload video failed"
)

type UploadService interface {
	// UploadImage sends the payload to the media service. The only
	// durable effect is the asset inside the service; no record is
	// written.
	UploadImage(ctx context.Context, req *dto.ImageUploadRequest) (*dto.ImageUploadResponse, error)

	// UploadVideo sends the payload to the media service and, only
	// after the upload is confirmed, persists one Video record.
	UploadVideo(ctx context.Context, req *dto.VideoUploadRequest) (*models.Video, error)

	// ListVideos returns stored records, newest first.
	ListVideos(ctx context.Context) ([]models.Video, error)
}

type uploadService struct {
	uploader  media.Uploader
	mediaCfg  media.Config
	videoRepo repositories.VideoRepository
	stores    repositories.StoreOpener

	imageFolder string
	videoFolder string
}

// Options for NewUploadService.
type UploadServiceConfig struct {
	ImageFolder string
	VideoFolder string
}

func NewUploadService(
	uploader media.Uploader,
	mediaCfg media.Config,
	videoRepo repositories.VideoRepository,
	stores repositories.StoreOpener,
	cfg UploadServiceConfig,
) UploadService {
	return &uploadService{
		uploader:    uploader,
		mediaCfg:    mediaCfg,
		videoRepo:   videoRepo,
		stores:      stores,
		imageFolder: cfg.ImageFolder,
		videoFolder: cfg.VideoFolder,
	}
}

func (s *uploadService) UploadImage(ctx context.Context, req *dto.ImageUploadRequest) (*dto.ImageUploadResponse, error) {
	if req.File == nil {
		return nil, apperrors.NewBadRequestError(msgFileNotFound)
	}

	payload, err := readPayload(req.File)
	if err != nil {
		return nil, apperrors.NewBadRequestError(msgFileNotFound)
	}

	result, err := s.uploader.Upload(ctx, media.UploadOptions{
		Folder:       s.imageFolder,
		ResourceType: media.ResourceImage,
		Filename:     req.File.Filename,
	}, payload)
	if err != nil {
		return nil, apperrors.UploadError(err, msgImageUploadFailed)
	}

	logger.CtxInfo(ctx, "image uploaded",
		"public_id", result.PublicID,
		"bytes", result.Bytes,
		"user_id", req.UserID,
	)

	return &dto.ImageUploadResponse{PublicID: result.PublicID}, nil
}

func (s *uploadService) UploadVideo(ctx context.Context, req *dto.VideoUploadRequest) (*models.Video, error) {
	// Credentials are checked before any upload attempt so the
	// failure is reported distinctly and no remote side effect exists.
	if !s.mediaCfg.Valid() {
		return nil, apperrors.ConfigError(msgCredentialsMissing)
	}

	if req.File == nil {
		return nil, apperrors.NewBadRequestError(msgFileNotFound)
	}

	// One store client per invocation, released on every exit path.
	store, err := s.stores.Open(ctx)
	if err != nil {
		return nil, apperrors.PersistenceError(err, msgVideoUploadFailed)
	}
	defer store.Close()

	payload, err := readPayload(req.File)
	if err != nil {
		return nil, apperrors.NewBadRequestError(msgFileNotFound)
	}

	result, err := s.uploader.Upload(ctx, media.UploadOptions{
		Folder:       s.videoFolder,
		ResourceType: media.ResourceVideo,
		Transformations: []string{
			media.TransformationAutoQuality,
			media.TransformationMP4,
		},
		Filename: req.File.Filename,
	}, payload)
	if err != nil {
		return nil, apperrors.UploadError(err, msgVideoUploadFailed)
	}

	video := &models.Video{
		Title:          req.Title,
		Description:    req.Description,
		PublicID:       result.PublicID,
		OriginalSize:   req.OriginalSize,
		CompressedSize: strconv.FormatInt(result.Bytes, 10),
		Duration:       result.Duration,
	}

	if err := s.videoRepo.Create(ctx, store.DB, video); err != nil {
		// The asset already exists remotely and is not rolled back;
		// the caller still gets a failure.
		logger.CtxWarn(ctx, "metadata write failed after successful upload, remote asset orphaned",
			"public_id", result.PublicID,
			"error", err,
		)
		return nil, apperrors.PersistenceError(err, msgVideoUploadFailed)
	}

	logger.CtxInfo(ctx, "video uploaded",
		"public_id", video.PublicID,
		"compressed_size", video.CompressedSize,
		"duration", video.Duration,
	)

	return video, nil
}

func (s *uploadService) ListVideos(ctx context.Context) ([]models.Video, error) {
	store, err := s.stores.Open(ctx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer store.Close()

	videos, err := s.videoRepo.ListNewest(ctx, store.DB)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return videos, nil
}

// readPayload materializes the multipart part into an addressable byte
// buffer before the upload adapter runs.
func readPayload(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	return data, nil
}
