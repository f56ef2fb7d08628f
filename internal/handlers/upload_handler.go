package handlers

import (
	"net/http"

	"mediabridge/internal/middleware"
	"mediabridge/internal/services"
	"mediabridge/internal/services/dto"
	"mediabridge/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
	jwtSecret     string
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService, jwtSecret string) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		jwtSecret:     jwtSecret,
	}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Video ingestion is unauthenticated; only the image path requires
	// an identity.
	r.POST("/image-upload", middleware.AuthMiddleware(h.jwtSecret), h.UploadImage)
	r.POST("/video-upload", h.UploadVideo)
	r.GET("/videos", h.ListVideos)
}

// UploadImage handles POST /image-upload.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("File not found"))
		return
	}

	resp, err := h.uploadService.UploadImage(c.Request.Context(), &dto.ImageUploadRequest{
		UserID: userID,
		File:   fileHeader,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UploadVideo handles POST /video-upload.
func (h *UploadHandler) UploadVideo(c *gin.Context) {
	// Scalar fields are opaque pass-through; absent values stay empty.
	// A missing file is reported by the service, after the credential
	// pre-check.
	var req dto.VideoUploadRequest
	_ = c.ShouldBind(&req)
	if fileHeader, err := c.FormFile("file"); err == nil {
		req.File = fileHeader
	}

	video, err := h.uploadService.UploadVideo(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, video)
}

// ListVideos handles GET /videos.
func (h *UploadHandler) ListVideos(c *gin.Context) {
	videos, err := h.uploadService.ListVideos(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, videos)
}
