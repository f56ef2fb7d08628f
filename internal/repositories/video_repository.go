package repositories

import (
	"context"

	"mediabridge/internal/models"

	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(ctx context.Context, db *gorm.DB, video *models.Video) error
	ListNewest(ctx context.Context, db *gorm.DB) ([]models.Video, error)
}

type videoRepository struct{}

func NewVideoRepository() VideoRepository {
	return &videoRepository{}
}

func (r *videoRepository) Create(ctx context.Context, db *gorm.DB, video *models.Video) error {
	return db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) ListNewest(ctx context.Context, db *gorm.DB) ([]models.Video, error) {
	var videos []models.Video
	err := db.WithContext(ctx).Order("created_at DESC").Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}
