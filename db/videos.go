package db

import (
	"cloudreel/media-api/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// VideoRepo is the narrow persistence surface the rest of the app talks to.
// There is deliberately no update or delete: rows are written once after a
// successful gateway upload and only ever read back for listing.
type VideoRepo interface {
	Insert(ctx context.Context, video *model.Video) error
	ListNewestFirst(ctx context.Context) ([]model.Video, error)
}

type GormVideoRepo struct {
	DB *gorm.DB
}

func NewVideoRepo(db *gorm.DB) *GormVideoRepo {
	return &GormVideoRepo{DB: db}
}

func (r *GormVideoRepo) Insert(ctx context.Context, video *model.Video) error {
	err := r.DB.WithContext(ctx).Create(video).Error
	if err != nil {
		return fmt.Errorf("failed to insert video record, %w", err)
	}

	return nil
}

func (r *GormVideoRepo) ListNewestFirst(ctx context.Context) ([]model.Video, error) {
	var videos []model.Video

	err := r.DB.
		WithContext(ctx).
		Order("created_at desc").
		Find(&videos).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list video records, %w", err)
	}

	return videos, nil
}
