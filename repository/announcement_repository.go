package repository

import (
	"context"

	"freight-portal/models"

	"gorm.io/gorm"
)

// AnnouncementRepository defines data-access operations for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	FindRecent(ctx context.Context, limit int) ([]models.Announcement, error)
}

type gormAnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &gormAnnouncementRepository{db: db}
}

func (r *gormAnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *gormAnnouncementRepository) FindRecent(ctx context.Context, limit int) ([]models.Announcement, error) {
	var list []models.Announcement
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
