package services

import (
	"context"
	"encoding/json"
	"time"

	"freight-portal/models"
	"freight-portal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	announcementsCacheKey = "announcements:recent"
	announcementsCacheTTL = 5 * time.Minute
	announcementsLimit    = 20
)

// AnnouncementService publishes staff broadcasts. The recent list is read by
// every customer on login, so it is served from Redis and invalidated on
// write. A cache miss or Redis outage falls through to Postgres.
type AnnouncementService interface {
	Create(ctx context.Context, authorID uuid.UUID, req *models.CreateAnnouncementRequest) (*models.Announcement, *ServiceError)
	ListRecent(ctx context.Context) ([]models.Announcement, *ServiceError)
}

type announcementService struct {
	announcements repository.AnnouncementRepository
	cache         *redis.Client
	logger        *zap.Logger
}

func NewAnnouncementService(announcements repository.AnnouncementRepository, cache *redis.Client, logger *zap.Logger) AnnouncementService {
	return &announcementService{announcements: announcements, cache: cache, logger: logger}
}

func (s *announcementService) Create(ctx context.Context, authorID uuid.UUID, req *models.CreateAnnouncementRequest) (*models.Announcement, *ServiceError) {
	a := &models.Announcement{
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: authorID,
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		s.logger.Error("Failed to persist announcement", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create announcement"}
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, announcementsCacheKey).Err(); err != nil {
			s.logger.Warn("Failed to invalidate announcements cache", zap.Error(err))
		}
	}

	s.logger.Info("Announcement published",
		zap.String("announcement_id", a.ID.String()),
		zap.String("title", a.Title),
	)
	return a, nil
}

func (s *announcementService) ListRecent(ctx context.Context) ([]models.Announcement, *ServiceError) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, announcementsCacheKey).Result(); err == nil {
			var list []models.Announcement
			if err := json.Unmarshal([]byte(cached), &list); err == nil {
				return list, nil
			}
			s.logger.Warn("Corrupt announcements cache entry, refetching", zap.Error(err))
		} else if err != redis.Nil {
			s.logger.Warn("Announcements cache read failed", zap.Error(err))
		}
	}

	list, err := s.announcements.FindRecent(ctx, announcementsLimit)
	if err != nil {
		s.logger.Error("Failed to list announcements", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list announcements"}
	}

	if s.cache != nil {
		if b, err := json.Marshal(list); err == nil {
			if err := s.cache.Set(ctx, announcementsCacheKey, b, announcementsCacheTTL).Err(); err != nil {
				s.logger.Warn("Announcements cache write failed", zap.Error(err))
			}
		}
	}
	return list, nil
}
