package service

import (
	"context"

	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/repository"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// ActivityService reads the audit trail.
type ActivityService struct {
	log repository.ActivityLog
}

func NewActivityService(log repository.ActivityLog) *ActivityService {
	return &ActivityService{log: log}
}

// Recent returns the newest entries. limit is clamped to [1, MaxActivityLimit].
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	limit = min(limit, MaxActivityLimit)
	items, err := s.log.Recent(ctx, limit)
	if err != nil {
		return nil, translate("activities", "", err)
	}
	if items == nil {
		items = []domain.Activity{}
	}
	return items, nil
}
