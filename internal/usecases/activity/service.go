package activity

import (
	"fmt"

	"github.com/vfg2006/crm-api/infrastructure/repository"
	"github.com/vfg2006/crm-api/internal/cache"
	"github.com/vfg2006/crm-api/internal/domain"
)

type ActivityService interface {
	ListActivities(limit int) ([]*domain.Activity, error)
	ListActivitiesByEntity(entityType domain.EntityType, entityID string, limit int) ([]*domain.Activity, error)
}

type Service struct {
	activityRepo repository.ActivityRepository
	store        *cache.Store
	useCache     bool
}

func NewService(activityRepo repository.ActivityRepository) ActivityService {
	return &Service{
		activityRepo: activityRepo,
	}
}

// WithCache habilita a camada de cache de consultas para atividades
func (s *Service) WithCache(store *cache.Store) *Service {
	s.store = store
	s.useCache = store != nil
	return s
}

func (s *Service) ListActivities(limit int) ([]*domain.Activity, error) {
	if limit <= 0 {
		limit = repository.DefaultActivityLimit
	}

	fetch := func() ([]*domain.Activity, error) {
		return s.activityRepo.ListActivities(limit)
	}

	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindActivities, Filter: fmt.Sprintf("limit:%d", limit)}, fetch)
	}

	return fetch()
}

func (s *Service) ListActivitiesByEntity(entityType domain.EntityType, entityID string, limit int) ([]*domain.Activity, error) {
	if limit <= 0 {
		limit = repository.DefaultActivityLimit
	}

	fetch := func() ([]*domain.Activity, error) {
		return s.activityRepo.ListActivitiesByEntity(entityType, entityID, limit)
	}

	if s.useCache {
		filter := fmt.Sprintf("entity:%s:%s:limit:%d", entityType, entityID, limit)
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindActivities, Filter: filter}, fetch)
	}

	return fetch()
}
