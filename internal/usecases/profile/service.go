package profile

import (
	"github.com/vfg2006/crm-api/infrastructure/repository"
	"github.com/vfg2006/crm-api/internal/cache"
	"github.com/vfg2006/crm-api/internal/domain"
)

type ProfileService interface {
	ListProfiles() ([]*domain.User, error)
	GetProfileByID(id string) (*domain.User, error)
	UpdateProfile(id string, req *domain.UpdateProfileRequest) (*domain.User, error)
}

type Service struct {
	profileRepo repository.ProfileRepository
	store       *cache.Store
	useCache    bool
}

func NewService(profileRepo repository.ProfileRepository) ProfileService {
	return &Service{
		profileRepo: profileRepo,
	}
}

// WithCache habilita a camada de cache de consultas para perfis
func (s *Service) WithCache(store *cache.Store) *Service {
	s.store = store
	s.useCache = store != nil
	return s
}

func (s *Service) ListProfiles() ([]*domain.User, error) {
	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindProfiles}, s.profileRepo.ListProfiles)
	}

	return s.profileRepo.ListProfiles()
}

func (s *Service) GetProfileByID(id string) (*domain.User, error) {
	fetch := func() (*domain.User, error) {
		user, err := s.profileRepo.GetProfileByID(id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrProfileNotFound
		}
		user.PasswordHash = ""
		return user, nil
	}

	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindProfiles, Filter: "id:" + id}, fetch)
	}

	return fetch()
}

func (s *Service) UpdateProfile(id string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	existing, err := s.profileRepo.GetProfileByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrProfileNotFound
	}

	updated, err := s.profileRepo.UpdateProfile(id, req)
	if err != nil {
		return nil, err
	}

	updated.PasswordHash = ""

	if s.useCache {
		s.store.InvalidateKind(cache.KindProfiles)
		// Negociações embutem o responsável, então o cache delas também expira
		s.store.InvalidateKind(cache.KindDeals)
	}

	return updated, nil
}
