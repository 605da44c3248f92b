package company

import (
	"fmt"

	"github.com/vfg2006/crm-api/infrastructure/repository"
	"github.com/vfg2006/crm-api/internal/cache"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/events"
)

type CompanyService interface {
	ListCompanies() ([]*domain.Company, error)
	GetCompanyByID(id string) (*domain.Company, error)
	CreateCompany(req *CreateCompanyRequest, actorID *string) (*domain.Company, error)
	UpdateCompany(id string, req *domain.UpdateCompanyRequest) (*domain.Company, error)
	DeleteCompany(id string) error
}

// CreateCompanyRequest é o corpo validado de criação de empresa
type CreateCompanyRequest struct {
	Name     string  `json:"name" validate:"required"`
	Logo     *string `json:"logo" validate:"omitempty,url"`
	Industry string  `json:"industry"`
	Website  *string `json:"website" validate:"omitempty,url"`
	Size     *string `json:"size"`
}

type Service struct {
	companyRepo repository.CompanyRepository
	publisher   events.Publisher
	store       *cache.Store
	useCache    bool
}

func NewService(companyRepo repository.CompanyRepository, publisher events.Publisher) CompanyService {
	return &Service{
		companyRepo: companyRepo,
		publisher:   publisher,
	}
}

// WithCache habilita a camada de cache de consultas para empresas
func (s *Service) WithCache(store *cache.Store) *Service {
	s.store = store
	s.useCache = store != nil
	return s
}

func (s *Service) ListCompanies() ([]*domain.Company, error) {
	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindCompanies}, s.companyRepo.ListCompanies)
	}

	return s.companyRepo.ListCompanies()
}

func (s *Service) GetCompanyByID(id string) (*domain.Company, error) {
	fetch := func() (*domain.Company, error) {
		company, err := s.companyRepo.GetCompanyByID(id)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, ErrCompanyNotFound
		}
		return company, nil
	}

	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindCompanies, Filter: "id:" + id}, fetch)
	}

	return fetch()
}

func (s *Service) CreateCompany(req *CreateCompanyRequest, actorID *string) (*domain.Company, error) {
	company := &domain.Company{
		Name:     req.Name,
		Logo:     req.Logo,
		Industry: req.Industry,
		Website:  req.Website,
		Size:     req.Size,
	}

	created, err := s.companyRepo.CreateCompany(company)
	if err != nil {
		return nil, err
	}

	// A trilha de auditoria é um assinante independente: a falha dele
	// não desfaz nem falha a criação
	s.publisher.Publish(events.DomainEvent{
		Type:        domain.ActivityCompanyAdded,
		ActorID:     actorID,
		Description: fmt.Sprintf("Added new company %q", created.Name),
		EntityID:    created.ID,
		EntityType:  domain.EntityCompany,
	})

	s.invalidate()

	return created, nil
}

func (s *Service) UpdateCompany(id string, req *domain.UpdateCompanyRequest) (*domain.Company, error) {
	existing, err := s.companyRepo.GetCompanyByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCompanyNotFound
	}

	updated, err := s.companyRepo.UpdateCompany(id, req)
	if err != nil {
		return nil, err
	}

	s.invalidate()

	return updated, nil
}

func (s *Service) DeleteCompany(id string) error {
	existing, err := s.companyRepo.GetCompanyByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCompanyNotFound
	}

	// Exclusões não geram registro de auditoria
	if err := s.companyRepo.DeleteCompany(id); err != nil {
		return err
	}

	s.invalidate()

	return nil
}

func (s *Service) invalidate() {
	if !s.useCache {
		return
	}

	s.store.InvalidateKind(cache.KindCompanies)
	s.store.InvalidateKind(cache.KindActivities)
}
