package deal

import (
	"fmt"
	"time"

	"github.com/vfg2006/crm-api/infrastructure/repository"
	"github.com/vfg2006/crm-api/internal/cache"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/events"
)

type DealService interface {
	ListDeals() ([]*domain.Deal, error)
	ListDealsByStage(stage domain.Stage) ([]*domain.Deal, error)
	ListDealsByCompany(companyID string) ([]*domain.Deal, error)
	ListDealsByPeriod(startDate, endDate *time.Time) ([]*domain.Deal, error)
	GetDealByID(id string) (*domain.Deal, error)
	CreateDeal(req *CreateDealRequest, actorID *string) (*domain.Deal, error)
	UpdateDeal(id string, req *domain.UpdateDealRequest, actorID *string) (*domain.Deal, error)
	MoveDealStage(id string, stage domain.Stage, actorID *string) (*domain.Deal, error)
	DeleteDeal(id string) error
}

// CreateDealRequest é o corpo validado de criação de negociação
type CreateDealRequest struct {
	Title       string       `json:"title" validate:"required,min=2"`
	Value       float64      `json:"value" validate:"gte=0"`
	Stage       domain.Stage `json:"stage" validate:"required,oneof=lead contact proposal negotiation won lost"`
	CompanyID   string       `json:"company_id" validate:"required"`
	AssignedTo  *string      `json:"assigned_to"`
	Description *string      `json:"description"`
}

type Service struct {
	dealRepo  repository.DealRepository
	publisher events.Publisher
	store     *cache.Store
	useCache  bool
}

func NewService(dealRepo repository.DealRepository, publisher events.Publisher) DealService {
	return &Service{
		dealRepo:  dealRepo,
		publisher: publisher,
	}
}

// WithCache habilita a camada de cache de consultas para negociações
func (s *Service) WithCache(store *cache.Store) *Service {
	s.store = store
	s.useCache = store != nil
	return s
}

func (s *Service) ListDeals() ([]*domain.Deal, error) {
	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindDeals}, s.dealRepo.ListDeals)
	}

	return s.dealRepo.ListDeals()
}

func (s *Service) ListDealsByStage(stage domain.Stage) ([]*domain.Deal, error) {
	if !stage.Valid() {
		return nil, ErrInvalidStage
	}

	fetch := func() ([]*domain.Deal, error) {
		return s.dealRepo.ListDealsByStage(stage)
	}

	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindDeals, Filter: "stage:" + string(stage)}, fetch)
	}

	return fetch()
}

func (s *Service) ListDealsByCompany(companyID string) ([]*domain.Deal, error) {
	fetch := func() ([]*domain.Deal, error) {
		return s.dealRepo.ListDealsByCompany(companyID)
	}

	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindDeals, Filter: "company:" + companyID}, fetch)
	}

	return fetch()
}

func (s *Service) ListDealsByPeriod(startDate, endDate *time.Time) ([]*domain.Deal, error) {
	fetch := func() ([]*domain.Deal, error) {
		return s.dealRepo.ListDealsByPeriod(startDate, endDate)
	}

	if s.useCache {
		filter := fmt.Sprintf("period:%s:%s", cacheDatePart(startDate), cacheDatePart(endDate))
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindDeals, Filter: filter}, fetch)
	}

	return fetch()
}

func cacheDatePart(date *time.Time) string {
	if date == nil || date.IsZero() {
		return ""
	}

	return date.Format("2006-01-02")
}

func (s *Service) GetDealByID(id string) (*domain.Deal, error) {
	fetch := func() (*domain.Deal, error) {
		deal, err := s.dealRepo.GetDealByID(id)
		if err != nil {
			return nil, err
		}
		if deal == nil {
			return nil, ErrDealNotFound
		}
		return deal, nil
	}

	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindDeals, Filter: "id:" + id}, fetch)
	}

	return fetch()
}

func (s *Service) CreateDeal(req *CreateDealRequest, actorID *string) (*domain.Deal, error) {
	if !req.Stage.Valid() {
		return nil, ErrInvalidStage
	}

	value := req.Value
	if value < 0 {
		value = 0
	}

	deal := &domain.Deal{
		Title:       req.Title,
		Value:       value,
		Stage:       req.Stage,
		Description: req.Description,
	}

	created, err := s.dealRepo.CreateDeal(deal, req.CompanyID, req.AssignedTo)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.DomainEvent{
		Type:        domain.ActivityDealCreated,
		ActorID:     actorID,
		Description: fmt.Sprintf("Created a new deal %q with %s", created.Title, created.Company.Name),
		EntityID:    created.ID,
		EntityType:  domain.EntityDeal,
	})

	s.invalidate()

	return created, nil
}

func (s *Service) UpdateDeal(id string, req *domain.UpdateDealRequest, actorID *string) (*domain.Deal, error) {
	existing, err := s.dealRepo.GetDealByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrDealNotFound
	}

	if req.Stage != nil && !req.Stage.Valid() {
		return nil, ErrInvalidStage
	}

	updated, err := s.dealRepo.UpdateDeal(id, req)
	if err != nil {
		return nil, err
	}

	// Mudança de estágio gera um tipo de atividade distinto da edição comum
	if req.Stage != nil {
		s.publisher.Publish(events.DomainEvent{
			Type:        domain.ActivityDealStageChanged,
			ActorID:     actorID,
			Description: fmt.Sprintf("Moved %q deal to %s stage", updated.Title, *req.Stage),
			EntityID:    updated.ID,
			EntityType:  domain.EntityDeal,
		})
	} else {
		s.publisher.Publish(events.DomainEvent{
			Type:        domain.ActivityDealUpdated,
			ActorID:     actorID,
			Description: fmt.Sprintf("Updated deal %q", updated.Title),
			EntityID:    updated.ID,
			EntityType:  domain.EntityDeal,
		})
	}

	s.invalidate()

	return updated, nil
}

// MoveDealStage é a operação do quadro de funil: soltar a negociação na
// coluna em que ela já está não emite mutação nenhuma. Não há validação de
// transições entre estágios: qualquer estágio alcança qualquer outro.
func (s *Service) MoveDealStage(id string, stage domain.Stage, actorID *string) (*domain.Deal, error) {
	if !stage.Valid() {
		return nil, ErrInvalidStage
	}

	existing, err := s.dealRepo.GetDealByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrDealNotFound
	}

	if existing.Stage == stage {
		return existing, nil
	}

	return s.UpdateDeal(id, &domain.UpdateDealRequest{Stage: &stage}, actorID)
}

func (s *Service) DeleteDeal(id string) error {
	existing, err := s.dealRepo.GetDealByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrDealNotFound
	}

	// Exclusões não geram registro de auditoria
	if err := s.dealRepo.DeleteDeal(id); err != nil {
		return err
	}

	s.invalidate()

	return nil
}

func (s *Service) invalidate() {
	if !s.useCache {
		return
	}

	s.store.InvalidateKind(cache.KindDeals)
	// As estatísticas do dashboard derivam do conjunto de negociações
	s.store.InvalidateKind(cache.KindDashboard)
	s.store.InvalidateKind(cache.KindActivities)
}
