package contact

import (
	"fmt"

	"github.com/vfg2006/crm-api/infrastructure/repository"
	"github.com/vfg2006/crm-api/internal/cache"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/events"
)

type ContactService interface {
	ListContacts() ([]*domain.Contact, error)
	ListContactsByCompany(companyID string) ([]*domain.Contact, error)
	GetContactByID(id string) (*domain.Contact, error)
	CreateContact(req *CreateContactRequest, actorID *string) (*domain.Contact, error)
	UpdateContact(id string, req *domain.UpdateContactRequest) (*domain.Contact, error)
	DeleteContact(id string) error
}

// CreateContactRequest é o corpo validado de criação de contato.
// Os limites espelham o formulário: nome com ao menos 2 caracteres,
// email sintaticamente válido, empresa obrigatória, avatar URL ou vazio.
type CreateContactRequest struct {
	Name      string  `json:"name" validate:"required,min=2"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
	Position  *string `json:"position"`
	CompanyID string  `json:"company_id" validate:"required"`
	Avatar    string  `json:"avatar" validate:"omitempty,url"`
}

type Service struct {
	contactRepo repository.ContactRepository
	publisher   events.Publisher
	store       *cache.Store
	useCache    bool
}

func NewService(contactRepo repository.ContactRepository, publisher events.Publisher) ContactService {
	return &Service{
		contactRepo: contactRepo,
		publisher:   publisher,
	}
}

// WithCache habilita a camada de cache de consultas para contatos
func (s *Service) WithCache(store *cache.Store) *Service {
	s.store = store
	s.useCache = store != nil
	return s
}

func (s *Service) ListContacts() ([]*domain.Contact, error) {
	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindContacts}, s.contactRepo.ListContacts)
	}

	return s.contactRepo.ListContacts()
}

func (s *Service) ListContactsByCompany(companyID string) ([]*domain.Contact, error) {
	fetch := func() ([]*domain.Contact, error) {
		return s.contactRepo.ListContactsByCompany(companyID)
	}

	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindContacts, Filter: "company:" + companyID}, fetch)
	}

	return fetch()
}

func (s *Service) GetContactByID(id string) (*domain.Contact, error) {
	fetch := func() (*domain.Contact, error) {
		contact, err := s.contactRepo.GetContactByID(id)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			return nil, ErrContactNotFound
		}
		return contact, nil
	}

	if s.useCache {
		return cache.Fetch(s.store, cache.Key{Kind: cache.KindContacts, Filter: "id:" + id}, fetch)
	}

	return fetch()
}

func (s *Service) CreateContact(req *CreateContactRequest, actorID *string) (*domain.Contact, error) {
	contact := &domain.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Position: req.Position,
	}

	if req.Avatar != "" {
		avatar := req.Avatar
		contact.Avatar = &avatar
	}

	created, err := s.contactRepo.CreateContact(contact, req.CompanyID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.DomainEvent{
		Type:        domain.ActivityContactAdded,
		ActorID:     actorID,
		Description: fmt.Sprintf("Added new contact %q at %s", created.Name, created.Company.Name),
		EntityID:    created.ID,
		EntityType:  domain.EntityContact,
	})

	s.invalidate()

	return created, nil
}

func (s *Service) UpdateContact(id string, req *domain.UpdateContactRequest) (*domain.Contact, error) {
	existing, err := s.contactRepo.GetContactByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrContactNotFound
	}

	updated, err := s.contactRepo.UpdateContact(id, req)
	if err != nil {
		return nil, err
	}

	s.invalidate()

	return updated, nil
}

func (s *Service) DeleteContact(id string) error {
	existing, err := s.contactRepo.GetContactByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrContactNotFound
	}

	// Exclusões não geram registro de auditoria
	if err := s.contactRepo.DeleteContact(id); err != nil {
		return err
	}

	s.invalidate()

	return nil
}

func (s *Service) invalidate() {
	if !s.useCache {
		return
	}

	s.store.InvalidateKind(cache.KindContacts)
	// A lista de contatos de cada empresa é preenchida por consulta
	// separada, então o cache de empresas também fica obsoleto
	s.store.InvalidateKind(cache.KindCompanies)
	s.store.InvalidateKind(cache.KindActivities)
}
