package company

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/crm-api/infrastructure/repository/mocks"
	"github.com/vfg2006/crm-api/internal/cache"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/events"
	"go.uber.org/mock/gomock"
)

type capturingPublisher struct {
	published []events.DomainEvent
}

func (p *capturingPublisher) Publish(event events.DomainEvent) {
	p.published = append(p.published, event)
}

func TestService_CreateCompany(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockCompanyRepository(ctrl)
	publisher := &capturingPublisher{}
	service := &Service{companyRepo: mockRepo, publisher: publisher}

	t.Run("Criação publica evento company_added com o nome da empresa", func(t *testing.T) {
		mockRepo.EXPECT().
			CreateCompany(gomock.Any()).
			DoAndReturn(func(c *domain.Company) (*domain.Company, error) {
				c.ID = "c1"
				return c, nil
			})

		created, err := service.CreateCompany(&CreateCompanyRequest{
			Name:     "Acme",
			Industry: "Technology",
		}, nil)

		assert.NoError(t, err)
		assert.Equal(t, "Acme", created.Name)
		assert.Equal(t, "Technology", created.Industry)
		assert.Len(t, publisher.published, 1)
		assert.Equal(t, domain.ActivityCompanyAdded, publisher.published[0].Type)
		assert.Equal(t, "c1", publisher.published[0].EntityID)
		assert.Equal(t, domain.EntityCompany, publisher.published[0].EntityType)
		assert.Contains(t, publisher.published[0].Description, "Acme")
	})
}

func TestService_ListCompanies_Cache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockCompanyRepository(ctrl)
	publisher := &capturingPublisher{}
	store := cache.New(time.Minute)

	service := (&Service{companyRepo: mockRepo, publisher: publisher}).WithCache(store)

	companies := []*domain.Company{{ID: "c1", Name: "Acme", Contacts: []*domain.Contact{}}}

	// Uma única ida ao repositório para duas listagens consecutivas
	mockRepo.EXPECT().ListCompanies().Return(companies, nil).Times(1)

	first, err := service.ListCompanies()
	assert.NoError(t, err)
	second, err := service.ListCompanies()
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	t.Run("Mutação invalida a listagem", func(t *testing.T) {
		mockRepo.EXPECT().GetCompanyByID("c1").Return(companies[0], nil)
		mockRepo.EXPECT().DeleteCompany("c1").Return(nil)
		mockRepo.EXPECT().ListCompanies().Return([]*domain.Company{}, nil)

		assert.NoError(t, service.DeleteCompany("c1"))

		result, err := service.ListCompanies()
		assert.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestService_GetCompanyByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockCompanyRepository(ctrl)
	service := &Service{companyRepo: mockRepo, publisher: &capturingPublisher{}}

	t.Run("ID inexistente retorna ErrCompanyNotFound", func(t *testing.T) {
		mockRepo.EXPECT().GetCompanyByID("missing").Return(nil, nil)

		_, err := service.GetCompanyByID("missing")

		assert.ErrorIs(t, err, ErrCompanyNotFound)
	})

	t.Run("Erro do repositório é propagado sem tradução", func(t *testing.T) {
		repoErr := errors.New("conexão perdida")
		mockRepo.EXPECT().GetCompanyByID("c1").Return(nil, repoErr)

		_, err := service.GetCompanyByID("c1")

		assert.ErrorIs(t, err, repoErr)
	})
}
