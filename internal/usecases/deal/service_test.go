package deal

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

func stagePtr(s domain.Stage) *domain.Stage { return &s }

func TestService_CreateDeal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	publisher := &capturingPublisher{}
	service := &Service{dealRepo: mockRepo, publisher: publisher}

	t.Run("Criação com sucesso publica evento deal_created", func(t *testing.T) {
		created := &domain.Deal{
			ID:      "d1",
			Title:   "Renewal",
			Value:   5000,
			Stage:   domain.StageLead,
			Company: &domain.Company{ID: "c1", Name: "Acme"},
		}

		mockRepo.EXPECT().
			CreateDeal(gomock.Any(), "c1", nil).
			Return(created, nil)

		result, err := service.CreateDeal(&CreateDealRequest{
			Title:     "Renewal",
			Value:     5000,
			Stage:     domain.StageLead,
			CompanyID: "c1",
		}, nil)

		assert.NoError(t, err)
		assert.Equal(t, "d1", result.ID)
		assert.Len(t, publisher.published, 1)
		assert.Equal(t, domain.ActivityDealCreated, publisher.published[0].Type)
		assert.Equal(t, "d1", publisher.published[0].EntityID)
		assert.Equal(t, domain.EntityDeal, publisher.published[0].EntityType)
		assert.Contains(t, publisher.published[0].Description, "Renewal")
		assert.Contains(t, publisher.published[0].Description, "Acme")
	})

	t.Run("Estágio fora do conjunto fechado é rejeitado", func(t *testing.T) {
		_, err := service.CreateDeal(&CreateDealRequest{
			Title:     "Renewal",
			Stage:     domain.Stage("pending"),
			CompanyID: "c1",
		}, nil)

		assert.ErrorIs(t, err, ErrInvalidStage)
	})

	t.Run("Valor negativo é coagido para zero", func(t *testing.T) {
		mockRepo.EXPECT().
			CreateDeal(gomock.Any(), "c1", nil).
			DoAndReturn(func(deal *domain.Deal, companyID string, assignedTo *string) (*domain.Deal, error) {
				assert.Equal(t, float64(0), deal.Value)
				deal.ID = "d2"
				deal.Company = &domain.Company{ID: companyID, Name: "Acme"}
				return deal, nil
			})

		_, err := service.CreateDeal(&CreateDealRequest{
			Title:     "Renewal",
			Value:     -10,
			Stage:     domain.StageLead,
			CompanyID: "c1",
		}, nil)

		assert.NoError(t, err)
	})
}

func TestService_UpdateDeal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	existing := &domain.Deal{ID: "d1", Title: "Renewal", Stage: domain.StageLead}

	tests := []struct {
		name      string
		req       *domain.UpdateDealRequest
		wantType  domain.ActivityType
		wantInMsg string
	}{
		{
			name:      "Mudança de estágio publica deal_stage_changed",
			req:       &domain.UpdateDealRequest{Stage: stagePtr(domain.StageWon)},
			wantType:  domain.ActivityDealStageChanged,
			wantInMsg: "won",
		},
		{
			name:      "Edição sem estágio publica deal_updated",
			req:       &domain.UpdateDealRequest{Title: strPtr("Renewal 2024")},
			wantType:  domain.ActivityDealUpdated,
			wantInMsg: "Updated deal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockDealRepository(ctrl)
			publisher := &capturingPublisher{}
			service := &Service{dealRepo: mockRepo, publisher: publisher}

			updated := &domain.Deal{ID: "d1", Title: "Renewal", Stage: domain.StageWon}
			if tt.req.Title != nil {
				updated.Title = *tt.req.Title
			}

			mockRepo.EXPECT().GetDealByID("d1").Return(existing, nil)
			mockRepo.EXPECT().UpdateDeal("d1", tt.req).Return(updated, nil)

			_, err := service.UpdateDeal("d1", tt.req, nil)

			assert.NoError(t, err)
			assert.Len(t, publisher.published, 1)
			assert.Equal(t, tt.wantType, publisher.published[0].Type)
			assert.Contains(t, publisher.published[0].Description, tt.wantInMsg)
		})
	}

	t.Run("Negociação inexistente retorna erro sem publicar", func(t *testing.T) {
		mockRepo := mocks.NewMockDealRepository(ctrl)
		publisher := &capturingPublisher{}
		service := &Service{dealRepo: mockRepo, publisher: publisher}

		mockRepo.EXPECT().GetDealByID("missing").Return(nil, nil)

		_, err := service.UpdateDeal("missing", &domain.UpdateDealRequest{}, nil)

		assert.ErrorIs(t, err, ErrDealNotFound)
		assert.Empty(t, publisher.published)
	})
}

func TestService_MoveDealStage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Soltar na própria coluna não emite mutação", func(t *testing.T) {
		mockRepo := mocks.NewMockDealRepository(ctrl)
		publisher := &capturingPublisher{}
		service := &Service{dealRepo: mockRepo, publisher: publisher}

		existing := &domain.Deal{ID: "d1", Title: "Renewal", Stage: domain.StageLead}
		mockRepo.EXPECT().GetDealByID("d1").Return(existing, nil)
		// Nenhuma expectativa de UpdateDeal: o no-op não pode chegar ao repositório

		result, err := service.MoveDealStage("d1", domain.StageLead, nil)

		assert.NoError(t, err)
		assert.Equal(t, existing, result)
		assert.Empty(t, publisher.published)
	})

	t.Run("Mudança real delega para UpdateDeal com o novo estágio", func(t *testing.T) {
		mockRepo := mocks.NewMockDealRepository(ctrl)
		publisher := &capturingPublisher{}
		service := &Service{dealRepo: mockRepo, publisher: publisher}

		existing := &domain.Deal{ID: "d1", Title: "Renewal", Stage: domain.StageLead}
		updated := &domain.Deal{ID: "d1", Title: "Renewal", Stage: domain.StageWon}

		// GetDealByID é chamado pelo MoveDealStage e novamente pelo UpdateDeal
		mockRepo.EXPECT().GetDealByID("d1").Return(existing, nil).Times(2)
		mockRepo.EXPECT().
			UpdateDeal("d1", gomock.Any()).
			DoAndReturn(func(id string, req *domain.UpdateDealRequest) (*domain.Deal, error) {
				assert.NotNil(t, req.Stage)
				assert.Equal(t, domain.StageWon, *req.Stage)
				return updated, nil
			})

		result, err := service.MoveDealStage("d1", domain.StageWon, nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.StageWon, result.Stage)
		assert.Len(t, publisher.published, 1)
		assert.Equal(t, domain.ActivityDealStageChanged, publisher.published[0].Type)
	})

	t.Run("Estágio inválido é rejeitado antes de consultar o repositório", func(t *testing.T) {
		mockRepo := mocks.NewMockDealRepository(ctrl)
		service := &Service{dealRepo: mockRepo, publisher: &capturingPublisher{}}

		_, err := service.MoveDealStage("d1", domain.Stage("archived"), nil)

		assert.ErrorIs(t, err, ErrInvalidStage)
	})
}

func TestService_DeleteDeal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockDealRepository(ctrl)
	publisher := &capturingPublisher{}
	service := &Service{dealRepo: mockRepo, publisher: publisher}

	t.Run("Exclusão não publica evento de auditoria", func(t *testing.T) {
		mockRepo.EXPECT().GetDealByID("d1").Return(&domain.Deal{ID: "d1"}, nil)
		mockRepo.EXPECT().DeleteDeal("d1").Return(nil)

		err := service.DeleteDeal("d1")

		assert.NoError(t, err)
		assert.Empty(t, publisher.published)
	})

	t.Run("Erro do repositório é propagado", func(t *testing.T) {
		repoErr := errors.New("conexão perdida")
		mockRepo.EXPECT().GetDealByID("d1").Return(&domain.Deal{ID: "d1"}, nil)
		mockRepo.EXPECT().DeleteDeal("d1").Return(repoErr)

		err := service.DeleteDeal("d1")

		assert.ErrorIs(t, err, repoErr)
	})
}

func strPtr(s string) *string { return &s }

func TestService_ListDealsByPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("Período é repassado ao repositório", func(t *testing.T) {
		mockRepo := mocks.NewMockDealRepository(ctrl)
		service := &Service{dealRepo: mockRepo, publisher: &capturingPublisher{}}

		deals := []*domain.Deal{{ID: "d1", Title: "Renewal"}}
		mockRepo.EXPECT().ListDealsByPeriod(&start, &end).Return(deals, nil)

		result, err := service.ListDealsByPeriod(&start, &end)

		assert.NoError(t, err)
		assert.Equal(t, deals, result)
	})

	t.Run("Períodos distintos não compartilham entrada de cache", func(t *testing.T) {
		mockRepo := mocks.NewMockDealRepository(ctrl)
		store := cache.New(time.Minute)
		service := (&Service{dealRepo: mockRepo, publisher: &capturingPublisher{}}).WithCache(store)

		january := []*domain.Deal{{ID: "d1"}}
		open := []*domain.Deal{{ID: "d1"}, {ID: "d2"}}

		mockRepo.EXPECT().ListDealsByPeriod(&start, &end).Return(january, nil).Times(1)
		mockRepo.EXPECT().ListDealsByPeriod(nil, nil).Return(open, nil).Times(1)

		first, err := service.ListDealsByPeriod(&start, &end)
		assert.NoError(t, err)
		assert.Len(t, first, 1)

		unbounded, err := service.ListDealsByPeriod(nil, nil)
		assert.NoError(t, err)
		assert.Len(t, unbounded, 2)

		// Segunda leitura do mesmo período sai do cache
		cached, err := service.ListDealsByPeriod(&start, &end)
		assert.NoError(t, err)
		assert.Equal(t, first, cached)
	})
}
