package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/crm-api/infrastructure/repository/mocks"
	"github.com/vfg2006/crm-api/internal/domain"
	"go.uber.org/mock/gomock"
)

type recordingSubscriber struct {
	received []DomainEvent
}

func (s *recordingSubscriber) Handle(event DomainEvent) {
	s.received = append(s.received, event)
}

type panickingSubscriber struct{}

func (s *panickingSubscriber) Handle(event DomainEvent) {
	panic("assinante com defeito")
}

func TestBus_Publish(t *testing.T) {
	t.Run("Evento chega a todos os assinantes", func(t *testing.T) {
		bus := NewBus()
		first := &recordingSubscriber{}
		second := &recordingSubscriber{}
		bus.Subscribe(first)
		bus.Subscribe(second)

		bus.Publish(DomainEvent{
			Type:        domain.ActivityDealCreated,
			Description: "Created a new deal \"Renewal\" with Acme",
			EntityID:    "d1",
			EntityType:  domain.EntityDeal,
		})

		assert.Len(t, first.received, 1)
		assert.Len(t, second.received, 1)
		assert.Equal(t, "d1", first.received[0].EntityID)
	})

	t.Run("Panic em um assinante não interrompe os demais", func(t *testing.T) {
		bus := NewBus()
		healthy := &recordingSubscriber{}
		bus.Subscribe(&panickingSubscriber{})
		bus.Subscribe(healthy)

		assert.NotPanics(t, func() {
			bus.Publish(DomainEvent{Type: domain.ActivityCompanyAdded, EntityID: "c1"})
		})

		assert.Len(t, healthy.received, 1)
	})

	t.Run("Publicar sem assinantes é seguro", func(t *testing.T) {
		bus := NewBus()
		assert.NotPanics(t, func() {
			bus.Publish(DomainEvent{Type: domain.ActivityContactAdded})
		})
	})
}

func TestActivityRecorder_Handle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Evento vira registro de atividade persistido", func(t *testing.T) {
		mockRepo := mocks.NewMockActivityRepository(ctrl)
		recorder := NewActivityRecorder(mockRepo)

		actorID := "u1"
		mockRepo.EXPECT().
			CreateActivity(gomock.Any(), &actorID).
			DoAndReturn(func(activity *domain.Activity, userID *string) (*domain.Activity, error) {
				assert.Equal(t, domain.ActivityDealStageChanged, activity.Type)
				assert.Equal(t, "Moved \"Renewal\" deal to won stage", activity.Description)
				assert.Equal(t, "d1", *activity.EntityID)
				assert.Equal(t, domain.EntityDeal, *activity.EntityType)
				return activity, nil
			})

		recorder.Handle(DomainEvent{
			Type:        domain.ActivityDealStageChanged,
			ActorID:     &actorID,
			Description: "Moved \"Renewal\" deal to won stage",
			EntityID:    "d1",
			EntityType:  domain.EntityDeal,
		})
	})

	t.Run("Falha na escrita de auditoria não propaga", func(t *testing.T) {
		mockRepo := mocks.NewMockActivityRepository(ctrl)
		recorder := NewActivityRecorder(mockRepo)

		mockRepo.EXPECT().
			CreateActivity(gomock.Any(), nil).
			Return(nil, errors.New("tabela indisponível"))

		assert.NotPanics(t, func() {
			recorder.Handle(DomainEvent{
				Type:       domain.ActivityCompanyAdded,
				EntityID:   "c1",
				EntityType: domain.EntityCompany,
			})
		})
	})
}
