package events

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/infrastructure/repository"
	"github.com/vfg2006/crm-api/internal/domain"
)

// ActivityRecorder persiste um registro de atividade para cada evento de
// domínio. A escrita é melhor-esforço: uma falha aqui é registrada em log
// e nunca propagada para quem executou a mutação primária.
type ActivityRecorder struct {
	activityRepo repository.ActivityRepository
}

func NewActivityRecorder(activityRepo repository.ActivityRepository) *ActivityRecorder {
	return &ActivityRecorder{
		activityRepo: activityRepo,
	}
}

func (r *ActivityRecorder) Handle(event DomainEvent) {
	entityID := event.EntityID
	entityType := event.EntityType

	activity := &domain.Activity{
		Type:        event.Type,
		Description: event.Description,
		EntityID:    &entityID,
		EntityType:  &entityType,
	}

	if _, err := r.activityRepo.CreateActivity(activity, event.ActorID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"event_type":  event.Type,
			"entity_id":   event.EntityID,
			"entity_type": event.EntityType,
		}).Error("Erro ao gravar atividade de auditoria")
	}
}
