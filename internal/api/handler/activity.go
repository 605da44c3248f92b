package handler

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/usecases/activity"
	"github.com/vfg2006/crm-api/pkg/apiErrors"
)

// ListActivities lista o feed de atividades recentes, mais novas primeiro.
// Aceita limit, entity_type e entity_id como filtros opcionais.
func ListActivities(service activity.ActivityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		limit := 0
		if limitStr := query.Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Limite inválido", nil)
				return
			}
			limit = parsed
		}

		var (
			activities []*domain.Activity
			err        error
		)

		entityType := query.Get("entity_type")
		entityID := query.Get("entity_id")
		if entityType != "" && entityID != "" {
			activities, err = service.ListActivitiesByEntity(domain.EntityType(entityType), entityID, limit)
		} else {
			activities, err = service.ListActivities(limit)
		}

		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar atividades", nil)
			return
		}

		if activities == nil {
			activities = []*domain.Activity{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(activities); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}
