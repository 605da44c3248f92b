package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/infrastructure/integrator/calls"
	"github.com/vfg2006/crm-api/internal/validation"
	"github.com/vfg2006/crm-api/pkg/apiErrors"
)

// InitiateCall dispara o webhook externo de iniciação de chamada
func InitiateCall(service calls.CallsIntegrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req calls.InitiateCallRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
			apiErrors.WriteError(w, apiErrors.ErrValidationFailed, "Dados inválidos", fieldErrors)
			return
		}

		if err := service.InitiateCall(&req); err != nil {
			logrus.WithError(err).Error("Erro ao iniciar chamada pelo webhook externo")
			apiErrors.WriteError(w, apiErrors.ErrExternalService, "Erro ao iniciar chamada", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Chamada iniciada com sucesso",
		})
	}
}
