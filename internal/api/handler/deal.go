package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/usecases/deal"
	"github.com/vfg2006/crm-api/internal/validation"
	"github.com/vfg2006/crm-api/pkg/apiErrors"
	"github.com/vfg2006/crm-api/pkg/utils"
)

// MoveDealStageRequest é o corpo da operação de arrastar no quadro de funil
type MoveDealStageRequest struct {
	Stage domain.Stage `json:"stage" validate:"required,oneof=lead contact proposal negotiation won lost"`
}

// ListDeals lista as negociações, com filtros opcionais de estágio e empresa
func ListDeals(service deal.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			deals []*domain.Deal
			err   error
		)

		query := r.URL.Query()
		switch {
		case query.Get("stage") != "":
			deals, err = service.ListDealsByStage(domain.Stage(query.Get("stage")))
		case query.Get("company_id") != "":
			deals, err = service.ListDealsByCompany(query.Get("company_id"))
		case query.Get("start_date") != "" || query.Get("end_date") != "":
			startDate, parseErr := utils.ParseDate(query.Get("start_date"))
			if parseErr != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inicial inválida", nil)
				return
			}

			endDate, parseErr := utils.ParseDate(query.Get("end_date"))
			if parseErr != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data final inválida", nil)
				return
			}

			deals, err = service.ListDealsByPeriod(startDate, endDate)
		default:
			deals, err = service.ListDeals()
		}

		if err != nil {
			if errors.Is(err, deal.ErrInvalidStage) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidDealStage, "Estágio de negociação inválido", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar negociações", nil)
			return
		}

		if deals == nil {
			deals = []*domain.Deal{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(deals); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetDeal retorna uma negociação por ID
func GetDeal(service deal.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da negociação não fornecido", nil)
			return
		}

		result, err := service.GetDealByID(id)
		if err != nil {
			if errors.Is(err, deal.ErrDealNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrDealNotFound, "Negociação não encontrada", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar negociação", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// CreateDeal cria uma nova negociação
func CreateDeal(service deal.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deal.CreateDealRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
			apiErrors.WriteError(w, apiErrors.ErrValidationFailed, "Dados inválidos", fieldErrors)
			return
		}

		created, err := service.CreateDeal(&req, actorFromContext(r))
		if err != nil {
			if errors.Is(err, deal.ErrInvalidStage) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidDealStage, "Estágio de negociação inválido", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao criar negociação", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// UpdateDeal atualiza os campos enviados de uma negociação
func UpdateDeal(service deal.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da negociação não fornecido", nil)
			return
		}

		var req domain.UpdateDealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
			apiErrors.WriteError(w, apiErrors.ErrValidationFailed, "Dados inválidos", fieldErrors)
			return
		}

		updated, err := service.UpdateDeal(id, &req, actorFromContext(r))
		if err != nil {
			writeDealError(w, err, "Erro ao atualizar negociação")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(updated); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// MoveDealStage muda o estágio de uma negociação no funil
func MoveDealStage(service deal.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da negociação não fornecido", nil)
			return
		}

		var req MoveDealStageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
			apiErrors.WriteError(w, apiErrors.ErrValidationFailed, "Dados inválidos", fieldErrors)
			return
		}

		moved, err := service.MoveDealStage(id, req.Stage, actorFromContext(r))
		if err != nil {
			writeDealError(w, err, "Erro ao mover negociação de estágio")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(moved); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// DeleteDeal remove uma negociação
func DeleteDeal(service deal.DealService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da negociação não fornecido", nil)
			return
		}

		if err := service.DeleteDeal(id); err != nil {
			writeDealError(w, err, "Erro ao excluir negociação")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeDealError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, deal.ErrDealNotFound):
		apiErrors.WriteError(w, apiErrors.ErrDealNotFound, "Negociação não encontrada", nil)
	case errors.Is(err, deal.ErrInvalidStage):
		apiErrors.WriteError(w, apiErrors.ErrInvalidDealStage, "Estágio de negociação inválido", nil)
	default:
		logrus.Error(err)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, fallback, nil)
	}
}
