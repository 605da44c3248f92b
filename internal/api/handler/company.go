package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/usecases/company"
	"github.com/vfg2006/crm-api/internal/validation"
	"github.com/vfg2006/crm-api/pkg/apiErrors"
)

// ListCompanies lista todas as empresas com seus contatos embutidos
func ListCompanies(service company.CompanyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companies, err := service.ListCompanies()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar empresas", nil)
			return
		}

		if companies == nil {
			companies = []*domain.Company{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(companies); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetCompany retorna uma empresa por ID
func GetCompany(service company.CompanyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da empresa não fornecido", nil)
			return
		}

		result, err := service.GetCompanyByID(id)
		if err != nil {
			if errors.Is(err, company.ErrCompanyNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrCompanyNotFound, "Empresa não encontrada", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar empresa", nil)
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

// CreateCompany cria uma nova empresa
func CreateCompany(service company.CompanyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req company.CreateCompanyRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
			apiErrors.WriteError(w, apiErrors.ErrValidationFailed, "Dados inválidos", fieldErrors)
			return
		}

		created, err := service.CreateCompany(&req, actorFromContext(r))
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao criar empresa", nil)
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

// UpdateCompany atualiza os campos enviados de uma empresa
func UpdateCompany(service company.CompanyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da empresa não fornecido", nil)
			return
		}

		var req domain.UpdateCompanyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
			apiErrors.WriteError(w, apiErrors.ErrValidationFailed, "Dados inválidos", fieldErrors)
			return
		}

		updated, err := service.UpdateCompany(id, &req)
		if err != nil {
			if errors.Is(err, company.ErrCompanyNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrCompanyNotFound, "Empresa não encontrada", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar empresa", nil)
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

// DeleteCompany remove uma empresa
func DeleteCompany(service company.CompanyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da empresa não fornecido", nil)
			return
		}

		if err := service.DeleteCompany(id); err != nil {
			if errors.Is(err, company.ErrCompanyNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrCompanyNotFound, "Empresa não encontrada", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao excluir empresa", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
