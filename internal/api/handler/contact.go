package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/usecases/contact"
	"github.com/vfg2006/crm-api/internal/validation"
	"github.com/vfg2006/crm-api/pkg/apiErrors"
)

// ListContacts lista os contatos, opcionalmente filtrados por empresa
func ListContacts(service contact.ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			contacts []*domain.Contact
			err      error
		)

		if companyID := r.URL.Query().Get("company_id"); companyID != "" {
			contacts, err = service.ListContactsByCompany(companyID)
		} else {
			contacts, err = service.ListContacts()
		}

		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar contatos", nil)
			return
		}

		if contacts == nil {
			contacts = []*domain.Contact{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(contacts); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetContact retorna um contato por ID
func GetContact(service contact.ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do contato não fornecido", nil)
			return
		}

		result, err := service.GetContactByID(id)
		if err != nil {
			if errors.Is(err, contact.ErrContactNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrContactNotFound, "Contato não encontrado", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar contato", nil)
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

// CreateContact cria um novo contato vinculado a uma empresa
func CreateContact(service contact.ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contact.CreateContactRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
			apiErrors.WriteError(w, apiErrors.ErrValidationFailed, "Dados inválidos", fieldErrors)
			return
		}

		created, err := service.CreateContact(&req, actorFromContext(r))
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao criar contato", nil)
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

// UpdateContact atualiza os campos enviados de um contato
func UpdateContact(service contact.ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do contato não fornecido", nil)
			return
		}

		var req domain.UpdateContactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
			apiErrors.WriteError(w, apiErrors.ErrValidationFailed, "Dados inválidos", fieldErrors)
			return
		}

		updated, err := service.UpdateContact(id, &req)
		if err != nil {
			if errors.Is(err, contact.ErrContactNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrContactNotFound, "Contato não encontrado", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar contato", nil)
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

// DeleteContact remove um contato
func DeleteContact(service contact.ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do contato não fornecido", nil)
			return
		}

		if err := service.DeleteContact(id); err != nil {
			if errors.Is(err, contact.ErrContactNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrContactNotFound, "Contato não encontrado", nil)
				return
			}

			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao excluir contato", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
