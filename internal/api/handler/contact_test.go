package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/usecases/contact"
	"github.com/vfg2006/crm-api/pkg/apiErrors"
)

type stubContactService struct {
	contact.ContactService

	createCalled bool
	updateCalled bool
}

func (s *stubContactService) CreateContact(req *contact.CreateContactRequest, actorID *string) (*domain.Contact, error) {
	s.createCalled = true
	return &domain.Contact{ID: "ct1", Name: req.Name, Email: req.Email}, nil
}

func (s *stubContactService) UpdateContact(id string, req *domain.UpdateContactRequest) (*domain.Contact, error) {
	s.updateCalled = true
	return &domain.Contact{ID: id}, nil
}

func TestCreateContact_Validation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantCreated bool
		wantField   string
	}{
		{
			name:        "Contato válido é criado",
			body:        `{"name": "Maria Silva", "email": "maria@acme.com", "company_id": "c1"}`,
			wantStatus:  http.StatusCreated,
			wantCreated: true,
		},
		{
			name:       "Email inválido é bloqueado antes do serviço",
			body:       `{"name": "Maria Silva", "email": "not-an-email", "company_id": "c1"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "email",
		},
		{
			name:       "Empresa ausente é bloqueada antes do serviço",
			body:       `{"name": "Maria Silva", "email": "maria@acme.com"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "company_id",
		},
		{
			name:       "Corpo malformado retorna requisição inválida",
			body:       `{invalid`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubContactService{}
			handler := CreateContact(service)

			req := httptest.NewRequest(http.MethodPost, "/v1/contacts", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCreated, service.createCalled)

			if tt.wantField != "" {
				var apiErr apiErrors.APIError
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
				assert.Equal(t, apiErrors.ErrValidationFailed, apiErr.Code)

				details, ok := apiErr.Details.([]any)
				assert.True(t, ok)
				assert.Len(t, details, 1)
				field, _ := details[0].(map[string]any)
				assert.Equal(t, tt.wantField, field["field"])
			}
		})
	}
}

func TestUpdateContact_Validation(t *testing.T) {
	t.Run("Email inválido na edição é bloqueado antes do serviço", func(t *testing.T) {
		service := &stubContactService{}
		handler := UpdateContact(service)

		req := httptest.NewRequest(http.MethodPut, "/v1/contacts/ct1", strings.NewReader(`{"email": "not-an-email"}`))
		req = withRouteID(req, "ct1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.False(t, service.updateCalled)
	})

	t.Run("Edição parcial válida chega ao serviço", func(t *testing.T) {
		service := &stubContactService{}
		handler := UpdateContact(service)

		req := httptest.NewRequest(http.MethodPut, "/v1/contacts/ct1", strings.NewReader(`{"phone": "+5511999990000"}`))
		req = withRouteID(req, "ct1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, service.updateCalled)
	})
}
