package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/usecases/deal"
	"github.com/vfg2006/crm-api/pkg/apiErrors"
)

type stubDealService struct {
	deal.DealService

	updateCalled bool
	lastUpdate   *domain.UpdateDealRequest

	periodStart *time.Time
	periodEnd   *time.Time
}

func (s *stubDealService) UpdateDeal(id string, req *domain.UpdateDealRequest, actorID *string) (*domain.Deal, error) {
	s.updateCalled = true
	s.lastUpdate = req
	return &domain.Deal{ID: id, Title: "Renewal"}, nil
}

func (s *stubDealService) ListDealsByPeriod(startDate, endDate *time.Time) ([]*domain.Deal, error) {
	s.periodStart = startDate
	s.periodEnd = endDate
	return []*domain.Deal{}, nil
}

func withRouteID(r *http.Request, id string) *http.Request {
	params := httprouter.Params{{Key: "id", Value: id}}
	return r.WithContext(context.WithValue(r.Context(), httprouter.ParamsKey, params))
}

func TestUpdateDeal_Validation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantReached bool
		wantFields  []string
	}{
		{
			name:        "Edição parcial válida chega ao serviço",
			body:        `{"title": "Renewal 2027"}`,
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
		{
			name:       "Título curto e valor negativo são bloqueados antes do serviço",
			body:       `{"title": "x", "value": -5}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: []string{"title", "value"},
		},
		{
			name:       "Estágio fora do conjunto fechado é bloqueado",
			body:       `{"stage": "archived"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: []string{"stage"},
		},
		{
			name:       "Corpo malformado retorna requisição inválida",
			body:       `{invalid`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubDealService{}
			handler := UpdateDeal(service)

			req := httptest.NewRequest(http.MethodPut, "/v1/deals/d1", strings.NewReader(tt.body))
			req = withRouteID(req, "d1")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantReached, service.updateCalled)

			if len(tt.wantFields) > 0 {
				var apiErr apiErrors.APIError
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
				assert.Equal(t, apiErrors.ErrValidationFailed, apiErr.Code)

				details, ok := apiErr.Details.([]any)
				assert.True(t, ok)
				assert.Len(t, details, len(tt.wantFields))
				for i, wantField := range tt.wantFields {
					field, _ := details[i].(map[string]any)
					assert.Equal(t, wantField, field["field"])
				}
			}
		})
	}
}

func TestListDeals_PeriodFilter(t *testing.T) {
	t.Run("Datas da query string são interpretadas e repassadas", func(t *testing.T) {
		service := &stubDealService{}
		handler := ListDeals(service)

		req := httptest.NewRequest(http.MethodGet, "/v1/deals?start_date=2026-01-01&end_date=2026-01-31", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, service.periodStart)
		assert.NotNil(t, service.periodEnd)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *service.periodStart)
		assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), *service.periodEnd)
	})

	t.Run("Data inicial ausente deixa o início do período em aberto", func(t *testing.T) {
		service := &stubDealService{}
		handler := ListDeals(service)

		req := httptest.NewRequest(http.MethodGet, "/v1/deals?end_date=2026-01-31", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, service.periodStart)
		assert.True(t, service.periodStart.IsZero())
	})

	t.Run("Data malformada retorna erro de formato", func(t *testing.T) {
		service := &stubDealService{}
		handler := ListDeals(service)

		req := httptest.NewRequest(http.MethodGet, "/v1/deals?start_date=31-01-2026", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, service.periodStart)
	})
}
