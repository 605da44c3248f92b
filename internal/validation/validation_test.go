package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/internal/usecases/contact"
	"github.com/vfg2006/crm-api/internal/usecases/deal"
)

func TestStruct_Contact(t *testing.T) {
	tests := []struct {
		name       string
		req        contact.CreateContactRequest
		wantFields []string
	}{
		{
			name: "Contato válido não gera erros",
			req: contact.CreateContactRequest{
				Name:      "Maria Silva",
				Email:     "maria@acme.com",
				CompanyID: "c1",
			},
		},
		{
			name: "Email inválido é bloqueado antes de qualquer chamada",
			req: contact.CreateContactRequest{
				Name:      "Maria Silva",
				Email:     "not-an-email",
				CompanyID: "c1",
			},
			wantFields: []string{"email"},
		},
		{
			name: "Nome com menos de 2 caracteres é rejeitado",
			req: contact.CreateContactRequest{
				Name:      "M",
				Email:     "maria@acme.com",
				CompanyID: "c1",
			},
			wantFields: []string{"name"},
		},
		{
			name: "Empresa é obrigatória",
			req: contact.CreateContactRequest{
				Name:  "Maria Silva",
				Email: "maria@acme.com",
			},
			wantFields: []string{"company_id"},
		},
		{
			name: "Avatar aceita vazio mas rejeita URL malformada",
			req: contact.CreateContactRequest{
				Name:      "Maria Silva",
				Email:     "maria@acme.com",
				CompanyID: "c1",
				Avatar:    "not a url",
			},
			wantFields: []string{"avatar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fieldErrors := Struct(&tt.req)

			if len(tt.wantFields) == 0 {
				assert.Empty(t, fieldErrors)
				return
			}

			assert.Len(t, fieldErrors, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, fieldErrors[i].Field)
				assert.NotEmpty(t, fieldErrors[i].Message)
			}
		})
	}
}

func TestStruct_Deal(t *testing.T) {
	t.Run("Negociação válida não gera erros", func(t *testing.T) {
		fieldErrors := Struct(&deal.CreateDealRequest{
			Title:     "Renewal",
			Value:     5000,
			Stage:     domain.StageLead,
			CompanyID: "c1",
		})
		assert.Empty(t, fieldErrors)
	})

	t.Run("Valor negativo é rejeitado", func(t *testing.T) {
		fieldErrors := Struct(&deal.CreateDealRequest{
			Title:     "Renewal",
			Value:     -1,
			Stage:     domain.StageLead,
			CompanyID: "c1",
		})
		assert.Len(t, fieldErrors, 1)
		assert.Equal(t, "value", fieldErrors[0].Field)
	})

	t.Run("Estágio fora do conjunto fechado é rejeitado", func(t *testing.T) {
		fieldErrors := Struct(&deal.CreateDealRequest{
			Title:     "Renewal",
			Stage:     domain.Stage("archived"),
			CompanyID: "c1",
		})
		assert.Len(t, fieldErrors, 1)
		assert.Equal(t, "stage", fieldErrors[0].Field)
	})
}
