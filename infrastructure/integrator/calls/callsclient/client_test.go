package callsclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/crm-api/internal/config"
)

func TestCallsClient_InitiateCall(t *testing.T) {
	t.Run("Payload é postado no formato esperado pelo webhook", func(t *testing.T) {
		var received string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, _ := io.ReadAll(r.Body)
			received = string(body)

			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		cfg := &config.Config{Calls: config.Calls{WebhookURL: server.URL, TimeoutSeconds: 5}}
		client := NewClient(cfg)

		err := client.InitiateCall(CallParams{
			Name:     "Maria Silva",
			Phone:    "+5511999990000",
			Company:  "Acme",
			CallGoal: "Apresentar proposta",
		})

		assert.NoError(t, err)
		assert.JSONEq(t, `{
			"name": "Maria Silva",
			"phone": "+5511999990000",
			"company": "Acme",
			"callGoal": "Apresentar proposta"
		}`, received)
	})

	t.Run("Status fora da faixa 2xx é tratado como falha", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		cfg := &config.Config{Calls: config.Calls{WebhookURL: server.URL, TimeoutSeconds: 5}}
		client := NewClient(cfg)

		err := client.InitiateCall(CallParams{Name: "Maria", Phone: "123", CallGoal: "x"})

		assert.Error(t, err)
	})

	t.Run("Webhook não configurado retorna erro imediato", func(t *testing.T) {
		cfg := &config.Config{}
		client := NewClient(cfg)

		err := client.InitiateCall(CallParams{Name: "Maria"})

		assert.Error(t, err)
	})
}
