package callsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/pkg/utils"
)

// CallParams é o payload esperado pelo webhook de iniciação de chamadas.
type CallParams struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	CallGoal string `json:"callGoal"`
}

func (c *CallsClient) InitiateCall(params CallParams) error {
	if c.config.Calls.WebhookURL == "" {
		return fmt.Errorf("webhook de chamadas não configurado")
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout+5*time.Second)
	defer cancel()

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("erro ao serializar o payload: %w", err)
	}

	logrus.Debugf("Enviando payload ao webhook de chamadas: %s", utils.PrettyJson(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Calls.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	// Qualquer status fora da faixa 2xx é tratado como falha.
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("requisição falhou com status: %s", resp.Status)
	}

	return nil
}
