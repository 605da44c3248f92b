package callsclient

import (
	"net/http"
	"time"

	"github.com/vfg2006/crm-api/internal/config"
)

type Client interface {
	InitiateCall(params CallParams) error
}

type CallsClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient cria uma nova instância do cliente do webhook de chamadas.
func NewClient(cfg *config.Config) Client {
	timeout := time.Duration(cfg.Calls.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &CallsClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
	}
}
