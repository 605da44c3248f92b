package calls

import (
	"github.com/vfg2006/crm-api/infrastructure/integrator/calls/callsclient"
	"github.com/vfg2006/crm-api/internal/config"
)

// InitiateCallRequest é a solicitação de chamada montada pelo front.
type InitiateCallRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Company  string `json:"company"`
	CallGoal string `json:"call_goal" validate:"required"`
}

type CallsIntegrator interface {
	InitiateCall(req *InitiateCallRequest) error
}

type CallsService struct {
	cfg    *config.Config
	Client callsclient.Client
}

func New(cfg *config.Config, client callsclient.Client) CallsIntegrator {
	return &CallsService{
		cfg:    cfg,
		Client: client,
	}
}

func (s *CallsService) InitiateCall(req *InitiateCallRequest) error {
	params := callsclient.CallParams{
		Name:     req.Name,
		Phone:    req.Phone,
		Company:  req.Company,
		CallGoal: req.CallGoal,
	}

	return s.Client.InitiateCall(params)
}
