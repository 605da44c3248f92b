package domain

import "time"

// Stage é o estágio do funil que uma negociação ocupa.
// O conjunto é fechado: qualquer outro valor é rejeitado antes da persistência.
type Stage string

const (
	StageLead        Stage = "lead"
	StageContact     Stage = "contact"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageWon         Stage = "won"
	StageLost        Stage = "lost"
)

// Stages lista os estágios na ordem das colunas do funil.
var Stages = []Stage{
	StageLead,
	StageContact,
	StageProposal,
	StageNegotiation,
	StageWon,
	StageLost,
}

// Valid informa se o estágio pertence ao conjunto fechado.
func (s Stage) Valid() bool {
	switch s {
	case StageLead, StageContact, StageProposal, StageNegotiation, StageWon, StageLost:
		return true
	}
	return false
}

type Deal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Value       float64   `json:"value"`
	Stage       Stage     `json:"stage"`
	Company     *Company  `json:"company"`
	AssignedTo  *User     `json:"assigned_to"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdateDealRequest carrega os campos alteráveis de uma negociação.
// Campos nulos são ignorados na atualização; os enviados passam pelas
// mesmas regras da criação.
type UpdateDealRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=2"`
	Value       *float64 `json:"value" validate:"omitempty,gte=0"`
	Stage       *Stage   `json:"stage" validate:"omitempty,oneof=lead contact proposal negotiation won lost"`
	CompanyID   *string  `json:"company_id" validate:"omitempty,min=1"`
	AssignedTo  *string  `json:"assigned_to"`
	Description *string  `json:"description"`
}
