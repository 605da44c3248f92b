package domain

import "time"

type Company struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Logo      *string    `json:"logo,omitempty"`
	Industry  string     `json:"industry"`
	Website   *string    `json:"website,omitempty"`
	Size      *string    `json:"size,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Contacts  []*Contact `json:"contacts"`
}

// UpdateCompanyRequest carrega os campos alteráveis de uma empresa.
// Campos nulos são ignorados na atualização.
type UpdateCompanyRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Logo     *string `json:"logo" validate:"omitempty,url"`
	Industry *string `json:"industry"`
	Website  *string `json:"website" validate:"omitempty,url"`
	Size     *string `json:"size"`
}
