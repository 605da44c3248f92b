package domain

import "time"

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Position  *string   `json:"position,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	Company   *Company  `json:"company"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateContactRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Position  *string `json:"position"`
	Avatar    *string `json:"avatar" validate:"omitempty,url"`
	CompanyID *string `json:"company_id" validate:"omitempty,min=1"`
}
