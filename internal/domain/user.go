package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User representa tanto contas do sistema quanto responsáveis por negociações.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       *string   `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

type Claims struct {
	UserID    string
	UserName  string
	UserEmail string
	jwt.RegisteredClaims
}
