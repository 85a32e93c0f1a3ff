package dto

import (
	"time"

	"github.com/GlebRadaev/marketplace/internal/domain"
)

type RegisterRequestDTO struct {
	Username string `json:"username" example:"jane_roe"`
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"secret123"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" example:"john@example.com"`
	Password string `json:"password" example:"password"`
}

type UserDTO struct {
	ID          string    `json:"id" example:"1"`
	Username    string    `json:"username" example:"john_doe"`
	Email       string    `json:"email" example:"john@example.com"`
	CashBalance float64   `json:"cashBalance" example:"1000"`
	CreatedAt   time.Time `json:"createdAt" example:"2024-03-01T12:00:00Z"`
}

type AuthResponseDTO struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

func FromUser(user *domain.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		CashBalance: user.CashBalance.InexactFloat64(),
		CreatedAt:   user.CreatedAt,
	}
}
