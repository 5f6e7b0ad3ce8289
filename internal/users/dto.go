package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/arjunmehta/stitchbook-backend/pkg/db/models"
)

// UserDTO is the safe user representation returned to clients.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FromModel maps a persisted user onto the client-facing shape.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// CreateUserDTO carries the fields needed to insert a new account.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
}

// ToModel builds the persistence model for the new account.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Role:         d.Role,
		IsActive:     true,
	}
}
