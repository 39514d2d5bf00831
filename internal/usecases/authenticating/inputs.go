package authenticating

import "github.com/vfg2006/agency-crm-api/internal/domain"

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	AgencyName string `json:"agencyName" validate:"required,max=200"`
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
}

type CreateUserInput struct {
	Name     string      `json:"name" validate:"required,max=200"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     domain.Role `json:"role" validate:"required,oneof=DEVELOPER MASTER ADMIN AGENT"`
}

type UpdateUserInput struct {
	UserID  string       `json:"id" validate:"required"`
	Name    *string      `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email   *string      `json:"email,omitempty" validate:"omitempty,email"`
	Role    *domain.Role `json:"role,omitempty" validate:"omitempty,oneof=DEVELOPER MASTER ADMIN AGENT"`
	Active  *bool        `json:"active,omitempty"`
	Deleted *bool        `json:"deleted,omitempty"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}
