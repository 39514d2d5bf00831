package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Agency struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type User struct {
	ID           string     `json:"id"`
	AgencyID     string     `json:"agencyId"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u User) Actor() Actor {
	return Actor{UserID: u.ID, AgencyID: u.AgencyID, Role: u.Role, Name: u.Name}
}

type Claims struct {
	UserID    string `json:"uid"`
	AgencyID  string `json:"aid"`
	UserName  string `json:"name"`
	UserEmail string `json:"email"`
	UserRole  Role   `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) Actor() Actor {
	return Actor{UserID: c.UserID, AgencyID: c.AgencyID, Role: c.UserRole, Name: c.UserName}
}
