package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles stored on the Supabase profile row. "deportista" is a customer
// account; "business" owns spaces.
const (
	RoleCustomer = "deportista"
	RoleBusiness = "business"
	RoleAdmin    = "admin"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"password,omitempty"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	IsVerified  bool      `json:"is_verified"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
