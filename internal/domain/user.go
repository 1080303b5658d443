package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole controls access to the administration endpoints.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is an account holder. PasswordHash is a bcrypt hash and is never
// serialized.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	CompanyID    *uuid.UUID `json:"company_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Company groups users under one employer for company-level reporting.
type Company struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	DomainName string    `json:"domain_name"`
	Location   string    `json:"location"`
}
