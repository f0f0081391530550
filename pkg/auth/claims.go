package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims the platform accepts. OrganizationID scopes every
// query; UserID identifies the author of notes and report definitions.
type Claims struct {
	jwt.RegisteredClaims
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"org_id"`
	Email          string    `json:"email,omitempty"`
	Roles          []string  `json:"roles"`
}

// Role constants
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleAnalyst = "analyst"
	RoleViewer  = "viewer"
)

// Subject describes who a token is minted for.
type Subject struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	Roles          []string
}
