package models

import "github.com/golang-jwt/jwt/v5"

// Roles recognised from the identity provider's tokens.
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// JWTClaims is the identity this service consumes. Tokens are issued and
// signed by the external auth layer; we only verify and read them.
type JWTClaims struct {
	StudentID        string `json:"student_id"`
	Role             string `json:"role"`
	Branch           string `json:"branch"`
	PrimaryProgramID string `json:"primary_program_id"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the administrator role.
func (c *JWTClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// Pagination captures standard list metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
