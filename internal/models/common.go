package models

// Role names compared case-sensitively against the role claim.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// MwRoleKey is the echo context key under which the authentication
// middleware stores the role claim for RequireRoles.
const MwRoleKey = "role"

// CommonResponse is the envelope of every JSON response.
type CommonResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}
