package models

import "time"

// Well-known role names. The authoritative role set is configuration-driven
// (VALID_USER_ROLES); these constants exist for the per-operation allow-lists.
const (
	RoleAdmin      = "Admin"
	RoleLeadership = "Leadership"
	RoleResponder  = "General Responder"
	RoleCommunity  = "Community Member"
)

type User struct {
	ID                int       `json:"id"`
	Username          string    `json:"username"`
	Role              string    `json:"role"`
	Email             string    `json:"email"`
	EncryptedPassword string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Principal is the session identity passed explicitly to every gated operation.
// It is constructed only by a successful login and never mutated afterwards.
type Principal struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}
