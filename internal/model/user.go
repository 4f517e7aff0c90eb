package model

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// ParseRole validates a role string coming from the outside.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleEmployee:
		return Role(s), true
	}
	return "", false
}

// Credential is the authentication record: email plus password hash.
// Its ID is the identity shared with the User record.
type Credential struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// User is the profile record keyed by the credential ID. Role is fixed
// at account creation and user rows are never deleted by the app.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
