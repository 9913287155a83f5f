package models

// Role decides which dashboard and actions a session gets
type Role string

const (
	// RoleClient is a startup founder posting cases
	RoleClient Role = "CLIENT"
	// RoleLawyer browses open cases and bids
	RoleLawyer Role = "LAWYER"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleLawyer
}

// Other returns the opposite role, used when switching personas
func (r Role) Other() Role {
	if r == RoleClient {
		return RoleLawyer
	}
	return RoleClient
}

// User is one of the demo personas a session can act as
type User struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Role    Role   `json:"role" yaml:"role"`
	Company string `json:"company,omitempty" yaml:"company"`
	Email   string `json:"email,omitempty" yaml:"email"`
}

// SessionResponse is returned when a session is created or switched
type SessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SessionRequest picks the persona a new session acts as
type SessionRequest struct {
	Role Role `json:"role"`
}

// MessageResponse carries text to show the user
type MessageResponse struct {
	Message string `json:"message"`
}
