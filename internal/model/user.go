package model

// Role is a UI concern derived from the login email; it is not a security boundary.
type Role string

const (
	RoleInvestigator Role = "Investigator"
	RoleAdmin        Role = "Admin"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}
