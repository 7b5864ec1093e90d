package domain

// Role tags a bearer token and its principal with the actor kind.
type Role string

const (
	RoleUser    Role = "user"
	RoleCaptain Role = "captain"
)

// Valid reports whether the role is one of the known actor kinds.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleCaptain
}
