package models

// RoleAdmin is the only role the server recognises.
const RoleAdmin = "admin"

const (
	UserFieldEmail = "email"
	UserFieldRole  = "role"
)

// User is the typed view of a user document. Profile fields beyond email
// and role are kept in the raw Document.
type User struct {
	Email string `bson:"email" json:"email"`
	Role  string `bson:"role,omitempty" json:"role,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
