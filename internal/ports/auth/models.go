package auth

// Role del staff en el panel de administración.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}

// IsStaff: cualquier rol reconocido tiene acceso al panel.
func (c Claims) IsStaff() bool {
	return c.Role == RoleAdmin || c.Role == RoleEditor
}
