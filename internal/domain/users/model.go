package users

import (
	"time"

	"ong-shelter-api/internal/ports/auth"
)

// User es una cuenta del staff. No hay registro público.
type User struct {
	ID int64

	Name  string
	Email string

	// PasswordHash es bcrypt; nunca sale por la API.
	PasswordHash string

	Role auth.Role

	CreatedAt time.Time
}
