package auth

import "context"

// AuthVerifier verifica un token de staff y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite el token firmado que el panel guarda tras el login.
type TokenIssuer interface {
	Issue(ctx context.Context, claims Claims) (string, error)
}
