package auth

import "context"

// Verifier valida un bearer token contra el proveedor de identidad.
// Devuelve ErrUnauthorized si el token no es válido.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
